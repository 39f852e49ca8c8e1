package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/yomikata/jmindex/internal/model"
)

// SimpleWriter outputs human-readable text reports. The format is plain
// ASCII so that it pipes cleanly to files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose enables the extracted-entries listing in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the build report in human-readable format.
func (w *SimpleWriter) Write(report *model.BuildReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeRelease(&sb, report)
	w.writeConversion(&sb, report)
	w.writeSteps(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with request information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.BuildReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         JMINDEX BUILD REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Requested Tag: %s\n", report.Tag))
	sb.WriteString(fmt.Sprintf("Started:       %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Elapsed:       %s\n", report.Elapsed))

	if report.Succeeded() {
		sb.WriteString("Status:        Complete\n")
	} else {
		sb.WriteString(fmt.Sprintf("Status:        FAILED - %s\n", report.ErrorMessage))
	}

	sb.WriteString("\n")
}

// writeRelease writes the resolved release and download section.
func (w *SimpleWriter) writeRelease(sb *strings.Builder, report *model.BuildReport) {
	if report.Asset == nil && report.SourceFile == "" {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RELEASE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if report.Asset != nil {
		sb.WriteString(fmt.Sprintf("  Asset:       %s\n", report.Asset.Name))
		sb.WriteString(fmt.Sprintf("  URL:         %s\n", report.Asset.BrowserDownloadURL))
	}
	if report.SourceFile != "" {
		sb.WriteString(fmt.Sprintf("  Source File: %s\n", report.SourceFile))
	}
	if w.verbose && len(report.ExtractedEntries) > 0 {
		sb.WriteString("  Extracted:\n")
		for _, entry := range report.ExtractedEntries {
			sb.WriteString(fmt.Sprintf("    - %s\n", entry))
		}
	}
	sb.WriteString("\n")
}

// writeConversion writes the index statistics section.
func (w *SimpleWriter) writeConversion(sb *strings.Builder, report *model.BuildReport) {
	if report.OutputPath == "" {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("INDEX\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Dictionary:  %s (%s)\n", report.DictionaryVersion, report.DictDate))
	sb.WriteString(fmt.Sprintf("  Entries:     %d\n", report.EntryCount))
	sb.WriteString(fmt.Sprintf("  Readings:    %d\n", report.BucketCount))
	sb.WriteString(fmt.Sprintf("  Output:      %s (%d bytes)\n", report.OutputPath, report.OutputBytes))
	if report.GzipPath != "" {
		sb.WriteString(fmt.Sprintf("  Compressed:  %s (%d bytes)\n", report.GzipPath, report.GzipBytes))
	}
	sb.WriteString("\n")
}

// writeSteps writes the executed steps and closes the report.
func (w *SimpleWriter) writeSteps(sb *strings.Builder, report *model.BuildReport) {
	if len(report.PerformedSteps) > 0 {
		sb.WriteString(fmt.Sprintf("Steps: %s\n", strings.Join(report.PerformedSteps, " -> ")))
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
