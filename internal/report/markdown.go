package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/yomikata/jmindex/internal/model"
)

// MarkdownWriter outputs build reports in Markdown format for
// documentation and sharing, for example in release notes or CI job
// summaries.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the build report in Markdown format.
func (w *MarkdownWriter) Write(report *model.BuildReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeRelease(md, report)
	w.writeConversion(md, report)
	w.writeSteps(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with build information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.BuildReport) {
	md.H1("jmindex Build Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Requested Tag", "`" + report.Tag + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", report.Elapsed.String()},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")

	if report.Succeeded() {
		md.Tip("Build completed successfully.")
	} else {
		md.Cautionf("Build failed: %s", report.ErrorMessage)
	}
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.BuildReport) string {
	if report.Succeeded() {
		return "✅ Complete"
	}
	return "❌ Failed - " + report.ErrorMessage
}

// writeRelease writes the resolved release section.
func (w *MarkdownWriter) writeRelease(md *markdown.Markdown, report *model.BuildReport) {
	if report.Asset == nil && report.SourceFile == "" {
		return
	}

	md.H2("Release")
	md.PlainText("")

	rows := make([][]string, 0, 3)
	if report.Asset != nil {
		rows = append(rows,
			[]string{"Asset", "`" + report.Asset.Name + "`"},
			[]string{"Download URL", report.Asset.BrowserDownloadURL},
		)
	}
	if report.SourceFile != "" {
		rows = append(rows, []string{"Source File", "`" + report.SourceFile + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeConversion writes the index statistics section.
func (w *MarkdownWriter) writeConversion(md *markdown.Markdown, report *model.BuildReport) {
	if report.OutputPath == "" {
		return
	}

	md.H2("Index")
	md.PlainText("")

	rows := [][]string{
		{"Dictionary Version", report.DictionaryVersion},
		{"Dictionary Date", report.DictDate},
		{"Entries", strconv.Itoa(report.EntryCount)},
		{"Hiragana Readings", strconv.Itoa(report.BucketCount)},
		{"Output", "`" + report.OutputPath + "` (" + strconv.FormatInt(report.OutputBytes, 10) + " bytes)"},
	}
	if report.GzipPath != "" {
		rows = append(rows,
			[]string{"Compressed", "`" + report.GzipPath + "` (" + strconv.FormatInt(report.GzipBytes, 10) + " bytes)"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSteps writes the executed pipeline steps.
func (w *MarkdownWriter) writeSteps(md *markdown.Markdown, report *model.BuildReport) {
	if len(report.PerformedSteps) == 0 {
		return
	}

	md.H2("Steps")
	md.PlainText("")
	md.OrderedList(report.PerformedSteps...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [jmindex](https://github.com/yomikata/jmindex)*")
}
