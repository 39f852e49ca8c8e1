package report

import (
	"io"

	"github.com/yomikata/jmindex/internal/model"
)

// Writer defines the interface for build report output.
// Implementations render the report in a specific format and write it to
// their configured destination.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.BuildReport) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
