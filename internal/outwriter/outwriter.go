// Package outwriter has output and writer logic.
package outwriter

import (
	"io"

	"github.com/huangsam/whodunit/internal/contract"
	"github.com/huangsam/whodunit/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the output destination and rendering options for the core logic.
type OutWriter struct {
	outputFile string
	opts       ReportOptions
	log        *contract.Logger
}

// NewOutWriter creates a new instance of the output writer from the validated config.
func NewOutWriter(cfg *contract.Config, log *contract.Logger) *OutWriter {
	return &OutWriter{
		outputFile: cfg.OutputFile,
		opts:       ReportOptions{UseColors: cfg.UseColors, Log: log},
		log:        log,
	}
}

// Open runs fn against the configured destination, which stays open for all files of the run.
func (ow *OutWriter) Open(fn func(w io.Writer) error) error {
	return writeWithFile(ow.outputFile, fn, "Wrote report", ow.log)
}

// WriteReport renders one file's report to w.
func (ow *OutWriter) WriteReport(w io.Writer, ann *schema.Annotation, records []schema.LineRecord, widths schema.ColumnWidths) error {
	return WriteReport(w, ann, records, widths, ow.opts)
}

// WriteSummary renders one file's owner summary to w.
func (ow *OutWriter) WriteSummary(w io.Writer, summary schema.FileSummary) error {
	return WriteSummary(w, summary, ow.opts)
}
