package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/whodunit/internal/contract"
	"github.com/huangsam/whodunit/schema"
)

// ReportOptions controls how a report is rendered.
type ReportOptions struct {
	UseColors bool
	Log       *contract.Logger
}

// WriteReport renders the annotated records of one file.
//
// The header line is written before and after the records. Each record is
//
//	<lineno> <from>@<owner>                   | <text>
//	       - <from>@<owner> ... <to>@<owner>  - <text>
//
// where the change/owner column is left-justified to the width of the widest
// deleted layout, so the separators line up for every record.
func WriteReport(w io.Writer, ann *schema.Annotation, records []schema.LineRecord, widths schema.ColumnWidths, opts ReportOptions) error {
	ew := &errWriter{w: w}
	width := widths.ChangeColumnWidth()

	ew.printf("%s\n", ann.Header)
	for _, rec := range records {
		ew.printf("%s %-*s %s %s\n", lineLabel(rec, widths.LineDigits), width, changeLabel(rec), separator(rec, opts.UseColors), rec.Text)
	}
	ew.printf("%s\n", ann.Header)

	if ew.err != nil {
		return fmt.Errorf("cannot write report for %s: %w", ann.Path, ew.err)
	}
	opts.Log.V(1, "wrote %d records for %s (column width %d)", len(records), ann.Path, width)
	return nil
}

// lineLabel is the right-justified line number, or a dash for deleted lines.
func lineLabel(rec schema.LineRecord, digits int) string {
	if rec.IsPresent() {
		return fmt.Sprintf("%*d", digits, rec.LineNumber)
	}
	return fmt.Sprintf("%*s", digits, "-")
}

// changeLabel is `<from>@<owner>` for present lines and
// `<from>@<owner> ... <to>@<owner>` for deleted ones.
func changeLabel(rec schema.LineRecord) string {
	from := fmt.Sprintf("%d@%s", rec.FromChange, rec.FromOwner)
	if rec.IsPresent() {
		return from
	}
	return fmt.Sprintf("%s ... %d@%s", from, rec.ToChange, rec.ToOwner)
}

func separator(rec schema.LineRecord, useColors bool) string {
	if useColors {
		return contract.GetColorSeparator(rec.Status)
	}
	return contract.SeparatorFor(rec.Status)
}
