// Package schema has models and constants for all parts of whodunit.
package schema

import "unicode/utf8"

// RawEntry is one `text:` record of the annotate output before owners are known.
type RawEntry struct {
	FromChange int    // Change that introduced the line
	ToChange   int    // Last change in which the line still existed
	Text       string // Line content after the revision range
}

// Annotation is the parsed output of `p4 annotate` for a single file.
type Annotation struct {
	Path         string     // Depot or workspace path that was annotated
	Header       string     // The `info:` line, trimmed
	LatestChange int        // Change number of the head revision
	Entries      []RawEntry // Body records in output order
}

// LineRecord is a fully attributed line of the report.
// LineNumber is only set for present lines; deleted lines carry zero.
type LineRecord struct {
	FromChange int
	FromOwner  string
	ToChange   int
	ToOwner    string
	LineNumber int
	Text       string
	Status     RecordStatus
}

// IsPresent reports whether the line exists at the latest change.
func (r LineRecord) IsPresent() bool {
	return r.Status == PresentStatus
}

// ColumnWidths tracks the widest value of each report column across all records.
type ColumnWidths struct {
	ToDigits     int // Widest "to" change number
	FromDigits   int // Widest "from" change number
	ToOwnerLen   int // Longest "to" owner name
	FromOwnerLen int // Longest "from" owner name
	LineDigits   int // Widest line number
}

// NewColumnWidths returns widths with the minimums used before any record is seen.
func NewColumnWidths() ColumnWidths {
	return ColumnWidths{ToDigits: 1, FromDigits: 1, LineDigits: 1}
}

// Observe widens the columns to fit the record.
func (cw *ColumnWidths) Observe(r LineRecord) {
	cw.ToDigits = max(cw.ToDigits, Digits(r.ToChange))
	cw.FromDigits = max(cw.FromDigits, Digits(r.FromChange))
	cw.ToOwnerLen = max(cw.ToOwnerLen, utf8.RuneCountInString(r.ToOwner))
	cw.FromOwnerLen = max(cw.FromOwnerLen, utf8.RuneCountInString(r.FromOwner))
	if r.IsPresent() {
		cw.LineDigits = max(cw.LineDigits, Digits(r.LineNumber))
	}
}

// ChangeColumnWidth is the shared width of the change/owner column.
// It fits the deleted layout `<from>@<owner> ... <to>@<owner>`, which is
// always at least as wide as the present layout.
func (cw ColumnWidths) ChangeColumnWidth() int {
	width := cw.ToDigits + cw.ToOwnerLen + 1
	width += cw.FromDigits + cw.FromOwnerLen + 1
	width += len(" ... ")
	return width
}

// Digits returns the number of decimal digits in n. Zero and negatives count as one.
func Digits(n int) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}

// OwnerSummary aggregates line counts for one owner within a file.
type OwnerSummary struct {
	Owner      string `json:"owner"`
	Present    int    `json:"present"`    // Lines introduced by the owner that still exist
	Deleted    int    `json:"deleted"`    // Lines introduced by the owner that were later removed
	Removed    int    `json:"removed"`    // Lines the owner's changes removed
	LastChange int    `json:"last_change"` // Highest change number attributed to the owner
}

// FileSummary is the owner breakdown for a single annotated file.
type FileSummary struct {
	Path         string         `json:"path"`
	LatestChange int            `json:"latest_change"`
	PresentLines int            `json:"present_lines"`
	DeletedLines int            `json:"deleted_lines"`
	Owners       []OwnerSummary `json:"owners"`
}

// FileReport is the fully reconstructed history of one file.
type FileReport struct {
	Annotation *Annotation
	Records    []LineRecord
	Widths     ColumnWidths
}
