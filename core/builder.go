package core

import (
	"context"

	"github.com/huangsam/whodunit/schema"
)

// Resolver maps a change number to its owner.
type Resolver interface {
	Resolve(ctx context.Context, change int) (string, error)
}

// Classify returns the status of an entry relative to the latest change.
// An entry is present when either end of its revision range is the latest change.
func Classify(entry schema.RawEntry, latest int) schema.RecordStatus {
	if entry.FromChange == latest || entry.ToChange == latest {
		return schema.PresentStatus
	}
	return schema.DeletedStatus
}

// BuildRecords attributes every annotated entry to its owners and numbers the
// present lines. The returned widths cover the whole record set.
func BuildRecords(ctx context.Context, ann *schema.Annotation, resolver Resolver) ([]schema.LineRecord, schema.ColumnWidths, error) {
	records := make([]schema.LineRecord, 0, len(ann.Entries))
	widths := schema.NewColumnWidths()
	lineno := 0

	for _, entry := range ann.Entries {
		fromOwner, err := resolver.Resolve(ctx, entry.FromChange)
		if err != nil {
			return nil, widths, err
		}
		toOwner, err := resolver.Resolve(ctx, entry.ToChange)
		if err != nil {
			return nil, widths, err
		}

		rec := schema.LineRecord{
			FromChange: entry.FromChange,
			FromOwner:  fromOwner,
			ToChange:   entry.ToChange,
			ToOwner:    toOwner,
			Text:       entry.Text,
			Status:     Classify(entry, ann.LatestChange),
		}
		if rec.IsPresent() {
			lineno++
			rec.LineNumber = lineno
		}

		widths.Observe(rec)
		records = append(records, rec)
	}
	return records, widths, nil
}
