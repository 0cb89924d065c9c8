package core

import (
	"cmp"
	"slices"

	"github.com/huangsam/whodunit/schema"
)

// Summarize aggregates per-owner line counts for one annotated file.
// Owners are ordered by present lines, then deleted lines, then name.
func Summarize(ann *schema.Annotation, records []schema.LineRecord) schema.FileSummary {
	summary := schema.FileSummary{Path: ann.Path, LatestChange: ann.LatestChange}
	byOwner := make(map[string]*schema.OwnerSummary)

	get := func(owner string) *schema.OwnerSummary {
		s, ok := byOwner[owner]
		if !ok {
			s = &schema.OwnerSummary{Owner: owner}
			byOwner[owner] = s
		}
		return s
	}

	for _, rec := range records {
		from := get(rec.FromOwner)
		from.LastChange = max(from.LastChange, rec.FromChange)
		if rec.IsPresent() {
			summary.PresentLines++
			from.Present++
			continue
		}
		summary.DeletedLines++
		from.Deleted++
		to := get(rec.ToOwner)
		to.Removed++
		to.LastChange = max(to.LastChange, rec.ToChange)
	}

	for _, s := range byOwner {
		summary.Owners = append(summary.Owners, *s)
	}
	slices.SortFunc(summary.Owners, func(a, b schema.OwnerSummary) int {
		if c := cmp.Compare(b.Present, a.Present); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Deleted, a.Deleted); c != 0 {
			return c
		}
		return cmp.Compare(a.Owner, b.Owner)
	})
	return summary
}
