package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/whodunit/internal/contract"
	"github.com/huangsam/whodunit/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSummary renders the per-owner breakdown of one file as a table.
func WriteSummary(w io.Writer, summary schema.FileSummary, opts ReportOptions) error {
	if _, err := fmt.Fprintf(w, "%s (latest change %d): %d present, %d deleted\n",
		summary.Path, summary.LatestChange, summary.PresentLines, summary.DeletedLines); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Owner", "Present", "Deleted", "Removed", "Last Change"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft}
	})

	var data [][]string
	for _, o := range summary.Owners {
		owner := o.Owner
		if opts.UseColors {
			owner = contract.GetColorOwner(owner)
		}
		data = append(data, []string{
			owner,
			strconv.Itoa(o.Present),
			strconv.Itoa(o.Deleted),
			strconv.Itoa(o.Removed),
			strconv.Itoa(o.LastChange),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	opts.Log.V(1, "summarized %d owners for %s", len(summary.Owners), summary.Path)
	return nil
}
