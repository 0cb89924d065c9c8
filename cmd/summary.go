package cmd

import (
	"github.com/huangsam/whodunit/core"
	"github.com/spf13/cobra"
)

// summaryCmd prints an owner table per file.
var summaryCmd = &cobra.Command{
	Use:   "summary file...",
	Short: "Count present, deleted and removed lines per user.",
	Long: `Annotate each file and aggregate its lines by user.

For every user the table shows:
- Present: lines they added that still exist
- Deleted: lines they added that were later removed
- Removed: lines their changes removed
- Last Change: the highest change attributed to them in the file

Examples:
  # Who owns most of foo.c today
  whodunit summary //depot/main/src/foo.c

  # Write summaries of several files to a file
  whodunit summary foo.c bar.c --output-file owners.txt`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runExecutor(core.ExecuteSummary)
	},
}
