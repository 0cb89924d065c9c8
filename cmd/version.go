package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of whodunit.",
	Long: `Display version information including build details.

Useful for verifying the installed binary and reporting bugs.`,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("whodunit CLI\n")
		fmt.Printf("  Version: %s\n", version)
		fmt.Printf("  Commit:  %s\n", commit)
		fmt.Printf("  Built:   %s\n", date)
		fmt.Printf("  Runtime: %s\n", runtime.Version())
	},
}
