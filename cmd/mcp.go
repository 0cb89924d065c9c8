package cmd

import (
	"github.com/huangsam/whodunit/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the whodunit MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents annotate and summarize Perforce files.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, p4Client, cacheManager)
	},
}
