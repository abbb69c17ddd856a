package cmd

import (
	"github.com/huangsam/scanreport/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [archive]",
	Short: "Start the scanreport MCP server.",
	Long: `Launch an MCP server on stdio that lets agents read report archives through tools.

An optional archive argument becomes the default for tools called without archive_path.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr, so stdout stays free for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
