package cmd

import (
	"github.com/rehman-1/git-asana-backend/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the gitasana MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents generate commit reports and task effort estimates via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr so stdio stays reserved for the protocol.
		return sharedSetup(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		engine, err := buildEngine(rootCtx, nil)
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(rootCtx, engine, version)
	},
}
