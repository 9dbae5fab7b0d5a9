package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"gooze.dev/pkg/clooze/internal/controller/mcp"
	"gooze.dev/pkg/clooze/internal/domain/mutagens"
)

// serveStdio is replaced in tests.
var serveStdio = mcp.ServeStdio

// mcpCmd represents the mcp command.
var mcpCmd = newMCPCmd()

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the mutation engine as MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing the
list_operators, scan_source and apply_mutation tools. The tools work on
source text passed in the request and never touch files.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			slog.Info("Starting MCP server", "version", buildVersion())

			return serveStdio(mcp.NewServer(buildVersion(), mutagens.Default()))
		},
	}
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
