package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/hookscope/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server provides tools for listing hook targets, inspecting staged submodule
removals and branch containment, and extracting diagnostics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireRepo(); err != nil {
			return err
		}

		// stdout carries the protocol
		fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server on stdio, press Ctrl+C to stop")

		ctx := setupSignalHandler(cmd.Context())
		server := mcp.NewServer(app.query, Version)
		defer func() { _ = server.Stop() }()
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}
