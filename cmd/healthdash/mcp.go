// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server over the metric gateway.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/healthdash/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and reads through the same data
source as the dashboard, including the synthetic fallback.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "healthdash": {
        "command": "healthdash",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_metrics   List every metric with unit and category
  get_metric     Chart points and summary for one metric
  dashboard      Summary of every metric for a window

AVAILABLE RESOURCES:

  healthdash://metrics   Every metric's latest value and change`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(gw, version)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case <-sigChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
