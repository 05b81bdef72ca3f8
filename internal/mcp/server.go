// ABOUTME: MCP server exposing the metric gateway over stdio.
// ABOUTME: Registers the dashboard tools and the metrics resource.
package mcp

import (
	"context"
	"time"

	"github.com/harperreed/healthdash/internal/gateway"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with gateway access.
type Server struct {
	mcpServer *mcp.Server
	gw        *gateway.Gateway
	now       func() time.Time
}

// NewServer creates a new MCP server reading through gw.
func NewServer(gw *gateway.Gateway, version string) (*Server, error) {
	if version == "" {
		version = "dev"
	}
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "healthdash",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		gw:        gw,
		now:       time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
