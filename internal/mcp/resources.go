// ABOUTME: MCP resource implementations for the health dashboard.
// ABOUTME: Provides healthdash://metrics with every metric's card summary.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/healthdash/internal/metrics"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const metricsURI = "healthdash://metrics"

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         metricsURI,
		Name:        "Health Metrics Dashboard",
		Description: "Every metric with its latest value and change over the last three months",
		MIMEType:    "application/json",
	}, s.handleMetricsResource)
}

func (s *Server) handleMetricsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := s.now()
	out, err := s.dashboard(ctx, metrics.Daily, metrics.DefaultWindow(now))
	if err != nil {
		return nil, err
	}

	result := map[string]any{
		"generated_at": now.Format(time.RFC3339),
		"synthetic":    s.gw.Synthetic(),
		"metrics":      out.Metrics,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      metricsURI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
