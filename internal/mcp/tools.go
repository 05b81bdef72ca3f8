// ABOUTME: MCP tool implementations for the health dashboard.
// ABOUTME: Lists metrics, returns chart points for one metric, and summarises all.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/healthdash/internal/metrics"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/samber/lo"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_metrics",
		Description: "List every tracked health metric with its unit and category",
	}, s.handleListMetrics)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_metric",
		Description: "Get one metric's chart points and latest-value summary for a date window",
	}, s.handleGetMetric)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "dashboard",
		Description: "Summarise every metric for a date window, like the dashboard cards",
	}, s.handleDashboard)
}

// Tool input/output types

type listMetricsInput struct{}

type metricInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Unit        string `json:"unit"`
	Category    string `json:"category"`
	Color       string `json:"color"`
}

type listMetricsOutput struct {
	Metrics   []metricInfo `json:"metrics"`
	Synthetic bool         `json:"synthetic"`
}

type windowInput struct {
	View string `json:"view,omitempty" jsonschema:"Aggregation: daily (default) or monthly"`
	From string `json:"from,omitempty" jsonschema:"Exclusive start date (YYYY-MM-DD); defaults to three months ago"`
	To   string `json:"to,omitempty" jsonschema:"Exclusive end date (YYYY-MM-DD); defaults to now"`
}

type getMetricInput struct {
	ID   int64  `json:"id" jsonschema:"Metric ID"`
	View string `json:"view,omitempty" jsonschema:"Aggregation: daily (default) or monthly"`
	From string `json:"from,omitempty" jsonschema:"Exclusive start date (YYYY-MM-DD); defaults to three months ago"`
	To   string `json:"to,omitempty" jsonschema:"Exclusive end date (YYYY-MM-DD); defaults to now"`
}

type getMetricOutput struct {
	Metric  metricInfo          `json:"metric"`
	View    string              `json:"view"`
	Summary metrics.Summary     `json:"summary"`
	Change  string              `json:"change"`
	Points  []models.ChartPoint `json:"points"`
}

type dashboardEntry struct {
	Metric     metricInfo      `json:"metric"`
	Summary    metrics.Summary `json:"summary"`
	Change     string          `json:"change"`
	PointCount int             `json:"point_count"`
	LastDate   string          `json:"last_date,omitempty"`
}

type dashboardOutput struct {
	View    string           `json:"view"`
	Metrics []dashboardEntry `json:"metrics"`
}

// Tool handlers

func (s *Server) handleListMetrics(ctx context.Context, req *mcp.CallToolRequest, input listMetricsInput) (*mcp.CallToolResult, listMetricsOutput, error) {
	list, err := s.gw.ListMetrics(ctx)
	if err != nil {
		return nil, listMetricsOutput{}, fmt.Errorf("failed to list metrics: %w", err)
	}

	return nil, listMetricsOutput{
		Metrics:   lo.Map(list, func(m models.HealthMetric, _ int) metricInfo { return toInfo(m) }),
		Synthetic: s.gw.Synthetic(),
	}, nil
}

func (s *Server) handleGetMetric(ctx context.Context, req *mcp.CallToolRequest, input getMetricInput) (*mcp.CallToolResult, getMetricOutput, error) {
	mode, w, err := s.window(windowInput{View: input.View, From: input.From, To: input.To})
	if err != nil {
		return nil, getMetricOutput{}, err
	}

	m, err := s.gw.MetricWithValues(ctx, input.ID)
	if err != nil {
		return nil, getMetricOutput{}, fmt.Errorf("failed to get metric: %w", err)
	}

	summary := metrics.Summarize(m.Values)
	return nil, getMetricOutput{
		Metric:  toInfo(m.HealthMetric),
		View:    string(mode),
		Summary: summary,
		Change:  summary.ChangeText(),
		Points:  metrics.Process(m.Values, mode, w),
	}, nil
}

func (s *Server) handleDashboard(ctx context.Context, req *mcp.CallToolRequest, input windowInput) (*mcp.CallToolResult, dashboardOutput, error) {
	mode, w, err := s.window(input)
	if err != nil {
		return nil, dashboardOutput{}, err
	}

	out, err := s.dashboard(ctx, mode, w)
	if err != nil {
		return nil, dashboardOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) dashboard(ctx context.Context, mode metrics.ViewMode, w metrics.Window) (dashboardOutput, error) {
	all, err := s.gw.AllMetricsWithValues(ctx)
	if err != nil {
		return dashboardOutput{}, fmt.Errorf("failed to load dashboard: %w", err)
	}

	entries := lo.Map(all, func(m models.MetricWithValues, _ int) dashboardEntry {
		points := metrics.Process(m.Values, mode, w)
		summary := metrics.Summarize(m.Values)
		e := dashboardEntry{
			Metric:     toInfo(m.HealthMetric),
			Summary:    summary,
			Change:     summary.ChangeText(),
			PointCount: len(points),
		}
		if len(points) > 0 {
			e.LastDate = points[len(points)-1].Date
		}
		return e
	})

	return dashboardOutput{View: string(mode), Metrics: entries}, nil
}

// window resolves the view mode and date window. A missing bound falls back
// to the last three months ending now.
func (s *Server) window(in windowInput) (metrics.ViewMode, metrics.Window, error) {
	mode := metrics.Daily
	if in.View != "" {
		m, err := metrics.ParseViewMode(in.View)
		if err != nil {
			return "", metrics.Window{}, err
		}
		mode = m
	}

	w, err := metrics.ResolveWindow(in.From, in.To, metrics.DefaultWindow(s.now()))
	if err != nil {
		return "", metrics.Window{}, err
	}
	return mode, w, nil
}

func toInfo(m models.HealthMetric) metricInfo {
	c := metrics.Classify(m.Name)
	return metricInfo{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Unit:        m.Unit,
		Category:    string(c),
		Color:       c.Hex(),
	}
}
