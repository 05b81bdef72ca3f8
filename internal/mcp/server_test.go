// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Runs the handlers against a synthetic-mode gateway.
package mcp

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/healthdash/internal/gateway"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func setupServer(t *testing.T) *Server {
	t.Helper()

	gw := gateway.New(nil, gateway.WithLogger(log.New(io.Discard)))
	server, err := NewServer(gw, "test")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func TestNewServer(t *testing.T) {
	server := setupServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.gw == nil {
		t.Error("Expected non-nil gateway")
	}
}

func TestHandleListMetrics(t *testing.T) {
	server := setupServer(t)

	_, out, err := server.handleListMetrics(context.Background(), &mcp.CallToolRequest{}, listMetricsInput{})
	if err != nil {
		t.Fatalf("handleListMetrics failed: %v", err)
	}
	if !out.Synthetic {
		t.Error("Expected synthetic flag")
	}
	if len(out.Metrics) != 6 {
		t.Fatalf("Expected 6 metrics, got %d", len(out.Metrics))
	}

	byName := map[string]metricInfo{}
	for _, m := range out.Metrics {
		byName[m.Name] = m
	}
	if got := byName["Heart Rate"].Category; got != "heart" {
		t.Errorf("Heart Rate category = %s, want heart", got)
	}
	if got := byName["Water Intake"].Color; got != "#2196F3" {
		t.Errorf("Water Intake color = %s, want #2196F3", got)
	}
}

func TestHandleGetMetricDefaultWindow(t *testing.T) {
	server := setupServer(t)

	_, out, err := server.handleGetMetric(context.Background(), &mcp.CallToolRequest{}, getMetricInput{ID: 1})
	if err != nil {
		t.Fatalf("handleGetMetric failed: %v", err)
	}
	if out.View != "daily" {
		t.Errorf("View = %s, want daily", out.View)
	}
	if len(out.Points) == 0 || len(out.Points) > 90 {
		t.Fatalf("Expected 1..90 points, got %d", len(out.Points))
	}
	today := time.Now().Format("2006-01-02")
	if last := out.Points[len(out.Points)-1].Date; last != today {
		t.Errorf("Last point = %s, want today %s", last, today)
	}
	if out.Summary.Count != 90 {
		t.Errorf("Summary.Count = %d, want 90", out.Summary.Count)
	}
	if out.Change == "" {
		t.Error("Expected change text")
	}
}

func TestHandleGetMetricMonthly(t *testing.T) {
	server := setupServer(t)

	_, out, err := server.handleGetMetric(context.Background(), &mcp.CallToolRequest{}, getMetricInput{ID: 3, View: "monthly"})
	if err != nil {
		t.Fatalf("handleGetMetric failed: %v", err)
	}
	if len(out.Points) == 0 || len(out.Points) > 4 {
		t.Fatalf("Expected 1..4 monthly points, got %d", len(out.Points))
	}
	dates := make([]string, len(out.Points))
	for i, p := range out.Points {
		if !strings.HasSuffix(p.Date, "-01") {
			t.Errorf("Monthly point %s not on the 1st", p.Date)
		}
		dates[i] = p.Date
	}
	if !sort.StringsAreSorted(dates) {
		t.Errorf("Monthly points not sorted: %v", dates)
	}
}

func TestHandleGetMetricExplicitWindow(t *testing.T) {
	server := setupServer(t)

	_, out, err := server.handleGetMetric(context.Background(), &mcp.CallToolRequest{}, getMetricInput{
		ID: 2, From: "2000-01-01", To: "2000-02-01",
	})
	if err != nil {
		t.Fatalf("handleGetMetric failed: %v", err)
	}
	if len(out.Points) != 0 {
		t.Errorf("Expected no points in a window before the data, got %d", len(out.Points))
	}
}

func TestHandleGetMetricSingleBound(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()
	today := time.Now().Format("2006-01-02")
	weekAgo := time.Now().AddDate(0, 0, -7).Format("2006-01-02")

	// From a week ago up to now: the six days in between plus today.
	_, out, err := server.handleGetMetric(ctx, &mcp.CallToolRequest{}, getMetricInput{ID: 1, From: weekAgo})
	if err != nil {
		t.Fatalf("handleGetMetric failed: %v", err)
	}
	if len(out.Points) != 7 {
		t.Errorf("from-only: expected 7 points, got %d", len(out.Points))
	}

	// From three months ago up to (excluding) today.
	_, out, err = server.handleGetMetric(ctx, &mcp.CallToolRequest{}, getMetricInput{ID: 1, To: today})
	if err != nil {
		t.Fatalf("handleGetMetric failed: %v", err)
	}
	if len(out.Points) == 0 || len(out.Points) >= 90 {
		t.Errorf("to-only: expected a bounded window, got %d points", len(out.Points))
	}
	for _, p := range out.Points {
		if p.Date >= today {
			t.Errorf("to-only: point %s is not before %s", p.Date, today)
		}
	}

	_, _, err = server.handleGetMetric(ctx, &mcp.CallToolRequest{}, getMetricInput{ID: 1, From: "garbage"})
	if err == nil || !strings.Contains(err.Error(), "invalid start date") {
		t.Errorf("Expected invalid start date error, got %v", err)
	}
}

func TestHandleGetMetricErrors(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	_, _, err := server.handleGetMetric(ctx, &mcp.CallToolRequest{}, getMetricInput{ID: 9999})
	if err == nil || !strings.Contains(err.Error(), "9999") {
		t.Errorf("Expected not-found error naming 9999, got %v", err)
	}

	_, _, err = server.handleGetMetric(ctx, &mcp.CallToolRequest{}, getMetricInput{ID: 1, View: "weekly"})
	if err == nil || !strings.Contains(err.Error(), "unknown view mode") {
		t.Errorf("Expected view mode error, got %v", err)
	}
}

func TestHandleDashboard(t *testing.T) {
	server := setupServer(t)

	_, out, err := server.handleDashboard(context.Background(), &mcp.CallToolRequest{}, windowInput{View: "monthly"})
	if err != nil {
		t.Fatalf("handleDashboard failed: %v", err)
	}
	if out.View != "monthly" {
		t.Errorf("View = %s, want monthly", out.View)
	}
	if len(out.Metrics) != 6 {
		t.Fatalf("Expected 6 entries, got %d", len(out.Metrics))
	}
	for _, e := range out.Metrics {
		if e.Change == "" {
			t.Errorf("%s has no change text", e.Metric.Name)
		}
		if e.PointCount == 0 {
			t.Errorf("%s has no points", e.Metric.Name)
		}
	}
}

func TestHandleMetricsResource(t *testing.T) {
	server := setupServer(t)

	result, err := server.handleMetricsResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleMetricsResource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("Expected 1 content, got %d", len(result.Contents))
	}

	content := result.Contents[0]
	if content.URI != metricsURI {
		t.Errorf("URI = %s, want %s", content.URI, metricsURI)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(content.Text), &data); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if data["synthetic"] != true {
		t.Error("Expected synthetic=true")
	}
	list, ok := data["metrics"].([]any)
	if !ok || len(list) != 6 {
		t.Errorf("Expected 6 metrics in resource, got %v", data["metrics"])
	}
}

func TestSessionListsTools(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	if _, err := server.mcpServer.Connect(ctx, serverTransport, nil); err != nil {
		t.Fatalf("server connect failed: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"list_metrics", "get_metric", "dashboard"} {
		if !names[want] {
			t.Errorf("tool %s not registered", want)
		}
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_metric",
		Arguments: map[string]any{"id": 4, "view": "monthly"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if res.IsError {
		t.Errorf("get_metric returned a tool error: %+v", res.Content)
	}
}
