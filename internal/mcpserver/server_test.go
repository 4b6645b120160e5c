package mcpserver_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nikbrunner/vault/internal/mcpserver"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo := mcpserver.NewFileRepository(filepath.Join(t.TempDir(), "bookmarks.json"), nil)
	s, err := mcpserver.New(mcpserver.NewBookmarkHandler(repo))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv := httptest.NewServer(mcpserver.Router(s))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestStreamableHTTP_ToolsRoundTrip(t *testing.T) {
	srv := newServer(t)

	httpTransport, err := transport.NewStreamableHTTP(srv.URL + mcpserver.EndpointPath)
	if err != nil {
		t.Fatalf("failed to create HTTP transport: %v", err)
	}
	if err := httpTransport.Start(context.Background()); err != nil {
		t.Fatalf("failed to start HTTP transport: %v", err)
	}
	defer httpTransport.Close()

	c := client.NewClient(httpTransport)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: "2024-11-05",
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0.0"},
		},
	})
	if err != nil {
		t.Fatalf("failed to initialize MCP client: %v", err)
	}

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("tools/list failed: %v", err)
	}
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"count_bookmarks", "search_bookmarks", "list_bookmarks", "get_bookmark", "add_bookmark", "delete_bookmark"} {
		if !names[want] {
			t.Errorf("tool %q not registered", want)
		}
	}

	var add mcp.CallToolRequest
	add.Params.Name = "add_bookmark"
	add.Params.Arguments = map[string]any{"title": "Go", "url": "https://go.dev"}
	if _, err := c.CallTool(ctx, add); err != nil {
		t.Fatalf("add_bookmark: %v", err)
	}

	var count mcp.CallToolRequest
	count.Params.Name = "count_bookmarks"
	res, err := c.CallTool(ctx, count)
	if err != nil {
		t.Fatalf("count_bookmarks: %v", err)
	}
	if got := res.Content[0].(mcp.TextContent).Text; got != "Total bookmarks: 1" {
		t.Errorf("count_bookmarks = %q", got)
	}
}
