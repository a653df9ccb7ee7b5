package inspector

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testImpl = &mcp.Implementation{Name: "elinspect-test", Version: "0.1.0"}

// mcpSession registers the inspector tools on a fresh server and returns a
// connected client session.
func mcpSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	i := New(nil, nil)

	srv := mcp.NewServer(testImpl, nil)
	i.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()

	go func() {
		_ = srv.Run(ctx, serverT)
	}()

	client := mcp.NewClient(testImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty content")
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func TestMCP_ListTools(t *testing.T) {
	session := mcpSession(t)
	res, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"inspector_describe_html", "inspector_describe_url", "inspector_inspect"} {
		if !names[want] {
			t.Errorf("missing tool %s", want)
		}
	}
}

func TestMCP_DescribeHTML(t *testing.T) {
	session := mcpSession(t)
	result := callTool(t, session, "inspector_describe_html", map[string]any{
		"html":     fixture,
		"selector": "p.note",
		"format":   "verbose",
	})
	if err := result.GetError(); err != nil {
		t.Fatalf("tool error: %v", err)
	}

	var res Result
	if err := json.Unmarshal([]byte(resultText(t, result)), &res); err != nil {
		t.Fatal(err)
	}
	if res.Selector != "#app > p.note" {
		t.Errorf("selector: got %q", res.Selector)
	}
	if !strings.HasPrefix(res.Text, "## Element\n```html\n<p class=\"note\"") {
		t.Errorf("text: %s", res.Text)
	}
	if !strings.Contains(res.Text, "## Text Content\nHello world") {
		t.Errorf("text content: %s", res.Text)
	}
}

func TestMCP_DescribeHTMLErrors(t *testing.T) {
	session := mcpSession(t)
	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing element", map[string]any{"html": fixture, "selector": "table"}},
		{"empty selector", map[string]any{"html": fixture, "selector": " "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, session, "inspector_describe_html", tt.args)
			if result.GetError() == nil {
				t.Fatal("expected tool error")
			}
		})
	}
}

func TestMCP_DescribeURLWithoutBrowser(t *testing.T) {
	session := mcpSession(t)
	result := callTool(t, session, "inspector_describe_url", map[string]any{
		"url":      "https://example.com",
		"selector": "h1",
	})
	if result.GetError() == nil {
		t.Fatal("expected tool error")
	}
}
