package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/elinspect/format"
	"github.com/hazyhaar/elinspect/kit"
)

// maxInspectWait bounds how long the interactive tool waits for a click.
const maxInspectWait = 10 * time.Minute

// RegisterMCP registers the inspector tools on an MCP server.
func (i *Inspector) RegisterMCP(srv *mcp.Server) {
	registerDescribeHTMLTool(srv, i.Options(), i.logger)
	i.registerDescribeURLTool(srv)
	i.registerInspectTool(srv)
}

// RegisterHTMLTool registers only the browserless describe tool.
func RegisterHTMLTool(srv *mcp.Server, defaults Options, logger *slog.Logger) {
	registerDescribeHTMLTool(srv, defaults, logger)
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var formatProperties = map[string]any{
	"format":   map[string]any{"type": "string", "enum": []any{"compact", "verbose", "keyvalue"}, "description": "Output layout (default from configuration)"},
	"synopsis": map[string]any{"type": "boolean", "description": "Compact layout: one-line markup synopsis instead of full markup"},
	"markdown": map[string]any{"type": "boolean", "description": "Verbose layout: append a Markdown rendering of the markup"},
}

func withFormat(props map[string]any) map[string]any {
	for k, v := range formatProperties {
		props[k] = v
	}
	return props
}

type formatArgs struct {
	Format   string `json:"format,omitempty"`
	Synopsis *bool  `json:"synopsis,omitempty"`
	Markdown *bool  `json:"markdown,omitempty"`
}

func (a formatArgs) apply(o Options) (Options, error) {
	if a.Format != "" {
		kind, err := format.ParseKind(a.Format)
		if err != nil {
			return o, err
		}
		o.Format = kind
	}
	if a.Synopsis != nil {
		o.Synopsis = *a.Synopsis
	}
	if a.Markdown != nil {
		o.Markdown = *a.Markdown
	}
	return o, nil
}

func decodeArgs[T any](req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	var r T
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
	}
	return &kit.MCPDecodeResult{Request: &r}, nil
}

// --- describe_html ---

type describeHTMLRequest struct {
	HTML     string `json:"html"`
	Selector string `json:"selector"`
	formatArgs
}

func registerDescribeHTMLTool(srv *mcp.Server, defaults Options, logger *slog.Logger) {
	tool := &mcp.Tool{
		Name:        "inspector_describe_html",
		Description: "Describe the first element matching a CSS selector in an HTML document: DOM path, attributes, inline styles, markup and text.",
		InputSchema: inputSchema(withFormat(map[string]any{
			"html":     map[string]any{"type": "string", "description": "HTML document or fragment"},
			"selector": map[string]any{"type": "string", "description": "CSS selector of the element"},
		}), []string{"html", "selector"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*describeHTMLRequest)
		if strings.TrimSpace(r.Selector) == "" {
			return nil, errors.New("selector is required")
		}
		opts, err := r.apply(defaults)
		if err != nil {
			return nil, err
		}
		return DescribeHTML(strings.NewReader(r.HTML), r.Selector, opts)
	}

	mw := kit.Chain(kit.Logging(logger, "inspector_describe_html"))
	kit.RegisterMCPTool(srv, tool, mw(endpoint), decodeArgs[describeHTMLRequest])
}

// --- describe_url ---

type describeURLRequest struct {
	URL      string `json:"url"`
	Selector string `json:"selector"`
	formatArgs
}

func (i *Inspector) registerDescribeURLTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "inspector_describe_url",
		Description: "Open a page in the browser and describe the first element matching a CSS selector, with rendered geometry and computed styles.",
		InputSchema: inputSchema(withFormat(map[string]any{
			"url":      map[string]any{"type": "string", "description": "Page URL"},
			"selector": map[string]any{"type": "string", "description": "CSS selector of the element"},
		}), []string{"url", "selector"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*describeURLRequest)
		if strings.TrimSpace(r.Selector) == "" {
			return nil, errors.New("selector is required")
		}
		opts, err := r.apply(i.Options())
		if err != nil {
			return nil, err
		}
		return i.DescribeURL(ctx, r.URL, r.Selector, opts)
	}

	mw := kit.Chain(kit.Logging(i.logger, "inspector_describe_url"))
	kit.RegisterMCPTool(srv, tool, mw(endpoint), decodeArgs[describeURLRequest])
}

// --- inspect ---

type inspectRequest struct {
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	formatArgs
}

type inspectResponse struct {
	Text      string `json:"text,omitempty"`
	Copied    bool   `json:"copied"`
	Cancelled bool   `json:"cancelled"`
}

func (i *Inspector) registerInspectTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "inspector_inspect",
		Description: "Arm the element picker in the browser tab showing a URL and wait for the user to click an element (Escape cancels). Returns the description that was copied.",
		InputSchema: inputSchema(withFormat(map[string]any{
			"url":             map[string]any{"type": "string", "description": "Page URL; an open tab with this URL is reused"},
			"timeout_seconds": map[string]any{"type": "integer", "description": "Maximum wait for a click (default and cap 600)"},
		}), []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*inspectRequest)
		opts, err := r.apply(i.Options())
		if err != nil {
			return nil, err
		}
		wait := maxInspectWait
		if d := time.Duration(r.TimeoutSeconds) * time.Second; d > 0 && d < wait {
			wait = d
		}
		ctx, cancel := context.WithTimeout(ctx, wait)
		defer cancel()

		out, err := i.Inspect(ctx, r.URL, opts)
		if err != nil {
			return nil, err
		}
		return inspectResponse{Text: out.Text, Copied: out.Copied, Cancelled: out.Cancelled}, nil
	}

	mw := kit.Chain(kit.Logging(i.logger, "inspector_inspect"))
	kit.RegisterMCPTool(srv, tool, mw(endpoint), decodeArgs[inspectRequest])
}
