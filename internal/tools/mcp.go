package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/soochol/textractor/internal/extract"
)

// DefaultRegistry returns a registry with the extract, detect and formats
// tools.
func DefaultRegistry(d *extract.Dispatcher, maxFileBytes int64) *Registry {
	reg := NewRegistry()
	reg.Register(NewExtractTool(d, maxFileBytes))
	reg.Register(NewDetectTool(maxFileBytes))
	reg.Register(FormatsTool{})
	return reg
}

// RegisterMCP exposes every tool in reg on srv. Arguments are decoded to a
// map before Execute; results are returned as JSON text content.
func RegisterMCP(srv *mcp.Server, reg *Registry) {
	for _, t := range reg.List() {
		registerMCPTool(srv, t)
	}
}

func registerMCPTool(srv *mcp.Server, t Tool) {
	tool := &mcp.Tool{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: t.InputSchema(),
	}
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}

		out, err := t.Execute(ctx, args)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}

		data, err := json.Marshal(out)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		res := &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}
		if r, ok := out.(Reporter); ok && r.IsFailure() {
			res.IsError = true
		}
		return res, nil
	})
}
