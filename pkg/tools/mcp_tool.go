package tools

import (
	"context"
	"fmt"

	"notionbridge/pkg/api"
	"notionbridge/pkg/mcp"
)

// MCPTool proxies a single tool exposed by the Notion-integration MCP
// service. Its schema mirrors the remote declaration so the model sees the
// same contract the service published.
type MCPTool struct {
	client      *mcp.Client
	name        string
	description string
	params      map[string]any
	required    []string
}

func (t *MCPTool) Name() string                 { return t.name }
func (t *MCPTool) Description() string          { return t.description }
func (t *MCPTool) Parameters() map[string]any   { return t.params }
func (t *MCPTool) RequiredParameters() []string { return t.required }

func (t *MCPTool) Execute(ctx context.Context, args map[string]any, user api.UserContext) (*api.ToolResult, error) {
	result, err := t.client.CallTool(ctx, t.name, args)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Notion service call failed: %v", err)), nil
	}
	if result.IsError {
		return api.ErrorResult(result.Text), nil
	}
	if result.Text == "" {
		return api.TextResult("(No output)"), nil
	}
	return api.TextResult(result.Text), nil
}

// DiscoverMCPTools converts the connected client's cached tool descriptors
// into registrable tools.
func DiscoverMCPTools(client *mcp.Client) []api.Tool {
	descriptors := client.Tools()
	out := make([]api.Tool, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, newMCPTool(client, d))
	}
	return out
}

// newMCPTool splits the remote JSON Schema into the property map and required
// list the registry validates against.
func newMCPTool(client *mcp.Client, d mcp.ToolDescriptor) *MCPTool {
	tool := &MCPTool{
		client:      client,
		name:        d.Name,
		description: d.Description,
		params:      map[string]any{},
	}
	if props, ok := d.Schema["properties"].(map[string]any); ok {
		tool.params = props
	}
	if reqs, ok := d.Schema["required"].([]any); ok {
		for _, r := range reqs {
			if s, ok := r.(string); ok {
				tool.required = append(tool.required, s)
			}
		}
	}
	return tool
}
