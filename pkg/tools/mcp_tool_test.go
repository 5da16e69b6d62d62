package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notionbridge/pkg/mcp"
)

func TestNewMCPToolSplitsSchema(t *testing.T) {
	tool := newMCPTool(nil, mcp.ToolDescriptor{
		Name:        "notion_search",
		Description: "Search Notion pages",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string"},
				"top_k": map[string]any{"type": "integer"},
			},
			"required": []any{"query"},
		},
	})

	assert.Equal(t, "notion_search", tool.Name())
	assert.Equal(t, "Search Notion pages", tool.Description())
	assert.Contains(t, tool.Parameters(), "query")
	assert.Contains(t, tool.Parameters(), "top_k")
	assert.Equal(t, []string{"query"}, tool.RequiredParameters())
}

func TestNewMCPToolRegistrableAfterConversion(t *testing.T) {
	tool := newMCPTool(nil, mcp.ToolDescriptor{
		Name: "notion_append_paragraph",
		Schema: map[string]any{
			"properties": map[string]any{
				"page_id": map[string]any{"type": "string"},
				"text":    map[string]any{"type": "string"},
			},
			"required": []any{"page_id", "text"},
		},
	})

	r := NewRegistry()
	require.NoError(t, r.Register(tool))
	_, ok := r.Get("notion_append_paragraph")
	assert.True(t, ok)
}

func TestNewMCPToolEmptySchema(t *testing.T) {
	tool := newMCPTool(nil, mcp.ToolDescriptor{Name: "bare"})

	assert.NotNil(t, tool.Parameters())
	assert.Empty(t, tool.Parameters())
	assert.Empty(t, tool.RequiredParameters())
}
