package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notionbridge/pkg/api"
)

// fakeTool is a scriptable api.Tool for registry and executor tests.
type fakeTool struct {
	name     string
	params   map[string]any
	required []string
	execute  func(ctx context.Context, args map[string]any, user api.UserContext) (*api.ToolResult, error)
}

func (f *fakeTool) Name() string                 { return f.name }
func (f *fakeTool) Description() string          { return "test tool " + f.name }
func (f *fakeTool) Parameters() map[string]any   { return f.params }
func (f *fakeTool) RequiredParameters() []string { return f.required }

func (f *fakeTool) Execute(ctx context.Context, args map[string]any, user api.UserContext) (*api.ToolResult, error) {
	if f.execute == nil {
		return api.TextResult("ok"), nil
	}
	return f.execute(ctx, args, user)
}

func stringParam(names ...string) map[string]any {
	params := make(map[string]any, len(names))
	for _, n := range names {
		params[n] = map[string]any{"type": "string"}
	}
	return params
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	r := NewRegistry()
	err := r.Register(&fakeTool{name: ""})
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{name: "alpha"}))

	err := r.Register(&fakeTool{name: "alpha"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistryRejectsUndeclaredRequiredParam(t *testing.T) {
	r := NewRegistry()
	err := r.Register(&fakeTool{
		name:     "broken",
		params:   stringParam("query"),
		required: []string{"query", "page_id"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page_id")
}

func TestRegistryAllSortedByName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{name: "zeta"}))
	require.NoError(t, r.Register(&fakeTool{name: "alpha"}))
	require.NoError(t, r.Register(&fakeTool{name: "mid"}))

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Name())
	assert.Equal(t, "mid", all[1].Name())
	assert.Equal(t, "zeta", all[2].Name())
}

func TestRegistrySpecs(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{
		name:     "notion_search",
		params:   stringParam("query"),
		required: []string{"query"},
	}))

	specs := r.Specs()
	require.Len(t, specs, 1)
	assert.Equal(t, "notion_search", specs[0].Name)
	assert.Equal(t, []string{"query"}, specs[0].Required)

	schema := specs[0].Schema()
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["properties"].(map[string]any), "query")
}
