package tools

import (
	"fmt"
	"slices"
	"sync"

	"notionbridge/pkg/api"
	"notionbridge/pkg/llm"
)

// Registry acts as a central inventory for all tools available to the agent.
// Registration is validated up front so a name present in the registry can
// never produce an unknown-tool failure at dispatch time.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]api.Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]api.Tool)}
}

// Register adds a tool after validating its declaration: the name must be
// non-empty and unique, and every required parameter must appear in the
// schema property map.
func (r *Registry) Register(tool api.Tool) error {
	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool has empty name")
	}

	params := tool.Parameters()
	for _, req := range tool.RequiredParameters() {
		if _, ok := params[req]; !ok {
			return fmt.Errorf("tool %s: required parameter %q not declared in schema", name, req)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}
	r.tools[name] = tool
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (api.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// All returns every registered tool, sorted by name so the definitions sent
// to the model are stable across requests.
func (r *Registry) All() []api.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]api.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		out = append(out, tool)
	}
	slices.SortFunc(out, func(a, b api.Tool) int {
		switch {
		case a.Name() < b.Name():
			return -1
		case a.Name() > b.Name():
			return 1
		}
		return 0
	})
	return out
}

// Specs converts the registry contents into provider-neutral tool specs.
func (r *Registry) Specs() []llm.ToolSpec {
	all := r.All()
	specs := make([]llm.ToolSpec, 0, len(all))
	for _, tool := range all {
		specs = append(specs, llm.ToolSpec{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
			Required:    tool.RequiredParameters(),
		})
	}
	return specs
}
