package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"notionbridge/pkg/api"
)

// Executor validates and dispatches tool calls on behalf of the agent loop.
// Name and argument validation fail fast with typed errors before any
// network traffic; failures inside the tool itself come back as a failed
// ToolResult so the model can see them and adapt.
type Executor struct {
	registry api.ToolRegistry
	timeout  time.Duration
}

// NewExecutor creates an executor over the given registry. timeout bounds
// each individual tool invocation.
func NewExecutor(registry api.ToolRegistry, timeout time.Duration) *Executor {
	return &Executor{registry: registry, timeout: timeout}
}

// Execute runs the named tool. It returns ErrUnknownTool or
// ErrInvalidArguments without touching the tool; any error the tool itself
// reports is converted into a ToolResult with IsError set.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any, user api.UserContext) (*api.ToolResult, error) {
	tool, ok := e.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if args == nil {
		args = make(map[string]any)
	}
	injectAuth(tool, args, user)

	if err := validateArgs(tool, args); err != nil {
		return nil, err
	}

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	slog.Info("Executing tool", "name", name, "args", args)
	result, err := tool.Execute(runCtx, args, user)
	if err != nil {
		slog.Error("Tool execution failed", "name", name, "error", err)
		return api.ErrorResult(fmt.Sprintf("Tool %s failed: %v", name, err)), nil
	}
	if result == nil {
		result = api.TextResult("(No output)")
	}
	return result, nil
}

// injectAuth fills in the caller's identity on user-scoped tools when the
// model omitted it. The frontend relies on this to keep the model from
// inventing identities or dropping the session cookies.
func injectAuth(tool api.Tool, args map[string]any, user api.UserContext) {
	params := tool.Parameters()
	injected := false

	if user.UserID != "" {
		if _, declared := params["user_id"]; declared {
			if _, present := args["user_id"]; !present {
				args["user_id"] = user.UserID
				injected = true
			}
		}
	}
	if user.Cookies != "" {
		if _, declared := params["cookies"]; declared {
			if _, present := args["cookies"]; !present {
				args["cookies"] = user.Cookies
				injected = true
			}
		}
	}

	if injected {
		slog.Debug("Injected auth into tool call",
			"tool", tool.Name(), "user_id", user.UserID, "has_cookies", user.Cookies != "")
	}
}

// validateArgs checks required fields and primitive type conformance against
// the declared schema.
func validateArgs(tool api.Tool, args map[string]any) error {
	params := tool.Parameters()

	for _, req := range tool.RequiredParameters() {
		if _, ok := args[req]; !ok {
			return fmt.Errorf("%w: missing required parameter %q for tool %s", ErrInvalidArguments, req, tool.Name())
		}
	}

	for key, value := range args {
		decl, ok := params[key].(map[string]any)
		if !ok {
			continue // Undeclared extras pass through; the tool may ignore them.
		}
		wantType, _ := decl["type"].(string)
		if wantType == "" || value == nil {
			continue
		}
		if !matchesType(value, wantType) {
			return fmt.Errorf("%w: parameter %q of tool %s must be %s, got %T",
				ErrInvalidArguments, key, tool.Name(), wantType, value)
		}
	}
	return nil
}

func matchesType(value any, wantType string) bool {
	switch wantType {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		switch value.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case "integer":
		switch v := value.(type) {
		case int, int64:
			return true
		case float64:
			return v == float64(int64(v))
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	}
	return true
}
