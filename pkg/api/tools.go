package api

import (
	"context"
	"strings"

	"notionbridge/pkg/llm"
)

// Tool defines the structural interface for any capability that the agent
// can execute. It includes metadata for prompt injection (JSON Schema)
// and the execution logic itself.
type Tool interface {
	// Name returns the unique tool identifier the model calls it by.
	Name() string
	// Description tells the model what the tool does.
	Description() string
	// Parameters returns the JSON Schema property map for the arguments.
	Parameters() map[string]any
	// RequiredParameters lists argument names that must be present.
	RequiredParameters() []string
	// Execute performs the actual tool logic using the provided argument map.
	Execute(ctx context.Context, args map[string]any, user UserContext) (*ToolResult, error)
}

// ToolResult encapsulates the outcome of a tool execution.
// It can contain multiple content blocks and arbitrary metadata.
// A transport-level failure is reported with IsError=true rather than a Go
// error, so the agent loop can surface it to the model as a tool turn.
type ToolResult struct {
	Content []ContentBlock `json:"content"`           // Ordered blocks of result data
	Details map[string]any `json:"details,omitempty"` // Arbitrary technical metadata
	IsError bool           `json:"is_error,omitempty"`
}

// ContentBlock is an atomic data unit within a ToolResult.
type ContentBlock struct {
	Type string `json:"type"`           // Data format, currently always "text"
	Text string `json:"text,omitempty"` // String content
}

// Text joins all text blocks into the string handed back to the model.
func (r *ToolResult) Text() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	for _, b := range r.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

// TextResult builds a single-block textual ToolResult.
func TextResult(text string) *ToolResult {
	return &ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

// ErrorResult builds a failed ToolResult carrying a human-readable reason.
func ErrorResult(text string) *ToolResult {
	return &ToolResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

// ToolRegistry defines the interface for managing and accessing tools.
type ToolRegistry interface {
	Register(tool Tool) error
	Get(name string) (Tool, bool)
	All() []Tool
	Specs() []llm.ToolSpec
}

// UserContext carries per-request identity through the agent loop into tool
// execution. It is passed through unchanged within a single request; nothing
// is cached across requests.
type UserContext struct {
	UserID string
	// Cookies is the frontend session cookie string, forwarded into
	// user-scoped tool calls so the Notion service can authenticate
	// against the backend on the caller's behalf.
	Cookies string
}
