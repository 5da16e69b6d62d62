package api

import (
	"context"
)

// AgentEngine defines the interface for the core reasoning engine.
type AgentEngine interface {
	// Run executes one full agent loop for a single chat request and
	// returns the final assistant reply text.
	Run(ctx context.Context, message string, user UserContext, notify Notifier) (string, error)
}

// Notifier receives progress signals while a chat request is being
// processed, so interactive channels can show activity (thinking state,
// tool execution). Implementations must be safe for concurrent use: tool
// calls issued in the same round run in parallel and signal independently.
type Notifier interface {
	// Signal transmits a control signal such as "thinking",
	// "tool:notion_search" or "tool_done:notion_search".
	Signal(value string)
}

// NopNotifier discards all signals. Used by the plain REST endpoint.
type NopNotifier struct{}

func (NopNotifier) Signal(string) {}
