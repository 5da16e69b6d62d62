package llm

// Conversation role constants. A conversation always starts with a system
// message followed by the user turn; assistant and tool turns interleave
// from there.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// StopReason constants define normalized reasons for LLM generation
// termination. All providers must normalize their native stop reasons
// to these values.
const (
	StopReasonStop      = "stop"       // Normal completion
	StopReasonLength    = "length"     // Output truncated due to token limit
	StopReasonToolCalls = "tool_calls" // Model requested one or more tool calls
)
