package llm

import (
	"time"
)

//----------------------------------------------------------------
// Message - 範用訊息結構
//----------------------------------------------------------------

// Message 表示一條對話訊息。一次聊天請求內的 Conversation 就是
// []Message，只會往後追加，不會就地修改。
type Message struct {
	ID        string `json:"id,omitempty"`
	Role      string `json:"role"` // "system", "user", "assistant", "tool"
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp,omitempty"`

	// ToolCalls 包含 LLM 產生的工具調用請求（僅 role: assistant 時有效）
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID 關聯此訊息所屬的工具調用 ID（僅 role: tool 時有效）
	ToolCallID string `json:"tool_call_id,omitempty"`

	// ToolName 是產生此結果的工具名稱（僅 role: tool 時有效）
	ToolName string `json:"tool_name,omitempty"`
}

// ToolCall 表示 LLM 產生的工具調用請求
type ToolCall struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Function FunctionCall `json:"function"`
}

// FunctionCall 包含具體的工具名稱與參數
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON 字串
}

// HasToolCalls 判斷訊息是否包含工具調用
func (m *Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

//----------------------------------------------------------------
// ToolSpec - 提供給模型的工具定義
//----------------------------------------------------------------

// ToolSpec describes a callable tool in the provider-neutral format.
// Parameters follows JSON Schema property conventions; each provider
// client converts the spec into its SDK's native shape.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
	Required    []string       `json:"required,omitempty"`
}

// Schema assembles the full JSON Schema object for the tool's arguments.
func (t ToolSpec) Schema() map[string]any {
	props := t.Parameters
	if props == nil {
		props = map[string]any{}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(t.Required) > 0 {
		schema["required"] = t.Required
	}
	return schema
}

//----------------------------------------------------------------
// Helper Functions - Message
//----------------------------------------------------------------

// NewTextMessage 建立純文字訊息
func NewTextMessage(role, text string) Message {
	return Message{
		Role:      role,
		Content:   text,
		Timestamp: time.Now().Unix(),
	}
}

// NewSystemMessage 建立系統訊息
func NewSystemMessage(text string) Message {
	return NewTextMessage(RoleSystem, text)
}

// NewUserMessage 建立使用者訊息
func NewUserMessage(text string) Message {
	return NewTextMessage(RoleUser, text)
}

// NewAssistantMessage 建立助理訊息
func NewAssistantMessage(text string) Message {
	return NewTextMessage(RoleAssistant, text)
}

// NewToolMessage 建立工具結果訊息，對應一個 ToolCall
func NewToolMessage(callID, toolName, text string) Message {
	m := NewTextMessage(RoleTool, text)
	m.ToolCallID = callID
	m.ToolName = toolName
	return m
}
