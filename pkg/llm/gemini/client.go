package gemini

import (
	"context"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"google.golang.org/genai"

	"notionbridge/pkg/llm"
	"notionbridge/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GeminiClient Google Gemini API client
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini client with a single model and API key
func NewGeminiClient(ctx context.Context, apiKey string, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (g *GeminiClient) Provider() string {
	return "gemini"
}

// Chat implements llm.LLMClient with a single GenerateContent exchange.
func (g *GeminiClient) Chat(ctx context.Context, messages []llm.Message, tools []llm.ToolSpec) (llm.Message, error) {
	contents, systemInstruction := convertMessages(messages)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Tools:             convertTools(tools),
	})
	if err != nil {
		return llm.Message{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return llm.Message{}, fmt.Errorf("gemini returned no candidates")
	}

	msg := llm.NewAssistantMessage("")
	msg.ID = utils.GenerateID()

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
		if part.FunctionCall != nil {
			argsB, _ := json.Marshal(part.FunctionCall.Args)
			name := part.FunctionCall.Name
			msg.ToolCalls = append(msg.ToolCalls, llm.ToolCall{
				ID:   utils.GenerateID(), // Gemini omits call ids; pairing needs one
				Name: name,
				Function: llm.FunctionCall{
					Name:      name,
					Arguments: string(argsB),
				},
			})
		}
	}
	msg.Content = text.String()

	return msg, nil
}

// convertMessages converts the conversation to GenAI format
func convertMessages(messages []llm.Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var systemInstruction *genai.Content

	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			systemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.Content}},
			}

		case llm.RoleTool:
			// Tool results travel as function responses in a user turn
			contents = append(contents, &genai.Content{
				Role: "user",
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						Name:     m.ToolName,
						Response: map[string]any{"result": m.Content},
					},
				}},
			})

		case llm.RoleAssistant:
			var parts []*genai.Part
			// Gemini requires echoing function calls before their responses
			for _, tc := range m.ToolCalls {
				var args map[string]any
				json.Unmarshal([]byte(tc.Function.Arguments), &args)
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						Name: tc.Function.Name,
						Args: args,
					},
				})
			}
			if m.Content != "" {
				parts = append(parts, &genai.Part{Text: m.Content})
			}
			if len(parts) > 0 {
				contents = append(contents, &genai.Content{Role: "model", Parts: parts})
			}

		default:
			if m.Content != "" {
				contents = append(contents, &genai.Content{
					Role:  "user",
					Parts: []*genai.Part{{Text: m.Content}},
				})
			}
		}
	}

	return contents, systemInstruction
}

func convertTools(tools []llm.ToolSpec) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	var fds []*genai.FunctionDeclaration
	for _, t := range tools {
		fd := &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
		}
		schemaB, _ := json.Marshal(t.Schema())
		var schema genai.Schema
		if err := json.Unmarshal(schemaB, &schema); err == nil {
			fd.Parameters = &schema
		}
		fds = append(fds, fd)
	}

	return []*genai.Tool{{FunctionDeclarations: fds}}
}

// IsTransientError implements the llm.LLMClient interface
func (g *GeminiClient) IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "503") || strings.Contains(errMsg, "overloaded") {
		return true
	}
	if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "resource exhausted") {
		return true
	}
	if strings.Contains(errMsg, "500") || strings.Contains(errMsg, "internal error") {
		return true
	}
	return false
}
