package gemini

import (
	"context"

	"notionbridge/pkg/config"
	"notionbridge/pkg/llm"
)

// GeminiFactory handles creation of Gemini clients.
type GeminiFactory struct{}

// Create implements llm.ProviderFactory.
func (f *GeminiFactory) Create(cfg *config.Config) (llm.LLMClient, error) {
	return NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
}

func init() {
	llm.RegisterProvider("gemini", &GeminiFactory{})
}
