package openailm

import (
	"errors"

	"notionbridge/pkg/config"
	"notionbridge/pkg/llm"
)

var errNoChoices = errors.New("openai returned no choices")

// Factory handles creation of OpenAI clients.
type Factory struct{}

// Create implements llm.ProviderFactory.
func (f *Factory) Create(cfg *config.Config) (llm.LLMClient, error) {
	return NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, "")
}

func init() {
	llm.RegisterProvider("openai", &Factory{})
}
