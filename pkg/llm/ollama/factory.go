package ollama

import (
	"notionbridge/pkg/config"
	"notionbridge/pkg/llm"
)

// OllamaFactory handles creation of Ollama clients.
type OllamaFactory struct{}

// Create implements llm.ProviderFactory.
func (f *OllamaFactory) Create(cfg *config.Config) (llm.LLMClient, error) {
	return NewOllamaClient(cfg.OllamaModel, cfg.OllamaBaseURL)
}

func init() {
	llm.RegisterProvider("ollama", &OllamaFactory{})
}
