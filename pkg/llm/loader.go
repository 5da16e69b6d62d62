package llm

import (
	"fmt"
	"log/slog"
	"time"

	"notionbridge/pkg/config"
)

// NewFromConfig 根據設定建立 LLM Client。
// Provider factories self-register via init, so callers must blank-import
// the provider packages they want available.
func NewFromConfig(cfg *config.Config) (LLMClient, error) {
	factory, ok := GetProviderFactory(cfg.LLMProvider)
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.LLMProvider)
	}

	client, err := factory.Create(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.LLMProvider, err)
	}

	slog.Info("LLM client initialized", "provider", client.Provider())

	if cfg.MaxRetries <= 1 {
		return client, nil
	}

	// 包裹在 FallbackClient 中，代入系統層級的重試設定
	return &FallbackClient{
		Clients:    []LLMClient{client},
		MaxRetries: cfg.MaxRetries,
		RetryDelay: time.Duration(cfg.RetryDelayMs) * time.Millisecond,
	}, nil
}
