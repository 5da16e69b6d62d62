package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// LLMClient 通用 LLM 客戶端介面
type LLMClient interface {
	// Chat 發送完整對話（含工具定義），回傳模型的下一則 assistant 訊息。
	// 回傳的訊息要嘛帶最終文字內容，要嘛帶一或多個 ToolCalls。
	Chat(ctx context.Context, messages []Message, tools []ToolSpec) (Message, error)

	// IsTransientError 判斷是否為暫時性錯誤 (如 503, Rate Limit)
	IsTransientError(err error) bool

	// Provider 回傳提供者名稱（"openai", "ollama", "gemini"）
	Provider() string
}

// FallbackClient 支援多個 Client 分級嘗試
type FallbackClient struct {
	Clients    []LLMClient
	MaxRetries int
	RetryDelay time.Duration
}

func (f *FallbackClient) Provider() string {
	return "fallback"
}

func (f *FallbackClient) Chat(ctx context.Context, messages []Message, tools []ToolSpec) (Message, error) {
	var lastErr error
	for i, client := range f.Clients {
		if i > 0 {
			slog.Warn("Previous provider failed, trying fallback provider", "index", i+1)
		}

		// 使用配置的重試次數，若為 0 則至少執行 1 次
		maxRetries := f.MaxRetries
		if maxRetries <= 0 {
			maxRetries = 1
		}

		for retry := 1; retry <= maxRetries; retry++ {
			if retry > 1 {
				slog.Info("Retrying provider", "provider", client.Provider(), "attempt", fmt.Sprintf("%d/%d", retry, maxRetries))
				select {
				case <-ctx.Done():
					return Message{}, ctx.Err()
				case <-time.After(time.Duration(retry-1) * f.RetryDelay):
				}
			}

			msg, err := client.Chat(ctx, messages, tools)
			if err == nil {
				return msg, nil
			}

			lastErr = err

			if client.IsTransientError(err) && retry < maxRetries {
				slog.Warn("Provider failed with transient error, retrying", "provider", client.Provider(), "error", err)
				continue
			}

			// 非暫時性錯誤，或者已達最大重試次數
			slog.Error("Provider failed", "provider", client.Provider(), "error", err)
			break
		}
	}
	return Message{}, fmt.Errorf("all fallback providers failed, last error: %w", lastErr)
}

// IsTransientError 實作 LLMClient 介面。FallbackClient 本身的錯誤意味著
// 所有 Child 都失敗了，因此視為非暫時性。
func (f *FallbackClient) IsTransientError(err error) bool {
	return false
}
