package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LLM_PROVIDER", "OPENAI_API_KEY", "OPENAI_MODEL",
		"GEMINI_API_KEY", "GEMINI_MODEL", "OLLAMA_BASE_URL", "OLLAMA_MODEL",
		"NOTION_TOKEN", "MCP_SERVER_PATH", "BACKEND_BASE_URL",
		"PORT", "ALLOWED_ORIGIN", "MAX_ROUNDS",
		"LLM_TIMEOUT_MS", "TOOL_TIMEOUT_MS", "MAX_RETRIES", "RETRY_DELAY_MS",
		"LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("NOTION_TOKEN", "ntn-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, "server.py", cfg.MCPServerPath)
	assert.Equal(t, "http://localhost:8080", cfg.BackendBaseURL)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.AllowedOrigin)
	assert.Equal(t, 10, cfg.MaxRounds)
	assert.Equal(t, 120000, cfg.LLMTimeoutMs)
	assert.Equal(t, 30000, cfg.ToolTimeoutMs)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadReportsAllMissingVarsAtOnce(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	assert.Contains(t, err.Error(), "NOTION_TOKEN")
}

func TestLoadGeminiProviderRequiresGeminiKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("NOTION_TOKEN", "ntn-test")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.NotContains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadOllamaNeedsNoCredential(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("NOTION_TOKEN", "ntn-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", cfg.OllamaModel)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "claude")
	t.Setenv("NOTION_TOKEN", "ntn-test")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM_PROVIDER")
}

func TestLoadRejectsNonPositiveMaxRounds(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("NOTION_TOKEN", "ntn-test")
	t.Setenv("MAX_ROUNDS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_ROUNDS")
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	assert.Equal(t, 8081, getEnvInt("PORT", 8081))
}
