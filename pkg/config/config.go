package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the entire process configuration. It is built once from the
// environment at startup, validated, and then passed explicitly into every
// component that needs it. Nothing reads the environment after Load returns.
type Config struct {
	// LLMProvider selects the model backend: "openai", "ollama" or "gemini".
	LLMProvider string
	// OpenAIAPIKey is the credential for OpenAI chat completion calls.
	// Mandatory when LLMProvider is "openai".
	OpenAIAPIKey string
	// OpenAIModel is the model identifier sent with every completion request.
	OpenAIModel string
	// GeminiAPIKey is the credential for Gemini calls. Mandatory when
	// LLMProvider is "gemini".
	GeminiAPIKey string
	// GeminiModel is the model identifier for Gemini requests.
	GeminiModel string
	// OllamaBaseURL overrides the local Ollama endpoint. Empty means the
	// SDK's environment-based default.
	OllamaBaseURL string
	// OllamaModel is the local model name used when LLMProvider is "ollama".
	OllamaModel string

	// NotionToken is forwarded into the MCP server's environment so it can
	// authenticate against the Notion API. The bridge never uses it directly.
	NotionToken string
	// MCPServerPath locates the tool-providing MCP service: either a stdio
	// command (a bare .py path is run with python3) or an http(s) endpoint.
	MCPServerPath string

	// BackendBaseURL is the base URL of the user-data backend API.
	BackendBaseURL string

	// Port is the listen port of the HTTP facade.
	Port int
	// AllowedOrigin is the frontend origin granted CORS access.
	AllowedOrigin string

	// MaxRounds caps the number of model rounds within one agent loop run.
	MaxRounds int
	// LLMTimeoutMs is the hard cutoff (in milliseconds) for a single model
	// request. The context is cancelled when exceeded.
	LLMTimeoutMs int
	// ToolTimeoutMs is the per-tool-call timeout in milliseconds.
	ToolTimeoutMs int
	// MaxRetries is the number of attempts for transient model errors.
	MaxRetries int
	// RetryDelayMs is the wait between consecutive retry attempts.
	RetryDelayMs int

	// LogLevel sets the minimum severity for log output.
	// Accepted values: "debug", "info", "warn", "error". Default: "info".
	LogLevel string
}

// Load builds a Config from the process environment, applying defaults for
// every optional knob, then validates it.
func Load() (*Config, error) {
	cfg := &Config{
		LLMProvider:    getEnv("LLM_PROVIDER", "openai"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OllamaBaseURL:  os.Getenv("OLLAMA_BASE_URL"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "llama3.2"),
		NotionToken:    os.Getenv("NOTION_TOKEN"),
		MCPServerPath:  getEnv("MCP_SERVER_PATH", "server.py"),
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:8080"),
		Port:           getEnvInt("PORT", 8081),
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		MaxRounds:      getEnvInt("MAX_ROUNDS", 10),
		LLMTimeoutMs:   getEnvInt("LLM_TIMEOUT_MS", 120000),
		ToolTimeoutMs:  getEnvInt("TOOL_TIMEOUT_MS", 30000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		RetryDelayMs:   getEnvInt("RETRY_DELAY_MS", 500),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures all mandatory credentials for the selected provider are
// present. It reports every missing variable at once so operators can fix
// their environment in a single pass.
func (c *Config) Validate() error {
	var missing []string

	switch c.LLMProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	case "ollama":
		// Local provider, no credential required.
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q (expected openai, ollama or gemini)", c.LLMProvider)
	}

	if c.NotionToken == "" {
		missing = append(missing, "NOTION_TOKEN")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.MaxRounds <= 0 {
		return fmt.Errorf("MAX_ROUNDS must be positive, got %d", c.MaxRounds)
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
