package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notionbridge/pkg/agent"
	"notionbridge/pkg/api"
	"notionbridge/pkg/backend"
	"notionbridge/pkg/config"
	"notionbridge/pkg/llm"
	_ "notionbridge/pkg/llm/gemini"   // 註冊 Gemini Provider
	_ "notionbridge/pkg/llm/ollama"   // 註冊 Ollama Provider
	_ "notionbridge/pkg/llm/openailm" // 註冊 OpenAI Provider
	"notionbridge/pkg/mcp"
	"notionbridge/pkg/monitor"
	"notionbridge/pkg/server"
	"notionbridge/pkg/tools"
)

func main() {
	// --- 0. 讀取設定 ---
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet; plain stderr is fine here.
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	monitor.Startup(cfg.LogLevel)
	slog.Info("==========================================")

	// --- 1. LLM 設定 ---
	client, err := llm.NewFromConfig(cfg)
	if err != nil {
		slog.Error("Failed to init LLM client", "error", err)
		os.Exit(1)
	}

	// --- 2. 外部服務 ---
	backendClient := backend.New(cfg.BackendBaseURL, time.Duration(cfg.ToolTimeoutMs)*time.Millisecond)

	mcpClient := mcp.New(cfg.MCPServerPath, []string{"NOTION_TOKEN=" + cfg.NotionToken})
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mcpClient.Connect(connectCtx); err != nil {
		// Degraded mode: chat still works with backend tools only and the
		// health endpoint reports the missing connection.
		slog.Warn("MCP server unreachable, starting degraded", "path", cfg.MCPServerPath, "error", err)
	} else {
		slog.Info("MCP server connected", "path", cfg.MCPServerPath, "tools", mcpClient.ToolCount())
	}
	cancelConnect()

	// --- 3. 工具註冊 ---
	registry := tools.NewRegistry()
	register := func(tool api.Tool) {
		if err := registry.Register(tool); err != nil {
			slog.Error("Failed to register tool", "error", err)
			os.Exit(1)
		}
	}
	register(tools.NewGetUserInfoTool(backendClient))
	register(tools.NewSaveNotionDataTool(backendClient))
	for _, tool := range tools.DiscoverMCPTools(mcpClient) {
		if err := registry.Register(tool); err != nil {
			slog.Warn("Skipping MCP tool", "tool", tool.Name(), "error", err)
		}
	}

	// --- 4. Agent 引擎與 HTTP Facade ---
	executor := tools.NewExecutor(registry, time.Duration(cfg.ToolTimeoutMs)*time.Millisecond)
	engine := agent.New(client, registry, executor, cfg)

	srv := server.New(cfg, engine, mcpClient)
	srv.Start()

	// 監聽系統信號
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	slog.Info("Received shutdown signal, stopping services")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown error", "error", err)
	}
	if err := mcpClient.Close(); err != nil {
		slog.Error("MCP shutdown error", "error", err)
	}
	slog.Info("Bye!")
}
