// Package server is the HTTP facade: it exposes the chat and health
// endpoints consumed by the web frontend and translates between transport
// payloads and the agent engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"notionbridge/pkg/agent"
	"notionbridge/pkg/api"
	"notionbridge/pkg/config"
	"notionbridge/pkg/monitor"
	"notionbridge/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// safeErrorReply is shown to callers when the model transport fails; no
// internal detail leaves the process.
const safeErrorReply = "요청을 처리하지 못했습니다. 잠시 후 다시 시도해주세요."

// MCPStatus is the slice of the MCP client the health endpoint needs.
type MCPStatus interface {
	Connected() bool
	ToolCount() int
}

// ChatRequest is the inbound body of POST /api/chat. Cookies carries the
// frontend session cookies for user-scoped tool calls; when absent the
// request's Cookie header is used instead.
type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Cookies string `json:"cookies"`
}

// ChatResponse is the outbound body of POST /api/chat.
type ChatResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

// HealthResponse is the outbound body of GET /api/health.
type HealthResponse struct {
	Status       string `json:"status"`
	MCPConnected bool   `json:"mcp_connected"`
	ToolsCount   int    `json:"tools_count"`
}

// Server hosts the HTTP facade.
type Server struct {
	cfg    *config.Config
	engine api.AgentEngine
	mcp    MCPStatus
	server *http.Server
}

// New creates the facade over the given engine and MCP status source.
func New(cfg *config.Config, engine api.AgentEngine, mcp MCPStatus) *Server {
	return &Server{
		cfg:    cfg,
		engine: engine,
		mcp:    mcp,
	}
}

// Handler builds the full route table, wrapped in CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return s.corsMiddleware(mux)
}

// Start begins serving in the background.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	slog.Info("HTTP facade listening", "port", s.cfg.Port)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "AI Agent bridge server is running",
		"status":  "ok",
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	// The request context carries cancellation from the client: an aborted
	// request stops the loop before the next model or tool call.
	ctx := context.WithValue(r.Context(), monitor.RequestIDKey, utils.ShortID())

	cookies := req.Cookies
	if cookies == "" {
		cookies = r.Header.Get("Cookie")
	}

	slog.InfoContext(ctx, "Chat request received",
		"user_id", req.UserID, "message_len", len(req.Message), "has_cookies", cookies != "")

	reply, err := s.engine.Run(ctx, req.Message, api.UserContext{UserID: req.UserID, Cookies: cookies}, nil)
	if err != nil {
		if errors.Is(err, agent.ErrLoopExceeded) {
			// Degraded but intelligible: hand back whatever the loop salvaged.
			writeJSON(w, http.StatusOK, ChatResponse{Response: reply, Status: "error"})
			return
		}
		slog.ErrorContext(ctx, "Chat request failed", "error", err)
		writeJSON(w, http.StatusOK, ChatResponse{Response: safeErrorReply, Status: "error"})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: reply, Status: "success"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	connected := s.mcp.Connected()
	status := "healthy"
	if !connected {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       status,
		MCPConnected: connected,
		ToolsCount:   s.mcp.ToolCount(),
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
