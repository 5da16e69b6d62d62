package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"notionbridge/pkg/api"
	"notionbridge/pkg/monitor"
	"notionbridge/pkg/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin enforcement happens in the CORS layer for the REST surface
	},
}

// wsIncoming is one chat frame from the frontend.
type wsIncoming struct {
	Text    string `json:"text"`
	UserID  string `json:"user_id"`
	Cookies string `json:"cookies"`
}

// SafeConn serializes concurrent writes to one websocket connection.
type SafeConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (sc *SafeConn) WriteJSON(v any) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.Conn.WriteJSON(v)
}

// wsNotifier forwards agent progress signals to the connected frontend.
type wsNotifier struct {
	conn *SafeConn
}

func (n *wsNotifier) Signal(value string) {
	if err := n.conn.WriteJSON(map[string]string{"type": "signal", "value": value}); err != nil {
		slog.Debug("Failed to send ws signal", "error", err)
	}
}

// handleWebSocket runs the same agent loop as /api/chat but streams tool
// activity signals while the loop is working.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	rawConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WS upgrade failed", "error", err)
		return
	}
	conn := &SafeConn{Conn: rawConn}
	defer conn.Close()

	notify := &wsNotifier{conn: conn}

	for {
		var incoming wsIncoming
		if err := conn.ReadJSON(&incoming); err != nil {
			return
		}
		if incoming.Text == "" {
			continue
		}

		cookies := incoming.Cookies
		if cookies == "" {
			cookies = r.Header.Get("Cookie")
		}

		ctx := context.WithValue(r.Context(), monitor.RequestIDKey, utils.ShortID())
		slog.InfoContext(ctx, "WS chat request received", "user_id", incoming.UserID)

		user := api.UserContext{UserID: incoming.UserID, Cookies: cookies}
		reply, runErr := s.engine.Run(ctx, incoming.Text, user, notify)

		frame := map[string]string{"type": "text", "text": reply}
		if runErr != nil {
			frame = map[string]string{"type": "error", "text": safeErrorReply}
			if reply != "" {
				frame["text"] = reply
			}
		}
		// A failed write means the peer is gone; stop the read loop.
		if err := conn.WriteJSON(frame); err != nil {
			return
		}
		if err := conn.WriteJSON(map[string]string{"type": "done"}); err != nil {
			return
		}
	}
}
