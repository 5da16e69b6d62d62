package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notionbridge/pkg/api"
)

// signalingEngine emits a tool signal before answering, mimicking one
// tool-calling round.
type signalingEngine struct {
	reply string
	err   error
	user  api.UserContext
}

func (e *signalingEngine) Run(ctx context.Context, message string, user api.UserContext, notify api.Notifier) (string, error) {
	e.user = user
	notify.Signal("thinking")
	notify.Signal("tool:notion_search")
	notify.Signal("tool_done:notion_search")
	return e.reply, e.err
}

func dialWS(t *testing.T, engine api.AgentEngine) *websocket.Conn {
	t.Helper()
	srv := testServer(engine, &fakeMCP{connected: true})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrames(t *testing.T, conn *websocket.Conn) []map[string]string {
	t.Helper()
	var frames []map[string]string
	for {
		var frame map[string]string
		require.NoError(t, conn.ReadJSON(&frame))
		frames = append(frames, frame)
		if frame["type"] == "done" {
			return frames
		}
	}
}

func TestWebSocketChatRoundTrip(t *testing.T) {
	engine := &signalingEngine{reply: "검색 결과입니다."}
	conn := dialWS(t, engine)

	require.NoError(t, conn.WriteJSON(wsIncoming{Text: "find notes", UserID: "u1", Cookies: "session=abc"}))

	frames := readFrames(t, conn)
	require.Len(t, frames, 5)

	assert.Equal(t, "signal", frames[0]["type"])
	assert.Equal(t, "thinking", frames[0]["value"])
	assert.Equal(t, "tool:notion_search", frames[1]["value"])
	assert.Equal(t, "tool_done:notion_search", frames[2]["value"])

	assert.Equal(t, "text", frames[3]["type"])
	assert.Equal(t, "검색 결과입니다.", frames[3]["text"])
	assert.Equal(t, "done", frames[4]["type"])

	assert.Equal(t, "u1", engine.user.UserID)
	assert.Equal(t, "session=abc", engine.user.Cookies)
}

func TestWebSocketEngineFailure(t *testing.T) {
	conn := dialWS(t, &signalingEngine{err: assert.AnError})

	require.NoError(t, conn.WriteJSON(wsIncoming{Text: "boom"}))

	frames := readFrames(t, conn)
	last := frames[len(frames)-2]
	assert.Equal(t, "error", last["type"])
	assert.Equal(t, safeErrorReply, last["text"])
}

func TestWebSocketIgnoresEmptyText(t *testing.T) {
	conn := dialWS(t, &signalingEngine{reply: "ok"})

	require.NoError(t, conn.WriteJSON(wsIncoming{Text: ""})) // skipped
	require.NoError(t, conn.WriteJSON(wsIncoming{Text: "real"}))

	frames := readFrames(t, conn)
	// Only the second frame produced output, starting with its signals.
	assert.Equal(t, "signal", frames[0]["type"])
	assert.Equal(t, "text", frames[len(frames)-2]["type"])
	assert.Equal(t, "ok", frames[len(frames)-2]["text"])
}
