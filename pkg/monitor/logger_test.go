package monitor

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := NewCustomHandler(buf, slog.HandlerOptions{Level: level})
	return slog.New(handler), buf
}

func TestHandlerFormat(t *testing.T) {
	logger, buf := newTestLogger(slog.LevelInfo)

	logger.Info("Chat request received", "user_id", "u1", "message_len", 12)

	line := buf.String()
	assert.Contains(t, line, "[INFO]")
	assert.Contains(t, line, "Chat request received")
	assert.Contains(t, line, "user_id=u1")
	assert.Contains(t, line, "message_len=12")
}

func TestHandlerQuotesValuesWithSpaces(t *testing.T) {
	logger, buf := newTestLogger(slog.LevelInfo)

	logger.Info("test", "reply", "found 2 pages")

	assert.Contains(t, buf.String(), `reply="found 2 pages"`)
}

func TestHandlerIncludesRequestID(t *testing.T) {
	logger, buf := newTestLogger(slog.LevelInfo)
	ctx := context.WithValue(context.Background(), RequestIDKey, "ab12")

	logger.InfoContext(ctx, "inside the loop")

	assert.Contains(t, buf.String(), "[ab12]")
}

func TestHandlerRespectsLevel(t *testing.T) {
	logger, buf := newTestLogger(slog.LevelWarn)

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestHandlerWithAttrs(t *testing.T) {
	base, buf := newTestLogger(slog.LevelInfo)
	logger := base.With("provider", "openai")

	logger.Info("ready")

	require.Contains(t, buf.String(), "provider=openai")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}
