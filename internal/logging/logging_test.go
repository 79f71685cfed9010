package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiHandlerFansOut(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer
	debug := slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	errorsOnly := slog.NewJSONHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError})

	logger := slog.New(NewMultiHandler(debug, errorsOnly)).With("service", "nutriai")
	logger.Info("meal created")
	logger.Error("db down", "error", "timeout")

	assert.Equal(t, 2, bytes.Count(debugBuf.Bytes(), []byte("\n")))
	require.Equal(t, 1, bytes.Count(errorBuf.Bytes(), []byte("\n")))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(errorBuf.Bytes(), &rec))
	assert.Equal(t, "db down", rec["msg"])
	assert.Equal(t, "nutriai", rec["service"])
}

func TestMultiHandlerEnabled(t *testing.T) {
	h := NewMultiHandler(slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}))
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestToSystemLog(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := slog.NewRecord(now, slog.LevelError, "unhandled server error", 0)
	rec.AddAttrs(
		slog.String("method", "POST"),
		slog.String("path", "/api/meals"),
		slog.String("error", "boom"),
		slog.Float64("latency_ms", 12.6),
		slog.String("meal_type", "lunch"),
	)

	entry := toSystemLog(rec, []slog.Attr{slog.String("request_id", "req-1"), slog.String("user_id", "u-1")})

	assert.Equal(t, now, entry.Timestamp)
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "req-1", entry.TraceID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u-1", *entry.UserID)
	assert.Equal(t, "POST", entry.Method)
	assert.Equal(t, "/api/meals", entry.Path)
	assert.Equal(t, "boom", entry.Error)
	assert.Equal(t, 13, entry.LatencyMs)
	assert.JSONEq(t, `{"meal_type":"lunch"}`, string(entry.Extra))
}

func TestPGHandlerOnlyErrors(t *testing.T) {
	h := &PGHandler{}
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestNewJSONHandlerLevel(t *testing.T) {
	assert.False(t, NewJSONHandler(&bytes.Buffer{}, "production").Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, NewJSONHandler(&bytes.Buffer{}, "development").Enabled(context.Background(), slog.LevelDebug))
}
