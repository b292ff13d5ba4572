package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/mpgscenes/internal/config"
)

func TestNewJSONWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	log.With("component", "test").InfoContext(ctx, "hello", "scene", "scene1")

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "test", rec["component"])
	assert.Equal(t, "scene1", rec["scene"])
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
