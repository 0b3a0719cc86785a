package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineLogger_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := NewPipelineLogger(NewHandler(&buf, "json", "info"), "production")

	logger.Info(context.Background(), "connecting to graph",
		"uri", "bolt://localhost:7687",
		"password", "s3cret",
		"api_key", "sk-test",
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "[REDACTED]", entry["password"])
	assert.Equal(t, "[REDACTED]", entry["api_key"])
	assert.Equal(t, "bolt://localhost:7687", entry["uri"])
	assert.Equal(t, "production", entry["environment"])
}

func TestPipelineLogger_DebugSkipsRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewPipelineLogger(NewHandler(&buf, "json", "debug"), "development")

	logger.Debug(context.Background(), "resolved config", "password", "s3cret")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "s3cret", entry["password"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestNewHandler_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	handler := NewHandler(&buf, "text", "info")

	slog.New(handler).Info("hello", "system", "web-01")

	assert.Contains(t, buf.String(), "system=web-01")
}
