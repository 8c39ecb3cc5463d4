package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "debug", "json")

	assert.True(t, L.Enabled(context.Background(), slog.LevelDebug))
	Info("directory loaded", "count", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "directory loaded", line["msg"])
	assert.EqualValues(t, 3, line["count"])
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	custom := New(&buf, "info", "text").With("request_id", "12345")

	ctx := WithContext(context.Background(), custom)
	FromContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=12345")
	assert.Same(t, L, FromContext(context.Background()))
}

func TestDiscardIsSilent(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nothing") })
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%s) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
