package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetLogLevel(tt.in), "level %q", tt.in)
	}
}

func TestValidateLogLevel(t *testing.T) {
	assert.Equal(t, "debug", ValidateLogLevel("debug"))
	assert.Equal(t, "info", ValidateLogLevel("nonsense"))
}

func TestValidateLogFormat(t *testing.T) {
	assert.Equal(t, "json", ValidateLogFormat("json"))
	assert.Equal(t, "text", ValidateLogFormat("text"))
	assert.Equal(t, "text", ValidateLogFormat("xml"))
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLoggerWithOutput("info", "json", &buf)
	logger.Info("hello", "key", "value")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "value", record["key"])
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLoggerWithOutput("error", "text", &buf)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	SetLevel("debug")
	logger.Debug("kept")
	assert.Contains(t, buf.String(), "kept")
}
