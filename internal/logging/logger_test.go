package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureDefault routes the default logger into a buffer for the test and
// restores it afterwards.
func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	return &buf
}

func TestWithClient(t *testing.T) {
	buf := captureDefault(t)

	WithClient("b9d7a6e0-0000-4000-8000-000000000001").Info("Client connected", "total_clients", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "b9d7a6e0-0000-4000-8000-000000000001", entry["client_id"])
	assert.Equal(t, "Client connected", entry["msg"])
	assert.Equal(t, 3.0, entry["total_clients"])
}

func TestWithError(t *testing.T) {
	buf := captureDefault(t)

	WithError(errors.New("connection refused")).Error("Failed to connect to database")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "connection refused", entry["error"])
	assert.Equal(t, "Failed to connect to database", entry["msg"])
}

func TestInitLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			InitLogger(tt.level, "text")
			assert.True(t, Logger.Enabled(t.Context(), tt.want))
			if tt.want > slog.LevelDebug {
				assert.False(t, Logger.Enabled(t.Context(), tt.want-4))
			}
		})
	}
}
