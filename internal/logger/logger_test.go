package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/config"
)

func TestNewWithWriter_Development(t *testing.T) {
	cfg := &config.Config{
		AppEnv:   "development",
		LogLevel: slog.LevelDebug,
	}

	var buf bytes.Buffer
	log := NewWithWriter(cfg, &buf)

	log.Info("test message", "key", "value")

	output := buf.String()
	assert.Contains(t, output, "msg=\"test message\"")
	assert.Contains(t, output, "key=value")
	assert.Contains(t, output, "service=prayog")
}

func TestNewWithWriter_Production(t *testing.T) {
	cfg := &config.Config{
		AppEnv:   "production",
		LogLevel: slog.LevelInfo,
	}

	var buf bytes.Buffer
	log := NewWithWriter(cfg, &buf)

	log.Info("test message", slog.String("key", "value"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "prayog", entry["service"])
}

func TestNewWithWriter_LogLevels(t *testing.T) {
	cfg := &config.Config{
		AppEnv:   "production",
		LogLevel: slog.LevelInfo,
	}

	var buf bytes.Buffer
	log := NewWithWriter(cfg, &buf)

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warn message")
}

func TestNew_SetsDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	log := New(&config.Config{LogLevel: slog.LevelError})

	assert.NotNil(t, log)
	assert.Equal(t, log, slog.Default())
}
