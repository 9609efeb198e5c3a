package logging

import (
	"bytes"
	"context"
	"customer-service/internal/config"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewHandler(t *testing.T) {
	t.Run("json encoding by default", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(newHandler(&buf, config.LoggerConfig{Level: "info"}))

		logger.Info("hello", "component", "test")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "test", entry["component"])
	})

	t.Run("text encoding", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(newHandler(&buf, config.LoggerConfig{Level: "info", Encoding: "text"}))

		logger.Info("hello")

		assert.True(t, strings.Contains(buf.String(), "msg=hello"))
	})

	t.Run("level filters lower records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(newHandler(&buf, config.LoggerConfig{Level: "warn"}))

		logger.Info("dropped")
		assert.Empty(t, buf.String())
		assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	})
}

func TestNewGormLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	gl := NewGormLogger(logger, slog.LevelInfo)
	require.NotNil(t, gl)

	gl.Warn(context.Background(), "slow %s", "query")
	assert.Contains(t, buf.String(), "component=gorm")

	buf.Reset()
	gl.Info(context.Background(), "statement")
	assert.Empty(t, buf.String(), "info statements are dropped outside debug")

	debug := NewGormLogger(logger, slog.LevelDebug).LogMode(gormlogger.Info)
	debug.Info(context.Background(), "statement")
	assert.Contains(t, buf.String(), "statement")
}
