package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "chatty"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestDevelopmentConfig(t *testing.T) {
	cfg := DevelopmentConfig()
	assert.Equal(t, "debug", cfg.Level)
	assert.True(t, cfg.Development)

	logger, err := New(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
	assert.NotNil(t, NewNop().Named("x"))
}

func TestRotatingFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webos.log")
	cfg := DefaultConfig()
	cfg.OutputPaths = nil
	cfg.File = path

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Named("session").Info("snapshot flushed", zap.String("session", "default"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"snapshot flushed"`)
	assert.Contains(t, string(data), `"logger":"session"`)
}

func TestLevelFiltersFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webos.log")
	cfg := DefaultConfig()
	cfg.Level = "warn"
	cfg.OutputPaths = nil
	cfg.File = path

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}
