package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var stderr bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "rateboard.log")
	logger, cleanup, err := newLogger(&stderr, Options{Level: "debug", File: file, MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Debug("rates published", "id", 7)
	cleanup()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &entry))
	assert.Equal(t, "rates published", entry["msg"])
	assert.Equal(t, float64(7), entry["id"])

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, stderr.String(), string(data))
}

func TestLevelFiltering(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var stderr bytes.Buffer
	logger, cleanup, err := newLogger(&stderr, Options{Level: "warn"})
	require.NoError(t, err)
	defer cleanup()

	logger.Info("hidden")
	assert.Empty(t, stderr.String())
	logger.Warn("shown")
	assert.Contains(t, stderr.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
