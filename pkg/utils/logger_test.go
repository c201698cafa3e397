package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_Verbose(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "tdl.log")
	logger, err := InitLogger(true, path)
	require.NoError(t, err)

	logger.Debug("task added", "id", "abc")
	CloseLogger()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "verbose logging enabled")
	assert.Contains(t, string(data), "task added")
	assert.Contains(t, string(data), "id=abc")
}

func TestInitLogger_Quiet(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger, err := InitLogger(false, "")
	require.NoError(t, err)
	assert.Same(t, logger, slog.Default())
	CloseLogger()
}

func TestDefaultLogPath(t *testing.T) {
	day := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "/tmp/tdl_2026-01-02.log", DefaultLogPath(day))
}

func TestInitLogger_BadPath(t *testing.T) {
	_, err := InitLogger(true, filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
}
