package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obst/internal/logger"
)

func TestNew_LevelAndEmptyAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, false, false)

	log.Debug("hidden")
	log.Info("observation created", "table", "Mood", "note", "")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "observation created")
	assert.Contains(t, out, "table=Mood")
	assert.NotContains(t, out, "note=")
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger.New(&buf, true, false).Debug("statement", "sql", "SELECT 1")
	assert.Contains(t, buf.String(), "statement")
}

func TestFormatRFC3339Millis(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 678_900_000, time.FixedZone("x", 3600))
	assert.Equal(t, "2026-01-02T02:04:05.678Z", logger.FormatRFC3339Millis(ts))
}

func TestOpenFile_AppendsWithRunID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "obst.log")

	log, f, err := logger.OpenFile(path, false)
	require.NoError(t, err)
	log.Info("first run")
	require.NoError(t, f.Close())

	log, f, err = logger.OpenFile(path, false)
	require.NoError(t, err)
	log.Info("second run")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "first run")
	assert.Contains(t, out, "second run")
	assert.NotContains(t, out, "\x1b[")

	runs := regexp.MustCompile(`run=([0-9a-f]{8})`).FindAllStringSubmatch(out, -1)
	require.Len(t, runs, 2)
	assert.NotEqual(t, runs[0][1], runs[1][1])
}

func TestOpenFile_BadDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, _, err := logger.OpenFile(filepath.Join(blocker, "obst.log"), false)
	assert.ErrorContains(t, err, "create log directory")
}
