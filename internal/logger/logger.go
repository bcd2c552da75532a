// Package logger builds the slog loggers used by obst. The MCP server logs
// to stderr in colour. The terminal UI owns the screen, so it appends plain
// text to a log file and tags every line with a per-run id.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

// New returns a tint-backed logger writing to w. Colour is disabled unless
// color is set, so log files stay plain text.
func New(w io.Writer, verbose, color bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:       level,
		NoColor:     !color,
		ReplaceAttr: replaceAttr,
	}))
}

// OpenFile appends to the log file at path, creating its directory, and
// returns a plain-text logger whose lines carry a fresh "run" attribute.
// The caller closes the returned file.
func OpenFile(path string, verbose bool) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, verbose, false).With("run", uuid.NewString()[:8]), f, nil
}

// replaceAttr prints timestamps in UTC with millisecond precision and drops
// empty string attributes, such as an unset table name.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		a.Value = slog.StringValue(formatRFC3339Millis(a.Value.Time()))
	}
	if s, ok := a.Value.Any().(string); ok && s == "" {
		return slog.Attr{}
	}
	return a
}

func formatRFC3339Millis(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s.%03dZ", t.Format("2006-01-02T15:04:05"), t.Nanosecond()/1_000_000)
}
