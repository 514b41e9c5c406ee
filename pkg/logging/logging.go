// Package logging builds the slog loggers used by the command line tool.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// levelOff is above every standard level.
const levelOff = slog.Level(100)

// New returns a logger writing to w. An unknown format is an error so that
// a typo in configuration does not silently change the output.
func New(w io.Writer, level slog.Level, format Format) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch Format(strings.ToLower(string(format))) {
	case FormatText, "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: levelOff}))
}

// LevelFromString converts debug, info, warn or error (any case) to a
// slog.Level. "off" and "quiet" disable logging. Anything else is info.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "off", "quiet":
		return levelOff
	default:
		return slog.LevelInfo
	}
}
