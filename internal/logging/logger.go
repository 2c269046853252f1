package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// shortKeys maps verbose attribute names onto the abbreviations used in
// rendered trees and sequence listings, so log lines and tree output
// agree on vocabulary.
var shortKeys = map[string]string{
	"error":     "err",
	"interface": "ifc",
	"surface":   "ifc",
	"thickness": "thi",
}

// New creates the application logger writing to w at the given level.
// The CLI passes Stderr so rendered trees and exported documents keep
// Stdout to themselves.
func New(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if short, ok := shortKeys[a.Key]; ok {
				a.Key = short
			}
			return a
		},
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a CLI verbosity string to a slog level. Unknown
// values fall back to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
