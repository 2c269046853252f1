package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewShortensAttrKeys(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug)

	log.Warn("glass not found", "surface", 3, "error", "no catalog entry")

	out := buf.String()
	assert.Contains(t, out, "ifc=3")
	assert.Contains(t, out, "err=")
	assert.NotContains(t, out, "surface=")
	assert.NotContains(t, out, "error=")
}

func TestNewNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() { NewNop().Info("quiet") })
}
