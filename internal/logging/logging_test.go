package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info")
	require.NoError(t, err)

	logger.Info().Str("lang", "ja-easy").Msg("race started")
	logger.Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "race started")
	assert.Contains(t, out, "lang=ja-easy")
	assert.NotContains(t, out, "hidden")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)

	lvl, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	_, err = ParseLevel("chatty")
	require.Error(t, err)

	_, err = New(&bytes.Buffer{}, "chatty")
	require.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "romarace.log")
	f, err := OpenFile(path)
	require.NoError(t, err)

	logger, err := New(f, "warn")
	require.NoError(t, err)
	logger.Warn().Msg("store unavailable")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "store unavailable")
}
