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

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewWriterIsPlainText(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(NewWriter(&buf, zerolog.InfoLevel), "playback")

	logger.Debug().Msg("hidden")
	logger.Info().Str("track", "abc").Msg("track committed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "track committed")
	assert.Contains(t, out, "component=playback")
	assert.Contains(t, out, "track=abc")
	assert.NotContains(t, out, "\x1b[")
}

func TestNewCreatesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bctl.log")

	logger, closer, err := New(Options{Path: path, Level: "debug"})
	require.NoError(t, err)
	logger.Debug().Msg("media event received")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "media event received")
}

func TestNewRejectsBadInput(t *testing.T) {
	_, _, err := New(Options{})
	assert.Error(t, err)

	_, _, err = New(Options{Path: filepath.Join(t.TempDir(), "bctl.log"), Level: "nope"})
	assert.Error(t, err)
}
