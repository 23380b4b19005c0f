package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/0xalexb/hjarta-rc/logging"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.NewLogger(logging.LoggerConfig{Level: "info"}, &buf)
	logger.Info("remote config fetched", slog.Bool("updated", true))

	var entry map[string]any

	require.NoError(t, gojson.Unmarshal(buf.Bytes(), &entry), "output should be valid JSON")
	assert.Equal(t, "remote config fetched", entry["msg"])
	assert.Equal(t, true, entry["updated"])
	assert.Equal(t, "INFO", entry["level"])
	assert.NotContains(t, entry, slog.SourceKey)
}

func TestNewLogger_TextOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.NewLogger(logging.LoggerConfig{Format: "TEXT"}, &buf)
	logger.Warn("parameter snapshot not modified", "endpoint", "http://config")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="parameter snapshot not modified"`)
	assert.Contains(t, out, "endpoint=http://config")
}

func TestNewLogger_AddSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.NewLogger(logging.LoggerConfig{AddSource: true}, &buf)
	logger.Info("with source")

	var entry map[string]any

	require.NoError(t, gojson.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, entry, slog.SourceKey)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected slog.Level
	}{
		{input: "DEBUG", expected: slog.LevelDebug},
		{input: "debug", expected: slog.LevelDebug},
		{input: "INFO", expected: slog.LevelInfo},
		{input: " warn ", expected: slog.LevelWarn},
		{input: "WARNING", expected: slog.LevelWarn},
		{input: "Error", expected: slog.LevelError},
		{input: "", expected: slog.LevelInfo},
		{input: "verbose", expected: slog.LevelInfo},
	}

	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, logging.ParseLevel(testCase.input))
		})
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.NewLogger(logging.LoggerConfig{Level: "WARN"}, &buf)

	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	logger.Info("dropped")
	assert.Empty(t, buf.String())
}
