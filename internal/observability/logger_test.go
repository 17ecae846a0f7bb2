package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, LevelFromString("debug"))
	assert.Equal(t, zerolog.InfoLevel, LevelFromString("INFO"))
	assert.Equal(t, zerolog.WarnLevel, LevelFromString("warning"))
	assert.Equal(t, zerolog.ErrorLevel, LevelFromString("error"))
	assert.Equal(t, zerolog.InfoLevel, LevelFromString("bogus"))
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: "info", Format: "json", Output: &buf, Version: "1.2.3"})

	logger.Debug().Msg("hidden")
	logger.Info().Str("table", "users").Msg("written")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "written", entry["message"])
	assert.Equal(t, "users", entry["table"])
	assert.Equal(t, ServiceName, entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: "debug", Format: "console", Output: &buf})

	logger.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.NotContains(t, buf.String(), "{")
}

func TestWithRun(t *testing.T) {
	var buf bytes.Buffer
	logger, runID := WithRun(NewLogger(LoggerConfig{Format: "json", Output: &buf}), "generate")

	_, err := uuid.Parse(runID)
	require.NoError(t, err)

	logger.Info().Msg("start")
	assert.Contains(t, buf.String(), runID)
	assert.Contains(t, buf.String(), `"command":"generate"`)
}

func TestAutoFormatIsJSONWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: "info", Format: "auto", Output: &buf})

	logger.Info().Msg("piped")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "piped", entry["message"])
}
