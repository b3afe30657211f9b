package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "text", "warn")
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", "path", "sub repo")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `path="sub repo"`)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "json", "debug")
	require.NoError(t, err)

	log.Debug("query", "args", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "query", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, "xml", "info")
	assert.Error(t, err)

	_, err = New(nil, "text", "loud")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	lvl, err = ParseLevel("ERROR")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, lvl)
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Debug("x")
	log.Info("x")
	log.Warn("x")
	log.Error("x")
}
