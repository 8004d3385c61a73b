package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter("warn", &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	log.Sync()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestUnknownLevel(t *testing.T) {
	_, err := New("verbose")
	assert.Error(t, err)
}

func TestRedaction(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter("debug", &buf)
	require.NoError(t, err)

	log.Debug("call", "api_key", "sk-12345", "input_tokens", 42, "user_id", "alice")
	out := buf.String()

	assert.NotContains(t, out, "sk-12345")
	assert.Contains(t, out, "[REDACTED]")
	assert.Contains(t, out, "42")
	assert.NotContains(t, out, "alice")
	assert.Contains(t, out, "hash:")
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter("info", &buf)
	require.NoError(t, err)

	log.With("component", "store").Info("opened")
	assert.Contains(t, buf.String(), "store")
}

func TestNop(t *testing.T) {
	Nop().Error("nothing", "k", "v")
}
