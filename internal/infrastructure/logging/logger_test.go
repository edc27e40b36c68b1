package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(NewWithWriter(&buf, "json", "debug"), "payment", "gateway")
	logger.Debug().Str("endpoint", "http://x/v3/payments").Msg("create start")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "payment", entry["scope"])
	require.Equal(t, "gateway", entry["layer"])
	require.Equal(t, "create start", entry["message"])
}

func TestNewWithWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "json", "not-a-level")
	logger.Debug().Msg("hidden")
	require.Zero(t, buf.Len(), "invalid level must fall back to info")

	logger.Info().Msg("shown")
	require.NotZero(t, buf.Len())
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("X-Api-Key", "super-secret")

	got := RedactHeaders(h, "x-api-key")
	require.Equal(t, "application/json", got["Content-Type"])
	require.Equal(t, "[REDACTED]", got["X-Api-Key"])
	for _, v := range got {
		require.NotContains(t, v, "super-secret")
	}
}
