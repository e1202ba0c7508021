package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer

	log, err := New(&buf, "info", FormatJSON)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Warn("unexpected element, ignoring", zap.String("name", "bogus"))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "unexpected element, ignoring", entry["msg"])
	assert.Equal(t, "bogus", entry["name"])
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer

	log, err := New(&buf, "debug", "")
	require.NoError(t, err)

	log.Debug("reading document", zap.String("root", "order"))

	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "reading document")
	assert.Contains(t, buf.String(), `{"root": "order"}`)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", FormatJSON)
	require.Error(t, err)

	_, err = New(&bytes.Buffer{}, "info", "xml")
	assert.EqualError(t, err, `unknown log format "xml"`)
}
