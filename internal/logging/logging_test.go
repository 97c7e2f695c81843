package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(&buf, "info", "json")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("page loaded", slog.String("page", "tickets"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "page loaded", entry["msg"])
	assert.Equal(t, "tickets", entry["page"])
	assert.Equal(t, "console", entry["service"])
}

func TestLevelReload(t *testing.T) {
	var buf bytes.Buffer
	logger, lvl, err := New(&buf, "warn", "text")
	require.NoError(t, err)

	logger.Info("first")
	assert.Empty(t, buf.String())

	require.NoError(t, SetLevel(lvl, "debug"))
	logger.Debug("second")
	assert.Contains(t, buf.String(), "msg=second")

	assert.Error(t, SetLevel(lvl, "loud"))
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, _, err := New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	scoped := fallback.With(slog.String("request_id", "r1"))

	assert.Same(t, fallback, FromContext(context.Background(), fallback))
	assert.Same(t, scoped, FromContext(WithLogger(context.Background(), scoped), fallback))
}
