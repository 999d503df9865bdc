package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New("debug", "json", &buf)

	l.Debug("hello", FieldComponent, ComponentApp)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, ComponentApp, entry[FieldComponent])
	assert.Contains(t, entry, "time")
}

func TestNewTextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", "text", &buf)

	l.Info("skipped")
	assert.Empty(t, buf.String())

	l.Warn("kept", FieldStatus, 503)
	assert.Contains(t, buf.String(), "msg=kept")
	assert.Contains(t, buf.String(), "status=503")
}

func TestFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	l := New("info", "text", &buf).With(FieldRequestID, "abc")
	ctx := WithContext(context.Background(), l)

	FromContext(ctx).Info("scoped")
	assert.Contains(t, buf.String(), "request_id=abc")
}
