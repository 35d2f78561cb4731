package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestNewWithConfig_JSONLevelAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithConfig("engine", Config{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	l.Infof("dropped")
	l.Named("leveling").Warnf("kept %d", 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "kept 1", rec["message"])
	assert.Equal(t, "leveling", rec["component"])
}

func TestNewWithConfig_Console(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithConfig("cli", Config{Format: "console"}, &buf)
	require.NoError(t, err)
	l.Infof("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestNewWithConfig_Invalid(t *testing.T) {
	_, err := NewWithConfig("x", Config{Level: "loud"}, nil)
	assert.Error(t, err)
	_, err = NewWithConfig("x", Config{Format: "xml"}, nil)
	assert.Error(t, err)
}
