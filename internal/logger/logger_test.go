package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_AttachesServiceAttributes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore("kiosk", core)

	log.Info("order_placed", "Order placed", "req-1", map[string]interface{}{"total": 2000})

	entries := logs.All()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "Order placed", entry.Message)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	ctx := entry.ContextMap()
	assert.Equal(t, "kiosk", ctx["service"])
	assert.Equal(t, "order_placed", ctx["action"])
	assert.Equal(t, "req-1", ctx["request_id"])
	assert.Contains(t, ctx, "hostname")
	assert.Equal(t, map[string]interface{}{"total": 2000}, ctx["details"])
}

func TestLogger_ErrorIncludesCause(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore("kiosk", core)

	log.Error("save_failed", "Failed to save orders", "req-2", errors.New("disk full"), nil)

	entries := logs.FilterField(zapcore.Field{Key: "action", Type: zapcore.StringType, String: "save_failed"}).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "disk full", entries[0].ContextMap()["error"])
	assert.NotContains(t, entries[0].ContextMap(), "details")
}

func TestLogger_LevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := NewWithCore("kiosk", core)

	log.Debug("noise", "debug entry", "", nil)
	log.Info("noise", "info entry", "", nil)
	log.Warn("store_load_failed", "warn entry", "", nil)

	assert.Equal(t, 1, logs.Len())
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snack.log")
	log, err := New("kiosk", "info", path)
	require.NoError(t, err)

	log.Info("session_started", "Session started", "req-3", nil)
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.True(t, strings.HasPrefix(line, "{"))
	assert.Contains(t, line, `"action":"session_started"`)
	assert.Contains(t, line, `"timestamp"`)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("kiosk", "loud", "stderr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}

func TestGenerateRequestID_Unique(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Error("anything", "ignored", "", errors.New("ignored"), nil)
}
