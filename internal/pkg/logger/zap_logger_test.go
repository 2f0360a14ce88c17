package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &ZapLogger{logger: zap.New(core)}, logs
}

func TestWriteLiftsSessionID(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)

	l.Warn("EMBEDDING", "embedding failed", map[string]interface{}{"session_id": "abc", "provider": "voyage"})

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "EMBEDDING", fields["module"])
	assert.Equal(t, "abc", fields["session_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestErrorAddsErrorRef(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)

	l.Error("GENERATION", "call failed", map[string]interface{}{"error": errors.New("boom").Error()})

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "boom", fields["error_ref"])
	assert.NotContains(t, fields, "session_id")
}

func TestWriteRespectsLevel(t *testing.T) {
	l, logs := newObserved(zapcore.InfoLevel)

	l.Debug("ROUTER", "fast path", nil)

	assert.Zero(t, logs.Len())
}
