package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{"username", "alice", "password", "hunter2", "access_token", "abc", "dangling"})
	assert.Equal(t, []interface{}{"username", "alice", "password", "[REDACTED]", "access_token", "[REDACTED]", "dangling"}, got)
}

func TestLoggerWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "reporter").Info("engagement event reported", "event_type", "video_play", "token", "x")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "reporter", fields["component"])
		assert.Equal(t, "video_play", fields["event_type"])
		assert.Equal(t, "[REDACTED]", fields["token"])
	}
}

func TestNewModes(t *testing.T) {
	for _, production := range []bool{false, true} {
		l, err := New(production)
		assert.NoError(t, err)
		assert.NotNil(t, l)
	}
}
