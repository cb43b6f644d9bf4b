package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopLoggerDiscards(t *testing.T) {
	l := Noop()

	// None of these should panic or produce output
	l.Debug("debug %d", 1)
	l.Info("info %s", "msg")
	l.Warn("warn")
	l.Error("error")
}

func TestBufferLoggerCaptures(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("probe %s queued", "icmp:8.8.8.8")
	l.Info("tick %d", 3)
	l.Warn("slow target %s", "10.0.0.1")
	l.Error("store rejected stale result")

	require.Len(t, l.Messages, 4)
	assert.Equal(t, "debug", l.Messages[0].Level)
	assert.Equal(t, "probe icmp:8.8.8.8 queued", l.Messages[0].Message)
	assert.Equal(t, "tick 3", l.Messages[1].Message)
	assert.True(t, l.HasLevel("warn"))
	assert.True(t, l.HasLevel("error"))
	assert.False(t, l.HasLevel("fatal"))
}

func TestBufferLoggerClear(t *testing.T) {
	l := NewBufferLogger()
	l.Info("one")
	l.Clear()

	assert.Empty(t, l.Messages)
	assert.False(t, l.HasLevel("info"))
}

func TestSetDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	buf := NewBufferLogger()
	SetDefault(buf)

	Default().Info("routed to buffer")
	require.Len(t, buf.Messages, 1)
	assert.Equal(t, "routed to buffer", buf.Messages[0].Message)
}
