package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrConfig, "No targets configured", "Add a target with --ip or run 'hostwatch init'")

	assert.Equal(t, ErrConfig, err.Code)
	assert.Equal(t, "No targets configured", err.Message)
	assert.Nil(t, err.Cause)
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "message only",
			err:      New(ErrEngine, "Scheduler stopped unexpectedly", ""),
			contains: []string{"✗ Scheduler stopped unexpectedly"},
		},
		{
			name:     "message and suggestion",
			err:      New(ErrICMP, "Can't open ICMP socket", "Run with sudo or grant CAP_NET_RAW"),
			contains: []string{"✗ Can't open ICMP socket", "Run with sudo or grant CAP_NET_RAW"},
		},
		{
			name:     "with cause",
			err:      WrapWithCode(fmt.Errorf("dial tcp: i/o timeout"), ErrSSH, "SSH probe failed", "Check the host is up"),
			contains: []string{"✗ SSH probe failed", "dial tcp: i/o timeout", "Check the host is up"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				assert.Contains(t, msg, want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, "Probe failed")

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestIsCode(t *testing.T) {
	err := New(ErrSSH, "Auth failed", "")

	assert.True(t, IsCode(err, ErrSSH))
	assert.False(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(nil, ErrSSH))
	assert.False(t, IsCode(fmt.Errorf("plain error"), ErrSSH))
}

func TestIsCodeWrapped(t *testing.T) {
	inner := New(ErrICMP, "Privilege error", "")
	outer := fmt.Errorf("starting engine: %w", inner)

	require.True(t, IsCode(outer, ErrICMP))
}
