package probe

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awhite/hostwatch/internal/config"
	"github.com/awhite/hostwatch/internal/logger"
)

func sshTarget(address string, port int) config.Target {
	return config.Target{
		Address:        address,
		SSH:            true,
		SSHPort:        port,
		SSHUser:        "tester",
		SSHPasswordEnv: "HOSTWATCH_TEST_SSH_PW",
	}
}

func TestSSHProbeConnectionRefused(t *testing.T) {
	t.Setenv("HOSTWATCH_TEST_SSH_PW", "pw")

	// Bind a port then close it so nothing is listening there
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	d := NewSSHDriver(logger.Noop())
	r := d.Probe(context.Background(), sshTarget("127.0.0.1", port), time.Second)

	assert.Equal(t, OutcomeConnectionRefused, r.Outcome)
	assert.Equal(t, KindSSH, r.Kind)
	assert.Equal(t, "127.0.0.1", r.Target)
}

func TestSSHProbeHandshakeFailure(t *testing.T) {
	t.Setenv("HOSTWATCH_TEST_SSH_PW", "pw")

	// Accept connections but speak no SSH; the handshake fails or times out,
	// never succeeds
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	d := NewSSHDriver(logger.Noop())
	r := d.Probe(context.Background(), sshTarget("127.0.0.1", port), time.Second)

	assert.NotEqual(t, OutcomeSuccess, r.Outcome)
}

func TestSSHProbeCancelled(t *testing.T) {
	t.Setenv("HOSTWATCH_TEST_SSH_PW", "pw")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewSSHDriver(logger.Noop())
	// Reserved TEST-NET address; the dial would block without the cancel
	r := d.Probe(ctx, sshTarget("192.0.2.1", 22), 5*time.Second)

	assert.Equal(t, OutcomeTimeout, r.Outcome, "cancellation is reported as timeout")
}

func TestSSHDriverKind(t *testing.T) {
	assert.Equal(t, KindSSH, NewSSHDriver(nil).Kind())
	assert.Equal(t, KindICMP, NewICMPDriver(false, nil).Kind())
}

func TestICMPProbeResolutionError(t *testing.T) {
	d := NewICMPDriver(false, logger.Noop())
	r := d.Probe(context.Background(), config.Target{Address: "no-such-host.invalid"}, time.Second)

	assert.Equal(t, OutcomeError, r.Outcome)
	assert.NotEmpty(t, r.Message)
}
