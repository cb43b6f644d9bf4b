package probe

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/awhite/hostwatch/internal/config"
	"github.com/awhite/hostwatch/internal/logger"
	"github.com/awhite/hostwatch/pkg/sshutil"
)

// SSHDriver probes targets by opening a TCP connection, completing the SSH
// handshake, and authenticating with the target's credential reference.
// Latency is the full connect+auth time. The connection is closed on every
// exit path; a long-running process must not leak a descriptor per tick.
type SSHDriver struct {
	log logger.Logger
}

// NewSSHDriver creates the SSH driver.
func NewSSHDriver(log logger.Logger) *SSHDriver {
	if log == nil {
		log = logger.Noop()
	}
	return &SSHDriver{log: log}
}

// Kind returns KindSSH.
func (d *SSHDriver) Kind() Kind {
	return KindSSH
}

// Probe dials target:port, performs the SSH handshake, and authenticates.
func (d *SSHDriver) Probe(ctx context.Context, t config.Target, timeout time.Duration) Result {
	address := t.SSHAddress()
	opts := sshutil.Options{
		User:    t.SSHUser,
		KeyFile: t.SSHKeyFile,
	}
	if t.SSHPasswordEnv != "" {
		// Resolved at probe time so credential rotation doesn't need a restart.
		// The secret stays inside the ssh config; it is never logged.
		opts.Password = os.Getenv(t.SSHPasswordEnv)
	}

	cfg, err := sshutil.ClientConfig(address, opts, timeout)
	if err != nil {
		// Auth setup failure (no keys, encrypted keys): local problem,
		// classified as the catch-all rather than a target fault.
		return failure(t, KindSSH, OutcomeError, err)
	}

	start := time.Now()

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		if ctx.Err() != nil {
			return failure(t, KindSSH, OutcomeTimeout, ctx.Err())
		}
		return failure(t, KindSSH, categorizeError(err), err)
	}

	client, err := sshutil.Handshake(conn, address, cfg, timeout)
	if err != nil {
		// Handshake closed the TCP connection already
		if ctx.Err() != nil {
			return failure(t, KindSSH, OutcomeTimeout, ctx.Err())
		}
		return failure(t, KindSSH, categorizeError(err), err)
	}

	latency := time.Since(start)
	if err := client.Close(); err != nil {
		d.log.Debug("ssh probe close %s: %v", address, err)
	}

	return success(t, KindSSH, latency)
}
