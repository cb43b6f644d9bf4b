package probe

import (
	"context"
	"sync"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/awhite/hostwatch/internal/config"
	"github.com/awhite/hostwatch/internal/errors"
	"github.com/awhite/hostwatch/internal/logger"
)

// ICMPDriver probes targets with a single echo request per attempt.
type ICMPDriver struct {
	privileged bool
	log        logger.Logger

	// privWarnOnce keeps a persistent privilege problem from being logged
	// on every tick.
	privWarnOnce sync.Once
}

// NewICMPDriver creates the ICMP driver. privileged selects raw ICMP sockets;
// unprivileged mode uses UDP datagram sockets where the OS allows them.
func NewICMPDriver(privileged bool, log logger.Logger) *ICMPDriver {
	if log == nil {
		log = logger.Noop()
	}
	return &ICMPDriver{privileged: privileged, log: log}
}

// Kind returns KindICMP.
func (d *ICMPDriver) Kind() Kind {
	return KindICMP
}

// Probe sends one echo request and waits up to timeout for the reply.
func (d *ICMPDriver) Probe(ctx context.Context, t config.Target, timeout time.Duration) Result {
	pinger, err := probing.NewPinger(t.Address)
	if err != nil {
		// Address resolution failure
		return failure(t, KindICMP, OutcomeError, err)
	}

	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(d.privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		outcome := categorizeError(err)
		if outcome == OutcomePrivilege {
			d.privWarnOnce.Do(func() {
				d.log.Warn("icmp probes lack socket privilege: %v", err)
			})
		}
		return failure(t, KindICMP, outcome, err)
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		if ctx.Err() != nil {
			// Cancelled mid-probe; the scheduler treats this as a timeout
			return failure(t, KindICMP, OutcomeTimeout, ctx.Err())
		}
		return failure(t, KindICMP, OutcomeTimeout, nil)
	}

	return success(t, KindICMP, stats.AvgRtt)
}

// CheckICMPPrivilege verifies at startup that ICMP sockets can be created at
// all. A privilege problem is a fatal configuration error reported once,
// before scheduling begins, rather than a per-tick probe failure.
func CheckICMPPrivilege(privileged bool) error {
	pinger, err := probing.NewPinger("127.0.0.1")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrICMP,
			"Can't set up ICMP probing", "")
	}

	pinger.Count = 1
	pinger.Timeout = time.Second
	pinger.SetPrivileged(privileged)

	if err := pinger.Run(); err != nil {
		if categorizeError(err) == OutcomePrivilege {
			return errors.WrapWithCode(err, errors.ErrICMP,
				"ICMP probing requires elevated privileges",
				"Run with sudo, or grant the binary CAP_NET_RAW:\n"+
					"    sudo setcap cap_net_raw=+ep $(which hostwatch)\n"+
					"  Unprivileged pings need: sysctl -w net.ipv4.ping_group_range=\"0 2147483647\"")
		}
		// Any other loopback failure (including timeout) still proves the
		// socket could be created, which is all this check is for.
	}

	return nil
}
