// Package probe implements the ICMP and SSH probe drivers. Drivers are
// stateless: each Probe call is an independent attempt that classifies its
// result into a closed outcome taxonomy. Concurrency discipline (no two
// concurrent probes for the same target/kind pair) is the scheduler's job,
// not the driver's.
package probe

import (
	"context"
	"strings"
	"time"

	"github.com/awhite/hostwatch/internal/config"
)

// Kind identifies the probe method.
type Kind int

const (
	KindICMP Kind = iota
	KindSSH
)

// String returns the probe kind name.
func (k Kind) String() string {
	switch k {
	case KindICMP:
		return "icmp"
	case KindSSH:
		return "ssh"
	default:
		return "unknown"
	}
}

// Outcome classifies the result of one probe attempt.
type Outcome int

const (
	// OutcomeSuccess means the probe completed and the target responded.
	OutcomeSuccess Outcome = iota
	// OutcomeTimeout means no response arrived within the probe timeout.
	OutcomeTimeout
	// OutcomeUnreachable means the network reported the host unreachable.
	OutcomeUnreachable
	// OutcomeConnectionRefused means the target actively refused the connection.
	OutcomeConnectionRefused
	// OutcomeAuthFailed means the SSH handshake completed but authentication
	// was rejected.
	OutcomeAuthFailed
	// OutcomePrivilege means the local process lacks the privilege needed to
	// send the probe (raw ICMP sockets).
	OutcomePrivilege
	// OutcomeError is the catch-all for transport or protocol failures.
	OutcomeError
)

// String returns a human-readable outcome description.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "ok"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeUnreachable:
		return "unreachable"
	case OutcomeConnectionRefused:
		return "refused"
	case OutcomeAuthFailed:
		return "auth failed"
	case OutcomePrivilege:
		return "no privilege"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Success reports whether this outcome counts as a healthy response.
func (o Outcome) Success() bool {
	return o == OutcomeSuccess
}

// Result is the immutable record of one completed probe attempt.
// Time is set when the probe finishes; the health store uses it to discard
// results that arrive out of order.
type Result struct {
	Target  string        // target identifier (config.Target.ID())
	Kind    Kind          // which probe produced this result
	Time    time.Time     // completion timestamp
	Outcome Outcome       // classification
	Latency time.Duration // round-trip or connect+auth time; valid on success
	Message string        // detail for OutcomeError and OutcomePrivilege
}

// Driver is the shared contract both probe kinds implement:
// one target, one timeout, one classified result. Implementations are safe
// for concurrent use across distinct targets.
type Driver interface {
	Kind() Kind
	Probe(ctx context.Context, target config.Target, timeout time.Duration) Result
}

// categorizeError maps transport error text onto the outcome taxonomy.
// The net and ssh packages don't expose structured causes for most of these,
// so this matches the substrings they are known to produce.
func categorizeError(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}

	errStr := strings.ToLower(err.Error())

	// Socket-creation privilege failures must be picked off before the
	// generic auth match below. On Linux an unprivileged ICMP UDP socket
	// fails with "socket: permission denied" (when ping_group_range excludes
	// the gid); raw sockets report "operation not permitted". Neither is an
	// authentication problem.
	if strings.Contains(errStr, "operation not permitted") ||
		strings.Contains(errStr, "socket: permission denied") {
		return OutcomePrivilege
	}

	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return OutcomeTimeout
	}

	if strings.Contains(errStr, "connection refused") {
		return OutcomeConnectionRefused
	}

	if strings.Contains(errStr, "no route to host") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "host is down") ||
		strings.Contains(errStr, "destination unreachable") {
		return OutcomeUnreachable
	}

	if strings.Contains(errStr, "unable to authenticate") ||
		strings.Contains(errStr, "no supported methods") ||
		strings.Contains(errStr, "permission denied") ||
		strings.Contains(errStr, "authentication failed") {
		return OutcomeAuthFailed
	}

	return OutcomeError
}

// failure builds a non-success Result for the given target and kind.
func failure(t config.Target, kind Kind, outcome Outcome, err error) Result {
	r := Result{
		Target:  t.ID(),
		Kind:    kind,
		Time:    time.Now(),
		Outcome: outcome,
	}
	if err != nil && (outcome == OutcomeError || outcome == OutcomePrivilege) {
		r.Message = err.Error()
	}
	return r
}

// success builds a successful Result with the measured latency.
func success(t config.Target, kind Kind, latency time.Duration) Result {
	return Result{
		Target:  t.ID(),
		Kind:    kind,
		Time:    time.Now(),
		Outcome: OutcomeSuccess,
		Latency: latency,
	}
}
