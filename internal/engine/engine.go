package engine

import (
	"os"
	"sync"
	"time"

	"github.com/awhite/hostwatch/internal/config"
	"github.com/awhite/hostwatch/internal/errors"
	"github.com/awhite/hostwatch/internal/logger"
	"github.com/awhite/hostwatch/internal/probe"
)

// Options configures one engine run.
type Options struct {
	IcmpInterval  time.Duration // tick period for ICMP probes
	SshInterval   time.Duration // tick period for SSH probes
	ProbeTimeout  time.Duration // per-probe attempt bound
	MaxInFlight   int           // global ceiling on simultaneous probes
	HistorySize   int           // latency samples retained per pair
	DownThreshold int           // consecutive failures before a pair is down
	StopGrace     time.Duration // how long Stop waits for in-flight probes
	Privileged    bool          // raw ICMP sockets (requires root/CAP_NET_RAW)
	Logger        logger.Logger
}

// DefaultStopGrace bounds how long Stop waits for in-flight probes to
// commit. Probes are context-bound, so this is a backstop, not the norm.
const DefaultStopGrace = 5 * time.Second

// OptionsFromConfig maps a validated config onto engine options.
// Privileged mode is selected automatically when running as root.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		IcmpInterval:  cfg.IcmpInterval,
		SshInterval:   cfg.SshInterval,
		ProbeTimeout:  cfg.ProbeTimeout,
		MaxInFlight:   cfg.MaxInFlight,
		HistorySize:   cfg.HistorySize,
		DownThreshold: cfg.DownThreshold,
		StopGrace:     DefaultStopGrace,
		Privileged:    os.Geteuid() == 0,
	}
}

// applyDefaults fills unset options so a zero-value Options can still run
// (tests construct Options directly).
func (o *Options) applyDefaults() {
	if o.IcmpInterval <= 0 {
		o.IcmpInterval = config.DefaultIcmpInterval
	}
	if o.SshInterval <= 0 {
		o.SshInterval = config.DefaultSshInterval
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = config.DefaultProbeTimeout
	}
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = config.DefaultMaxInFlight
	}
	if o.HistorySize <= 0 {
		o.HistorySize = config.DefaultHistorySize
	}
	if o.DownThreshold <= 0 {
		o.DownThreshold = config.DefaultDownThreshold
	}
	if o.StopGrace <= 0 {
		o.StopGrace = DefaultStopGrace
	}
	if o.Logger == nil {
		o.Logger = logger.NewEnvLogger("[engine]")
	}
}

// Engine is the run handle returned by Start. One engine owns one store and
// one scheduler; its lifecycle is the run, not the process.
type Engine struct {
	targets  []config.Target
	opts     Options
	store    *Store
	sched    *scheduler
	stopOnce sync.Once
}

// Snapshot is the pull-based read surface for rendering. Taking one never
// blocks on network I/O.
type Snapshot struct {
	Taken   time.Time
	Health  map[Key]Health
	Summary Summary
}

// Start validates the targets, runs the ICMP privilege preflight, and begins
// scheduling. The returned handle is live until Stop.
func Start(targets []config.Target, opts Options) (*Engine, error) {
	needsICMP := false
	for _, t := range targets {
		if t.Ping {
			needsICMP = true
			break
		}
	}

	if needsICMP {
		// A privilege problem is fatal here, once - not a failure on
		// every future tick
		if err := probe.CheckICMPPrivilege(opts.Privileged); err != nil {
			return nil, err
		}
	}

	opts.applyDefaults()

	drivers := map[probe.Kind]probe.Driver{
		probe.KindICMP: probe.NewICMPDriver(opts.Privileged, opts.Logger),
		probe.KindSSH:  probe.NewSSHDriver(opts.Logger),
	}

	return start(targets, opts, drivers)
}

// start wires an engine with explicit drivers. Split from Start so tests can
// inject fake drivers without touching the network.
func start(targets []config.Target, opts Options, drivers map[probe.Kind]probe.Driver) (*Engine, error) {
	if len(targets) == 0 {
		return nil, errors.New(errors.ErrEngine,
			"No targets to monitor",
			"Add targets with --ip/--ssh, or run 'hostwatch init'")
	}
	opts.applyDefaults()

	store := NewStore(opts.HistorySize)
	for _, t := range targets {
		if t.Ping {
			store.Register(Key{Target: t.ID(), Kind: probe.KindICMP})
		}
		if t.SSH {
			store.Register(Key{Target: t.ID(), Kind: probe.KindSSH})
		}
	}

	e := &Engine{
		targets: targets,
		opts:    opts,
		store:   store,
		sched:   newScheduler(targets, drivers, store, opts),
	}
	e.sched.start()
	return e, nil
}

// Targets returns the immutable target list for this run, in registry order.
func (e *Engine) Targets() []config.Target {
	return e.targets
}

// DownThreshold returns the configured consecutive-failure threshold.
func (e *Engine) DownThreshold() int {
	return e.opts.DownThreshold
}

// Snapshot returns a consistent view of all pair health plus the derived
// run summary. Safe to call from any goroutine at any cadence.
func (e *Engine) Snapshot() Snapshot {
	health := e.store.Snapshot()
	return Snapshot{
		Taken:   time.Now(),
		Health:  health,
		Summary: Summarize(health, e.opts.DownThreshold),
	}
}

// Stop triggers graceful shutdown: no new ticks, in-flight probes commit
// their terminal outcomes within the grace window. Safe to call from any
// number of goroutines; only the first call does the work.
func (e *Engine) Stop() {
	e.stopOnce.Do(e.sched.stop)
}
