package engine

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/awhite/hostwatch/internal/config"
	"github.com/awhite/hostwatch/internal/logger"
	"github.com/awhite/hostwatch/internal/probe"
)

// scheduler drives probe execution. Two tickers (one per probe kind, since
// SSH handshakes are too expensive for the ICMP cadence) dispatch one
// concurrent probe task per eligible (target, kind) pair. A weighted
// semaphore caps simultaneous in-flight probes; an in-flight set enforces
// that no pair ever has two overlapping probes.
type scheduler struct {
	targets  []config.Target
	drivers  map[probe.Kind]probe.Driver
	store    *Store
	log      logger.Logger
	icmpTick time.Duration
	sshTick  time.Duration
	timeout  time.Duration
	grace    time.Duration

	sem *semaphore.Weighted

	mu       sync.Mutex
	inflight map[Key]bool

	wg     sync.WaitGroup // one count per launched probe task
	loopWg sync.WaitGroup // the tick loop itself
	cancel context.CancelFunc
}

func newScheduler(targets []config.Target, drivers map[probe.Kind]probe.Driver, store *Store, opts Options) *scheduler {
	log := opts.Logger
	if log == nil {
		log = logger.NewEnvLogger("[engine]")
	}
	return &scheduler{
		targets:  targets,
		drivers:  drivers,
		store:    store,
		log:      log,
		icmpTick: opts.IcmpInterval,
		sshTick:  opts.SshInterval,
		timeout:  opts.ProbeTimeout,
		grace:    opts.StopGrace,
		sem:      semaphore.NewWeighted(int64(opts.MaxInFlight)),
		inflight: make(map[Key]bool),
	}
}

// start launches the tick loop. An immediate first dispatch of both kinds
// gives the dashboard data before the first full interval elapses.
func (s *scheduler) start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.loopWg.Add(1)
	go s.run(ctx)
}

// run is the tick loop. It only ever launches goroutines; it never waits on
// network I/O or on the admission gate, so a hung target cannot stall
// scheduling for the others.
func (s *scheduler) run(ctx context.Context) {
	defer s.loopWg.Done()

	icmpTicker := time.NewTicker(s.icmpTick)
	defer icmpTicker.Stop()
	sshTicker := time.NewTicker(s.sshTick)
	defer sshTicker.Stop()

	s.dispatch(ctx, probe.KindICMP)
	s.dispatch(ctx, probe.KindSSH)

	for {
		select {
		case <-ctx.Done():
			return
		case <-icmpTicker.C:
			s.dispatch(ctx, probe.KindICMP)
		case <-sshTicker.C:
			s.dispatch(ctx, probe.KindSSH)
		}
	}
}

// dispatch launches one probe task per eligible pair of the given kind.
// Pairs with a probe still in flight are skipped for this tick; the next
// tick retries naturally.
func (s *scheduler) dispatch(ctx context.Context, kind probe.Kind) {
	driver, ok := s.drivers[kind]
	if !ok {
		return
	}

	for _, t := range s.targets {
		if !wantsKind(t, kind) {
			continue
		}

		key := Key{Target: t.ID(), Kind: kind}

		s.mu.Lock()
		if s.inflight[key] {
			s.mu.Unlock()
			s.log.Debug("skip %s: probe still in flight", key)
			continue
		}
		s.inflight[key] = true
		s.mu.Unlock()

		s.wg.Add(1)
		go s.probeTask(ctx, driver, t, key)
	}
}

// probeTask runs one probe attempt: acquire slot, probe with timeout, commit
// the result, release. Every launched task commits exactly one terminal
// outcome, including during shutdown.
func (s *scheduler) probeTask(ctx context.Context, driver probe.Driver, t config.Target, key Key) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		// Cancelled while waiting for a slot; commit cancellation as a
		// timeout so the result isn't silently lost
		s.store.Record(probe.Result{
			Target:  key.Target,
			Kind:    key.Kind,
			Time:    time.Now(),
			Outcome: probe.OutcomeTimeout,
		})
		return
	}
	defer s.sem.Release(1)

	probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res := driver.Probe(probeCtx, t, s.timeout)
	s.store.Record(res)

	if !res.Outcome.Success() {
		s.log.Debug("probe %s: %s", key, res.Outcome)
	}
}

// stop cancels the tick loop and waits for in-flight probes to commit their
// terminal outcomes. Probes are context-bound, so they unwind promptly on
// cancellation; the grace window bounds the wait regardless.
func (s *scheduler) stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.loopWg.Wait()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.grace):
		s.log.Warn("shutdown grace window %s elapsed with probes still in flight", s.grace)
	}
}

// wantsKind reports whether a target has the given probe kind enabled.
func wantsKind(t config.Target, kind probe.Kind) bool {
	switch kind {
	case probe.KindICMP:
		return t.Ping
	case probe.KindSSH:
		return t.SSH
	default:
		return false
	}
}
