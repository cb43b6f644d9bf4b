// Package engine implements the monitoring engine: a tick-driven scheduler
// issuing concurrent ICMP/SSH probes, a health store folding their results
// into bounded per-target history, and an aggregator deriving display-ready
// summaries.
package engine

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/awhite/hostwatch/internal/probe"
)

// Key identifies one (target, probe kind) pair.
type Key struct {
	Target string
	Kind   probe.Kind
}

// String returns "kind:target" for logging.
func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.Target)
}

// Health is a read-only copy of one pair's state, taken by Snapshot.
// Samples holds the retained probe window in arrival order; failed probes are
// recorded as NaN so success rate and chart gaps are derivable from the same
// buffer.
type Health struct {
	Key              Key
	Observed         bool // false until the first probe result arrives
	Outcome          probe.Outcome
	Message          string
	LastProbe        time.Time
	LastLatency      time.Duration
	LastSuccess      time.Time
	ConsecutiveFails int
	TotalProbes      int
	Samples          []float64 // latency in ms, NaN for failed probes
}

// Latencies returns only the successful samples, for sparklines and stats.
func (h Health) Latencies() []float64 {
	out := make([]float64, 0, len(h.Samples))
	for _, v := range h.Samples {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// entry is the mutable record for one pair, owned by the store. Each entry
// has its own lock so one slow target's update never blocks the others.
type entry struct {
	mu sync.Mutex

	observed    bool
	outcome     probe.Outcome
	message     string
	lastProbe   time.Time
	lastLatency time.Duration
	lastSuccess time.Time
	consecFails int
	totalProbes int
	samples     *ringBuffer
}

// Store is the single source of truth for current and historical probe
// results. Writers are probe tasks; readers are the aggregator and the
// render loop, which only ever see point-in-time copies.
type Store struct {
	mu          sync.RWMutex // guards the entries map, not the entries
	entries     map[Key]*entry
	historySize int
}

// NewStore creates a store retaining historySize samples per pair.
func NewStore(historySize int) *Store {
	if historySize <= 0 {
		historySize = 60
	}
	return &Store{
		entries:     make(map[Key]*entry),
		historySize: historySize,
	}
}

// Register pre-creates the entry for a pair so it shows up as unknown in
// snapshots before its first probe completes. Called once at startup for
// every scheduled pair.
func (s *Store) Register(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		s.entries[key] = &entry{samples: newRingBuffer(s.historySize)}
	}
}

// Record folds one probe result into the pair's record. Results older than
// the stored one are discarded, so a stale in-flight probe can never
// overwrite a newer completed result. O(1).
func (s *Store) Record(res probe.Result) {
	key := Key{Target: res.Target, Kind: res.Kind}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		e, ok = s.entries[key]
		if !ok {
			e = &entry{samples: newRingBuffer(s.historySize)}
			s.entries[key] = e
		}
		s.mu.Unlock()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.observed && res.Time.Before(e.lastProbe) {
		// Stale result from a probe that was overtaken; drop it
		return
	}

	e.observed = true
	e.outcome = res.Outcome
	e.message = res.Message
	e.lastProbe = res.Time
	e.totalProbes++

	if res.Outcome.Success() {
		e.consecFails = 0
		e.lastLatency = res.Latency
		e.lastSuccess = res.Time
		e.samples.push(float64(res.Latency) / float64(time.Millisecond))
	} else {
		e.consecFails++
		e.samples.push(math.NaN())
	}
}

// Get returns a copy of one pair's health.
func (s *Store) Get(key Key) (Health, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Health{}, false
	}
	return e.copyHealth(key), true
}

// Snapshot returns a consistent point-in-time copy of every pair's health.
// Each entry lock is held only for the duration of its copy; readers then
// consume the snapshot without holding any lock.
func (s *Store) Snapshot() map[Key]Health {
	s.mu.RLock()
	keys := make([]Key, 0, len(s.entries))
	entries := make([]*entry, 0, len(s.entries))
	for k, e := range s.entries {
		keys = append(keys, k)
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make(map[Key]Health, len(keys))
	for i, e := range entries {
		out[keys[i]] = e.copyHealth(keys[i])
	}
	return out
}

// copyHealth copies the entry state under its lock.
func (e *entry) copyHealth(key Key) Health {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Health{
		Key:              key,
		Observed:         e.observed,
		Outcome:          e.outcome,
		Message:          e.message,
		LastProbe:        e.lastProbe,
		LastLatency:      e.lastLatency,
		LastSuccess:      e.lastSuccess,
		ConsecutiveFails: e.consecFails,
		TotalProbes:      e.totalProbes,
		Samples:          e.samples.values(),
	}
}

// ringBuffer is a fixed-size circular buffer for float64 values.
// Memory per pair is bounded at allocation time; overflow evicts the oldest
// sample.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// newRingBuffer creates a ring buffer with the specified capacity.
func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

// push adds a value, evicting the oldest when full.
func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// values returns all stored values in arrival order (oldest first).
func (r *ringBuffer) values() []float64 {
	if r.count == 0 {
		return nil
	}

	result := make([]float64, r.count)

	// head points at the next write position, so the oldest value sits at
	// head when the buffer is full, else at index 0
	start := (r.head - r.count + r.size) % r.size
	for i := 0; i < r.count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
