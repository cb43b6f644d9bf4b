package engine

import (
	"math"
	"sort"
)

// Class is the derived health classification of one (target, kind) pair.
type Class int

const (
	// ClassUnknown means no probe result has been recorded yet.
	ClassUnknown Class = iota
	// ClassHealthy means the last probe succeeded with no outstanding failures.
	ClassHealthy
	// ClassDegraded means recent failures below the down threshold.
	ClassDegraded
	// ClassDown means consecutive failures at or above the down threshold.
	ClassDown
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassHealthy:
		return "healthy"
	case ClassDegraded:
		return "degraded"
	case ClassDown:
		return "down"
	default:
		return "unknown"
	}
}

// Classify derives the health class from a pair's current state.
func Classify(h Health, downThreshold int) Class {
	switch {
	case !h.Observed:
		return ClassUnknown
	case h.ConsecutiveFails >= downThreshold:
		return ClassDown
	case h.ConsecutiveFails > 0:
		return ClassDegraded
	default:
		return ClassHealthy
	}
}

// Stats holds latency statistics over a pair's retained sample window.
// All values are in milliseconds.
type Stats struct {
	Last        float64
	Mean        float64
	Median      float64
	Min         float64
	Max         float64
	P25         float64
	P75         float64
	P90         float64
	P95         float64
	P99         float64
	SuccessRate float64 // percentage of window probes that succeeded
	SampleCount int     // successful samples contributing to the stats
	WindowCount int     // all probes in the window, including failures
}

// ComputeStats derives latency statistics from a pair's sample window.
// Returns false when the window holds no successful samples.
func ComputeStats(h Health) (Stats, bool) {
	values := h.Latencies()
	if len(values) == 0 {
		return Stats{WindowCount: len(h.Samples)}, false
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range values {
		sum += v
	}

	return Stats{
		Last:        values[len(values)-1],
		Mean:        sum / float64(len(values)),
		Median:      percentile(sorted, 50),
		Min:         sorted[0],
		Max:         sorted[len(sorted)-1],
		P25:         percentile(sorted, 25),
		P75:         percentile(sorted, 75),
		P90:         percentile(sorted, 90),
		P95:         percentile(sorted, 95),
		P99:         percentile(sorted, 99),
		SuccessRate: float64(len(values)) / float64(len(h.Samples)) * 100,
		SampleCount: len(values),
		WindowCount: len(h.Samples),
	}, true
}

// percentile computes the p-th percentile of sorted values using linear
// interpolation between the two nearest ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	index := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Summary is the derived run-wide view: pair counts by class, global mean
// latency, and the pairs currently failing. Recomputed from a snapshot on
// every request; never stored.
type Summary struct {
	Healthy  int
	Degraded int
	Down     int
	Unknown  int

	// AvgLatency is the mean of every pair's window mean, in milliseconds.
	AvgLatency float64

	// Failing lists the pairs currently degraded or down, sorted by key.
	Failing []Key
}

// Pairs returns the total number of tracked (target, kind) pairs.
func (s Summary) Pairs() int {
	return s.Healthy + s.Degraded + s.Down + s.Unknown
}

// Summarize folds a snapshot into a Summary. Pure function of its input.
func Summarize(snapshot map[Key]Health, downThreshold int) Summary {
	var sum Summary
	var latencySum float64
	var latencyCount int

	for key, h := range snapshot {
		switch Classify(h, downThreshold) {
		case ClassHealthy:
			sum.Healthy++
		case ClassDegraded:
			sum.Degraded++
			sum.Failing = append(sum.Failing, key)
		case ClassDown:
			sum.Down++
			sum.Failing = append(sum.Failing, key)
		default:
			sum.Unknown++
		}

		if stats, ok := ComputeStats(h); ok {
			latencySum += stats.Mean
			latencyCount++
		}
	}

	if latencyCount > 0 {
		sum.AvgLatency = latencySum / float64(latencyCount)
	}

	sort.Slice(sum.Failing, func(i, j int) bool {
		if sum.Failing[i].Target != sum.Failing[j].Target {
			return sum.Failing[i].Target < sum.Failing[j].Target
		}
		return sum.Failing[i].Kind < sum.Failing[j].Kind
	})

	return sum
}
