package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/awhite/hostwatch/internal/engine"
	"github.com/awhite/hostwatch/internal/probe"
)

// runSimple prints a plain-text status block on every interval until
// interrupted. Used for --simple and whenever stdout isn't a terminal.
func runSimple(eng *engine.Engine, interval time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Give the first probes a moment to land before the first print
	select {
	case <-time.After(500 * time.Millisecond):
	case <-ctx.Done():
		return nil
	}

	for {
		printSimpleStatus(eng)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// printSimpleStatus writes one status block: a summary line and one line per
// (target, kind) pair, sorted by key for stable output.
func printSimpleStatus(eng *engine.Engine) {
	snap := eng.Snapshot()
	sum := snap.Summary

	fmt.Printf("[%s] %d pairs: %d healthy, %d degraded, %d down, %d unknown\n",
		snap.Taken.Format("15:04:05"),
		sum.Pairs(), sum.Healthy, sum.Degraded, sum.Down, sum.Unknown)

	keys := make([]engine.Key, 0, len(snap.Health))
	for k := range snap.Health {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Target != keys[j].Target {
			return keys[i].Target < keys[j].Target
		}
		return keys[i].Kind < keys[j].Kind
	})

	for _, k := range keys {
		fmt.Println("  " + formatSimpleLine(k, snap.Health[k], eng.DownThreshold()))
	}
}

// formatSimpleLine renders one pair as a single plain-text line.
func formatSimpleLine(k engine.Key, h engine.Health, threshold int) string {
	class := engine.Classify(h, threshold)

	var b strings.Builder
	fmt.Fprintf(&b, "%-30s %-5s %-8s", k.Target, kindName(k.Kind), class)

	if !h.Observed {
		return b.String()
	}

	if h.Outcome.Success() {
		fmt.Fprintf(&b, " %8.1fms", float64(h.LastLatency)/float64(time.Millisecond))
	} else {
		fmt.Fprintf(&b, " %s", h.Outcome)
		if h.ConsecutiveFails > 1 {
			fmt.Fprintf(&b, " x%d", h.ConsecutiveFails)
		}
	}

	if stats, ok := engine.ComputeStats(h); ok {
		fmt.Fprintf(&b, "  %3.0f%% of last %d", stats.SuccessRate, stats.WindowCount)
	}

	return b.String()
}

func kindName(k probe.Kind) string {
	if k == probe.KindSSH {
		return "ssh"
	}
	return "ping"
}
