package monitor

import (
	"github.com/awhite/hostwatch/internal/config"
	"github.com/awhite/hostwatch/internal/engine"
)

// Source is the engine surface the dashboard reads from. Snapshots are
// point-in-time copies, so rendering never blocks on probe I/O.
type Source interface {
	Snapshot() engine.Snapshot
	Targets() []config.Target
	DownThreshold() int
}

// SortOrder defines how targets are sorted in the dashboard.
type SortOrder int

const (
	SortByDefault SortOrder = iota // failing first, then config order
	SortByName
	SortByLatency
	SortByStatus
)

// String returns a human-readable label for the sort order.
func (s SortOrder) String() string {
	switch s {
	case SortByName:
		return "name"
	case SortByLatency:
		return "latency"
	case SortByStatus:
		return "status"
	default:
		return "default"
	}
}

// Next cycles to the next sort order.
func (s SortOrder) Next() SortOrder {
	return SortOrder((int(s) + 1) % 4)
}

// ViewMode defines the current display mode of the dashboard.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)
