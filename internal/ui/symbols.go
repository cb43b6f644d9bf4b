package ui

// Unicode symbols for target status indicators.
const (
	SymbolHealthy  = "●" // Target responding normally
	SymbolDegraded = "◐" // Recent failures below the down threshold
	SymbolDown     = "✗" // Consecutive failures at or above the down threshold
	SymbolUnknown  = "○" // No probe result recorded yet
	SymbolSuccess  = "✓" // Generic success marker
)
