package ui

import "github.com/charmbracelet/lipgloss"

// Color palette using ANSI color codes for terminal compatibility.

// Semantic colors for health indication
const (
	ColorHealthy  lipgloss.Color = "2" // Green
	ColorDown     lipgloss.Color = "1" // Red
	ColorDegraded lipgloss.Color = "3" // Yellow
	ColorInfo     lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)
