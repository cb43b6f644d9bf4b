package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/awhite/hostwatch/internal/engine"
	"github.com/awhite/hostwatch/internal/ui"
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary).
			Bold(true).
			Padding(0, 1)

	HeaderStatsStyle = lipgloss.NewStyle().
				Foreground(ui.ColorSecondary)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorMuted).
			Padding(0, 1).
			MarginRight(1).
			MarginBottom(1)

	CardSelectedStyle = CardStyle.
				BorderForeground(ui.ColorInfo)

	TargetNameStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ui.ColorSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)

	HealthyStyle = lipgloss.NewStyle().
			Foreground(ui.ColorHealthy)

	DegradedStyle = lipgloss.NewStyle().
			Foreground(ui.ColorDegraded)

	DownStyle = lipgloss.NewStyle().
			Foreground(ui.ColorDown)
)

// ClassStyle returns the style for a health class.
func ClassStyle(c engine.Class) lipgloss.Style {
	switch c {
	case engine.ClassHealthy:
		return HealthyStyle
	case engine.ClassDegraded:
		return DegradedStyle
	case engine.ClassDown:
		return DownStyle
	default:
		return MutedStyle
	}
}

// ClassSymbol returns the status glyph for a health class.
func ClassSymbol(c engine.Class) string {
	switch c {
	case engine.ClassHealthy:
		return ui.SymbolHealthy
	case engine.ClassDegraded:
		return ui.SymbolDegraded
	case engine.ClassDown:
		return ui.SymbolDown
	default:
		return ui.SymbolUnknown
	}
}

// ClassColor returns the sparkline color for a health class.
func ClassColor(c engine.Class) lipgloss.Color {
	switch c {
	case engine.ClassHealthy:
		return ui.ColorHealthy
	case engine.ClassDegraded:
		return ui.ColorDegraded
	case engine.ClassDown:
		return ui.ColorDown
	default:
		return ui.ColorMuted
	}
}

// SuccessRateBar renders a fixed-width bar for a 0-100 success rate.
// Below 100% the bar turns yellow, below 50% red.
func SuccessRateBar(width int, percent float64) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteString("━")
		} else {
			b.WriteString("─")
		}
	}

	color := ui.ColorHealthy
	switch {
	case percent < 50:
		color = ui.ColorDown
	case percent < 100:
		color = ui.ColorDegraded
	}
	return lipgloss.NewStyle().Foreground(color).Render(b.String())
}

// cardDividerStyle is the subtle divider line inside cards.
var cardDividerStyle = lipgloss.NewStyle().Foreground(ui.ColorMuted)

// renderCardDivider creates a thin divider line.
func renderCardDivider(width int) string {
	return cardDividerStyle.Render(strings.Repeat("─", width))
}
