package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderDashboard renders the complete list view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderTargetCards())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the dashboard header with summary stats.
func (m Model) renderHeader() string {
	sum := m.snap.Summary

	var updateText string
	switch ago := m.SecondsSinceUpdate(); ago {
	case 0:
		updateText = "just now"
	case 1:
		updateText = "1s ago"
	default:
		updateText = fmt.Sprintf("%ds ago", ago)
	}

	title := HeaderStyle.Render("hostwatch")

	parts := []string{
		fmt.Sprintf("%d targets", len(m.targets)),
		HealthyStyle.Render(fmt.Sprintf("%d healthy", sum.Healthy)),
	}
	if sum.Degraded > 0 {
		parts = append(parts, DegradedStyle.Render(fmt.Sprintf("%d degraded", sum.Degraded)))
	}
	if sum.Down > 0 {
		parts = append(parts, DownStyle.Render(fmt.Sprintf("%d down", sum.Down)))
	}
	if sum.Unknown > 0 {
		parts = append(parts, MutedStyle.Render(fmt.Sprintf("%d unknown", sum.Unknown)))
	}
	if sum.AvgLatency > 0 {
		parts = append(parts, fmt.Sprintf("avg %s", formatMillis(sum.AvgLatency)))
	}
	parts = append(parts, updateText)

	stats := HeaderStatsStyle.Render(" | " + strings.Join(parts, " | "))
	return title + stats
}

// renderTargetCards renders the grid of target cards.
func (m Model) renderTargetCards() string {
	if len(m.targets) == 0 {
		return LabelStyle.Render("No targets configured")
	}

	cardWidth := m.calculateCardWidth()

	var cards []string
	for i, t := range m.targets {
		cards = append(cards, m.renderCard(t, cardWidth, i == m.selected))
	}

	return m.layoutCards(cards, cardWidth)
}

// calculateCardWidth determines the card width based on terminal width.
func (m Model) calculateCardWidth() int {
	if m.width == 0 {
		return 44 // default before the first WindowSizeMsg
	}
	if m.width >= 96 {
		return 44
	}
	return m.width - 4
}

// layoutCards arranges cards in rows based on terminal width.
func (m Model) layoutCards(cards []string, cardWidth int) string {
	if len(cards) == 0 {
		return ""
	}

	cardsPerRow := 1
	if m.width > 0 {
		effectiveCardWidth := cardWidth + 3 // margin + border
		cardsPerRow = m.width / effectiveCardWidth
		if cardsPerRow < 1 {
			cardsPerRow = 1
		}
	}

	var rows []string
	for i := 0; i < len(cards); i += cardsPerRow {
		end := i + cardsPerRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"s sort: " + m.sortOrder.String(),
		"↑↓ select",
		"enter detail",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

// formatMillis formats a millisecond value compactly: sub-10ms keeps one
// decimal, everything else rounds.
func formatMillis(ms float64) string {
	if ms < 10 {
		return fmt.Sprintf("%.1fms", ms)
	}
	return fmt.Sprintf("%.0fms", ms)
}
