package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/awhite/hostwatch/internal/config"
	"github.com/awhite/hostwatch/internal/engine"
	"github.com/awhite/hostwatch/internal/probe"
	"github.com/awhite/hostwatch/internal/ui"
)

// kindLabels are the fixed-width row labels inside a card.
var kindLabels = map[probe.Kind]string{
	probe.KindICMP: "ping",
	probe.KindSSH:  "ssh ",
}

// renderCard renders a single target card with one row per enabled probe kind.
func (m Model) renderCard(t config.Target, width int, selected bool) string {
	style := CardStyle.Width(width)
	if selected {
		style = CardSelectedStyle.Width(width)
	}

	innerWidth := width - 4

	var lines []string
	lines = append(lines, m.renderTitleLine(t))
	lines = append(lines, renderCardDivider(innerWidth))

	for _, kind := range []probe.Kind{probe.KindICMP, probe.KindSSH} {
		if !wantsCardRow(t, kind) {
			continue
		}
		lines = append(lines, m.renderKindRow(t, kind, innerWidth))
	}

	if msg := m.failureMessage(t); msg != "" {
		lines = append(lines, renderCardDivider(innerWidth))
		lines = append(lines, MutedStyle.Render(truncateWithEllipsis(msg, innerWidth)))
	}

	return style.Render(strings.Join(lines, "\n"))
}

// renderTitleLine renders the target name with its worst-of status glyph.
func (m Model) renderTitleLine(t config.Target) string {
	class := m.targetClass(t)
	glyph := ClassStyle(class).Render(ClassSymbol(class))
	name := TargetNameStyle.Render(t.DisplayName())

	suffix := ""
	if class == engine.ClassDown || class == engine.ClassDegraded {
		suffix = ClassStyle(class).Render(" - " + class.String())
	}

	return glyph + " " + name + suffix
}

// renderKindRow renders one probe kind's status, latency, success rate, and
// sparkline.
func (m Model) renderKindRow(t config.Target, kind probe.Kind, width int) string {
	label := LabelStyle.Render(kindLabels[kind])

	h, ok := m.health(t, kind)
	if !ok || !h.Observed {
		return label + " " + MutedStyle.Render(ui.SymbolUnknown+" waiting for first probe")
	}

	class := engine.Classify(h, m.source.DownThreshold())
	glyph := ClassStyle(class).Render(ClassSymbol(class))

	latency := MutedStyle.Render("     --")
	if !h.LastSuccess.IsZero() {
		latency = ValueStyle.Render(fmt.Sprintf("%7s", formatLatency(h.LastLatency)))
	}

	stats, hasStats := engine.ComputeStats(h)
	rate := MutedStyle.Render("  --")
	if hasStats {
		rate = fmt.Sprintf("%3.0f%%", stats.SuccessRate)
	}

	// Sparkline fills whatever width remains after the fixed columns
	used := lipgloss.Width(label) + lipgloss.Width(glyph) + lipgloss.Width(latency) + lipgloss.Width(rate) + 4
	sparkWidth := width - used
	spark := ""
	if sparkWidth >= 4 {
		spark = " " + ui.RenderSparkline(h.Latencies(), sparkWidth-1, ClassColor(class))
	}

	return label + " " + glyph + " " + latency + " " + rate + spark
}

// failureMessage returns the most relevant error detail for a failing target,
// preferring the kind with the worse class.
func (m Model) failureMessage(t config.Target) string {
	var msg string
	worst := engine.ClassHealthy
	for _, kind := range []probe.Kind{probe.KindICMP, probe.KindSSH} {
		h, ok := m.health(t, kind)
		if !ok || !h.Observed || h.Outcome.Success() {
			continue
		}
		class := engine.Classify(h, m.source.DownThreshold())
		if classSeverity(class) >= classSeverity(worst) {
			worst = class
			if h.Message != "" {
				msg = h.Message
			} else {
				msg = kindLabels[kind] + ": " + h.Outcome.String()
			}
		}
	}
	return strings.TrimSpace(msg)
}

// wantsCardRow reports whether a card shows a row for the given kind.
func wantsCardRow(t config.Target, kind probe.Kind) bool {
	switch kind {
	case probe.KindICMP:
		return t.Ping
	case probe.KindSSH:
		return t.SSH
	default:
		return false
	}
}

// formatLatency formats a probe latency for display.
func formatLatency(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < 10*time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	case d < time.Second:
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}

// truncateWithEllipsis truncates a string to maxLen runes, adding ellipsis if
// needed. Rune-based so multibyte characters in failure messages are never
// split mid-sequence.
func truncateWithEllipsis(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
