package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/awhite/hostwatch/internal/config"
	"github.com/awhite/hostwatch/internal/engine"
	"github.com/awhite/hostwatch/internal/probe"
	"github.com/awhite/hostwatch/internal/ui"
)

// renderDetail renders the expanded view for the selected target inside the
// scrollable viewport.
func (m Model) renderDetail() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.detailViewport.View())
	} else {
		b.WriteString(m.detailContent())
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("esc back | ↑↓ switch target | pgup/pgdn scroll | q quit"))

	return b.String()
}

// updateDetailViewportContent refreshes the viewport with the selected
// target's detail content.
func (m *Model) updateDetailViewportContent() {
	if !m.viewportReady {
		return
	}
	m.detailViewport.SetContent(m.detailContent())
}

// detailContent builds the full stats breakdown for the selected target.
func (m Model) detailContent() string {
	t, ok := m.SelectedTarget()
	if !ok {
		return LabelStyle.Render("No target selected")
	}

	var sections []string

	title := TargetNameStyle.Render(t.DisplayName())
	if t.Label != "" {
		title += MutedStyle.Render(" (" + t.Address + ")")
	}
	sections = append(sections, title)

	for _, kind := range []probe.Kind{probe.KindICMP, probe.KindSSH} {
		if !wantsCardRow(t, kind) {
			continue
		}
		sections = append(sections, m.renderKindDetail(t, kind))
	}

	return strings.Join(sections, "\n\n")
}

// renderKindDetail renders one probe kind's full statistics block.
func (m Model) renderKindDetail(t config.Target, kind probe.Kind) string {
	var b strings.Builder

	label := strings.TrimSpace(kindLabels[kind])
	b.WriteString(LabelStyle.Render(strings.ToUpper(label)))

	h, ok := m.health(t, kind)
	if !ok || !h.Observed {
		b.WriteString("\n  ")
		b.WriteString(MutedStyle.Render(ui.SymbolUnknown + " waiting for first probe"))
		return b.String()
	}

	class := engine.Classify(h, m.source.DownThreshold())
	b.WriteString("  ")
	b.WriteString(ClassStyle(class).Render(ClassSymbol(class) + " " + class.String()))
	b.WriteString("\n")

	rows := [][2]string{
		{"last probe", formatAge(h.LastProbe)},
	}
	if !h.LastSuccess.IsZero() {
		rows = append(rows,
			[2]string{"last success", formatAge(h.LastSuccess)},
			[2]string{"last latency", formatLatency(h.LastLatency)},
		)
	}
	if h.ConsecutiveFails > 0 {
		rows = append(rows, [2]string{"consecutive fails", fmt.Sprintf("%d (down at %d)", h.ConsecutiveFails, m.source.DownThreshold())})
	}
	rows = append(rows, [2]string{"total probes", fmt.Sprintf("%d", h.TotalProbes)})

	if stats, ok := engine.ComputeStats(h); ok {
		rows = append(rows,
			[2]string{"success rate", fmt.Sprintf("%.0f%% over last %d  %s", stats.SuccessRate, stats.WindowCount, SuccessRateBar(20, stats.SuccessRate))},
			[2]string{"mean / median", formatMillis(stats.Mean) + " / " + formatMillis(stats.Median)},
			[2]string{"min / max", formatMillis(stats.Min) + " / " + formatMillis(stats.Max)},
			[2]string{"p25 / p75", formatMillis(stats.P25) + " / " + formatMillis(stats.P75)},
			[2]string{"p90 / p95 / p99", formatMillis(stats.P90) + " / " + formatMillis(stats.P95) + " / " + formatMillis(stats.P99)},
		)
	}

	if !h.Outcome.Success() {
		outcome := h.Outcome.String()
		if h.Message != "" {
			outcome += ": " + h.Message
		}
		rows = append(rows, [2]string{"last failure", outcome})
	}

	for _, row := range rows {
		b.WriteString("  ")
		b.WriteString(LabelStyle.Render(fmt.Sprintf("%-18s", row[0])))
		b.WriteString(ValueStyle.Render(row[1]))
		b.WriteString("\n")
	}

	if latencies := h.Latencies(); len(latencies) > 1 {
		sparkWidth := m.width - 6
		if sparkWidth < 10 {
			sparkWidth = 10
		}
		if sparkWidth > len(latencies) {
			sparkWidth = len(latencies)
		}
		b.WriteString("  ")
		b.WriteString(ui.RenderSparkline(latencies, sparkWidth, ClassColor(class)))
	}

	return b.String()
}

// formatAge formats a timestamp as a relative age.
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	age := time.Since(t)
	switch {
	case age < time.Second:
		return "just now"
	case age < time.Minute:
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	}
}
