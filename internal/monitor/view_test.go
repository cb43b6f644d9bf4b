package monitor

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awhite/hostwatch/internal/config"
	"github.com/awhite/hostwatch/internal/engine"
	"github.com/awhite/hostwatch/internal/probe"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderDashboardShowsTargets(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)
	m.width = 100
	m.height = 40

	out := stripANSI(m.View())

	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "bravo")
	assert.Contains(t, out, "charlie")
	assert.Contains(t, out, "hostwatch")
}

func TestRenderHeaderCounts(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)
	m.width = 100

	header := stripANSI(m.renderHeader())

	assert.Contains(t, header, "3 targets")
	assert.Contains(t, header, "2 healthy")
	assert.Contains(t, header, "1 down")
}

func TestRenderCardShowsFailure(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)
	m.width = 100

	var down config.Target
	for _, target := range m.targets {
		if target.Address == "10.0.0.3" {
			down = target
		}
	}
	require.NotEmpty(t, down.Address)

	card := stripANSI(m.renderCard(down, 44, false))
	assert.Contains(t, card, "charlie")
	assert.Contains(t, card, "down")
}

func TestRenderCardWaitingState(t *testing.T) {
	src := &fakeSource{
		targets: []config.Target{{Address: "10.9.9.9", Ping: true}},
		health: map[engine.Key]engine.Health{
			{Target: "10.9.9.9", Kind: probe.KindICMP}: {},
		},
		threshold: 3,
	}
	m := NewModel(src, time.Second)

	card := stripANSI(m.renderCard(m.targets[0], 44, false))
	assert.Contains(t, card, "waiting for first probe")
}

func TestRenderEmptyDashboard(t *testing.T) {
	src := &fakeSource{threshold: 3}
	m := NewModel(src, time.Second)
	m.width = 80
	m.height = 24

	out := stripANSI(m.View())
	assert.Contains(t, out, "No targets configured")
}

func TestDetailContentShowsStats(t *testing.T) {
	health := make(map[engine.Key]engine.Health)
	key := engine.Key{Target: "10.0.0.1", Kind: probe.KindICMP}
	health[key] = engine.Health{
		Key:         key,
		Observed:    true,
		Outcome:     probe.OutcomeSuccess,
		LastProbe:   time.Now(),
		LastSuccess: time.Now(),
		LastLatency: 12 * time.Millisecond,
		TotalProbes: 10,
		Samples:     []float64{10, 11, 12, 13, 14},
	}

	src := &fakeSource{
		targets:   []config.Target{{Address: "10.0.0.1", Label: "alpha", Ping: true}},
		health:    health,
		threshold: 3,
	}
	m := NewModel(src, time.Second)
	m.width = 80

	out := stripANSI(m.detailContent())

	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "PING")
	assert.Contains(t, out, "healthy")
	assert.Contains(t, out, "success rate")
	assert.Contains(t, out, "p90 / p95 / p99")
}

func TestFormatLatency(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{2500 * time.Microsecond, "2.5ms"},
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.5s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatLatency(tt.in))
	}
}

func TestFormatMillis(t *testing.T) {
	assert.Equal(t, "5.5ms", formatMillis(5.5))
	assert.Equal(t, "123ms", formatMillis(123.4))
}

func TestTruncateWithEllipsis(t *testing.T) {
	assert.Equal(t, "short", truncateWithEllipsis("short", 20))
	assert.Equal(t, "this is a ...", truncateWithEllipsis("this is a long message", 13))

	// Multibyte input truncates on rune boundaries, never mid-character
	assert.Equal(t, "ssh: hôte in...", truncateWithEllipsis("ssh: hôte injoignable au démarrage", 15))
	assert.Equal(t, "délai dépassé", truncateWithEllipsis("délai dépassé", 13))
}

func TestSuccessRateBarWidths(t *testing.T) {
	full := stripANSI(SuccessRateBar(10, 100))
	assert.Equal(t, "━━━━━━━━━━", full)

	half := stripANSI(SuccessRateBar(10, 50))
	assert.Equal(t, "━━━━━─────", half)

	empty := stripANSI(SuccessRateBar(10, 0))
	assert.Equal(t, "──────────", empty)
}
