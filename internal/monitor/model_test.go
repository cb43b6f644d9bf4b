package monitor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awhite/hostwatch/internal/config"
	"github.com/awhite/hostwatch/internal/engine"
	"github.com/awhite/hostwatch/internal/probe"
)

// fakeSource serves canned snapshots without a running engine.
type fakeSource struct {
	targets   []config.Target
	health    map[engine.Key]engine.Health
	threshold int
}

func (f *fakeSource) Snapshot() engine.Snapshot {
	return engine.Snapshot{
		Taken:   time.Now(),
		Health:  f.health,
		Summary: engine.Summarize(f.health, f.threshold),
	}
}

func (f *fakeSource) Targets() []config.Target { return f.targets }
func (f *fakeSource) DownThreshold() int       { return f.threshold }

func healthyPair(target string, kind probe.Kind, latency time.Duration) (engine.Key, engine.Health) {
	key := engine.Key{Target: target, Kind: kind}
	return key, engine.Health{
		Key:         key,
		Observed:    true,
		Outcome:     probe.OutcomeSuccess,
		LastProbe:   time.Now(),
		LastSuccess: time.Now(),
		LastLatency: latency,
		Samples:     []float64{float64(latency) / float64(time.Millisecond)},
	}
}

func downPair(target string, kind probe.Kind, fails int) (engine.Key, engine.Health) {
	key := engine.Key{Target: target, Kind: kind}
	return key, engine.Health{
		Key:              key,
		Observed:         true,
		Outcome:          probe.OutcomeTimeout,
		LastProbe:        time.Now(),
		ConsecutiveFails: fails,
		Samples:          []float64{},
	}
}

func threeTargetSource() *fakeSource {
	health := make(map[engine.Key]engine.Health)

	k, h := healthyPair("10.0.0.1", probe.KindICMP, 5*time.Millisecond)
	health[k] = h
	k, h = healthyPair("10.0.0.2", probe.KindICMP, 20*time.Millisecond)
	health[k] = h
	k, h = downPair("10.0.0.3", probe.KindICMP, 4)
	health[k] = h

	return &fakeSource{
		targets: []config.Target{
			{Address: "10.0.0.1", Label: "alpha", Ping: true},
			{Address: "10.0.0.2", Label: "bravo", Ping: true},
			{Address: "10.0.0.3", Label: "charlie", Ping: true},
		},
		health:    health,
		threshold: 3,
	}
}

func keyPress(key string) tea.KeyMsg {
	if len(key) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func TestNewModelSelectsFirstTarget(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)

	selected, ok := m.SelectedTarget()
	require.True(t, ok)
	// Default sort puts the failing target first
	assert.Equal(t, "10.0.0.3", selected.Address)
}

func TestDefaultSortFailingFirst(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)

	assert.Equal(t, "10.0.0.3", m.targets[0].Address)
	// Remaining targets keep config order
	assert.Equal(t, "10.0.0.1", m.targets[1].Address)
	assert.Equal(t, "10.0.0.2", m.targets[2].Address)
}

func TestSortByNameUsesDisplayName(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)
	m.sortOrder = SortByName
	m.sortTargets()

	assert.Equal(t, "alpha", m.targets[0].Label)
	assert.Equal(t, "bravo", m.targets[1].Label)
	assert.Equal(t, "charlie", m.targets[2].Label)
}

func TestSortByLatencyAscending(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)
	m.sortOrder = SortByLatency
	m.sortTargets()

	// Targets with latency come first (ascending), the down target last
	assert.Equal(t, "10.0.0.1", m.targets[0].Address)
	assert.Equal(t, "10.0.0.2", m.targets[1].Address)
	assert.Equal(t, "10.0.0.3", m.targets[2].Address)
}

func TestSortByStatusWorstFirst(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)
	m.sortOrder = SortByStatus
	m.sortTargets()

	assert.Equal(t, "10.0.0.3", m.targets[0].Address)
}

func TestSortPreservesSelection(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)

	// Select bravo, then change the sort order
	for i, target := range m.targets {
		if target.Label == "bravo" {
			m.selected = i
		}
	}

	m.sortOrder = SortByName
	m.sortTargets()

	selected, ok := m.SelectedTarget()
	require.True(t, ok)
	assert.Equal(t, "bravo", selected.Label)
}

func TestSortOrderCycles(t *testing.T) {
	s := SortByDefault
	seen := map[SortOrder]bool{}
	for i := 0; i < 4; i++ {
		seen[s] = true
		s = s.Next()
	}
	assert.Equal(t, SortByDefault, s, "cycle returns to start")
	assert.Len(t, seen, 4)
}

func TestNavigationKeys(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)
	require.Equal(t, 0, m.selected)

	m.HandleKeyMsg(keyPress("j"))
	assert.Equal(t, 1, m.selected)

	m.HandleKeyMsg(keyPress("j"))
	assert.Equal(t, 2, m.selected)

	// Clamped at the end
	m.HandleKeyMsg(keyPress("j"))
	assert.Equal(t, 2, m.selected)

	m.HandleKeyMsg(keyPress("k"))
	assert.Equal(t, 1, m.selected)

	m.HandleKeyMsg(keyPress("home"))
	assert.Equal(t, 0, m.selected)

	m.HandleKeyMsg(keyPress("end"))
	assert.Equal(t, 2, m.selected)
}

func TestQuitKey(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)

	handled, cmd := m.HandleKeyMsg(keyPress("q"))
	assert.True(t, handled)
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestDetailViewToggle(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)
	assert.Equal(t, ViewList, m.viewMode)

	m.HandleKeyMsg(keyPress("enter"))
	assert.Equal(t, ViewDetail, m.viewMode)

	m.HandleKeyMsg(keyPress("esc"))
	assert.Equal(t, ViewList, m.viewMode)
}

func TestHelpToggle(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)

	m.HandleKeyMsg(keyPress("?"))
	assert.True(t, m.showHelp)

	m.HandleKeyMsg(keyPress("esc"))
	assert.False(t, m.showHelp)
}

func TestCycleSortKey(t *testing.T) {
	m := NewModel(threeTargetSource(), time.Second)
	require.Equal(t, SortByDefault, m.sortOrder)

	m.HandleKeyMsg(keyPress("s"))
	assert.Equal(t, SortByName, m.sortOrder)
}

func TestTargetClassWorstOfKinds(t *testing.T) {
	health := make(map[engine.Key]engine.Health)
	k, h := healthyPair("a", probe.KindICMP, time.Millisecond)
	health[k] = h
	k, h = downPair("a", probe.KindSSH, 5)
	health[k] = h

	src := &fakeSource{
		targets:   []config.Target{{Address: "a", Ping: true, SSH: true, SSHUser: "ops"}},
		health:    health,
		threshold: 3,
	}
	m := NewModel(src, time.Second)

	assert.Equal(t, engine.ClassDown, m.targetClass(m.targets[0]))
}

func TestRefreshPicksUpNewSnapshot(t *testing.T) {
	src := threeTargetSource()
	m := NewModel(src, time.Second)

	// Target 3 recovers between refreshes
	k, h := healthyPair("10.0.0.3", probe.KindICMP, 2*time.Millisecond)
	src.health[k] = h

	m.refresh()

	assert.Equal(t, engine.ClassHealthy, m.targetClass(m.targets[0]))
	assert.Equal(t, 3, m.snap.Summary.Healthy)
}
