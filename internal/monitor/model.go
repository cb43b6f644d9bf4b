package monitor

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/awhite/hostwatch/internal/config"
	"github.com/awhite/hostwatch/internal/engine"
	"github.com/awhite/hostwatch/internal/probe"
)

// DefaultRefreshInterval is the render tick period. Decoupled from the probe
// cadence: snapshots are cheap copies, so the dashboard can refresh faster
// than probes complete.
const DefaultRefreshInterval = time.Second

// Model is the Bubble Tea model for the monitoring dashboard. It owns no
// probe state; everything rendered comes from the latest engine snapshot.
type Model struct {
	source     Source
	targets    []config.Target // display order, re-sorted on refresh
	order      map[string]int  // target ID -> config position, for default sort
	snap       engine.Snapshot
	selected   int
	width      int
	height     int
	interval   time.Duration
	lastUpdate time.Time
	quitting   bool
	sortOrder  SortOrder
	viewMode   ViewMode
	showHelp   bool

	detailViewport viewport.Model
	viewportReady  bool
}

// tickMsg signals a periodic snapshot refresh.
type tickMsg time.Time

// NewModel creates a dashboard model reading from the given source.
// interval is the render tick period (0 uses the default).
func NewModel(source Source, interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	targets := source.Targets()
	display := make([]config.Target, len(targets))
	copy(display, targets)

	order := make(map[string]int, len(targets))
	for i, t := range targets {
		order[t.ID()] = i
	}

	m := Model{
		source:    source,
		targets:   display,
		order:     order,
		snap:      source.Snapshot(),
		interval:  interval,
		sortOrder: SortByDefault,
	}
	m.sortTargets()
	if len(m.targets) > 0 {
		m.selected = 0
	}
	return m
}

// Init starts the refresh tick.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.viewportReady {
			m.detailViewport = viewport.New(m.width, viewportHeight)
			m.detailViewport.YPosition = headerHeight
			m.viewportReady = true
		} else {
			m.detailViewport.Width = m.width
			m.detailViewport.Height = viewportHeight
		}

		if m.viewMode == ViewDetail {
			m.updateDetailViewportContent()
		}

	case tickMsg:
		m.refresh()
		return m, m.tickCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.viewMode == ViewDetail {
		return m.renderDetail()
	}
	return m.renderDashboard()
}

// tickCmd returns a command that sends a tick after the refresh interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh pulls a fresh snapshot and re-sorts the display order.
func (m *Model) refresh() {
	m.snap = m.source.Snapshot()
	m.lastUpdate = m.snap.Taken
	m.sortTargets()
	if m.viewMode == ViewDetail {
		m.updateDetailViewportContent()
	}
}

// health returns the stored health for one pair of the selected snapshot.
func (m Model) health(t config.Target, kind probe.Kind) (engine.Health, bool) {
	h, ok := m.snap.Health[engine.Key{Target: t.ID(), Kind: kind}]
	return h, ok
}

// targetClass derives the worst class across a target's enabled probe kinds,
// so one failing kind is enough to flag the card.
func (m Model) targetClass(t config.Target) engine.Class {
	worst := engine.ClassUnknown
	seen := false
	for _, kind := range []probe.Kind{probe.KindICMP, probe.KindSSH} {
		h, ok := m.health(t, kind)
		if !ok {
			continue
		}
		c := engine.Classify(h, m.source.DownThreshold())
		if !seen || classSeverity(c) > classSeverity(worst) {
			worst = c
			seen = true
		}
	}
	return worst
}

// classSeverity orders classes for worst-of comparisons and status sorting.
// Unknown sits between healthy and degraded: not known good, not known bad.
func classSeverity(c engine.Class) int {
	switch c {
	case engine.ClassHealthy:
		return 0
	case engine.ClassUnknown:
		return 1
	case engine.ClassDegraded:
		return 2
	case engine.ClassDown:
		return 3
	default:
		return 0
	}
}

// targetLatency returns a representative latency for sorting: the last ICMP
// latency when available, else SSH. Targets without a successful probe sort
// to the end.
func (m Model) targetLatency(t config.Target) (time.Duration, bool) {
	for _, kind := range []probe.Kind{probe.KindICMP, probe.KindSSH} {
		if h, ok := m.health(t, kind); ok && !h.LastSuccess.IsZero() {
			return h.LastLatency, true
		}
	}
	return 0, false
}

// SelectedTarget returns the currently selected target.
func (m Model) SelectedTarget() (config.Target, bool) {
	if m.selected >= 0 && m.selected < len(m.targets) {
		return m.targets[m.selected], true
	}
	return config.Target{}, false
}

// SecondsSinceUpdate returns how many seconds have passed since the last
// snapshot refresh.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(time.Since(m.lastUpdate).Seconds())
}

// sortTargets sorts the display order based on the current sort mode,
// preserving the selection by target identity.
func (m *Model) sortTargets() {
	if len(m.targets) == 0 {
		return
	}

	selectedID := ""
	if m.selected >= 0 && m.selected < len(m.targets) {
		selectedID = m.targets[m.selected].ID()
	}

	switch m.sortOrder {
	case SortByName:
		sort.Slice(m.targets, func(i, j int) bool {
			return m.targets[i].DisplayName() < m.targets[j].DisplayName()
		})

	case SortByLatency:
		sort.Slice(m.targets, func(i, j int) bool {
			latI, okI := m.targetLatency(m.targets[i])
			latJ, okJ := m.targetLatency(m.targets[j])
			if okI != okJ {
				return okI
			}
			if !okI {
				return m.order[m.targets[i].ID()] < m.order[m.targets[j].ID()]
			}
			return latI < latJ
		})

	case SortByStatus:
		sort.Slice(m.targets, func(i, j int) bool {
			sevI := classSeverity(m.targetClass(m.targets[i]))
			sevJ := classSeverity(m.targetClass(m.targets[j]))
			if sevI != sevJ {
				return sevI > sevJ
			}
			return m.order[m.targets[i].ID()] < m.order[m.targets[j].ID()]
		})

	default:
		// Failing targets first so problems are visible without scrolling,
		// config order within each group
		sort.Slice(m.targets, func(i, j int) bool {
			failI := classSeverity(m.targetClass(m.targets[i])) >= classSeverity(engine.ClassDegraded)
			failJ := classSeverity(m.targetClass(m.targets[j])) >= classSeverity(engine.ClassDegraded)
			if failI != failJ {
				return failI
			}
			return m.order[m.targets[i].ID()] < m.order[m.targets[j].ID()]
		})
	}

	if selectedID != "" {
		for i, t := range m.targets {
			if t.ID() == selectedID {
				m.selected = i
				break
			}
		}
	}
}
