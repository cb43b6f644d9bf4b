package monitor

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyRefresh     = "r"
	KeyCycleSort   = "s"
	KeySelectPrev  = "up"
	KeySelectPrevK = "k"
	KeySelectNext  = "down"
	KeySelectNextJ = "j"
	KeySelectFirst = "home"
	KeySelectLast  = "end"
	KeyExpand      = "enter"
	KeyCollapse    = "esc"
	KeyToggleHelp  = "?"
)

// HandleKeyMsg processes keyboard input. Returns true if the key was handled.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	// If help is showing, Esc closes it
	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	// Detail view scrolling goes to the viewport first
	if m.viewMode == ViewDetail && m.viewportReady {
		switch key {
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return true, cmd
		}
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		m.refresh()
		return true, nil

	case KeyCycleSort:
		m.sortOrder = m.sortOrder.Next()
		m.sortTargets()
		return true, nil

	case KeySelectPrev, KeySelectPrevK:
		if m.selected > 0 {
			m.selected--
			if m.viewMode == ViewDetail {
				m.updateDetailViewportContent()
			}
		}
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		if m.selected < len(m.targets)-1 {
			m.selected++
			if m.viewMode == ViewDetail {
				m.updateDetailViewportContent()
			}
		}
		return true, nil

	case KeySelectFirst:
		m.selected = 0
		return true, nil

	case KeySelectLast:
		if len(m.targets) > 0 {
			m.selected = len(m.targets) - 1
		}
		return true, nil

	case KeyExpand:
		if m.viewMode == ViewList && len(m.targets) > 0 {
			m.viewMode = ViewDetail
			m.updateDetailViewportContent()
		}
		return true, nil

	case KeyCollapse:
		m.viewMode = ViewList
		return true, nil
	}

	return false, nil
}
