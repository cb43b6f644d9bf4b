package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsInteractive reports whether stdout is attached to a terminal.
// The dashboard refuses to start when output is piped.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ConfigureColorProfile applies the detected terminal color capability to
// lipgloss. Passing forceColor overrides detection (for CI or --color=always).
func ConfigureColorProfile(forceColor bool) {
	if forceColor {
		lipgloss.SetColorProfile(termenv.ANSI256)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}

// DisableColor switches lipgloss to plain ASCII output (--no-color).
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
