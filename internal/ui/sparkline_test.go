package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestRenderSparklineEmpty(t *testing.T) {
	assert.Empty(t, RenderSparkline(nil, 10, ColorHealthy))
	assert.Empty(t, RenderSparkline([]float64{1, 2}, 0, ColorHealthy))
}

func TestRenderSparklineFlat(t *testing.T) {
	// All identical values should render the middle block
	out := RenderSparkline([]float64{5, 5, 5}, 10, ColorHealthy)
	plain := stripANSI(out)

	assert.Equal(t, 3, len([]rune(plain)))
	for _, r := range plain {
		assert.Equal(t, '▅', r)
	}
}

func TestRenderSparklineRange(t *testing.T) {
	out := RenderSparkline([]float64{0, 100}, 10, ColorDegraded)
	plain := []rune(stripANSI(out))

	assert.Equal(t, '▁', plain[0])
	assert.Equal(t, '█', plain[1])
}

func TestRenderSparklineTruncatesToWidth(t *testing.T) {
	data := make([]float64, 20)
	for i := range data {
		data[i] = float64(i)
	}

	out := RenderSparkline(data, 5, ColorHealthy)
	assert.Equal(t, 5, len([]rune(stripANSI(out))))
}

// stripANSI removes escape sequences so tests can inspect the glyphs.
func stripANSI(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func TestColorsAreANSI(t *testing.T) {
	// Semantic colors should use the low ANSI range for terminal compatibility
	for _, c := range []lipgloss.Color{ColorHealthy, ColorDown, ColorDegraded, ColorInfo} {
		assert.Len(t, string(c), 1)
	}
}
