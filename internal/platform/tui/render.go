package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappy-neat/internal/core"
)

// colorStyles maps core.Color to lipgloss styles (ANSI 256 palette).
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          fg("1"),
	core.ColorGreen:        fg("2"),
	core.ColorYellow:       fg("3"),
	core.ColorBlue:         fg("4"),
	core.ColorCyan:         fg("6"),
	core.ColorWhite:        fg("7"),
	core.ColorBrightGreen:  fg("10"),
	core.ColorBrightYellow: fg("11"),
	core.ColorOrange:       fg("208"),
	core.ColorGray:         fg("245"),
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

func styleFor(c core.Color) lipgloss.Style {
	if style, ok := colorStyles[c]; ok {
		return style
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells of the same color share one styled run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		current := s.GetCell(0, y).Color
		run.Reset()
		for x, w := 0, s.Width(); x < w; x++ {
			cell := s.GetCell(x, y)
			if cell.Color != current {
				sb.WriteString(styleFor(current).Render(run.String()))
				run.Reset()
				current = cell.Color
			}
			run.WriteRune(cell.Rune)
		}
		if run.Len() > 0 {
			sb.WriteString(styleFor(current).Render(run.String()))
		}
	}
	return sb.String()
}
