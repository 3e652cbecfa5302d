// Package tui runs the flappy world in the terminal with Bubble Tea: the
// human game, the live training view and the history tables.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick.
type TickMsg time.Time

// tickCmd returns a command that sends one TickMsg after a frame at fps.
func tickCmd(fps int) tea.Cmd {
	if fps < 1 {
		fps = 1
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
