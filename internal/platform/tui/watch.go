package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flappy-neat/internal/core"
	"github.com/vovakirdan/flappy-neat/internal/evolve"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
)

const maxWatchSpeed = 64

// WatchModel animates training: every frame advances the current
// generation's shared session by speed ticks, and a finished session breeds
// the next generation.
type WatchModel struct {
	ctx     context.Context
	trainer *evolve.Trainer
	limit   int
	fps     int

	session *evolve.Session
	started time.Time
	last    evolve.GenerationStats
	alive   int

	screen  *core.Screen
	keys    KeyMap
	help    help.Model
	speed   int
	paused  bool
	done    bool
	message string
	err     error
}

// NewWatchModel creates a watch model that trains for up to limit
// generations.
func NewWatchModel(ctx context.Context, trainer *evolve.Trainer, limit int, cfg core.RuntimeConfig) WatchModel {
	return WatchModel{
		ctx:     ctx,
		trainer: trainer,
		limit:   limit,
		fps:     cfg.TickRate,
		screen:  core.NewScreen(cfg.ScreenW, cfg.ScreenH-1),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		speed:   1,
	}
}

// Init starts the frame loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.fps)
}

// Update handles messages and advances training.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.keys.Action(msg) {
		case core.ActionQuit:
			return m, tea.Quit
		case core.ActionPause:
			m.paused = !m.paused
		case core.ActionFaster:
			m.speed = core.Min(m.speed*2, maxWatchSpeed)
		case core.ActionSlower:
			m.speed = core.Max(m.speed/2, 1)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height-1)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if m.done || m.paused {
			return m, tickCmd(m.fps)
		}
		if err := m.advance(); err != nil {
			m.err = err
			m.finish(fmt.Sprintf("Training stopped: %v", err))
		}
		return m, tickCmd(m.fps)
	}

	return m, nil
}

// advance runs up to speed ticks and closes the generation when the session
// ends.
func (m *WatchModel) advance() error {
	if err := m.ctx.Err(); err != nil {
		return err
	}

	if m.session == nil {
		s, err := m.trainer.StartGeneration()
		if err != nil {
			return err
		}
		m.session, m.started = s, time.Now()
	}

	for i := 0; i < m.speed && !m.session.Done(); i++ {
		res, err := m.session.Step()
		if err != nil {
			return err
		}
		m.alive = res.Alive
	}
	if !m.session.Done() {
		return nil
	}

	stats, err := m.trainer.FinishGeneration(m.ctx, m.session, m.started)
	if err != nil {
		return err
	}
	m.last = stats

	switch {
	case m.trainer.Reached(stats):
		m.finish(fmt.Sprintf("Fitness %.2f reached in generation %d", stats.BestFitness, stats.Generation))
	case m.trainer.Generation() >= m.limit:
		m.finish(fmt.Sprintf("Finished %d generations", m.trainer.Generation()))
	default:
		m.session = nil
	}
	return nil
}

func (m *WatchModel) finish(msg string) {
	m.done = true
	m.message = msg
}

func (m WatchModel) hud() []string {
	best := 0.0
	if c := m.trainer.Champion(); c != nil {
		best = c.Fitness
	}
	lines := []string{
		fmt.Sprintf("Gen %d/%d", m.trainer.Generation(), m.limit),
		fmt.Sprintf("Alive %d/%d", m.alive, len(m.trainer.Population().Organisms)),
		fmt.Sprintf("Species %d", len(m.trainer.Population().Species)),
		fmt.Sprintf("Best %.2f", best),
		fmt.Sprintf("Speed x%d", m.speed),
	}
	if m.last.Population > 0 {
		lines = append(lines, fmt.Sprintf("Last %.2f/%d species", m.last.BestFitness, m.last.Species))
	}
	return lines
}

// View renders the current session with a training HUD.
func (m WatchModel) View() string {
	m.screen.Clear()
	if m.session != nil {
		flappy.RenderWorld(m.screen, m.session.World(), m.hud()...)
	} else {
		for i, line := range m.hud() {
			m.screen.DrawTextColored(1, i, line, core.ColorCyan)
		}
	}

	h := m.screen.Height()
	switch {
	case m.done:
		m.screen.DrawTextCentered(h/2, m.message)
		m.screen.DrawTextCentered(h/2+1, "Press Q to exit")
	case m.paused:
		m.screen.DrawTextCentered(h/2, "PAUSED")
	}

	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.ShortHelpView([]key.Binding{
		m.keys.Pause, m.keys.Faster, m.keys.Slower, m.keys.Quit,
	}))
}

// Err returns the error that stopped training, if any.
func (m WatchModel) Err() error {
	return m.err
}

// RunWatch shows training live until the user quits.
func RunWatch(ctx context.Context, trainer *evolve.Trainer, limit int, cfg core.RuntimeConfig) error {
	final, err := tea.NewProgram(NewWatchModel(ctx, trainer, limit, cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(WatchModel); ok {
		return m.Err()
	}
	return nil
}
