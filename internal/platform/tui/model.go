package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-neat/internal/core"
	"github.com/vovakirdan/flappy-neat/internal/storage"
)

// Game is a tick-driven game the play screen can run. Games hold pure logic
// with no Bubble Tea dependency; the platform maps input, timing and
// rendering.
type Game interface {
	// ID returns a unique identifier, used for score storage.
	ID() string

	// Title returns a human-readable name.
	Title() string

	// Reset starts or restarts the game.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into dst.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for playing a game by hand.
type Model struct {
	game       Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	best       int
	quitting   bool
	scoreSaved bool // whether the score has been saved for the current game over
}

// NewModel creates a play model for game.
func NewModel(game Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.Default()
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH-1),
		store:      store,
		logger:     logger,
		config:     cfg,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
	}
	if store != nil {
		best, err := store.HighScore(game.ID())
		if err != nil {
			logger.Warn("high score not loaded", "err", err)
		}
		m.best = best
	}
	return m
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	// The game is held by pointer, so Reset sticks despite the value receiver.
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		// The world is in logical pixels, so resizing only rescales the view.
		m.screen.Resize(msg.Width, msg.Height-1)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}
	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveScore()
		m.scoreSaved = true
		m.best = core.Max(m.best, m.gameState.Score)
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

func (m Model) saveScore() {
	if m.store == nil || m.gameState.Score == 0 {
		return
	}
	if _, err := m.store.SaveScore(m.game.ID(), m.gameState.Score); err != nil {
		m.logger.Warn("score not saved", "err", err)
	}
}

// saveScreenshot writes the current frame as plain text.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".flappy", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot directory", "err", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot not saved", "err", err)
	}
}

// View renders the game and a help line led by the best score.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	status := fmt.Sprintf("Best %d  ", m.best)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(status+m.help.View(m.keys))
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts the play screen and returns the final game state.
func Run(game Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) (core.GameState, error) {
	p := tea.NewProgram(NewModel(game, store, cfg, logger), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return core.GameState{}, err
	}
	if m, ok := final.(Model); ok {
		return m.State(), nil
	}
	return core.GameState{}, nil
}
