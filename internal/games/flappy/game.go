package flappy

import (
	"fmt"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/core"
)

// Game is the human-playable session: one bird driven by the keyboard.
type Game struct {
	cfg      config.FlappyConfig
	world    *World
	input    *HumanInput
	gameOver bool
	paused   bool
}

// NewGame validates cfg and returns a game ready for Reset.
func NewGame(cfg config.FlappyConfig) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Game{cfg: cfg}, nil
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "flappy"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Flappy Bird"
}

// Reset starts a fresh session seeded from rc.Seed.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.world = newWorld(g.cfg, rc.Seed)
	g.input = &HumanInput{}
	g.world.AddAgent(g.input)
	g.gameOver = false
	g.paused = false
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionJump) {
		g.input.Press()
	}

	// HumanInput never fails, so Step cannot either.
	_, _ = g.world.Step()
	g.gameOver = g.world.Done()

	return core.StepResult{State: g.State()}
}

// Render draws the current game state.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	RenderWorld(dst, g.world)

	if g.paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if g.gameOver {
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", g.world.Score()))
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	score := 0
	if g.world != nil {
		score = g.world.Score()
	}
	return core.GameState{
		Score:    score,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// World exposes the underlying session.
func (g *Game) World() *World {
	return g.world
}
