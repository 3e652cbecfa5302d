package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flappy-neat/internal/core"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
	"github.com/vovakirdan/flappy-neat/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Flappy Bird",
	Long: `Fly a single bird through the pipes.

Controls:
  Space/Up   - Flap
  P/Esc      - Pause
  R          - Restart (after game over)
  Ctrl+S     - Save a screenshot
  Q/Ctrl+C   - Quit

Examples:
  flappy play
  flappy play --fps 60
  flappy play --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

// terminalConfig returns the runtime config for the current terminal.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)

	gameCfg, err := loadConfig()
	if err != nil {
		return err
	}
	game, err := flappy.NewGame(gameCfg)
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	state, err := tui.Run(game, store, terminalConfig(), logger)
	if err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	fmt.Printf("Final score: %d\n", state.Score)
	return nil
}
