package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-neat/internal/platform/tui"
)

var flagLogFile string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Train while watching each generation fly",
	Long: `Evolve flappy players with NEAT and render every generation's flock.

The lead bird is drawn in yellow. Speed up to 64 ticks per frame to get
through early generations quickly.

Controls:
  +/-        - Faster/slower
  P/Esc      - Pause
  Q/Ctrl+C   - Quit

Examples:
  flappy watch
  flappy watch --pop 30 --out ./runs/watched
  flappy watch --log watch.log`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addTrainingFlags(watchCmd)
	watchCmd.Flags().StringVar(&flagLogFile, "log", "", "Write training logs to this file while the screen is in use")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The alternate screen owns stderr, so logs go to a file or nowhere.
	var w io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		w = f
	}

	run, err := newTrainingRun(newLogger(w))
	if err != nil {
		return err
	}

	err = tui.RunWatch(ctx, run.trainer, run.cfg.Evolution.Generations, terminalConfig())

	// Report the champion where the user can see it.
	run.logger = newLogger(os.Stderr)
	return run.finish(err)
}
