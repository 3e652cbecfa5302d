package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var evolveCmd = &cobra.Command{
	Use:   "evolve",
	Short: "Train a population headlessly",
	Long: `Evolve flappy players with NEAT without rendering.

Each generation flies as one flock through a fresh pipe layout. Training
stops after the configured number of generations or once the best fitness
reaches evolution.fitness_threshold.

Examples:
  flappy evolve
  flappy evolve --generations 100 --pop 150 --out ./runs/big
  flappy evolve --neat ./neat.yaml --seed 42`,
	Args: cobra.NoArgs,
	RunE: runEvolve,
}

func init() {
	addTrainingFlags(evolveCmd)
}

func runEvolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(os.Stderr)
	run, err := newTrainingRun(logger)
	if err != nil {
		return err
	}

	_, err = run.trainer.Run(ctx)
	return run.finish(err)
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
