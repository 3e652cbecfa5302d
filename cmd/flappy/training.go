package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/evolve"
	"github.com/vovakirdan/flappy-neat/internal/storage"
	"github.com/vovakirdan/flappy-neat/internal/telemetry"
)

// Training flags shared by evolve and watch.
var (
	flagNEAT        string
	flagOut         string
	flagGenerations int
	flagPop         int
	flagMaxTicks    int
)

func addTrainingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagNEAT, "neat", "", "Path to a goNEAT options YAML (overrides built-in defaults)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Run directory for generations.csv, champion.yaml and config.yaml")
	cmd.Flags().IntVar(&flagGenerations, "generations", 0, "Generations to train (0 = config value)")
	cmd.Flags().IntVar(&flagPop, "pop", 0, "Population size (0 = NEAT options value)")
	cmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 0, "Tick cap per generation (0 = config value)")
}

// trainingRun ties a trainer to its run directory and history row.
type trainingRun struct {
	cfg     config.FlappyConfig
	trainer *evolve.Trainer
	out     *telemetry.OutputManager
	store   *storage.Store
	runID   int64
	logger  *log.Logger
}

// newTrainingRun loads configuration, applies flag overrides and registers
// the run in the history database.
func newTrainingRun(logger *log.Logger) (*trainingRun, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if flagGenerations > 0 {
		cfg.Evolution.Generations = flagGenerations
	}
	if flagMaxTicks > 0 {
		cfg.Evolution.MaxTicks = flagMaxTicks
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts, err := evolve.LoadNEATOptions(flagNEAT)
	if err != nil {
		return nil, err
	}
	if flagPop > 0 {
		opts.PopSize = flagPop
	}
	if flagVerbose {
		opts.LogLevel = "debug"
	}

	out, err := telemetry.NewOutputManager(flagOut)
	if err != nil {
		return nil, err
	}
	if err := out.WriteConfig(cfg); err != nil {
		out.Close()
		return nil, err
	}

	r := &trainingRun{cfg: cfg, out: out, logger: logger}

	runSeed := seed()
	r.trainer, err = evolve.NewTrainer(cfg, opts, runSeed,
		evolve.WithLogger(logger),
		evolve.WithHook(r.recordGeneration),
	)
	if err != nil {
		out.Close()
		return nil, err
	}

	if r.store = openStore(logger); r.store != nil {
		if r.runID, err = r.store.StartRun(runSeed, opts.PopSize, out.Dir()); err != nil {
			logger.Warn("run not recorded", "err", err)
			r.store.Close()
			r.store = nil
		}
	}

	logger.Info("training",
		"seed", runSeed,
		"pop", opts.PopSize,
		"generations", cfg.Evolution.Generations,
		"max_ticks", cfg.Evolution.MaxTicks,
		"out", out.Dir(),
	)
	return r, nil
}

// recordGeneration appends one generation to the CSV and the database.
func (r *trainingRun) recordGeneration(stats evolve.GenerationStats, _ *evolve.Champion) error {
	if err := r.out.WriteGeneration(stats); err != nil {
		return err
	}
	if r.store != nil {
		if err := r.store.SaveGeneration(generationEntry(r.runID, stats)); err != nil {
			r.logger.Warn("generation not recorded", "gen", stats.Generation, "err", err)
		}
	}
	return nil
}

// finish saves the champion and closes the run with a status derived from
// runErr.
func (r *trainingRun) finish(runErr error) error {
	status := storage.RunFinished
	switch {
	case isCancelled(runErr):
		status = storage.RunCancelled
	case runErr != nil:
		status = storage.RunFailed
	}

	champ := r.trainer.Champion()
	if err := r.out.WriteChampion(champ); err != nil {
		r.logger.Error("champion not saved", "err", err)
	}
	if champ != nil {
		r.logger.Info("champion",
			"gen", champ.Generation,
			"fitness", fmt.Sprintf("%.2f", champ.Fitness),
			"score", champ.Score,
			"path", r.out.ChampionPath(),
		)
	}

	if r.store != nil {
		if err := r.store.FinishRun(r.runID, status, r.out.ChampionPath()); err != nil {
			r.logger.Warn("run not closed", "err", err)
		}
		r.store.Close()
	}
	if err := r.out.Close(); err != nil {
		r.logger.Warn("output not closed", "err", err)
	}

	if isCancelled(runErr) {
		return nil
	}
	return runErr
}

func generationEntry(runID int64, s evolve.GenerationStats) storage.GenerationEntry {
	return storage.GenerationEntry{
		RunID:       runID,
		Generation:  s.Generation,
		Species:     s.Species,
		Ticks:       s.Ticks,
		Score:       s.Score,
		BestFitness: s.BestFitness,
		MeanFitness: s.MeanFitness,
		StdFitness:  s.StdFitness,
		BestNodes:   s.BestNodes,
		BestLinks:   s.BestLinks,
	}
}
