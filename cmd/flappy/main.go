// flappy trains neural networks to play Flappy Bird in the terminal.
//
// Usage:
//
//	flappy play                - Play a game by hand
//	flappy evolve              - Train a population headlessly
//	flappy watch               - Train while rendering each generation live
//	flappy replay <champion>   - Score a saved champion on fresh pipe layouts
//	flappy scores              - Show human high scores
//	flappy runs                - Show past training runs
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 30)
//	--seed <value>   - Set RNG seed for reproducible runs
//	--db <path>      - Set database path (default: ~/.flappy/flappy.db)
//	--config <path>  - Set game config YAML
//
// FLAPPY_DB, FLAPPY_CONFIG, FLAPPY_NEAT and FLAPPY_OUT, from the environment
// or a ./.env file, supply defaults for the matching flags.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/storage"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy NEAT - evolve Flappy Bird players in your terminal",
	Long: `Flappy NEAT runs a Flappy Bird world that a flock of neural networks
learns to play through neuro-evolution (NEAT).

Available commands:
  play     - Play the game yourself
  evolve   - Train a population headlessly
  watch    - Train and watch every generation fly
  replay   - Score a saved champion
  scores   - View human high scores
  runs     - View training history

Examples:
  flappy play
  flappy evolve --generations 50 --out ./runs/first
  flappy watch --pop 30
  flappy replay ./runs/first/champion.yaml
  flappy runs`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnv(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.flappy/flappy.db", "Path to the history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a game config YAML")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(evolveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(runsCmd)
}

// newLogger builds the command logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "flappy",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// seed returns the --seed flag, or a time-based seed when it is 0.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// loadConfig loads the game configuration from --config or the default
// search path.
func loadConfig() (config.FlappyConfig, error) {
	cfg, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return config.FlappyConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the history database. A failure is logged and yields nil;
// commands keep working without history.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open history database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}
