package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flappy-neat/internal/platform/tui"
	"github.com/vovakirdan/flappy-neat/internal/storage"
	"github.com/vovakirdan/flappy-neat/internal/telemetry"
)

var flagPlain bool

var runsCmd = &cobra.Command{
	Use:   "runs [run-id | run-dir]",
	Short: "Show training history",
	Long: `Browse past training runs and human scores in an interactive table.
With a run ID, print that run's generations instead. With a run directory,
print the generations recorded in its generations.csv.

Examples:
  flappy runs
  flappy runs --plain
  flappy runs 3
  flappy runs ./runs/20260101_120000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print runs as text instead of the interactive table")
}

func runRuns(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
			return printRunDir(os.Stdout, args[0])
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer store.Close()

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}
		return printRun(store, id)
	}

	if flagPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return printRuns(store)
	}

	cfg := terminalConfig()
	return tui.RunHistory(store, tui.TabRuns, cfg.ScreenW, cfg.ScreenH)
}

func printRuns(store *storage.Store) error {
	runs, err := store.RecentRuns(20)
	if err != nil {
		return fmt.Errorf("retrieve runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No training runs yet. Start one with 'flappy evolve'.")
		return nil
	}

	fmt.Printf("  %-4s  %-9s  %-5s  %-4s  %-9s  %-5s  %s\n", "Run", "Status", "Gens", "Pop", "Best", "Score", "Started")
	for _, r := range runs {
		fmt.Printf("  %-4d  %-9s  %-5d  %-4d  %-9.2f  %-5d  %s\n",
			r.ID, r.Status, r.Generations, r.PopSize, r.BestFitness, r.BestScore,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printRun(store *storage.Store, id int64) error {
	run, err := store.Run(id)
	if err != nil {
		return fmt.Errorf("retrieve run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run %d not found", id)
	}
	gens, err := store.RunGenerations(id)
	if err != nil {
		return fmt.Errorf("retrieve generations: %w", err)
	}
	if len(gens) == 0 && run.OutputDir != "" {
		return printRunDir(os.Stdout, run.OutputDir)
	}

	fmt.Printf("Run %d (%s), seed %d, population %d\n", run.ID, run.Status, run.Seed, run.PopSize)
	if run.ChampionPath != "" {
		fmt.Printf("Champion: %s\n", run.ChampionPath)
	}
	fmt.Println()

	fmt.Printf("  %-4s  %-7s  %-6s  %-5s  %-9s  %-9s  %s\n", "Gen", "Species", "Ticks", "Score", "Best", "Mean", "Nodes/Links")
	for _, g := range gens {
		fmt.Printf("  %-4d  %-7d  %-6d  %-5d  %-9.2f  %-9.2f  %d/%d\n",
			g.Generation, g.Species, g.Ticks, g.Score, g.BestFitness, g.MeanFitness, g.BestNodes, g.BestLinks)
	}
	return nil
}

// printRunDir prints the generations.csv of a run directory.
func printRunDir(w io.Writer, dir string) error {
	records, err := telemetry.ReadGenerations(filepath.Join(dir, telemetry.GenerationsFile))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(w, "No generations recorded in %s.\n", dir)
		return nil
	}

	fmt.Fprintf(w, "Run directory %s, %d generations\n\n", dir, len(records))
	fmt.Fprintf(w, "  %-4s  %-7s  %-6s  %-5s  %-9s  %-9s  %-9s  %s\n", "Gen", "Species", "Ticks", "Score", "Best", "Mean", "Std", "Nodes/Links")
	for _, r := range records {
		ticks := strconv.Itoa(r.Ticks)
		if r.Truncated {
			ticks += "+"
		}
		fmt.Fprintf(w, "  %-4d  %-7d  %-6s  %-5d  %-9.2f  %-9.2f  %-9.2f  %d/%d\n",
			r.Generation, r.Species, ticks, r.Score, r.BestFitness, r.MeanFitness, r.StdFitness, r.BestNodes, r.BestLinks)
	}
	return nil
}
