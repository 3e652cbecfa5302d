package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flappy-neat/internal/platform/tui"
	"github.com/vovakirdan/flappy-neat/internal/storage"
)

var flagClearScores bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show human high scores",
	Long: `Display the high scores from 'flappy play' in an interactive table.
Outside a terminal, or with --plain, print the top 10 as text.

Examples:
  flappy scores
  flappy scores --plain
  flappy scores --clear
  flappy scores --db ./flappy.db`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print scores as text instead of the interactive table")
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete all recorded scores")
}

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer store.Close()

	if flagClearScores {
		if err := store.ClearScores("flappy"); err != nil {
			return fmt.Errorf("clear scores: %w", err)
		}
		fmt.Println("Scores cleared.")
		return nil
	}

	if flagPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return printScores(os.Stdout, store)
	}

	cfg := terminalConfig()
	return tui.RunHistory(store, tui.TabScores, cfg.ScreenW, cfg.ScreenH)
}

func printScores(w io.Writer, store *storage.Store) error {
	scores, err := store.TopScores("flappy", 10)
	if err != nil {
		return fmt.Errorf("retrieve scores: %w", err)
	}

	fmt.Fprintln(w, "High Scores - Flappy Bird")
	fmt.Fprintln(w)

	if len(scores) == 0 {
		fmt.Fprintln(w, "No scores recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'flappy play' to set the first high score!")
		return nil
	}

	fmt.Fprintf(w, "  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Fprintf(w, "  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Fprintf(w, "  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	best, err := store.HighScore("flappy")
	if err != nil {
		return fmt.Errorf("retrieve high score: %w", err)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Best: %d\n", best)
	return nil
}
