package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-neat/internal/evolve"
)

var flagReplays int

var replayCmd = &cobra.Command{
	Use:   "replay <champion.yaml>",
	Short: "Score a saved champion on fresh pipe layouts",
	Long: `Load a champion written by evolve or watch and fly it alone through
several pipe layouts, reporting ticks survived and pipes passed.

Examples:
  flappy replay ./runs/first/champion.yaml
  flappy replay champion.yaml --runs 20 --seed 7`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().IntVar(&flagReplays, "runs", 5, "Number of pipe layouts to fly")
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	champ, err := evolve.LoadChampion(args[0])
	if err != nil {
		return err
	}
	harness, err := evolve.NewHarness(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Champion of generation %d (fitness %.2f, %d nodes, %d genes)\n\n",
		champ.Generation, champ.Fitness, len(champ.Nodes), len(champ.Genes))
	fmt.Printf("  %-4s  %-20s  %-6s  %-6s  %s\n", "Run", "Seed", "Ticks", "Score", "Fitness")
	fmt.Printf("  %-4s  %-20s  %-6s  %-6s  %s\n", "---", "----", "-----", "-----", "-------")

	base := seed()
	best := 0
	for i := 0; i < flagReplays; i++ {
		policy, err := champ.Policy(cfg.Evolution.DecisionThreshold)
		if err != nil {
			return err
		}
		cand := &replayCandidate{AgentPolicy: policy}

		s := base + int64(i)
		res, err := harness.Evaluate(ctx, s, []evolve.Candidate{cand})
		if err != nil {
			return err
		}
		fmt.Printf("  %-4d  %-20d  %-6d  %-6d  %.2f\n", i+1, s, res.Ticks, res.Score, cand.fitness)
		best = max(best, res.Score)
	}

	fmt.Printf("\nBest score: %d\n", best)
	return nil
}

// replayCandidate keeps the fitness a replay earns.
type replayCandidate struct {
	*evolve.AgentPolicy
	fitness float64
}

func (c *replayCandidate) SetFitness(f float64) { c.fitness = f }
