package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-neat/internal/evolve"
)

func TestApplyEnv(t *testing.T) {
	newCmd := func() (*cobra.Command, *string) {
		var v string
		cmd := &cobra.Command{Use: "x"}
		cmd.Flags().StringVar(&v, "db", "default.db", "")
		return cmd, &v
	}

	t.Setenv(envDB, "/tmp/env.db")

	cmd, v := newCmd()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}
	applyEnv(cmd, "db", envDB, v)
	if *v != "/tmp/env.db" {
		t.Errorf("unset flag = %q, want the environment value", *v)
	}

	cmd, v = newCmd()
	if err := cmd.ParseFlags([]string{"--db", "flag.db"}); err != nil {
		t.Fatal(err)
	}
	applyEnv(cmd, "db", envDB, v)
	if *v != "flag.db" {
		t.Errorf("explicit flag = %q, want flag.db", *v)
	}

	applyEnv(cmd, "missing", envDB, v)
	if *v != "flag.db" {
		t.Error("unknown flags must be ignored")
	}
}

func TestGenerationEntry(t *testing.T) {
	s := evolve.GenerationStats{
		Generation:  4,
		Species:     3,
		Ticks:       812,
		Score:       7,
		BestFitness: 45.5,
		MeanFitness: 3.25,
		StdFitness:  1.5,
		BestNodes:   6,
		BestLinks:   5,
	}
	e := generationEntry(9, s)
	if e.RunID != 9 || e.Generation != 4 || e.Score != 7 || e.BestFitness != 45.5 || e.BestLinks != 5 {
		t.Errorf("entry = %+v", e)
	}
}
