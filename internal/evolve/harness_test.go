package evolve

import (
	"context"
	"math"
	"testing"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
)

type scriptedCandidate struct {
	jump    func(obs flappy.Observation) bool
	calls   int
	fitness float64
	set     int
}

func (c *scriptedCandidate) Decide(obs flappy.Observation) (bool, error) {
	c.calls++
	if c.jump == nil {
		return false, nil
	}
	return c.jump(obs), nil
}

func (c *scriptedCandidate) SetFitness(f float64) {
	c.fitness = f
	c.set++
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluateNoCandidates(t *testing.T) {
	h, err := NewHarness(config.DefaultFlappyConfig())
	if err != nil {
		t.Fatalf("NewHarness: %v", err)
	}

	res, err := h.Evaluate(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Ticks != 0 || len(res.Fitness) != 0 || res.Truncated {
		t.Errorf("result = %+v, want an empty session", res)
	}
	if idx, _ := res.Best(); idx != -1 {
		t.Errorf("Best() index = %d, want -1", idx)
	}
}

func TestEvaluateWritesFitnessBack(t *testing.T) {
	h, err := NewHarness(config.DefaultFlappyConfig())
	if err != nil {
		t.Fatalf("NewHarness: %v", err)
	}

	a, b := &scriptedCandidate{}, &scriptedCandidate{}
	res, err := h.Evaluate(context.Background(), 1, []Candidate{a, b})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	// Never jumping, a bird falls from y=350 to the ground in 23 ticks.
	if res.Ticks != 23 || res.Truncated {
		t.Errorf("ticks=%d truncated=%v, want 23 and false", res.Ticks, res.Truncated)
	}
	for i, c := range []*scriptedCandidate{a, b} {
		if c.set != 1 {
			t.Errorf("candidate %d: SetFitness called %d times, want 1", i, c.set)
		}
		if !approx(c.fitness, 2.3) || !approx(res.Fitness[i], c.fitness) {
			t.Errorf("candidate %d: fitness %v (reported %v), want 2.3", i, c.fitness, res.Fitness[i])
		}
		if c.calls != 23 {
			t.Errorf("candidate %d: decided %d times, want 23", i, c.calls)
		}
	}
}

func TestEvaluateTruncatesAtMaxTicks(t *testing.T) {
	h, err := NewHarness(config.DefaultFlappyConfig(), WithMaxTicks(10))
	if err != nil {
		t.Fatalf("NewHarness: %v", err)
	}

	c := &scriptedCandidate{}
	res, err := h.Evaluate(context.Background(), 1, []Candidate{c})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !res.Truncated || res.Ticks != 10 {
		t.Errorf("ticks=%d truncated=%v, want 10 and true", res.Ticks, res.Truncated)
	}
	if !approx(c.fitness, 1.0) {
		t.Errorf("fitness = %v, want 1.0", c.fitness)
	}
}

func TestEvaluateCancelled(t *testing.T) {
	h, err := NewHarness(config.DefaultFlappyConfig())
	if err != nil {
		t.Fatalf("NewHarness: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &scriptedCandidate{}
	if _, err := h.Evaluate(ctx, 1, []Candidate{c}); err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
	if c.set != 1 {
		t.Error("fitness should still be reported for a cancelled session")
	}
}

func TestFitnessShaping(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	policy := NewFitnessPolicy(cfg.Fitness)

	// A pipe just ahead of the birds with its gap at [300, 500]: it is
	// passed on tick 2, and a bird that never jumps falls into its bottom
	// half on tick 9.
	w, err := flappy.NewWorld(cfg, 1,
		flappy.WithPipes(flappy.NewPipeAt(cfg.Pipes, 232, 300)),
		flappy.WithScorer(policy),
	)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}

	follower := w.AddAgent(flappy.DeciderFunc(func(obs flappy.Observation) (bool, error) {
		// Jump when the bird's lower edge gets within 30px of the gap bottom.
		return obs.Y+float64(cfg.Bird.Height)+30 > w.ActivePipe().Bottom, nil
	}))
	faller := w.AddAgent(flappy.DeciderFunc(func(flappy.Observation) (bool, error) {
		return false, nil
	}))

	if err := w.Run(context.Background(), 40); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if follower.Retired() {
		t.Fatal("follower should survive 40 ticks")
	}
	if w.Score() != 1 {
		t.Fatalf("score = %d, want 1", w.Score())
	}
	// 40 ticks alive, one pipe passed.
	if want := 40*cfg.Fitness.Survival + cfg.Fitness.PassBonus; !approx(follower.Fitness, want) {
		t.Errorf("follower fitness = %v, want %v", follower.Fitness, want)
	}
	// 9 ticks alive, one pipe passed, one collision.
	if want := 9*cfg.Fitness.Survival + cfg.Fitness.PassBonus - cfg.Fitness.CollisionPenalty; !approx(faller.Fitness, want) {
		t.Errorf("faller fitness = %v, want %v", faller.Fitness, want)
	}
}

func TestGroundPenalty(t *testing.T) {
	p := FitnessPolicy{GroundPenalty: 2}
	a := &flappy.Agent{Fitness: 3}

	p.Grounded(a)
	if a.Fitness != 1 {
		t.Errorf("fitness = %v, want 1", a.Fitness)
	}
}
