// Package flappy implements the Flappy Bird simulation: bird, pipe and
// ground physics, pixel-mask collision and a world that advances any number
// of birds in lockstep. The same world backs the human game and the
// headless fitness harness.
package flappy

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/flappy-neat/internal/config"
)

// StepResult summarizes one world tick.
type StepResult struct {
	Tick    int
	Score   int
	Alive   int
	Passed  bool  // a pipe was passed this tick
	Retired []int // IDs of agents removed this tick
}

// Option configures a World.
type Option func(*World)

// WithScorer routes per-agent events to s.
func WithScorer(s Scorer) Option {
	return func(w *World) {
		if s != nil {
			w.scorer = s
		}
	}
}

// WithSprites overrides the collision masks.
func WithSprites(s *Sprites) Option {
	return func(w *World) {
		if s != nil {
			w.sprites = s
		}
	}
}

// WithPipes replaces the initial pipe with the given pipes.
func WithPipes(pipes ...*Pipe) Option {
	return func(w *World) {
		w.pipes = append([]*Pipe(nil), pipes...)
	}
}

// World is one play session: live agents, pipes, the ground and the score.
// It is not safe for concurrent use.
type World struct {
	cfg     config.FlappyConfig
	rng     *rand.Rand
	sprites *Sprites
	scorer  Scorer

	agents []*Agent
	pipes  []*Pipe
	base   *Base
	nextID int

	score int
	tick  int
}

// NewWorld validates cfg and creates a world with one pipe at FirstX.
func NewWorld(cfg config.FlappyConfig, seed int64, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newWorld(cfg, seed, opts...), nil
}

// newWorld builds a world from an already validated config.
func newWorld(cfg config.FlappyConfig, seed int64, opts ...Option) *World {
	w := &World{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		scorer: nopScorer{},
		base:   NewBase(cfg.Base),
	}
	w.pipes = []*Pipe{NewPipe(cfg.Pipes, cfg.Pipes.FirstX, w.rng)}
	for _, opt := range opts {
		opt(w)
	}
	if w.sprites == nil {
		w.sprites = DefaultSprites(cfg)
	}
	return w
}

// AddAgent spawns a bird at the start position driven by d.
func (w *World) AddAgent(d Decider) *Agent {
	a := &Agent{
		ID:      w.nextID,
		Bird:    NewBird(w.cfg.Bird, w.cfg.Bird.StartX, w.cfg.Bird.StartY),
		Decider: d,
	}
	w.nextID++
	w.agents = append(w.agents, a)
	return a
}

// Agents returns the live agents in spawn order.
func (w *World) Agents() []*Agent { return w.agents }

// Pipes returns the pipes on screen, oldest first.
func (w *World) Pipes() []*Pipe { return w.pipes }

// Base returns the ground strip.
func (w *World) Base() *Base { return w.base }

// Score returns the number of ticks in which a pipe was passed.
func (w *World) Score() int { return w.score }

// Tick returns the number of ticks stepped so far.
func (w *World) Tick() int { return w.tick }

// Config returns the world's configuration.
func (w *World) Config() config.FlappyConfig { return w.cfg }

// Done reports whether every agent has been retired.
func (w *World) Done() bool { return len(w.agents) == 0 }

// ActivePipe returns the pipe the birds are approaching: the second pipe
// once the lead bird has cleared the first one.
func (w *World) ActivePipe() *Pipe {
	if len(w.pipes) == 0 {
		return nil
	}
	if len(w.pipes) > 1 && len(w.agents) > 0 && w.agents[0].Bird.X > w.pipes[0].Right() {
		return w.pipes[1]
	}
	return w.pipes[0]
}

// Step advances the world by one tick. With no agents left it is a no-op.
// Decisions are taken on advanced copies of the birds before anything is
// committed, so a Decider error leaves the world as it was.
func (w *World) Step() (StepResult, error) {
	if w.Done() {
		return w.result(false, nil), nil
	}
	if len(w.pipes) == 0 {
		w.pipes = append(w.pipes, NewPipe(w.cfg.Pipes, w.cfg.Pipes.SpawnX, w.rng))
	}

	target := w.ActivePipe()
	next := make([]Bird, len(w.agents))
	jumps := make([]bool, len(w.agents))
	for i, a := range w.agents {
		next[i] = *a.Bird
		next[i].Advance()

		jump, err := a.Decider.Decide(observe(&next[i], target))
		if err != nil {
			return w.result(false, nil), fmt.Errorf("agent %d: decide: %w", a.ID, err)
		}
		jumps[i] = jump
	}

	w.tick++
	for i, a := range w.agents {
		*a.Bird = next[i]
		w.scorer.Survived(a)
		if jumps[i] {
			a.Bird.Jump()
		}
	}

	w.base.Advance()

	var retired []int
	spawn := false
	for _, p := range w.pipes {
		for _, a := range w.agents {
			if a.retired {
				continue
			}
			if p.CollidesWith(a.Bird, w.sprites) {
				a.retired = true
				retired = append(retired, a.ID)
				w.scorer.Collided(a)
			}
			if !p.Passed && p.X < a.Bird.X {
				p.Passed = true
				spawn = true
			}
		}
	}

	kept := w.pipes[:0]
	for _, p := range w.pipes {
		p.Advance()
		if !p.Offscreen() {
			kept = append(kept, p)
		}
	}
	clear(w.pipes[len(kept):])
	w.pipes = kept

	if spawn {
		w.score++
		w.compact()
		for _, a := range w.agents {
			w.scorer.PassedPipe(a)
		}
		w.pipes = append(w.pipes, NewPipe(w.cfg.Pipes, w.cfg.Pipes.SpawnX, w.rng))
	}

	floor := w.cfg.FloorY()
	for _, a := range w.agents {
		if a.retired {
			continue
		}
		if a.Bird.Y+float64(w.cfg.Bird.Height) >= floor || a.Bird.Y < 0 {
			a.retired = true
			retired = append(retired, a.ID)
			w.scorer.Grounded(a)
		}
	}
	w.compact()

	return w.result(spawn, retired), nil
}

// Run steps the world until every agent is retired, maxTicks ticks have
// elapsed (when maxTicks > 0) or ctx is cancelled. Cancellation is checked
// between ticks, so the world is always left in a consistent state.
func (w *World) Run(ctx context.Context, maxTicks int) error {
	for !w.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if maxTicks > 0 && w.tick >= maxTicks {
			return nil
		}
		if _, err := w.Step(); err != nil {
			return err
		}
	}
	return nil
}

// compact drops retired agents, keeping order.
func (w *World) compact() {
	kept := w.agents[:0]
	for _, a := range w.agents {
		if !a.retired {
			kept = append(kept, a)
		}
	}
	clear(w.agents[len(kept):])
	w.agents = kept
}

func (w *World) result(passed bool, retired []int) StepResult {
	return StepResult{
		Tick:    w.tick,
		Score:   w.score,
		Alive:   len(w.agents),
		Passed:  passed,
		Retired: retired,
	}
}

func observe(b *Bird, p *Pipe) Observation {
	if p == nil {
		return Observation{Y: b.Y}
	}
	return Observation{
		Y:         b.Y,
		GapTop:    math.Abs(b.Y - p.Height),
		GapBottom: math.Abs(b.Y - p.Bottom),
	}
}
