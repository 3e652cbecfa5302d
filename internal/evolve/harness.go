// Package evolve couples the flappy world to NEAT: it shapes fitness from
// world events, evaluates whole populations in one shared session and
// drives goNEAT generation by generation.
package evolve

import (
	"context"
	"fmt"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
)

// FitnessPolicy turns world events into fitness deltas.
type FitnessPolicy struct {
	Survival         float64 // added every tick an agent is alive
	CollisionPenalty float64 // subtracted when an agent hits a pipe
	PassBonus        float64 // added to every survivor when a pipe is passed
	GroundPenalty    float64 // subtracted when an agent leaves the play area
}

// NewFitnessPolicy builds a policy from configuration.
func NewFitnessPolicy(cfg config.FitnessConfig) FitnessPolicy {
	return FitnessPolicy{
		Survival:         cfg.Survival,
		CollisionPenalty: cfg.CollisionPenalty,
		PassBonus:        cfg.PassBonus,
		GroundPenalty:    cfg.GroundPenalty,
	}
}

// Survived rewards an agent for living through one more tick.
func (p FitnessPolicy) Survived(a *flappy.Agent) { a.Fitness += p.Survival }

// Collided charges an agent that hit a pipe.
func (p FitnessPolicy) Collided(a *flappy.Agent) { a.Fitness -= p.CollisionPenalty }

// PassedPipe rewards every agent still alive when a pipe is cleared.
func (p FitnessPolicy) PassedPipe(a *flappy.Agent) { a.Fitness += p.PassBonus }

// Grounded charges an agent that left through the floor or the ceiling.
func (p FitnessPolicy) Grounded(a *flappy.Agent) { a.Fitness -= p.GroundPenalty }

// Candidate is one population member under evaluation: it controls a bird
// and receives its final fitness.
type Candidate interface {
	flappy.Decider
	SetFitness(fitness float64)
}

// SessionResult is the outcome of evaluating a set of candidates together.
type SessionResult struct {
	Ticks     int
	Score     int
	Fitness   []float64 // per candidate, in input order
	Truncated bool      // stopped at the tick limit with birds still alive
}

// Best returns the index and fitness of the fittest candidate, or -1 when
// the session had no candidates.
func (r SessionResult) Best() (int, float64) {
	best := -1
	for i, f := range r.Fitness {
		if best < 0 || f > r.Fitness[best] {
			best = i
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, r.Fitness[best]
}

// Harness evaluates candidates in a headless world.
type Harness struct {
	cfg      config.FlappyConfig
	policy   FitnessPolicy
	sprites  *flappy.Sprites
	maxTicks int
}

// HarnessOption configures a Harness.
type HarnessOption func(*Harness)

// WithMaxTicks caps session length; 0 means unlimited.
func WithMaxTicks(n int) HarnessOption {
	return func(h *Harness) { h.maxTicks = n }
}

// WithPolicy overrides the fitness policy from configuration.
func WithPolicy(p FitnessPolicy) HarnessOption {
	return func(h *Harness) { h.policy = p }
}

// WithHarnessSprites overrides the collision masks.
func WithHarnessSprites(s *flappy.Sprites) HarnessOption {
	return func(h *Harness) { h.sprites = s }
}

// NewHarness validates cfg and returns a harness using its fitness settings
// and tick limit.
func NewHarness(cfg config.FlappyConfig, opts ...HarnessOption) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &Harness{
		cfg:      cfg,
		policy:   NewFitnessPolicy(cfg.Fitness),
		maxTicks: cfg.Evolution.MaxTicks,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.sprites == nil {
		h.sprites = flappy.DefaultSprites(cfg)
	}
	return h, nil
}

// Session is one in-progress evaluation. It can be stepped tick by tick
// for rendering or run to completion.
type Session struct {
	world      *flappy.World
	agents     []*flappy.Agent
	candidates []Candidate
	maxTicks   int
	finished   bool
}

// NewSession places one bird per candidate into a fresh world.
func (h *Harness) NewSession(seed int64, candidates []Candidate) (*Session, error) {
	w, err := flappy.NewWorld(h.cfg, seed,
		flappy.WithScorer(h.policy),
		flappy.WithSprites(h.sprites),
	)
	if err != nil {
		return nil, err
	}

	s := &Session{
		world:      w,
		agents:     make([]*flappy.Agent, len(candidates)),
		candidates: candidates,
		maxTicks:   h.maxTicks,
	}
	for i, c := range candidates {
		s.agents[i] = w.AddAgent(c)
	}
	return s, nil
}

// World exposes the session's world for rendering.
func (s *Session) World() *flappy.World { return s.world }

// Done reports whether the session has no live birds or hit its tick limit.
func (s *Session) Done() bool {
	return s.world.Done() || (s.maxTicks > 0 && s.world.Tick() >= s.maxTicks)
}

// Step advances the session by one tick unless it is done.
func (s *Session) Step() (flappy.StepResult, error) {
	if s.Done() {
		return flappy.StepResult{Tick: s.world.Tick(), Score: s.world.Score(), Alive: len(s.world.Agents())}, nil
	}
	return s.world.Step()
}

// Run steps the session to completion.
func (s *Session) Run(ctx context.Context) error {
	return s.world.Run(ctx, s.maxTicks)
}

// Finish writes every agent's fitness back to its candidate. It is safe to
// call more than once; fitness is only reported the first time.
func (s *Session) Finish() SessionResult {
	res := SessionResult{
		Ticks:     s.world.Tick(),
		Score:     s.world.Score(),
		Fitness:   make([]float64, len(s.agents)),
		Truncated: !s.world.Done(),
	}
	for i, a := range s.agents {
		res.Fitness[i] = a.Fitness
		if !s.finished {
			s.candidates[i].SetFitness(a.Fitness)
		}
	}
	s.finished = true
	return res
}

// Evaluate runs all candidates in one session and reports their fitness.
// With no candidates it returns immediately.
func (h *Harness) Evaluate(ctx context.Context, seed int64, candidates []Candidate) (SessionResult, error) {
	s, err := h.NewSession(seed, candidates)
	if err != nil {
		return SessionResult{}, err
	}
	if err := s.Run(ctx); err != nil {
		return s.Finish(), fmt.Errorf("evaluate: %w", err)
	}
	return s.Finish(), nil
}
