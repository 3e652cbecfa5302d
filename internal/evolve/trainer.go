package evolve

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yaricom/goNEAT/v4/neat"
	"github.com/yaricom/goNEAT/v4/neat/genetics"

	"github.com/vovakirdan/flappy-neat/internal/config"
)

// ErrNoOrganisms is returned when the population is empty.
var ErrNoOrganisms = errors.New("evolve: population has no organisms")

// GenerationHook is called after every evaluated generation. Returning an
// error stops training.
type GenerationHook func(GenerationStats, *Champion) error

// Trainer evolves a goNEAT population against the flappy world. Each
// generation is evaluated in a single shared session, like a flock.
type Trainer struct {
	cfg      config.FlappyConfig
	opts     *neat.Options
	harness  *Harness
	pop      *genetics.Population
	executor *genetics.SequentialPopulationEpochExecutor
	rng      *rand.Rand
	logger   *log.Logger

	generation int
	champion   *Champion
	hooks      []GenerationHook
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithLogger sets the logger for per-generation summaries.
func WithLogger(l *log.Logger) TrainerOption {
	return func(t *Trainer) { t.logger = l }
}

// WithHook registers a generation hook.
func WithHook(h GenerationHook) TrainerOption {
	return func(t *Trainer) { t.hooks = append(t.hooks, h) }
}

// NewTrainer seeds a population from the starting topology.
func NewTrainer(cfg config.FlappyConfig, opts *neat.Options, seed int64, topts ...TrainerOption) (*Trainer, error) {
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	harness, err := NewHarness(cfg)
	if err != nil {
		return nil, err
	}

	t := &Trainer{
		cfg:      cfg,
		opts:     opts,
		harness:  harness,
		executor: &genetics.SequentialPopulationEpochExecutor{},
		rng:      rand.New(rand.NewSource(seed)),
		logger:   log.Default(),
	}
	for _, o := range topts {
		o(t)
	}
	if err := routeNEATLogs(t.logger, opts.LogLevel); err != nil {
		return nil, err
	}

	t.pop, err = genetics.NewPopulation(SeedGenome(1, t.rng), opts)
	if err != nil {
		return nil, fmt.Errorf("evolve: create population: %w", err)
	}
	return t, nil
}

// routeNEATLogs sends goNEAT's package-level log output through logger. The
// goNEAT level (warn when empty) is a floor on top of the logger's own level.
// The hooks are process-wide, so the most recent trainer owns them.
func routeNEATLogs(logger *log.Logger, level string) error {
	if level == "" {
		level = string(neat.LogLevelWarning)
	}
	if err := neat.InitLogger(level); err != nil {
		return fmt.Errorf("evolve: neat options: %w", err)
	}

	l := logger.WithPrefix("neat")
	if floor := neatLevels[neat.LogLevel]; floor > l.GetLevel() {
		l.SetLevel(floor)
	}

	neat.DebugLog = func(msg string) { l.Debug(msg) }
	neat.InfoLog = func(msg string) { l.Info(msg) }
	neat.WarnLog = func(msg string) { l.Warn(msg) }
	neat.ErrorLog = func(msg string) { l.Error(msg) }
	return nil
}

var neatLevels = map[neat.LoggerLevel]log.Level{
	neat.LogLevelDebug:   log.DebugLevel,
	neat.LogLevelInfo:    log.InfoLevel,
	neat.LogLevelWarning: log.WarnLevel,
	neat.LogLevelError:   log.ErrorLevel,
}

// Generation returns the number of the next generation to be evaluated.
func (t *Trainer) Generation() int { return t.generation }

// Champion returns the best genome seen so far, or nil before the first
// generation.
func (t *Trainer) Champion() *Champion { return t.champion }

// Population returns the current population.
func (t *Trainer) Population() *genetics.Population { return t.pop }

// StartGeneration builds one candidate per organism and places them all in a
// fresh session. The session's pipes are seeded per generation.
func (t *Trainer) StartGeneration() (*Session, error) {
	if len(t.pop.Organisms) == 0 {
		return nil, ErrNoOrganisms
	}

	candidates := make([]Candidate, 0, len(t.pop.Organisms))
	for _, org := range t.pop.Organisms {
		policy, err := NewAgentPolicy(org.Genotype, t.cfg.Evolution.DecisionThreshold)
		if err != nil {
			return nil, fmt.Errorf("evolve: organism %d: %w", org.Genotype.Id, err)
		}
		candidates = append(candidates, &organismCandidate{AgentPolicy: policy, org: org})
	}

	return t.harness.NewSession(t.rng.Int63(), candidates)
}

// FinishGeneration records fitness from a finished session, updates the
// champion, runs the hooks and breeds the next generation.
func (t *Trainer) FinishGeneration(ctx context.Context, s *Session, started time.Time) (GenerationStats, error) {
	res := s.Finish()

	stats := GenerationStats{
		Generation: t.generation,
		Population: len(t.pop.Organisms),
		Species:    len(t.pop.Species),
		Ticks:      res.Ticks,
		Score:      res.Score,
		Truncated:  res.Truncated,
		Duration:   time.Since(started),
	}
	stats.BestFitness, stats.MeanFitness, stats.StdFitness, stats.MedFitness, stats.MinFitness = fitnessSummary(res.Fitness)

	if idx, fitness := res.Best(); idx >= 0 {
		if best, ok := s.candidates[idx].(*organismCandidate); ok {
			stats.BestNodes, stats.BestLinks = best.Complexity()
			if t.champion == nil || fitness > t.champion.Fitness {
				t.champion = NewChampion(best.org.Genotype, t.generation, fitness, res.Score)
			}
		}
	}

	t.logger.Info("generation",
		"gen", stats.Generation,
		"best", fmt.Sprintf("%.2f", stats.BestFitness),
		"mean", fmt.Sprintf("%.2f", stats.MeanFitness),
		"score", stats.Score,
		"species", stats.Species,
		"nodes", stats.BestNodes,
		"took", stats.Duration.Round(time.Millisecond),
	)

	for _, h := range t.hooks {
		if err := h(stats, t.champion); err != nil {
			return stats, err
		}
	}

	if err := t.executor.NextEpoch(neat.NewContext(ctx, t.opts), t.generation, t.pop); err != nil {
		return stats, fmt.Errorf("evolve: epoch %d: %w", t.generation, err)
	}
	t.generation++
	return stats, nil
}

// RunGeneration evaluates the current population headlessly and advances it.
func (t *Trainer) RunGeneration(ctx context.Context) (GenerationStats, error) {
	started := time.Now()
	s, err := t.StartGeneration()
	if err != nil {
		return GenerationStats{}, err
	}
	if err := s.Run(ctx); err != nil {
		return GenerationStats{}, err
	}
	return t.FinishGeneration(ctx, s, started)
}

// Reached reports whether stats meet the configured fitness threshold.
func (t *Trainer) Reached(stats GenerationStats) bool {
	threshold := t.cfg.Evolution.FitnessThreshold
	return threshold > 0 && stats.BestFitness >= threshold
}

// Run trains for the configured number of generations or until the fitness
// threshold is reached, and returns the champion.
func (t *Trainer) Run(ctx context.Context) (*Champion, error) {
	for t.generation < t.cfg.Evolution.Generations {
		stats, err := t.RunGeneration(ctx)
		if err != nil {
			return t.champion, err
		}
		if t.Reached(stats) {
			t.logger.Info("fitness threshold reached", "gen", stats.Generation, "best", stats.BestFitness)
			break
		}
	}
	return t.champion, nil
}
