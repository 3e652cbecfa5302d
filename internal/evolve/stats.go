package evolve

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes one evaluated generation.
type GenerationStats struct {
	Generation  int
	Population  int
	Species     int
	Ticks       int
	Score       int
	Truncated   bool
	BestFitness float64
	MeanFitness float64
	StdFitness  float64
	MedFitness  float64
	MinFitness  float64
	BestNodes   int
	BestLinks   int
	Duration    time.Duration
}

// fitnessSummary fills the distribution fields from raw fitness values.
func fitnessSummary(fitness []float64) (best, mean, std, median, worst float64) {
	if len(fitness) == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := append([]float64(nil), fitness...)
	sort.Float64s(sorted)

	mean, std = stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}
	median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return sorted[len(sorted)-1], mean, std, median, sorted[0]
}
