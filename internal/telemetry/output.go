// Package telemetry writes per-generation training output to a run
// directory: generations.csv and the champion genome.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/evolve"
)

// File names inside a run directory.
const (
	GenerationsFile = "generations.csv"
	ChampionFile    = "champion.yaml"
	ConfigFile      = "config.yaml"
)

// GenerationRecord is one row of generations.csv.
type GenerationRecord struct {
	Generation  int     `csv:"generation"`
	Population  int     `csv:"population"`
	Species     int     `csv:"species"`
	Ticks       int     `csv:"ticks"`
	Score       int     `csv:"score"`
	Truncated   bool    `csv:"truncated"`
	BestFitness float64 `csv:"best_fitness"`
	MeanFitness float64 `csv:"mean_fitness"`
	StdFitness  float64 `csv:"std_fitness"`
	MedFitness  float64 `csv:"median_fitness"`
	MinFitness  float64 `csv:"min_fitness"`
	BestNodes   int     `csv:"best_nodes"`
	BestLinks   int     `csv:"best_links"`
	DurationMS  int64   `csv:"duration_ms"`
}

// NewGenerationRecord flattens generation stats into a CSV row.
func NewGenerationRecord(s evolve.GenerationStats) GenerationRecord {
	return GenerationRecord{
		Generation:  s.Generation,
		Population:  s.Population,
		Species:     s.Species,
		Ticks:       s.Ticks,
		Score:       s.Score,
		Truncated:   s.Truncated,
		BestFitness: s.BestFitness,
		MeanFitness: s.MeanFitness,
		StdFitness:  s.StdFitness,
		MedFitness:  s.MedFitness,
		MinFitness:  s.MinFitness,
		BestNodes:   s.BestNodes,
		BestLinks:   s.BestLinks,
		DurationMS:  s.Duration.Milliseconds(),
	}
}

// OutputManager owns a run directory.
type OutputManager struct {
	dir             string
	generationsFile *os.File

	headerWritten bool
}

// NewOutputManager creates the run directory and generations.csv.
// Returns nil if dir is empty (output disabled); all methods accept a nil
// receiver.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, GenerationsFile))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", GenerationsFile, err)
	}

	return &OutputManager{dir: dir, generationsFile: f}, nil
}

// Dir returns the run directory.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteConfig saves the game configuration used for the run.
func (om *OutputManager) WriteConfig(cfg config.FlappyConfig) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteGeneration appends one generation row, writing the header first.
func (om *OutputManager) WriteGeneration(s evolve.GenerationStats) error {
	if om == nil {
		return nil
	}

	records := []GenerationRecord{NewGenerationRecord(s)}

	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.generationsFile); err != nil {
			return fmt.Errorf("writing generation: %w", err)
		}
		om.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.generationsFile); err != nil {
			return fmt.Errorf("writing generation: %w", err)
		}
	}

	return nil
}

// WriteChampion saves the champion genome.
func (om *OutputManager) WriteChampion(c *evolve.Champion) error {
	if om == nil || c == nil {
		return nil
	}
	return c.Save(om.ChampionPath())
}

// ChampionPath returns where the champion is written.
func (om *OutputManager) ChampionPath() string {
	if om == nil {
		return ""
	}
	return filepath.Join(om.dir, ChampionFile)
}

// Close flushes and closes output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	if err := om.generationsFile.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", GenerationsFile, err)
	}
	return nil
}

// ReadGenerations loads a generations.csv file.
func ReadGenerations(path string) ([]GenerationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []GenerationRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}
