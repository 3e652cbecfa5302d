package telemetry

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/evolve"
)

func TestNilManagerIsNoop(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	if err := om.WriteGeneration(evolve.GenerationStats{}); err != nil {
		t.Errorf("WriteGeneration on nil: %v", err)
	}
	if err := om.WriteChampion(&evolve.Champion{}); err != nil {
		t.Errorf("WriteChampion on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestWriteGenerations(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run-1")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for gen := 0; gen < 3; gen++ {
		err := om.WriteGeneration(evolve.GenerationStats{
			Generation:  gen,
			Population:  50,
			Ticks:       100 * (gen + 1),
			BestFitness: float64(gen) + 0.5,
			Duration:    1500 * time.Millisecond,
		})
		if err != nil {
			t.Fatalf("WriteGeneration(%d): %v", gen, err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, GenerationsFile))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "generation,"); n != 1 {
		t.Errorf("header written %d times, want 1", n)
	}

	records, err := ReadGenerations(filepath.Join(dir, GenerationsFile))
	if err != nil {
		t.Fatalf("ReadGenerations: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	last := records[2]
	if last.Generation != 2 || last.Ticks != 300 || last.BestFitness != 2.5 || last.DurationMS != 1500 {
		t.Errorf("last record = %+v", last)
	}
}

func TestWriteChampionAndConfig(t *testing.T) {
	om, err := NewOutputManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	c := evolve.NewChampion(evolve.SeedGenome(1, rand.New(rand.NewSource(1))), 4, 12, 2)
	if err := om.WriteChampion(c); err != nil {
		t.Fatalf("WriteChampion: %v", err)
	}
	loaded, err := evolve.LoadChampion(om.ChampionPath())
	if err != nil {
		t.Fatalf("LoadChampion: %v", err)
	}
	if loaded.Generation != 4 || loaded.Fitness != 12 {
		t.Errorf("loaded champion = %+v", loaded)
	}

	if err := om.WriteConfig(config.DefaultFlappyConfig()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if _, err := config.LoadFlappy(filepath.Join(om.Dir(), ConfigFile)); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}
