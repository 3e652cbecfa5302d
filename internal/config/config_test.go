package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultFlappyConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	if cfg != DefaultFlappyConfig() {
		t.Errorf("embedded defaults differ from DefaultFlappyConfig():\n%+v\n%+v", cfg, DefaultFlappyConfig())
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte("pipes:\n  gap: 240\nfitness:\n  pass_bonus: 10\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Pipes.Gap != 240 {
		t.Errorf("pipes.gap = %v, expected 240", cfg.Pipes.Gap)
	}
	if cfg.Fitness.PassBonus != 10 {
		t.Errorf("fitness.pass_bonus = %v, expected 10", cfg.Fitness.PassBonus)
	}
	// Untouched keys keep their defaults
	if cfg.Bird.MaxDrop != 16 || cfg.Pipes.Velocity != 5 {
		t.Errorf("unexpected defaults after overlay: %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FlappyConfig)
		field  string
	}{
		{"empty gap range", func(c *FlappyConfig) { c.Pipes.GapMax = c.Pipes.GapMin }, "gap_min"},
		{"opening below floor", func(c *FlappyConfig) { c.Pipes.GapMax = 700 }, "gap_max"},
		{"gap narrower than bird", func(c *FlappyConfig) { c.Pipes.Gap = 40 }, "pipes.gap"},
		{"upward gravity", func(c *FlappyConfig) { c.Bird.Gravity = -1 }, "gravity"},
		{"downward jump", func(c *FlappyConfig) { c.Bird.JumpVelocity = 3 }, "jump_velocity"},
		{"spawn behind bird", func(c *FlappyConfig) { c.Pipes.SpawnX = 100 }, "spawn_x"},
		{"bird starts in the ground", func(c *FlappyConfig) { c.Bird.StartY = 700 }, "start_y"},
		{"zero fps", func(c *FlappyConfig) { c.Window.FPS = 0 }, "fps"},
		{"threshold out of range", func(c *FlappyConfig) { c.Evolution.DecisionThreshold = 1 }, "decision_threshold"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultFlappyConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("error should wrap ErrInvalidConfiguration, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error should mention %q, got %v", tc.field, err)
			}
		})
	}
}

func TestLoadFlappyCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flappy.yaml")
	if err := os.WriteFile(path, []byte("evolution:\n  generations: 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFlappy(path)
	if err != nil {
		t.Fatalf("LoadFlappy failed: %v", err)
	}
	if cfg.Evolution.Generations != 7 {
		t.Errorf("generations = %d, expected 7", cfg.Evolution.Generations)
	}
}

func TestLoadFlappyInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flappy.yaml")
	if err := os.WriteFile(path, []byte("pipes:\n  gap_min: 500\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFlappy(path); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}

	if _, err := LoadFlappy(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "config.yaml")
	cfg := DefaultFlappyConfig()
	cfg.Pipes.Gap = 220

	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}
	loaded, err := LoadFlappy(path)
	if err != nil {
		t.Fatalf("LoadFlappy failed: %v", err)
	}
	if loaded != cfg {
		t.Errorf("round trip mismatch:\n%+v\n%+v", loaded, cfg)
	}
}
