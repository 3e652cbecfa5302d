package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the default configuration.
// It mirrors defaults/flappy.yaml and is used when the embedded file cannot be parsed.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Window: WindowConfig{
			Width:  500,
			Height: 800,
			FPS:    30,
		},
		Bird: BirdConfig{
			StartX:       230,
			StartY:       350,
			Width:        68,
			Height:       48,
			JumpVelocity: -10.5,
			Gravity:      3.0,
			MaxDrop:      16,
			AscentBoost:  2,
			MaxRotation:  25,
			RotationVel:  20,
		},
		Pipes: PipeConfig{
			Width:    104,
			Height:   640,
			Gap:      200,
			Velocity: 5,
			GapMin:   50,
			GapMax:   450,
			FirstX:   600,
			SpawnX:   600,
		},
		Base: BaseConfig{
			Y:        730,
			Width:    672,
			Velocity: 5,
		},
		Fitness: FitnessConfig{
			Survival:         0.1,
			CollisionPenalty: 1,
			PassBonus:        5,
			GroundPenalty:    0,
		},
		Evolution: EvolutionConfig{
			Generations:       50,
			MaxTicks:          20000,
			FitnessThreshold:  100,
			DecisionThreshold: 0.5,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
