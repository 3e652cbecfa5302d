// Package config provides YAML-based configuration loading and validation for
// the flappy simulation and its evolution runs.
package config

// FlappyConfig contains all tunable constants of the game and of the
// fitness harness. The defaults reproduce the reference pixel values, and
// agent fitness is sensitive to them, so change with care.
type FlappyConfig struct {
	Window    WindowConfig    `yaml:"window"`
	Bird      BirdConfig      `yaml:"bird"`
	Pipes     PipeConfig      `yaml:"pipes"`
	Base      BaseConfig      `yaml:"base"`
	Fitness   FitnessConfig   `yaml:"fitness"`
	Evolution EvolutionConfig `yaml:"evolution"`
}

// WindowConfig defines the logical playfield in pixels.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

// BirdConfig defines bird geometry and physics.
type BirdConfig struct {
	StartX       float64 `yaml:"start_x"`
	StartY       float64 `yaml:"start_y"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	JumpVelocity float64 `yaml:"jump_velocity"` // negative is up
	Gravity      float64 `yaml:"gravity"`       // d = v*t + 0.5*gravity*t^2
	MaxDrop      float64 `yaml:"max_drop"`      // per-tick downward clamp
	AscentBoost  float64 `yaml:"ascent_boost"`  // extra lift subtracted while rising
	MaxRotation  float64 `yaml:"max_rotation"`
	RotationVel  float64 `yaml:"rotation_vel"`
}

// PipeConfig defines pipe geometry, spawning and scroll speed.
type PipeConfig struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"` // sprite extent of one pipe half
	Gap      float64 `yaml:"gap"`
	Velocity float64 `yaml:"velocity"`
	GapMin   int     `yaml:"gap_min"` // inclusive
	GapMax   int     `yaml:"gap_max"` // exclusive
	FirstX   float64 `yaml:"first_x"`
	SpawnX   float64 `yaml:"spawn_x"`
}

// BaseConfig defines the scrolling ground strip.
type BaseConfig struct {
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Velocity float64 `yaml:"velocity"`
}

// FitnessConfig defines the fitness shaping applied by the harness.
type FitnessConfig struct {
	Survival         float64 `yaml:"survival"`          // per live tick
	CollisionPenalty float64 `yaml:"collision_penalty"` // subtracted on pipe hit
	PassBonus        float64 `yaml:"pass_bonus"`        // added to every survivor on a pass
	GroundPenalty    float64 `yaml:"ground_penalty"`    // subtracted on floor/ceiling exit
}

// EvolutionConfig defines how long a training run goes on.
type EvolutionConfig struct {
	Generations       int     `yaml:"generations"`
	MaxTicks          int     `yaml:"max_ticks"` // per generation, 0 = unlimited
	FitnessThreshold  float64 `yaml:"fitness_threshold"`
	DecisionThreshold float64 `yaml:"decision_threshold"`
}

// FloorY returns the y coordinate at which a bird touches the ground.
func (c FlappyConfig) FloorY() float64 {
	return c.Base.Y
}
