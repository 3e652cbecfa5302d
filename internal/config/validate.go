package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is wrapped by every validation failure.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Validate checks numeric ranges and geometric consistency.
// All problems are reported together; each wraps ErrInvalidConfiguration.
func (c FlappyConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfiguration}, args...)...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.FPS > 0, "window.fps must be positive, got %d", c.Window.FPS)

	check(c.Bird.Width > 0 && c.Bird.Height > 0, "bird size must be positive, got %dx%d", c.Bird.Width, c.Bird.Height)
	check(c.Bird.JumpVelocity < 0, "bird.jump_velocity must be negative (upward), got %v", c.Bird.JumpVelocity)
	check(c.Bird.Gravity > 0, "bird.gravity must be positive, got %v", c.Bird.Gravity)
	check(c.Bird.MaxDrop > 0, "bird.max_drop must be positive, got %v", c.Bird.MaxDrop)
	check(c.Bird.AscentBoost >= 0, "bird.ascent_boost must not be negative, got %v", c.Bird.AscentBoost)
	check(c.Bird.StartY >= 0 && c.Bird.StartY+float64(c.Bird.Height) < c.Base.Y,
		"bird.start_y %v must place the bird between the top and base.y %v", c.Bird.StartY, c.Base.Y)

	check(c.Pipes.Width > 0 && c.Pipes.Height > 0, "pipe size must be positive, got %dx%d", c.Pipes.Width, c.Pipes.Height)
	check(c.Pipes.Velocity > 0, "pipes.velocity must be positive, got %v", c.Pipes.Velocity)
	check(c.Pipes.Gap > float64(c.Bird.Height), "pipes.gap %v must exceed bird.height %d", c.Pipes.Gap, c.Bird.Height)
	check(c.Pipes.GapMin >= 0, "pipes.gap_min must not be negative, got %d", c.Pipes.GapMin)
	check(c.Pipes.GapMin < c.Pipes.GapMax, "pipes.gap_min %d must be below pipes.gap_max %d", c.Pipes.GapMin, c.Pipes.GapMax)
	check(float64(c.Pipes.GapMax-1)+c.Pipes.Gap < c.Base.Y,
		"pipes.gap_max %d with gap %v puts the opening below base.y %v", c.Pipes.GapMax, c.Pipes.Gap, c.Base.Y)
	check(c.Pipes.FirstX > c.Bird.StartX, "pipes.first_x %v must be right of bird.start_x %v", c.Pipes.FirstX, c.Bird.StartX)
	check(c.Pipes.SpawnX > c.Bird.StartX, "pipes.spawn_x %v must be right of bird.start_x %v", c.Pipes.SpawnX, c.Bird.StartX)

	check(c.Base.Width > 0, "base.width must be positive, got %v", c.Base.Width)
	check(c.Base.Velocity >= 0, "base.velocity must not be negative, got %v", c.Base.Velocity)
	check(c.Base.Y > 0 && c.Base.Y <= float64(c.Window.Height), "base.y %v must be inside the window height %d", c.Base.Y, c.Window.Height)

	check(c.Evolution.Generations > 0, "evolution.generations must be positive, got %d", c.Evolution.Generations)
	check(c.Evolution.MaxTicks >= 0, "evolution.max_ticks must not be negative, got %d", c.Evolution.MaxTicks)
	check(c.Evolution.DecisionThreshold > 0 && c.Evolution.DecisionThreshold < 1,
		"evolution.decision_threshold must be in (0, 1), got %v", c.Evolution.DecisionThreshold)

	return errors.Join(errs...)
}
