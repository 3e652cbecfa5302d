package flappy

import (
	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/core"
)

// Bird is a single flapping entity. Y grows downward.
type Bird struct {
	X, Y      float64
	Vel       float64 // velocity set by the last jump
	TickCount int     // ticks since the last jump (or spawn)
	Height    float64 // Y at the last jump
	Tilt      float64 // cosmetic, degrees

	phys config.BirdConfig
}

// NewBird creates a bird at rest at (x, y).
func NewBird(phys config.BirdConfig, x, y float64) *Bird {
	return &Bird{
		X:      x,
		Y:      y,
		Height: y,
		phys:   phys,
	}
}

// Jump resets the ballistic arc: upward velocity, tick counter back to zero
// and the current height remembered. Re-jumping mid-arc is allowed.
func (b *Bird) Jump() {
	b.Vel = b.phys.JumpVelocity
	b.TickCount = 0
	b.Height = b.Y
}

// Advance moves the bird by one tick along its arc.
func (b *Bird) Advance() {
	b.TickCount++
	d := Displacement(b.phys, b.Vel, b.TickCount)
	b.Y += d

	if d < 0 || b.Y < b.Height+50 {
		if b.Tilt < b.phys.MaxRotation {
			b.Tilt = b.phys.MaxRotation
		}
	} else if b.Tilt > -90 {
		b.Tilt -= b.phys.RotationVel
	}
}

// Displacement returns the vertical movement for tick t of an arc that
// started with velocity vel: v*t + 0.5*g*t^2, clamped to MaxDrop downward,
// with AscentBoost extra lift while moving up.
func Displacement(phys config.BirdConfig, vel float64, t int) float64 {
	ft := float64(t)
	d := vel*ft + 0.5*phys.Gravity*ft*ft
	if d >= phys.MaxDrop {
		d = phys.MaxDrop
	}
	if d < 0 {
		d -= phys.AscentBoost
	}
	return d
}

// Bounds returns the bird's sprite box in world pixels.
func (b *Bird) Bounds() (x, y, w, h int) {
	return core.Round(b.X), core.Round(b.Y), b.phys.Width, b.phys.Height
}
