package flappy

import "github.com/vovakirdan/flappy-neat/internal/config"

// Base is the ground strip: two tiles scrolling left and leapfrogging each
// other so the strip looks endless.
type Base struct {
	Y      float64
	X1, X2 float64

	cfg config.BaseConfig
}

// NewBase creates a ground strip with the second tile trailing the first.
func NewBase(cfg config.BaseConfig) *Base {
	return &Base{
		Y:   cfg.Y,
		X1:  0,
		X2:  cfg.Width,
		cfg: cfg,
	}
}

// Advance scrolls both tiles and wraps any tile that left the screen.
func (b *Base) Advance() {
	b.X1 -= b.cfg.Velocity
	b.X2 -= b.cfg.Velocity

	if b.X1+b.cfg.Width < 0 {
		b.X1 = b.X2 + b.cfg.Width
	}
	if b.X2+b.cfg.Width < 0 {
		b.X2 = b.X1 + b.cfg.Width
	}
}

// Width returns the width of one tile.
func (b *Base) Width() float64 {
	return b.cfg.Width
}
