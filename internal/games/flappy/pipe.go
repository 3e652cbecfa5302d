package flappy

import (
	"math/rand"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/core"
)

// Pipe is a top/bottom obstacle pair separated by a vertical gap.
type Pipe struct {
	X      float64
	Height float64 // y of the gap's upper edge
	Top    float64 // y where the top half is drawn
	Bottom float64 // y of the gap's lower edge, where the bottom half starts
	Passed bool

	cfg config.PipeConfig
}

// NewPipe creates a pipe at x with a random gap height.
func NewPipe(cfg config.PipeConfig, x float64, rng *rand.Rand) *Pipe {
	p := &Pipe{X: x, cfg: cfg}
	p.SetHeight(rng)
	return p
}

// NewPipeAt creates a pipe with a fixed gap height.
func NewPipeAt(cfg config.PipeConfig, x, height float64) *Pipe {
	p := &Pipe{X: x, cfg: cfg}
	p.setHeight(height)
	return p
}

// SetHeight draws the gap height uniformly from [GapMin, GapMax). It is
// called once at creation; Advance never touches the vertical layout.
func (p *Pipe) SetHeight(rng *rand.Rand) {
	p.setHeight(float64(p.cfg.GapMin + rng.Intn(p.cfg.GapMax-p.cfg.GapMin)))
}

func (p *Pipe) setHeight(height float64) {
	p.Height = height
	p.Top = height - float64(p.cfg.Height)
	p.Bottom = height + p.cfg.Gap
}

// Advance scrolls the pipe left by the shared pipe velocity.
func (p *Pipe) Advance() {
	p.X -= p.cfg.Velocity
}

// Right returns the x coordinate of the pipe's right edge.
func (p *Pipe) Right() float64 {
	return p.X + float64(p.cfg.Width)
}

// Offscreen reports whether the pipe has scrolled fully past the left edge.
func (p *Pipe) Offscreen() bool {
	return p.Right() < 0
}

// CollidesWith reports whether the bird's mask overlaps either pipe half.
func (p *Pipe) CollidesWith(b *Bird, s *Sprites) bool {
	dx := core.Round(p.X - b.X)
	by := core.Round(b.Y)

	if _, _, hit := s.Bird.Overlap(s.PipeTop, dx, core.Round(p.Top)-by); hit {
		return true
	}
	_, _, hit := s.Bird.Overlap(s.PipeBottom, dx, core.Round(p.Bottom)-by)
	return hit
}
