package flappy

import (
	"image"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/core"
)

// alphaThreshold matches the usual sprite mask rule: a pixel is solid when
// its alpha is strictly above half.
const alphaThreshold = 127

// Mask is a per-pixel solidity grid for a sprite. Rows are packed into
// 64-bit words.
type Mask struct {
	w, h   int
	stride int
	bits   []uint64
}

// NewMask creates an empty mask of the given size.
func NewMask(w, h int) *Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	stride := (w + 63) / 64
	return &Mask{w: w, h: h, stride: stride, bits: make([]uint64, stride*h)}
}

// RectMask creates a fully solid w×h mask.
func RectMask(w, h int) *Mask {
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y)
		}
	}
	return m
}

// EllipseMask creates a mask of the ellipse inscribed in a w×h box.
func EllipseMask(w, h int) *Mask {
	m := NewMask(w, h)
	rx, ry := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float64(x) + 0.5 - rx) / rx
			dy := (float64(y) + 0.5 - ry) / ry
			if dx*dx+dy*dy <= 1 {
				m.Set(x, y)
			}
		}
	}
	return m
}

// MaskFromImage builds a mask from an image's alpha channel.
func MaskFromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a>>8 > alphaThreshold {
				m.Set(x-b.Min.X, y-b.Min.Y)
			}
		}
	}
	return m
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.w }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.h }

// Bounds returns the mask extent at the origin.
func (m *Mask) Bounds() core.Rect {
	return core.NewRect(0, 0, m.w, m.h)
}

// Set marks the pixel at (x, y) solid. Out-of-range pixels are ignored.
func (m *Mask) Set(x, y int) {
	if x < 0 || x >= m.w || y < 0 || y >= m.h {
		return
	}
	m.bits[y*m.stride+x/64] |= 1 << uint(x%64)
}

// Get reports whether the pixel at (x, y) is solid.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || x >= m.w || y < 0 || y >= m.h {
		return false
	}
	return m.bits[y*m.stride+x/64]&(1<<uint(x%64)) != 0
}

// FlipVertical returns a copy of the mask mirrored top to bottom.
func (m *Mask) FlipVertical() *Mask {
	out := NewMask(m.w, m.h)
	for y := 0; y < m.h; y++ {
		copy(out.bits[(m.h-1-y)*m.stride:(m.h-y)*m.stride], m.bits[y*m.stride:(y+1)*m.stride])
	}
	return out
}

// Overlap places other's origin at (dx, dy) in this mask's space and returns
// the first solid pixel shared by both, in this mask's coordinates.
func (m *Mask) Overlap(other *Mask, dx, dy int) (x, y int, ok bool) {
	area := m.Bounds().Intersection(core.NewRect(dx, dy, other.w, other.h))
	if area.Empty() {
		return 0, 0, false
	}
	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.Right(); x++ {
			if m.Get(x, y) && other.Get(x-dx, y-dy) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// Sprites holds the collision masks a world tests against.
type Sprites struct {
	Bird       *Mask
	PipeTop    *Mask
	PipeBottom *Mask
}

// NewSprites builds the mask set from a bird mask and an upright pipe mask.
// The top pipe is the same sprite flipped.
func NewSprites(bird, pipe *Mask) *Sprites {
	return &Sprites{
		Bird:       bird,
		PipeTop:    pipe.FlipVertical(),
		PipeBottom: pipe,
	}
}

// DefaultSprites derives masks from the configured sprite sizes: an
// elliptical bird and solid pipe halves.
func DefaultSprites(cfg config.FlappyConfig) *Sprites {
	return NewSprites(
		EllipseMask(cfg.Bird.Width, cfg.Bird.Height),
		RectMask(cfg.Pipes.Width, cfg.Pipes.Height),
	)
}
