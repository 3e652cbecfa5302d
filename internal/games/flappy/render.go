package flappy

import (
	"fmt"
	"math"

	"github.com/vovakirdan/flappy-neat/internal/core"
)

// Visual characters for rendering
const (
	PipeChar      = '█'
	PipeCapTop    = '▄'
	PipeCapBottom = '▀'
	GroundTop     = '▀'
	GroundFill    = '░'
	BirdRising    = '↗'
	BirdLevel     = '→'
	BirdDiving    = '↘'
)

// groundStripe is the world-pixel width of one ground stripe.
const groundStripe = 24

// viewport maps world pixels onto screen cells.
type viewport struct {
	sx, sy float64
}

func newViewport(dst *core.Screen, worldW, worldH int) viewport {
	return viewport{
		sx: float64(dst.Width()) / float64(worldW),
		sy: float64(dst.Height()) / float64(worldH),
	}
}

func (v viewport) col(x float64) int { return int(math.Floor(x * v.sx)) }
func (v viewport) row(y float64) int { return int(math.Floor(y * v.sy)) }

// RenderWorld draws the world scaled to fill dst. Extra HUD lines are drawn
// top-left; the score sits top-right.
func RenderWorld(dst *core.Screen, w *World, hud ...string) {
	cfg := w.Config()
	v := newViewport(dst, cfg.Window.Width, cfg.Window.Height)
	groundRow := v.row(cfg.FloorY())

	for _, p := range w.Pipes() {
		drawPipe(dst, v, p, groundRow)
	}
	drawBase(dst, v, w.Base(), groundRow)

	// Lead bird last so it stays on top of the flock.
	agents := w.Agents()
	for i := len(agents) - 1; i >= 0; i-- {
		c := core.ColorOrange
		if i == 0 {
			c = core.ColorBrightYellow
		}
		drawBird(dst, v, agents[i].Bird, c)
	}

	score := fmt.Sprintf(" Score: %d ", w.Score())
	dst.DrawTextColored(dst.Width()-len(score)-1, 0, score, core.ColorWhite)
	for i, line := range hud {
		dst.DrawTextColored(1, i, line, core.ColorCyan)
	}
}

func drawPipe(dst *core.Screen, v viewport, p *Pipe, groundRow int) {
	x0 := v.col(p.X)
	x1 := core.Max(v.col(p.Right()), x0+1)
	gapTop := v.row(p.Height)
	gapBottom := core.Max(v.row(p.Bottom), gapTop+1)

	dst.DrawRect(core.NewRect(x0, 0, x1-x0, gapTop), PipeChar, core.ColorGreen)
	if gapTop > 0 {
		dst.DrawHLine(x0, gapTop-1, x1-x0, PipeCapTop, core.ColorBrightGreen)
	}

	if gapBottom < groundRow {
		dst.DrawRect(core.NewRect(x0, gapBottom, x1-x0, groundRow-gapBottom), PipeChar, core.ColorGreen)
		dst.DrawHLine(x0, gapBottom, x1-x0, PipeCapBottom, core.ColorBrightGreen)
	}
}

func drawBase(dst *core.Screen, v viewport, b *Base, groundRow int) {
	for c := 0; c < dst.Width(); c++ {
		worldX := (float64(c) + 0.5) / v.sx
		stripe := int(math.Floor((worldX - b.X1) / groundStripe))
		color := core.ColorGreen
		if stripe%2 != 0 {
			color = core.ColorBrightGreen
		}
		dst.SetColored(c, groundRow, GroundTop, color)
		for y := groundRow + 1; y < dst.Height(); y++ {
			dst.SetColored(c, y, GroundFill, core.ColorOrange)
		}
	}
}

func drawBird(dst *core.Screen, v viewport, b *Bird, c core.Color) {
	glyph := BirdLevel
	switch {
	case b.Tilt > 0:
		glyph = BirdRising
	case b.Tilt <= -80:
		glyph = BirdDiving
	}
	x := v.col(b.X + float64(b.phys.Width)/2)
	y := v.row(b.Y + float64(b.phys.Height)/2)
	dst.SetColored(x, y, glyph, c)
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ', core.ColorDefault)
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}
