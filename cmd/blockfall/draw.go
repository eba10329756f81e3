package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/piece"
)

var (
	background = color.RGBA{24, 26, 38, 255}
	well       = color.RGBA{12, 13, 20, 255}
	gridLine   = color.RGBA{255, 255, 255, 20}
	outline    = color.RGBA{255, 255, 255, 128}
	flashColor = color.RGBA{255, 255, 255, 220}
)

// palette is indexed by cell value; 0 is used for white particles.
var palette = [board.MaxCell + 1]color.RGBA{
	{255, 255, 255, 255},
	{0xFF, 0x6B, 0x6B, 255},
	{0x4E, 0xCD, 0xC4, 255},
	{0x45, 0xB7, 0xD1, 255},
	{0x96, 0xCE, 0xB4, 255},
	{0xFF, 0xEA, 0xA7, 255},
	{0xDD, 0xA0, 0xDD, 255},
	{0xFF, 0xA0, 0x7A, 255},
}

func fade(c color.RGBA, alpha float64) color.RGBA {
	alpha = min(max(alpha, 0), 1)
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}

func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	cols, rows := len(h.snap.Cells[0]), len(h.snap.Cells)
	bw, bh := float32(cols)*h.cell, float32(rows)*h.cell
	vector.DrawFilledRect(screen, padding, padding, bw, bh, well, false)
	if h.flash > 0 {
		vector.StrokeRect(screen, padding-2, padding-2, bw+4, bh+4, 3, fade(flashColor, h.flash/flashTime), false)
	}
	for x := 0; x <= cols; x++ {
		vector.StrokeLine(screen, padding+float32(x)*h.cell, padding, padding+float32(x)*h.cell, padding+bh, 1, gridLine, false)
	}
	for y := 0; y <= rows; y++ {
		vector.StrokeLine(screen, padding, padding+float32(y)*h.cell, padding+bw, padding+float32(y)*h.cell, 1, gridLine, false)
	}

	for y, row := range h.snap.Cells {
		for x, v := range row {
			if v != board.Empty {
				h.block(screen, padding+float32(x)*h.cell, padding+float32(y)*h.cell, h.cell, h.cell, palette[v])
			}
		}
	}
	if p := h.snap.Active; p != nil {
		h.piece(screen, p, padding, padding, h.cell)
	}

	for _, a := range h.snap.Animations {
		h.animation(screen, a)
	}
	for _, p := range h.snap.Particles {
		h.particle(screen, p)
	}

	h.panel(screen, padding*2+bw)
}

func (h *Host) block(screen *ebiten.Image, x, y, w, ht float32, c color.RGBA) {
	vector.DrawFilledRect(screen, x, y, w, ht, c, false)
	vector.StrokeRect(screen, x, y, w, ht, 2, outline, false)
}

func (h *Host) piece(screen *ebiten.Image, p *piece.Piece, ox, oy, size float32) {
	for b := range p.Matrix.Blocks() {
		y := p.Y + b.DY
		if y < 0 {
			continue
		}
		h.block(screen, ox+float32(p.X+b.DX)*size, oy+float32(y)*size, size, size, palette[b.Value])
	}
}

func (h *Host) animation(screen *ebiten.Image, a effect.Animation) {
	x := padding + float32(a.X)*h.cell
	y := padding + float32(a.Y)*h.cell
	c := palette[a.Color]

	switch a.Kind {
	case effect.AnimationMelt:
		collapse := float32(a.Collapse())
		ht := h.cell * (1 - collapse)
		vector.DrawFilledRect(screen, x, y+h.cell-ht, h.cell, ht, fade(c, 1-a.T()), false)
	case effect.AnimationBounce:
		lift := float32(a.Height) * h.cell
		vector.DrawFilledRect(screen, x, y-lift, h.cell, h.cell, fade(c, 1-a.T()), false)
	}
}

func (h *Host) particle(screen *ebiten.Image, p effect.Particle) {
	cx := padding + float32(p.X)*h.cell
	cy := padding + float32(p.Y)*h.cell
	vector.DrawFilledCircle(screen, cx, cy, float32(p.Size)*h.cell, fade(palette[p.Color], p.Life), false)
}

func (h *Host) panel(screen *ebiten.Image, x float32) {
	px := int(x)
	ebitenutil.DebugPrintAt(screen, "NEXT", px, padding)

	preview := h.cell * 2 / 3
	if p := h.snap.Next; p != nil {
		shown := *p
		shown.X, shown.Y = 0, 0
		h.piece(screen, &shown, x, padding+20, preview)
	}

	c := h.snap.Counters
	stats := fmt.Sprintf("SCORE %d\nLEVEL %d\nLINES %d", c.Score, c.Level, c.Lines)
	ebitenutil.DebugPrintAt(screen, stats, px, padding+30+int(preview*4))
	ebitenutil.DebugPrintAt(screen, "arrows move\nup rotate\nspace drop\np pause  r restart", px, padding+100+int(preview*4))

	if c.State != game.Running {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("-- %s --", c.State), padding+10, padding+int(float32(len(h.snap.Cells))*h.cell/2))
	}
}
