package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/piece"
)

// Each cell is two terminal columns wide so blocks look square.
const cellWidth = 2

var palette = [board.MaxCell + 1]tcell.Color{
	tcell.ColorWhite,
	tcell.NewHexColor(0xFF6B6B),
	tcell.NewHexColor(0x4ECDC4),
	tcell.NewHexColor(0x45B7D1),
	tcell.NewHexColor(0x96CEB4),
	tcell.NewHexColor(0xFFEAA7),
	tcell.NewHexColor(0xDDA0DD),
	tcell.NewHexColor(0xFFA07A),
}

var (
	frameStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	textStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

func (t *terminal) draw(snap game.Snapshot) {
	s := t.screen
	s.Clear()

	rows, cols := len(snap.Cells), len(snap.Cells[0])
	ox, oy := 1, 1

	for y := -1; y <= rows; y++ {
		s.SetContent(ox-1, oy+y, '│', nil, frameStyle)
		s.SetContent(ox+cols*cellWidth, oy+y, '│', nil, frameStyle)
	}
	for x := 0; x < cols*cellWidth; x++ {
		s.SetContent(ox+x, oy+rows, '─', nil, frameStyle)
	}

	for y, row := range snap.Cells {
		for x, v := range row {
			if v != board.Empty {
				t.block(ox+x*cellWidth, oy+y, palette[v], '█')
			}
		}
	}
	if p := snap.Active; p != nil {
		t.piece(p, ox, oy)
	}

	for _, a := range snap.Animations {
		t.animation(a, ox, oy)
	}
	for _, p := range snap.Particles {
		t.particle(p, ox, oy, rows, cols)
	}

	t.panel(snap, ox+cols*cellWidth+3, oy)
	s.Show()
}

func (t *terminal) block(x, y int, c tcell.Color, r rune) {
	style := tcell.StyleDefault.Foreground(c)
	for i := range cellWidth {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (t *terminal) piece(p *piece.Piece, ox, oy int) {
	for b := range p.Matrix.Blocks() {
		y := p.Y + b.DY
		if y < 0 {
			continue
		}
		t.block(ox+(p.X+b.DX)*cellWidth, oy+y, palette[b.Value], '█')
	}
}

func (t *terminal) animation(a effect.Animation, ox, oy int) {
	switch a.Kind {
	case effect.AnimationMelt:
		shades := []rune{'▓', '▒', '░'}
		i := min(int(a.Collapse()*float64(len(shades))), len(shades)-1)
		t.block(ox+a.X*cellWidth, oy+a.Y, palette[a.Color], shades[i])
	case effect.AnimationBounce:
		y := a.Y - int(math.Round(a.Height))
		t.block(ox+a.X*cellWidth, oy+y, palette[a.Color], '▒')
	}
}

func (t *terminal) particle(p effect.Particle, ox, oy, rows, cols int) {
	x, y := int(p.X*cellWidth), int(p.Y)
	if x < 0 || y < 0 || x >= cols*cellWidth || y >= rows {
		return
	}
	r := '·'
	if p.Life > 0.6 {
		r = '*'
	}
	t.screen.SetContent(ox+x, oy+y, r, nil, tcell.StyleDefault.Foreground(palette[p.Color]))
}

func (t *terminal) panel(snap game.Snapshot, x, y int) {
	t.text(x, y, "NEXT")
	if p := snap.Next; p != nil {
		shown := *p
		shown.X, shown.Y = 0, 0
		t.piece(&shown, x, y+1)
	}

	c := snap.Counters
	t.text(x, y+6, fmt.Sprintf("SCORE %d", c.Score))
	t.text(x, y+7, fmt.Sprintf("LEVEL %d", c.Level))
	t.text(x, y+8, fmt.Sprintf("LINES %d", c.Lines))
	if c.State != game.Running {
		t.text(x, y+10, fmt.Sprintf("-- %s --", c.State))
	}
	t.text(x, y+12, "←→ move  ↑ rotate")
	t.text(x, y+13, "↓ soft  space drop")
	t.text(x, y+14, "p pause  r restart  q quit")
}

func (t *terminal) text(x, y int, s string) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, textStyle)
		x++
	}
}
