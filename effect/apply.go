package effect

import (
	"math/rand/v2"

	"github.com/plus3/blockfall/board"
)

const (
	explodeBonus    = 10
	implodeBonus    = 8
	bounceLostBonus = 5

	// BounceDelay is how long a bounced block is airborne before it lands.
	BounceDelay = 300.0
	// MeltTrailDelay is how long after a melt its trail particles appear.
	MeltTrailDelay = 200.0
)

// Destroyed is a cell an effect emptied.
type Destroyed struct {
	X, Y  int
	Value board.Cell
}

// ActionKind tags a Deferred action.
type ActionKind uint8

const (
	// ActionPlace writes Value at (X, Y) if the cell is still empty,
	// otherwise the block is lost for BounceLostBonus points.
	ActionPlace ActionKind = iota
	// ActionTrail emits MeltTrail(X, Y, ToY, Value).
	ActionTrail
)

// Deferred is a follow-up to an effect that must run Delay ms later.
type Deferred struct {
	Delay  float64
	Action ActionKind
	X, Y   int
	ToY    int
	Value  board.Cell
}

// Result collects everything one effect produced.
type Result struct {
	Kind       Kind
	Score      int
	Destroyed  []Destroyed
	Particles  []Particle
	Animations []Animation
	Deferred   []Deferred
}

// Apply runs effect k for the block locked at (x, y) with color id color.
// Mutations only touch g; the caller owns spawning the returned particles,
// animations and deferred actions.
func Apply(k Kind, g *board.Grid, rng *rand.Rand, x, y int, color board.Cell) Result {
	r := Result{Kind: k}
	switch k {
	case Explode:
		r.Particles = ExplodeBurst(rng, x, y, color)
		r.Destroyed = clearArea(g, x, y, explodeArea)
		for _, d := range r.Destroyed {
			r.Particles = append(r.Particles, MiniExplosion(rng, d.X, d.Y, d.Value)...)
		}
		r.Score = explodeBonus * len(r.Destroyed)
	case Melt:
		r.Animations = []Animation{NewMelt(x, y, color)}
		if to, ok := MeltDown(g, x, y); ok && to-y > 1 {
			r.Deferred = []Deferred{{Delay: MeltTrailDelay, Action: ActionTrail, X: x, Y: y, ToY: to, Value: color}}
		}
	case Bounce:
		r.Animations = []Animation{NewBounce(x, y, color)}
		if tx, ty, ok, lifted := BounceTarget(g, rng, x, y); lifted {
			if ok {
				r.Deferred = []Deferred{{Delay: BounceDelay, Action: ActionPlace, X: tx, Y: ty, Value: color}}
			} else {
				r.Score = bounceLostBonus
			}
		}
	case Sparkle:
		r.Particles = SparkleBurst(rng, x, y)
	case Implode:
		r.Particles = ImplodeBurst(rng, x, y, color)
		r.Destroyed = clearArea(g, x, y, implodeArea)
		r.Score = implodeBonus * len(r.Destroyed)
	}
	return r
}

// PlaceLanding resolves an ActionPlace. Returns the bonus awarded when the
// landing cell was taken in the meantime.
func PlaceLanding(g *board.Grid, d Deferred) int {
	if !g.InBounds(d.X, d.Y) || g.Occupied(d.X, d.Y) {
		return bounceLostBonus
	}
	_ = g.Set(d.X, d.Y, d.Value)
	return 0
}

type offset struct{ dx, dy int }

var (
	explodeArea = []offset{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {0, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
	implodeArea = []offset{
		{0, 0},
		{-1, 0}, {1, 0},
		{0, -1}, {0, 1},
	}
	bounceMoves = []offset{
		{-1, 0}, {1, 0},
		{-1, -1}, {1, -1},
		{0, -1},
	}
)

// clearArea empties every occupied in-bounds cell of area around (x, y),
// the center included.
func clearArea(g *board.Grid, x, y int, area []offset) []Destroyed {
	var out []Destroyed
	for _, o := range area {
		nx, ny := x+o.dx, y+o.dy
		if !g.Occupied(nx, ny) {
			continue
		}
		v, _ := g.At(nx, ny)
		_ = g.Set(nx, ny, board.Empty)
		out = append(out, Destroyed{X: nx, Y: ny, Value: v})
	}
	return out
}

// MeltDown lifts the block at (x, y) and drops it through the empty cells
// below it in the same column. Returns the row it settles in; ok is false
// when (x, y) held nothing to melt.
func MeltDown(g *board.Grid, x, y int) (to int, ok bool) {
	if !g.Occupied(x, y) {
		return y, false
	}
	v, _ := g.At(x, y)
	_ = g.Set(x, y, board.Empty)

	to = y
	for to+1 < g.Rows() && !g.Occupied(x, to+1) {
		to++
	}
	_ = g.Set(x, to, v)
	return to, true
}

// BounceTarget lifts the block at (x, y) and picks a free landing cell among
// left, right, up-left, up-right and up. lifted is false when (x, y) held
// nothing; ok is false when no landing cell is free.
func BounceTarget(g *board.Grid, rng *rand.Rand, x, y int) (tx, ty int, ok, lifted bool) {
	if !g.Occupied(x, y) {
		return 0, 0, false, false
	}
	_ = g.Set(x, y, board.Empty)

	var free []offset
	for _, m := range bounceMoves {
		nx, ny := x+m.dx, y+m.dy
		if g.InBounds(nx, ny) && !g.Occupied(nx, ny) {
			free = append(free, m)
		}
	}
	if len(free) == 0 {
		return 0, 0, false, true
	}
	m := free[rng.IntN(len(free))]
	return x + m.dx, y + m.dy, true, true
}
