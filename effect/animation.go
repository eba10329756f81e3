package effect

import (
	"math"

	"github.com/plus3/blockfall/board"
)

// AnimationKind selects how a block animation is drawn.
type AnimationKind uint8

const (
	AnimationMelt AnimationKind = iota
	AnimationBounce
)

const (
	meltDuration   = 800.0
	bounceDuration = 600.0
	bounceAmp      = 10 / cellPixels
)

// Animation is a per-cell visual driven by elapsed milliseconds.
type Animation struct {
	Kind     AnimationKind
	X, Y     int
	Color    board.Cell
	Progress float64
	Duration float64
	// Height is the current bounce offset in cells; zero for melts.
	Height float64
}

// NewMelt returns the 800ms collapse animation for cell (x, y).
func NewMelt(x, y int, color board.Cell) Animation {
	return Animation{Kind: AnimationMelt, X: x, Y: y, Color: color, Duration: meltDuration}
}

// NewBounce returns the 600ms hop animation for cell (x, y).
func NewBounce(x, y int, color board.Cell) Animation {
	return Animation{Kind: AnimationBounce, X: x, Y: y, Color: color, Duration: bounceDuration}
}

// T is progress as a fraction of the duration, clamped to [0, 1].
func (a *Animation) T() float64 {
	if a.Duration <= 0 {
		return 1
	}
	return math.Min(math.Max(a.Progress/a.Duration, 0), 1)
}

// Collapse is how far a melting block has sagged, reaching 1 at two thirds
// of the duration.
func (a *Animation) Collapse() float64 {
	return math.Min(a.T()*1.5, 1)
}

// Advance adds dt milliseconds and reports whether the animation is still running.
func (a *Animation) Advance(dt float64) bool {
	a.Progress += dt
	if a.Kind == AnimationBounce {
		t := a.Progress / a.Duration
		if t <= 1 {
			a.Height = math.Sin(t*math.Pi*3) * bounceAmp * (1 - t)
		}
	}
	return a.Progress < a.Duration
}
