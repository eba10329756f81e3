// Package effect implements the cosmetic layer triggered when blocks lock:
// particles, per-block animations, and the board mutations some effects make.
//
// Positions and sizes are in board cells (a cell is 1×1, its center at
// x+0.5, y+0.5). Renderers scale by their own cell size.
package effect

import (
	"fmt"
	"math/rand/v2"
)

// Kind is the effect chosen for one locked block.
type Kind uint8

const (
	Explode Kind = iota
	Melt
	Bounce
	Sparkle
	Implode
)

// Kinds lists every effect kind.
var Kinds = [...]Kind{Explode, Melt, Bounce, Sparkle, Implode}

func (k Kind) String() string {
	switch k {
	case Explode:
		return "explode"
	case Melt:
		return "melt"
	case Bounce:
		return "bounce"
	case Sparkle:
		return "sparkle"
	case Implode:
		return "implode"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Picker chooses the effect for each locked block.
type Picker interface {
	Pick() Kind
}

// RandomPicker picks uniformly over Kinds.
type RandomPicker struct {
	rng *rand.Rand
}

func NewRandomPicker(rng *rand.Rand) *RandomPicker {
	return &RandomPicker{rng: rng}
}

func (p *RandomPicker) Pick() Kind {
	return Kinds[p.rng.IntN(len(Kinds))]
}

// Always picks the same kind every time.
type Always Kind

func (a Always) Pick() Kind {
	return Kind(a)
}
