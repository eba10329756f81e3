package effect

import (
	"math"
	"math/rand/v2"

	"github.com/plus3/blockfall/board"
)

// cellPixels converts the reference tuning, which was authored against
// 30px cells, into cell units.
const cellPixels = 30.0

const (
	explodeGravity = 0.1 / cellPixels
	implodeEase    = 0.1
)

// ParticleKind selects how a particle moves.
type ParticleKind uint8

const (
	ParticleExplode ParticleKind = iota
	ParticleSparkle
	ParticleImplode
	ParticleMiniExplode
	ParticleMeltTrail
)

func (k ParticleKind) String() string {
	switch k {
	case ParticleExplode:
		return "explode"
	case ParticleSparkle:
		return "sparkle"
	case ParticleImplode:
		return "implode"
	case ParticleMiniExplode:
		return "mini_explode"
	case ParticleMeltTrail:
		return "melt_trail"
	default:
		return "unknown"
	}
}

// Particle is a short-lived point. Color is a piece color id; board.Empty
// means white.
type Particle struct {
	Kind             ParticleKind
	X, Y             float64
	VX, VY           float64
	TargetX, TargetY float64
	Size             float64
	Color            board.Cell
	Life             float64
	Decay            float64
}

// Step advances p by one frame and reports whether it is still alive.
// Implode particles ease toward their target; the rest integrate velocity,
// and explode particles also accelerate downward.
func (p *Particle) Step() bool {
	p.Life -= p.Decay

	switch p.Kind {
	case ParticleImplode:
		p.X += (p.TargetX - p.X) * implodeEase
		p.Y += (p.TargetY - p.Y) * implodeEase
	case ParticleExplode:
		p.X += p.VX
		p.Y += p.VY
		p.VY += explodeGravity
	case ParticleSparkle, ParticleMiniExplode, ParticleMeltTrail:
		p.X += p.VX
		p.Y += p.VY
	}

	return p.Life > 0
}

func center(x, y int) (float64, float64) {
	return float64(x) + 0.5, float64(y) + 0.5
}

// ExplodeBurst is a ring of 12 particles around the center of cell (x, y).
func ExplodeBurst(rng *rand.Rand, x, y int, color board.Cell) []Particle {
	cx, cy := center(x, y)
	out := make([]Particle, 12)
	for i := range out {
		angle := 2 * math.Pi / 12 * float64(i)
		speed := (2 + rng.Float64()*3) / cellPixels
		out[i] = Particle{
			Kind:  ParticleExplode,
			X:     cx,
			Y:     cy,
			VX:    math.Cos(angle) * speed,
			VY:    math.Sin(angle) * speed,
			Size:  (3 + rng.Float64()*4) / cellPixels,
			Color: color,
			Life:  1,
			Decay: 0.02,
		}
	}
	return out
}

// SparkleBurst scatters 8 slow white particles across cell (x, y).
func SparkleBurst(rng *rand.Rand, x, y int) []Particle {
	cx, cy := center(x, y)
	out := make([]Particle, 8)
	for i := range out {
		out[i] = Particle{
			Kind:  ParticleSparkle,
			X:     cx + rng.Float64() - 0.5,
			Y:     cy + rng.Float64() - 0.5,
			VX:    (rng.Float64() - 0.5) * 2 / cellPixels,
			VY:    (rng.Float64() - 0.5) * 2 / cellPixels,
			Size:  (2 + rng.Float64()*3) / cellPixels,
			Color: board.Empty,
			Life:  1,
			Decay: 0.015,
		}
	}
	return out
}

// ImplodeBurst places 10 particles on a ring and pulls them into the center of (x, y).
func ImplodeBurst(rng *rand.Rand, x, y int, color board.Cell) []Particle {
	cx, cy := center(x, y)
	out := make([]Particle, 10)
	for i := range out {
		angle := rng.Float64() * 2 * math.Pi
		dist := (30 + rng.Float64()*20) / cellPixels
		out[i] = Particle{
			Kind:    ParticleImplode,
			X:       cx + math.Cos(angle)*dist,
			Y:       cy + math.Sin(angle)*dist,
			TargetX: cx,
			TargetY: cy,
			Size:    (2 + rng.Float64()*3) / cellPixels,
			Color:   color,
			Life:    1,
			Decay:   0.025,
		}
	}
	return out
}

// MiniExplosion is the 6-particle puff left by each block an explosion destroys.
func MiniExplosion(rng *rand.Rand, x, y int, color board.Cell) []Particle {
	cx, cy := center(x, y)
	out := make([]Particle, 6)
	for i := range out {
		angle := rng.Float64() * 2 * math.Pi
		speed := (1 + rng.Float64()*2) / cellPixels
		out[i] = Particle{
			Kind:  ParticleMiniExplode,
			X:     cx,
			Y:     cy,
			VX:    math.Cos(angle) * speed,
			VY:    math.Sin(angle) * speed,
			Size:  (2 + rng.Float64()*2) / cellPixels,
			Color: color,
			Life:  0.8,
			Decay: 0.025,
		}
	}
	return out
}

// MeltTrail drips one particle through every row strictly between fromY and toY in column x.
func MeltTrail(x, fromY, toY int, color board.Cell) []Particle {
	var out []Particle
	for y := fromY + 1; y < toY; y++ {
		cx, cy := center(x, y)
		out = append(out, Particle{
			Kind:  ParticleMeltTrail,
			X:     cx,
			Y:     cy,
			VY:    1 / cellPixels,
			Size:  2 / cellPixels,
			Color: color,
			Life:  0.5,
			Decay: 0.01,
		})
	}
	return out
}
