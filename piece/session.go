package piece

import (
	"math/rand/v2"

	"github.com/plus3/blockfall/board"
)

// Piece is a shape in its current rotation at a board position. X and Y
// address the matrix's top-left cell; Y may be negative.
type Piece struct {
	Kind   Kind
	Matrix Matrix
	X, Y   int
}

// Clone deep-copies p. A nil piece clones to nil.
func (p *Piece) Clone() *Piece {
	if p == nil {
		return nil
	}
	c := *p
	c.Matrix = p.Matrix.Clone()
	return &c
}

// Placed is a block written into the grid by Merge.
type Placed struct {
	X, Y  int
	Value board.Cell
}

// Merge writes p's blocks into g. Blocks still above the top row are
// dropped. Returns the blocks that landed, in row-major order.
func (p *Piece) Merge(g *board.Grid) []Placed {
	var placed []Placed
	for b := range p.Matrix.Blocks() {
		x, y := p.X+b.DX, p.Y+b.DY
		if y < 0 || !g.InBounds(x, y) {
			continue
		}
		_ = g.Set(x, y, b.Value)
		placed = append(placed, Placed{X: x, Y: y, Value: b.Value})
	}
	return placed
}

// Collides reports whether m placed at (x, y) leaves the grid sideways,
// reaches the floor, or overlaps a locked block. Rows above the top are
// never checked against the grid.
func Collides(g *board.Grid, m Matrix, x, y int) bool {
	for b := range m.Blocks() {
		bx, by := x+b.DX, y+b.DY
		if bx < 0 || bx >= g.Cols() || by >= g.Rows() {
			return true
		}
		if by >= 0 && g.Occupied(bx, by) {
			return true
		}
	}
	return false
}

// Source supplies the kind of each new piece.
type Source interface {
	Next() Kind
}

// RandomSource draws kinds uniformly.
type RandomSource struct {
	rng *rand.Rand
}

func NewRandomSource(rng *rand.Rand) *RandomSource {
	return &RandomSource{rng: rng}
}

func (s *RandomSource) Next() Kind {
	return Kinds[s.rng.IntN(len(Kinds))]
}

// Sequence replays a fixed list of kinds, cycling when exhausted.
type Sequence struct {
	kinds []Kind
	pos   int
}

func NewSequence(kinds ...Kind) *Sequence {
	if len(kinds) == 0 {
		panic("piece: empty sequence")
	}
	return &Sequence{kinds: kinds}
}

func (s *Sequence) Next() Kind {
	k := s.kinds[s.pos%len(s.kinds)]
	s.pos++
	return k
}

// Session tracks the falling piece and the piece queued after it.
type Session struct {
	Active *Piece
	Next   *Piece

	cols   int
	source Source
}

// NewSession creates a session for a grid cols wide. Call Spawn before use.
func NewSession(cols int, source Source) *Session {
	return &Session{cols: cols, source: source}
}

func (s *Session) fresh() *Piece {
	kind := s.source.Next()
	m := Shape(kind)
	return &Piece{
		Kind:   kind,
		Matrix: m,
		X:      s.cols/2 - m.Width()/2,
		Y:      0,
	}
}

// Spawn promotes Next to Active and queues a fresh Next. With no Next queued
// both pieces are drawn fresh.
func (s *Session) Spawn() (active, next *Piece) {
	if s.Next != nil {
		s.Active = s.Next
	} else {
		s.Active = s.fresh()
	}
	s.Next = s.fresh()
	return s.Active, s.Next
}

// Reset forgets both pieces.
func (s *Session) Reset() {
	s.Active = nil
	s.Next = nil
}

// Blocked reports whether the active piece collides where it stands.
func (s *Session) Blocked(g *board.Grid) bool {
	return s.Active != nil && Collides(g, s.Active.Matrix, s.Active.X, s.Active.Y)
}

func (s *Session) try(g *board.Grid, m Matrix, x, y int) bool {
	if s.Active == nil || Collides(g, m, x, y) {
		return false
	}
	s.Active.Matrix, s.Active.X, s.Active.Y = m, x, y
	return true
}

// MoveBy shifts the active piece horizontally. Nothing changes on collision.
func (s *Session) MoveBy(g *board.Grid, dx int) bool {
	if s.Active == nil {
		return false
	}
	return s.try(g, s.Active.Matrix, s.Active.X+dx, s.Active.Y)
}

// Rotate turns the active piece clockwise in place. Nothing changes on collision.
func (s *Session) Rotate(g *board.Grid) bool {
	if s.Active == nil {
		return false
	}
	return s.try(g, s.Active.Matrix.RotateClockwise(), s.Active.X, s.Active.Y)
}

// Fall moves the active piece down one row. False means it is resting.
func (s *Session) Fall(g *board.Grid) bool {
	if s.Active == nil {
		return false
	}
	return s.try(g, s.Active.Matrix, s.Active.X, s.Active.Y+1)
}

// Drop lets the active piece fall until it rests and returns the rows travelled.
func (s *Session) Drop(g *board.Grid) int {
	rows := 0
	for s.Fall(g) {
		rows++
	}
	return rows
}
