package piece_test

import (
	"math/rand/v2"
	"testing"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/piece"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapes(t *testing.T) {
	for _, k := range piece.Kinds {
		t.Run(k.String(), func(t *testing.T) {
			m := piece.Shape(k)
			assert.Equal(t, 4, m.Count())
			for b := range m.Blocks() {
				assert.Equal(t, k.Cell(), b.Value)
			}
			assert.Equal(t, m.Width(), m.Height())
		})
	}

	m := piece.Shape(piece.T)
	m[0][1] = 0
	assert.Equal(t, 4, piece.Shape(piece.T).Count(), "Shape must hand out copies")

	assert.Panics(t, func() { piece.Shape(piece.Kind(9)) })
	assert.False(t, piece.Kind(0).Valid())
	assert.Equal(t, "Kind(9)", piece.Kind(9).String())
}

func TestRotateClockwise(t *testing.T) {
	t.Run("four turns are identity", func(t *testing.T) {
		for _, k := range piece.Kinds {
			m := piece.Shape(k)
			assert.True(t, m.Equal(m.RotateClockwise().RotateClockwise().RotateClockwise().RotateClockwise()), k.String())
		}
	})

	t.Run("T", func(t *testing.T) {
		got := piece.Shape(piece.T).RotateClockwise()
		want := piece.Matrix{
			{0, 3, 0},
			{0, 3, 3},
			{0, 3, 0},
		}
		assert.Equal(t, want, got)
	})

	t.Run("I stands up in column 2", func(t *testing.T) {
		got := piece.Shape(piece.I).RotateClockwise()
		for y := 0; y < 4; y++ {
			assert.Equal(t, board.Cell(1), got[y][2])
		}
		assert.Equal(t, 4, got.Count())
	})

	t.Run("non-square swaps dimensions", func(t *testing.T) {
		m := piece.Matrix{
			{1, 2, 3},
			{4, 5, 6},
		}
		got := m.RotateClockwise()
		want := piece.Matrix{
			{4, 1},
			{5, 2},
			{6, 3},
		}
		assert.Equal(t, want, got)
		assert.Equal(t, m, got.RotateClockwise().RotateClockwise().RotateClockwise())
	})
}

func TestCollides(t *testing.T) {
	g := board.New(10, 20)
	o := piece.Shape(piece.O)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"inside", 4, 5, false},
		{"left wall", -1, 5, true},
		{"right wall", 9, 5, true},
		{"floor", 4, 19, true},
		{"resting on floor", 4, 18, false},
		{"above top", 4, -2, false},
		{"straddling top", 4, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, piece.Collides(g, o, tt.x, tt.y))
		})
	}

	t.Run("empty cells of the matrix never collide", func(t *testing.T) {
		i := piece.Shape(piece.I)
		assert.False(t, piece.Collides(g, i, 0, -1), "row 0 of the I matrix is empty")
		assert.False(t, piece.Collides(g, i, 6, 18), "rows 2-3 of the I matrix are empty")
	})

	t.Run("overlap", func(t *testing.T) {
		require.NoError(t, g.Set(5, 10, 3))
		assert.True(t, piece.Collides(g, o, 4, 9))
		assert.False(t, piece.Collides(g, o, 6, 9))
	})
}

func TestMerge(t *testing.T) {
	g := board.New(10, 20)
	require.NoError(t, g.Set(0, 19, 6))

	p := &piece.Piece{Kind: piece.T, Matrix: piece.Shape(piece.T), X: 3, Y: -1}
	placed := p.Merge(g)

	require.Len(t, placed, 3, "the block in row -1 is discarded")
	assert.Equal(t, 4, g.Filled())
	for _, b := range placed {
		c, err := g.At(b.X, b.Y)
		require.NoError(t, err)
		assert.Equal(t, board.Cell(3), c)
		assert.Equal(t, 0, b.Y)
	}
	c, _ := g.At(0, 19)
	assert.Equal(t, board.Cell(6), c, "previously locked cells untouched")
}

func TestSession(t *testing.T) {
	g := board.New(10, 20)

	t.Run("spawn keeps a look-ahead piece", func(t *testing.T) {
		s := piece.NewSession(10, piece.NewSequence(piece.I, piece.O, piece.T))
		active, next := s.Spawn()
		assert.Equal(t, piece.I, active.Kind)
		assert.Equal(t, piece.O, next.Kind)
		assert.Equal(t, 3, active.X, "I is 4 wide: 10/2 - 4/2")
		assert.Equal(t, 0, active.Y)

		active, next = s.Spawn()
		assert.Equal(t, piece.O, active.Kind)
		assert.Equal(t, 4, active.X, "O is 2 wide: 10/2 - 2/2")
		assert.Equal(t, piece.T, next.Kind)
		assert.Equal(t, 4, next.X)
		assert.Same(t, s.Next, next)
	})

	t.Run("random source stays in range", func(t *testing.T) {
		src := piece.NewRandomSource(rand.New(rand.NewPCG(1, 2)))
		for range 200 {
			assert.True(t, src.Next().Valid())
		}
	})

	t.Run("moves revert on collision", func(t *testing.T) {
		s := piece.NewSession(10, piece.NewSequence(piece.O))
		s.Spawn()

		for s.MoveBy(g, -1) {
		}
		assert.Equal(t, 0, s.Active.X)
		assert.False(t, s.MoveBy(g, -1))
		assert.Equal(t, 0, s.Active.X)

		rows := s.Drop(g)
		assert.Equal(t, 18, rows)
		assert.False(t, s.Fall(g))
		assert.Equal(t, 18, s.Active.Y)
	})

	t.Run("rotation reverts when blocked", func(t *testing.T) {
		s := piece.NewSession(10, piece.NewSequence(piece.I))
		s.Spawn()
		s.Active.Y = 18
		before := s.Active.Matrix.Clone()

		assert.False(t, s.Rotate(g), "a vertical I cannot fit above the floor")
		assert.True(t, before.Equal(s.Active.Matrix))

		s.Active.Y = 5
		assert.True(t, s.Rotate(g))
		assert.False(t, before.Equal(s.Active.Matrix))
	})

	t.Run("no active piece", func(t *testing.T) {
		s := piece.NewSession(10, piece.NewSequence(piece.S))
		assert.False(t, s.MoveBy(g, 1))
		assert.False(t, s.Rotate(g))
		assert.False(t, s.Fall(g))
		assert.False(t, s.Blocked(g))
	})
}
