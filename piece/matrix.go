package piece

import (
	"iter"
	"slices"

	"github.com/plus3/blockfall/board"
)

// Matrix is a rectangular block of cells indexed [row][col]. Non-zero cells
// are the blocks of a piece.
type Matrix [][]board.Cell

// Height is the number of rows.
func (m Matrix) Height() int { return len(m) }

// Width is the number of columns.
func (m Matrix) Width() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// RotateClockwise returns m turned 90° clockwise: new[i][j] = old[H-1-j][i].
// An H×W input yields a W×H result.
func (m Matrix) RotateClockwise() Matrix {
	h, w := m.Height(), m.Width()
	out := make(Matrix, w)
	for i := range out {
		out[i] = make([]board.Cell, h)
		for j := range out[i] {
			out[i][j] = m[h-1-j][i]
		}
	}
	return out
}

// Clone deep-copies m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = slices.Clone(row)
	}
	return out
}

// Equal reports whether both matrices have the same shape and cells.
func (m Matrix) Equal(other Matrix) bool {
	return slices.EqualFunc(m, other, func(a, b []board.Cell) bool {
		return slices.Equal(a, b)
	})
}

// Block is one non-empty cell of a matrix, relative to its top-left corner.
type Block struct {
	DX, DY int
	Value  board.Cell
}

// Blocks yields every non-empty cell in row-major order.
func (m Matrix) Blocks() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for dy, row := range m {
			for dx, v := range row {
				if v == board.Empty {
					continue
				}
				if !yield(Block{DX: dx, DY: dy, Value: v}) {
					return
				}
			}
		}
	}
}

// Count returns the number of non-empty cells.
func (m Matrix) Count() int {
	n := 0
	for range m.Blocks() {
		n++
	}
	return n
}
