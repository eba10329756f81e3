// Package piece holds the seven falling-piece shapes and the session that
// tracks the active and look-ahead pieces.
package piece

import (
	"fmt"

	"github.com/plus3/blockfall/board"
)

// Kind identifies one of the seven shapes. Its value doubles as the color id
// written into the grid on lock.
type Kind board.Cell

const (
	I Kind = iota + 1
	O
	T
	S
	Z
	J
	L
)

// Kinds lists every shape in id order.
var Kinds = [...]Kind{I, O, T, S, Z, J, L}

func (k Kind) String() string {
	switch k {
	case I:
		return "I"
	case O:
		return "O"
	case T:
		return "T"
	case S:
		return "S"
	case Z:
		return "Z"
	case J:
		return "J"
	case L:
		return "L"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the seven shapes.
func (k Kind) Valid() bool {
	return k >= I && k <= L
}

// Cell returns the grid value for blocks of this kind.
func (k Kind) Cell() board.Cell {
	return board.Cell(k)
}

var shapes = map[Kind]Matrix{
	I: {
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	},
	O: {
		{2, 2},
		{2, 2},
	},
	T: {
		{0, 3, 0},
		{3, 3, 3},
		{0, 0, 0},
	},
	S: {
		{0, 4, 4},
		{4, 4, 0},
		{0, 0, 0},
	},
	Z: {
		{5, 5, 0},
		{0, 5, 5},
		{0, 0, 0},
	},
	J: {
		{6, 0, 0},
		{6, 6, 6},
		{0, 0, 0},
	},
	L: {
		{0, 0, 7},
		{7, 7, 7},
		{0, 0, 0},
	},
}

// Shape returns a fresh copy of the spawn orientation of k.
// Panics on an invalid kind.
func Shape(k Kind) Matrix {
	m, ok := shapes[k]
	if !ok {
		panic("piece: unknown kind " + k.String())
	}
	return m.Clone()
}
