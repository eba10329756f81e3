// Package board is the fixed-size cell store that holds locked blocks.
package board

import (
	"errors"
	"fmt"
)

// Cell is the content of one grid cell: Empty or a piece id in 1..MaxCell.
type Cell uint8

const (
	Empty   Cell = 0
	MaxCell Cell = 7
)

var (
	// ErrOutOfBounds reports access outside the grid.
	ErrOutOfBounds = errors.New("cell out of bounds")
	// ErrInvalidCell reports a value outside 0..MaxCell.
	ErrInvalidCell = errors.New("invalid cell value")
)

// Grid is ROWS rows of COLS cells. Row 0 is the top.
type Grid struct {
	cols  int
	rows  int
	cells [][]Cell
}

// New returns an empty cols×rows grid.
func New(cols, rows int) *Grid {
	g := &Grid{cols: cols, rows: rows}
	g.cells = make([][]Cell, rows)
	for y := range g.cells {
		g.cells[y] = make([]Cell, cols)
	}
	return g
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.cols && y >= 0 && y < g.rows
}

// At returns the cell at (x, y).
func (g *Grid) At(x, y int) (Cell, error) {
	if !g.InBounds(x, y) {
		return Empty, fmt.Errorf("at (%d,%d) on %dx%d grid: %w", x, y, g.cols, g.rows, ErrOutOfBounds)
	}
	return g.cells[y][x], nil
}

// Occupied reports whether (x, y) is inside the grid and non-empty.
func (g *Grid) Occupied(x, y int) bool {
	return g.InBounds(x, y) && g.cells[y][x] != Empty
}

// Set writes v at (x, y).
func (g *Grid) Set(x, y int, v Cell) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("set (%d,%d) on %dx%d grid: %w", x, y, g.cols, g.rows, ErrOutOfBounds)
	}
	if v > MaxCell {
		return fmt.Errorf("set (%d,%d) to %d: %w", x, y, v, ErrInvalidCell)
	}
	g.cells[y][x] = v
	return nil
}

// RowFull reports whether every cell in row y is non-empty.
func (g *Grid) RowFull(y int) bool {
	if y < 0 || y >= g.rows {
		return false
	}
	for _, c := range g.cells[y] {
		if c == Empty {
			return false
		}
	}
	return true
}

// RemoveRow deletes row y and inserts an empty row at the top. Rows above y
// move down by one; rows below are untouched.
func (g *Grid) RemoveRow(y int) {
	if y < 0 || y >= g.rows {
		return
	}
	removed := g.cells[y]
	copy(g.cells[1:y+1], g.cells[:y])
	clear(removed)
	g.cells[0] = removed
}

// ClearFullRows removes every full row, scanning bottom to top and
// re-checking the same index after each removal. Returns the count removed.
func (g *Grid) ClearFullRows() int {
	cleared := 0
	for y := g.rows - 1; y >= 0; {
		if g.RowFull(y) {
			g.RemoveRow(y)
			cleared++
			continue
		}
		y--
	}
	return cleared
}

// Filled counts non-empty cells.
func (g *Grid) Filled() int {
	n := 0
	for _, row := range g.cells {
		for _, c := range row {
			if c != Empty {
				n++
			}
		}
	}
	return n
}

// Reset empties every cell.
func (g *Grid) Reset() {
	for _, row := range g.cells {
		clear(row)
	}
}

// Snapshot returns a deep copy of the cells, indexed [y][x].
func (g *Grid) Snapshot() [][]Cell {
	out := make([][]Cell, g.rows)
	for y, row := range g.cells {
		out[y] = append([]Cell(nil), row...)
	}
	return out
}
