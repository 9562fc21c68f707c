package entity

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

// GridSize is the side length of the board.
const GridSize = 15

// Board is indexed as [y][x].
type Board struct {
	cells [GridSize][GridSize]Color
}

func NewBoard() *Board {
	return &Board{}
}

func InBounds(x, y int) bool {
	return x >= 0 && x < GridSize && y >= 0 && y < GridSize
}

// Place - puts a stone of the given color on (x, y).
func (that *Board) Place(x, y int, color Color) error {
	if !color.IsStone() {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidColor, color)
	}

	if !InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", apperror.ErrOutOfBounds, x, y)
	}

	if that.cells[y][x] != ColorNone {
		return fmt.Errorf("%w: (%d,%d)", apperror.ErrCellOccupied, x, y)
	}

	that.cells[y][x] = color

	return nil
}

func (that *Board) IsEmpty(x, y int) bool {
	return InBounds(x, y) && that.cells[y][x] == ColorNone
}

// At - returns the cell value, ColorNone outside the grid.
func (that *Board) At(x, y int) Color {
	if !InBounds(x, y) {
		return ColorNone
	}

	return that.cells[y][x]
}

func (that *Board) Clear() {
	that.cells = [GridSize][GridSize]Color{}
}

// Count - returns the number of stones on the board.
func (that *Board) Count() int {
	count := 0
	for y := range that.cells {
		for x := range that.cells[y] {
			if that.cells[y][x] != ColorNone {
				count++
			}
		}
	}

	return count
}

// Rows - returns a copy of the grid as rows of cell values.
func (that *Board) Rows() [][]Color {
	rows := make([][]Color, GridSize)
	for y := range that.cells {
		rows[y] = make([]Color, GridSize)
		copy(rows[y], that.cells[y][:])
	}

	return rows
}
