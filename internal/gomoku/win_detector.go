package gomoku

import "github.com/rocketscienceinc/gomoku-backend/internal/entity"

// WinLength is the number of contiguous stones that wins. Longer lines win too.
const WinLength = 5

// one direction per undirected line: horizontal, vertical, both diagonals
var directions = [4][2]int{
	{1, 0},
	{0, 1},
	{1, 1},
	{1, -1},
}

// CheckWin - reports whether the stone of color at (x, y) completes a line of WinLength or more.
func CheckWin(board *entity.Board, x, y int, color entity.Color) bool {
	if !color.IsStone() || board.At(x, y) != color {
		return false
	}

	for _, dir := range directions {
		count := 1 + countRay(board, x, y, dir[0], dir[1], color) + countRay(board, x, y, -dir[0], -dir[1], color)
		if count >= WinLength {
			return true
		}
	}

	return false
}

// countRay - counts stones of color starting next to (x, y) and stepping by (dx, dy).
func countRay(board *entity.Board, x, y, dx, dy int, color entity.Color) int {
	count := 0
	for nx, ny := x+dx, y+dy; board.At(nx, ny) == color; nx, ny = nx+dx, ny+dy {
		count++
	}

	return count
}
