package board

var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Winner reports the colour owning a run of six or more stones.
// Runs are only counted forward from each cell, so every run is found from
// its first stone.
func (b *Board) Winner() (Color, bool) {
	line := b.WinningLine()
	if line == nil {
		return Empty, false
	}
	return b.At(line[0].X, line[0].Y), true
}

// WinningLine returns the cells of the first winning run in row-major scan
// order, or nil.
func (b *Board) WinningLine() []Coordinate {
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			color := b.At(x, y)
			if color == Empty {
				continue
			}
			for _, d := range directions {
				count := 1 + b.countDirection(x, y, d[0], d[1], color)
				if count < winLength {
					continue
				}
				line := make([]Coordinate, count)
				for i := range line {
					line[i] = Coordinate{X: x + i*d[0], Y: y + i*d[1]}
				}
				return line
			}
		}
	}
	return nil
}

func (b *Board) countDirection(x, y, dx, dy int, color Color) int {
	count := 0
	nx, ny := x+dx, y+dy
	for b.Inside(nx, ny) && b.At(nx, ny) == color {
		count++
		nx += dx
		ny += dy
	}
	return count
}
