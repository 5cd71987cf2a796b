package engine

import (
	"sort"

	"github.com/thekrainbow/connect6/internal/board"
)

// NearestCenter plays the empty cells touching existing stones that lie
// closest to the center. Ties keep the order the cells were found in.
type NearestCenter struct{}

func (NearestCenter) Select(v View, count int) []board.Coordinate {
	candidates := nearbyCandidates(v)
	if len(candidates) == 0 {
		candidates = emptyCells(v)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return distanceFromCenter(candidates[i]) < distanceFromCenter(candidates[j])
	})
	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}

// nearbyCandidates lists empty cells next to a stone in the order they are
// first reached while scanning the stones row by row.
func nearbyCandidates(v View) []board.Coordinate {
	var marked [board.Size * board.Size]bool
	candidates := []board.Coordinate{}
	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			if v.At(x, y) == board.Empty {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if !v.Inside(nx, ny) || v.At(nx, ny) != board.Empty || marked[ny*board.Size+nx] {
						continue
					}
					marked[ny*board.Size+nx] = true
					candidates = append(candidates, board.Coordinate{X: nx, Y: ny})
				}
			}
		}
	}
	return candidates
}

func emptyCells(v View) []board.Coordinate {
	cells := []board.Coordinate{}
	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			if v.At(x, y) == board.Empty {
				cells = append(cells, board.Coordinate{X: x, Y: y})
			}
		}
	}
	return cells
}

func distanceFromCenter(c board.Coordinate) int {
	dx := c.X - Center.X
	dy := c.Y - Center.Y
	return dx*dx + dy*dy
}
