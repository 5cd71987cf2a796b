// Package board holds the Connect6 grid, turn bookkeeping and win detection.
package board

import (
	"errors"
	"fmt"
)

// Size is the fixed edge length of the board.
const Size = 19

const winLength = 6

var (
	// ErrIllegalMove is returned by Place when a stone targets an occupied or
	// off-board cell, or when the colour is not a stone colour.
	ErrIllegalMove = errors.New("illegal move")
	// ErrOutOfBounds is returned by Get for coordinates outside the board.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
)

type Color int

const (
	Empty Color = iota
	Black
	White
)

func (c Color) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "Empty"
	}
}

// Opponent returns the other stone colour. Empty has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// Board is a value type: copying it copies the whole position.
type Board struct {
	cells     [Size * Size]Color
	toMove    Color
	moveCount int
}

func New() Board {
	return Board{toMove: Black}
}

func (b *Board) Inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < Size && y < Size
}

// At reads a cell without bounds checking. Callers check Inside first.
func (b *Board) At(x, y int) Color {
	return b.cells[index(x, y)]
}

func (b *Board) Get(x, y int) (Color, error) {
	if !b.Inside(x, y) {
		return Empty, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	return b.At(x, y), nil
}

func (b *Board) ToMove() Color {
	return b.toMove
}

func (b *Board) SetToMove(c Color) {
	b.toMove = c
}

// EndTurn hands the move to the other colour.
func (b *Board) EndTurn() {
	b.toMove = b.toMove.Opponent()
}

// MoveCount is the number of stones submitted so far, not turns.
func (b *Board) MoveCount() int {
	return b.moveCount
}

// Place puts color on every listed cell or on none of them.
// A coordinate repeated inside one batch yields a single stone but is still
// counted twice in MoveCount.
func (b *Board) Place(stones []Coordinate, color Color) error {
	if color != Black && color != White {
		return fmt.Errorf("%w: %v is not a stone colour", ErrIllegalMove, color)
	}
	for _, s := range stones {
		if !b.Inside(s.X, s.Y) {
			return fmt.Errorf("%w: %v is off the board", ErrIllegalMove, s)
		}
		if b.At(s.X, s.Y) != Empty {
			return fmt.Errorf("%w: %v is occupied", ErrIllegalMove, s)
		}
	}
	for _, s := range stones {
		b.cells[index(s.X, s.Y)] = color
	}
	b.moveCount += len(stones)
	return nil
}

func (b *Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == Empty {
			count++
		}
	}
	return count
}

func (b *Board) Full() bool {
	return b.CountEmpty() == 0
}

// Stones lists the occupied cells in row-major order.
func (b *Board) Stones() []Stone {
	stones := []Stone{}
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if c := b.At(x, y); c != Empty {
				stones = append(stones, Stone{Coordinate: Coordinate{X: x, Y: y}, Color: c})
			}
		}
	}
	return stones
}

func index(x, y int) int {
	return y*Size + x
}
