// Package engine picks the stones the automated side plays each turn.
package engine

import (
	"github.com/thekrainbow/connect6/internal/board"
)

const (
	DefaultTimeMs = 3000
	MinTimeMs     = 100
)

// Center is the opening point, JJ in compact notation.
var Center = board.Coordinate{X: board.Size / 2, Y: board.Size / 2}

// View is the read-only part of a board the engine relies on.
type View interface {
	Inside(x, y int) bool
	At(x, y int) board.Color
	ToMove() board.Color
	MoveCount() int
}

var _ View = (*board.Board)(nil)

// Policy chooses up to count stones for the side to move in v.
type Policy interface {
	Select(v View, count int) []board.Coordinate
}

type Engine struct {
	policy Policy
	timeMs int
	side   board.Color
}

func New(policy Policy) Engine {
	if policy == nil {
		policy = NearestCenter{}
	}
	return Engine{policy: policy, timeMs: DefaultTimeMs}
}

// SetTimeMs stores the per-move budget. It is advisory: the current policy
// is not a search and finishes regardless.
func (e *Engine) SetTimeMs(ms int) {
	if ms < MinTimeMs {
		ms = MinTimeMs
	}
	e.timeMs = ms
}

func (e Engine) TimeMs() int {
	return e.timeMs
}

func (e *Engine) SetSide(side board.Color) {
	e.side = side
}

// Side is the colour the engine was told to play, Empty if never set.
func (e Engine) Side() board.Color {
	return e.side
}

// SelectMove returns the batch to play for v's side to move. An empty batch
// means no stone can be placed.
func (e Engine) SelectMove(v View) []board.Coordinate {
	if v.MoveCount() == 0 && v.ToMove() == board.Black {
		return []board.Coordinate{Center}
	}
	policy := e.policy
	if policy == nil {
		policy = NearestCenter{}
	}
	return policy.Select(v, StonesNeeded(v))
}

// StonesNeeded is 1 for Black's opening move and 2 for every other turn.
func StonesNeeded(v View) int {
	if v.MoveCount() == 0 && v.ToMove() == board.Black {
		return 1
	}
	return 2
}
