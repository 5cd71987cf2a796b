// Package session runs the line-oriented command protocol around a board and
// an engine.
package session

import (
	"github.com/thekrainbow/connect6/internal/board"
	"github.com/thekrainbow/connect6/internal/engine"
)

// State is everything a command can change. Handlers receive a copy and
// return the next state, so a failing command never leaves partial changes.
type State struct {
	Board  board.Board
	Engine engine.Engine
}

func NewState(e engine.Engine) State {
	return State{Board: board.New(), Engine: e}
}

// Snapshot is a read-only copy of a State for observers.
type Snapshot struct {
	Board       board.Board
	Side        board.Color
	TimeMs      int
	Winner      board.Color
	HasWinner   bool
	WinningLine []board.Coordinate
}

func (st State) Snapshot() Snapshot {
	b := st.Board
	snap := Snapshot{
		Board:  b,
		Side:   st.Engine.Side(),
		TimeMs: st.Engine.TimeMs(),
	}
	if line := b.WinningLine(); line != nil {
		snap.HasWinner = true
		snap.Winner = b.At(line[0].X, line[0].Y)
		snap.WinningLine = line
	}
	return snap
}
