package spectate

import (
	"github.com/thekrainbow/connect6/internal/board"
	"github.com/thekrainbow/connect6/internal/config"
	"github.com/thekrainbow/connect6/internal/session"
)

type StatusResponse struct {
	Board       [][]int            `json:"board"`
	BoardSize   int                `json:"board_size"`
	NextPlayer  int                `json:"next_player"`
	MoveCount   int                `json:"move_count"`
	Winner      int                `json:"winner"`
	WinningLine []board.Coordinate `json:"winning_line"`
	EngineSide  int                `json:"engine_side"`
	TimeMs      int                `json:"time_ms"`
	Config      config.Config      `json:"config"`
}

func statusFromSnapshot(snap session.Snapshot, cfg config.Config) StatusResponse {
	b := snap.Board
	status := StatusResponse{
		Board:       boardToSlice(b),
		BoardSize:   board.Size,
		NextPlayer:  colorToInt(b.ToMove()),
		MoveCount:   b.MoveCount(),
		WinningLine: []board.Coordinate{},
		EngineSide:  colorToInt(snap.Side),
		TimeMs:      snap.TimeMs,
		Config:      cfg,
	}
	if snap.HasWinner {
		status.Winner = colorToInt(snap.Winner)
		status.WinningLine = snap.WinningLine
	}
	return status
}

// boardToSlice returns rows indexed by y, each cell 0 empty, 1 black, 2 white.
func boardToSlice(b board.Board) [][]int {
	rows := make([][]int, board.Size)
	for y := 0; y < board.Size; y++ {
		rows[y] = make([]int, board.Size)
		for x := 0; x < board.Size; x++ {
			rows[y][x] = colorToInt(b.At(x, y))
		}
	}
	return rows
}

func colorToInt(c board.Color) int {
	switch c {
	case board.Black:
		return 1
	case board.White:
		return 2
	default:
		return 0
	}
}
