package session

import (
	"strings"

	"github.com/thekrainbow/connect6/internal/board"
	"github.com/thekrainbow/connect6/internal/notation"
)

// Render draws the board with column letters on top and the highest row
// first. Black is X, White is O.
func Render(b board.Board) string {
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < board.Size; x++ {
		if x > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(notation.Letter(x))
	}
	for y := board.Size - 1; y >= 0; y-- {
		sb.WriteString("\n ")
		sb.WriteByte(notation.Letter(y))
		sb.WriteByte(' ')
		for x := 0; x < board.Size; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(cellRune(b.At(x, y)))
		}
	}
	return sb.String()
}

func cellRune(c board.Color) byte {
	switch c {
	case board.Black:
		return 'X'
	case board.White:
		return 'O'
	default:
		return '.'
	}
}
