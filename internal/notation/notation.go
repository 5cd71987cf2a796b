// Package notation converts stone batches to and from the compact letter-pair
// form used on the wire, e.g. "ASBS" for (0,18),(1,18).
package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thekrainbow/connect6/internal/board"
)

// Letters maps board index to letter: A=0 ... S=18.
const Letters = "ABCDEFGHIJKLMNOPQRS"

var (
	ErrInvalidFormat = errors.New("invalid coordinate length")
	ErrInvalidSquare = errors.New("invalid square")
)

// Decode parses pairs of column/row letters. Case is ignored and duplicates
// are kept; legality is up to the caller.
func Decode(text string) ([]board.Coordinate, error) {
	compact := strings.ToUpper(strings.TrimSpace(text))
	if len(compact)%2 != 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, compact)
	}
	coords := make([]board.Coordinate, 0, len(compact)/2)
	for i := 0; i < len(compact); i += 2 {
		token := compact[i : i+2]
		x := strings.IndexByte(Letters, token[0])
		y := strings.IndexByte(Letters, token[1])
		if x < 0 || y < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSquare, token)
		}
		coords = append(coords, board.Coordinate{X: x, Y: y})
	}
	return coords, nil
}

// Encode writes column then row letter for each coordinate. Coordinates must
// be on the board.
func Encode(coords []board.Coordinate) string {
	var sb strings.Builder
	sb.Grow(2 * len(coords))
	for _, c := range coords {
		sb.WriteByte(Letters[c.X])
		sb.WriteByte(Letters[c.Y])
	}
	return sb.String()
}

func Letter(i int) byte {
	return Letters[i]
}
