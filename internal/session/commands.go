package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/thekrainbow/connect6/internal/board"
	"github.com/thekrainbow/connect6/internal/notation"
)

var (
	ErrBadMoveCount = errors.New("wrong number of stones")
	ErrUnknownSide  = errors.New("use: new black | new white")
	ErrBadArgument  = errors.New("bad argument")
)

// MoveTag prefixes every stone batch the engine sends back.
const MoveTag = "move "

const HelpText = `Commands:
  name          -> print engine name
  print         -> show the current board
  exit | quit   -> terminate the program
  black XXXX    -> place black stones (first move: one stone, e.g. 'JJ' or 'JJJJ')
  white XXXX    -> place white stones
  next          -> engine plays the side to move
  move XXXX     -> opponent moved; engine responds
  new [black]   -> start a new game, engine plays black
  new white     -> start a new game, engine plays white and white moves first
  depth ms      -> set time limit per move (milliseconds)
  vcf | unvcf   -> ignored (compatibility)
  help          -> show this help message`

// Reply is the outcome of one command. At most one line is written.
type Reply struct {
	Line    string
	HasLine bool
	Quit    bool
	Changed bool
}

func say(line string) Reply {
	return Reply{Line: line, HasLine: true}
}

// Handler runs one command against st and returns the state to keep.
type Handler func(st State, arg string) (State, Reply, error)

func (s *Session) handlers() map[string]Handler {
	return map[string]Handler{
		"name":  s.handleName,
		"print": handlePrint,
		"exit":  handleQuit,
		"quit":  handleQuit,
		"black": placeHandler(board.Black),
		"white": placeHandler(board.White),
		"next":  handleNext,
		"move":  handleMove,
		"new":   handleNew,
		"depth": handleDepth,
		"vcf":   handleIgnored,
		"unvcf": handleIgnored,
		"help":  handleHelp,
	}
}

// Dispatch parses one input line and runs its command. Unknown keywords get
// the help text. On error the returned state is st unchanged.
func (s *Session) Dispatch(st State, line string) (State, Reply, error) {
	keyword, arg := splitCommand(line)
	if keyword == "" {
		return st, Reply{}, nil
	}
	handler, ok := s.commands[keyword]
	if !ok {
		handler = handleHelp
	}
	next, reply, err := handler(st, arg)
	if err != nil {
		return st, Reply{}, err
	}
	return next, reply, nil
}

func splitCommand(line string) (string, string) {
	trimmed := strings.TrimSpace(line)
	i := strings.IndexFunc(trimmed, unicode.IsSpace)
	if i < 0 {
		return strings.ToLower(trimmed), ""
	}
	return strings.ToLower(trimmed[:i]), strings.TrimSpace(trimmed[i:])
}

func (s *Session) handleName(st State, _ string) (State, Reply, error) {
	return st, say(s.name), nil
}

func handlePrint(st State, _ string) (State, Reply, error) {
	return st, say(Render(st.Board)), nil
}

func handleQuit(st State, _ string) (State, Reply, error) {
	return st, Reply{Quit: true}, nil
}

func handleHelp(st State, _ string) (State, Reply, error) {
	return st, say(HelpText), nil
}

func handleIgnored(st State, _ string) (State, Reply, error) {
	return st, say(""), nil
}

func placeHandler(color board.Color) Handler {
	return func(st State, arg string) (State, Reply, error) {
		if err := Place(&st.Board, color, arg); err != nil {
			return st, Reply{}, err
		}
		return st, Reply{Changed: true}, nil
	}
}

func handleMove(st State, arg string) (State, Reply, error) {
	if err := Place(&st.Board, st.Board.ToMove(), arg); err != nil {
		return st, Reply{}, err
	}
	st, reply, err := engineTurn(st)
	if err != nil {
		return st, Reply{}, err
	}
	reply.Changed = true
	return st, reply, nil
}

func handleNext(st State, _ string) (State, Reply, error) {
	return engineTurn(st)
}

func handleNew(st State, arg string) (State, Reply, error) {
	next := NewState(st.Engine)
	switch strings.ToLower(arg) {
	case "":
	case "black":
		next.Engine.SetSide(board.Black)
	case "white":
		next.Engine.SetSide(board.White)
		next.Board.SetToMove(board.White)
	default:
		return st, Reply{}, fmt.Errorf("%w (got %q)", ErrUnknownSide, arg)
	}
	return next, Reply{Changed: true}, nil
}

func handleDepth(st State, arg string) (State, Reply, error) {
	ms, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return st, Reply{}, fmt.Errorf("%w: depth wants milliseconds, got %q", ErrBadArgument, arg)
	}
	st.Engine.SetTimeMs(ms)
	return st, Reply{Changed: true}, nil
}

// Place decodes text and puts the stones for color on b, then gives the turn
// to the other colour. Black's opening may be written as one coordinate
// twice ("JJJJ"); that legacy form is collapsed to a single stone.
func Place(b *board.Board, color board.Color, text string) error {
	stones, err := notation.Decode(text)
	if err != nil {
		return err
	}
	opening := color == board.Black && b.MoveCount() == 0
	if opening && len(stones) == 2 && stones[0].Equals(stones[1]) {
		stones = stones[:1]
	}
	expected := 2
	if opening {
		expected = 1
	}
	if len(stones) != expected {
		return fmt.Errorf("%w: expected %d, got %d", ErrBadMoveCount, expected, len(stones))
	}
	if err := b.Place(stones, color); err != nil {
		return err
	}
	b.SetToMove(color.Opponent())
	return nil
}

// engineTurn lets the engine play for the side to move. With no stone left to
// play the state is returned as is and nothing is printed.
func engineTurn(st State) (State, Reply, error) {
	if st.Board.Full() {
		return st, Reply{}, nil
	}
	batch := st.Engine.SelectMove(&st.Board)
	if len(batch) == 0 {
		return st, Reply{}, nil
	}
	if err := st.Board.Place(batch, st.Board.ToMove()); err != nil {
		return st, Reply{}, fmt.Errorf("engine batch %v: %w", batch, err)
	}
	st.Board.EndTurn()
	reply := say(MoveTag + notation.Encode(batch))
	reply.Changed = true
	return st, reply, nil
}
