package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/thekrainbow/connect6/internal/engine"
)

const DefaultName = "Connect6 Engine"

// Session owns the command table and the collaborators of the loop. The game
// itself lives in the State threaded through Run.
type Session struct {
	name     string
	logger   logrus.FieldLogger
	engine   engine.Engine
	observer func(Snapshot)
	commands map[string]Handler
}

type Option func(*Session)

func WithName(name string) Option {
	return func(s *Session) { s.name = name }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithEngine sets the engine the first State starts with.
func WithEngine(e engine.Engine) Option {
	return func(s *Session) { s.engine = e }
}

// WithObserver registers fn to receive a snapshot after every command that
// changed the state.
func WithObserver(fn func(Snapshot)) Option {
	return func(s *Session) { s.observer = fn }
}

func New(opts ...Option) *Session {
	s := &Session{
		name:   DefaultName,
		logger: logrus.StandardLogger(),
		engine: engine.New(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.commands = s.handlers()
	return s
}

// InitialState is the state Run starts from.
func (s *Session) InitialState() State {
	return NewState(s.engine)
}

// Run reads one command per line from in and writes replies to out until a
// quit command, end of input or ctx is done. Command errors are logged and
// never stop the loop.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	log := s.logger.WithField("component", "session")
	st := s.InitialState()
	if s.observer != nil {
		s.observer(st.Snapshot())
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}

	reader := bufio.NewReader(in)
	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return readErr
		}
		if line == "" && readErr != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		line = strings.TrimRight(line, "\r\n")
		next, reply, err := s.Dispatch(st, line)
		if err != nil {
			log.WithField("command", line).Errorf("[error] %v for command: %s", err, line)
		} else {
			if reply.HasLine {
				if _, err := fmt.Fprintln(out, reply.Line); err != nil {
					return err
				}
			}
			if reply.Changed {
				s.announceWinner(log, st, next)
				if s.observer != nil {
					s.observer(next.Snapshot())
				}
			}
			st = next
			if reply.Quit {
				log.Debug("quit requested")
				return nil
			}
		}
		if readErr != nil {
			return nil
		}
	}
}

func (s *Session) announceWinner(log logrus.FieldLogger, prev, next State) {
	if _, had := prev.Board.Winner(); had {
		return
	}
	winner, ok := next.Board.Winner()
	if !ok {
		return
	}
	log.WithFields(logrus.Fields{
		"winner": winner.String(),
		"moves":  next.Board.MoveCount(),
	}).Info("six in a row")
}
