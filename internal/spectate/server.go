package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/thekrainbow/connect6/internal/board"
	"github.com/thekrainbow/connect6/internal/config"
	"github.com/thekrainbow/connect6/internal/engine"
	"github.com/thekrainbow/connect6/internal/session"
)

const shutdownTimeout = 5 * time.Second

// Server holds the latest session snapshot and serves it. Observe is the
// only writer.
type Server struct {
	hub    *Hub
	store  *config.Store
	logger *logrus.Logger

	mu     sync.RWMutex
	latest session.Snapshot
}

func NewServer(store *config.Store, logger *logrus.Logger) *Server {
	st := session.NewState(engineFromConfig(store.Get()))
	return &Server{
		hub:    NewHub(),
		store:  store,
		logger: logger,
		latest: st.Snapshot(),
	}
}

func engineFromConfig(cfg config.Config) engine.Engine {
	e := engine.New(nil)
	e.SetTimeMs(cfg.TimeMs)
	return e
}

// Observe records snap and pushes it to websocket clients. It is meant to be
// passed to session.WithObserver.
func (s *Server) Observe(snap session.Snapshot) {
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()
	if s.hub.HasClients() {
		s.hub.Publish(s.Status())
	}
}

func (s *Server) Status() StatusResponse {
	s.mu.RLock()
	snap := s.latest
	s.mu.RUnlock()
	return statusFromSnapshot(snap, s.store.Get())
}

func (s *Server) latestBoard() board.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest.Board
}

// Run drives the websocket hub until done is closed.
func (s *Server) Run(done <-chan struct{}) {
	s.hub.Run(done)
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.logger, NoColor: true}))
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Status())
	})
	r.Get("/api/board", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(session.Render(s.latestBoard()) + "\n"))
	})
	r.Get("/ws", s.serveWS)
	return r
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	client := newClient(s.hub, conn)
	client.sendStatus(s.Status())
	s.hub.Register(client)

	go client.writePump(s.logger.WithField("remote", r.RemoteAddr))
	client.readPump(s.Status)
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	log := s.logger.WithField("component", "spectate")
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go s.Run(ctx.Done())

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()
	log.Infof("spectator listening on %s", addr)

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.WithError(err).Error("server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Warn("graceful shutdown failed")
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.WithError(closeErr).Warn("forced close failed")
		}
	}
	return runErr
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
