package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/thekrainbow/connect6/internal/config"
	"github.com/thekrainbow/connect6/internal/engine"
	"github.com/thekrainbow/connect6/internal/session"
	"github.com/thekrainbow/connect6/internal/spectate"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load")
	listen := flag.String("listen", "", "spectator address, e.g. :8080 (overrides CONNECT6_LISTEN)")
	timeMs := flag.Int("time-ms", 0, "time budget per move in milliseconds (overrides CONNECT6_TIME_MS)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect6: %v\n", err)
		os.Exit(2)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *timeMs > 0 {
		cfg.TimeMs = *timeMs
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect6: %v\n", err)
		os.Exit(2)
	}
	store := config.NewStore(cfg)

	if err := run(cfg, store, logger); err != nil {
		logger.WithError(err).Error("exiting")
		os.Exit(1)
	}
}

func run(cfg config.Config, store *config.Store, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New(engine.NearestCenter{})
	eng.SetTimeMs(cfg.TimeMs)

	opts := []session.Option{
		session.WithName(cfg.EngineName),
		session.WithLogger(logger),
		session.WithEngine(eng),
	}

	serveErr := make(chan error, 1)
	if cfg.Listen != "" {
		srv := spectate.NewServer(store, logger)
		opts = append(opts, session.WithObserver(func(snap session.Snapshot) {
			updated := store.Get()
			updated.TimeMs = snap.TimeMs
			store.Update(updated)
			srv.Observe(snap)
		}))
		go func() { serveErr <- srv.Serve(ctx, cfg.Listen) }()
	}

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- session.New(opts...).Run(ctx, os.Stdin, os.Stdout)
	}()

	logger.WithFields(logrus.Fields{
		"name":    cfg.EngineName,
		"time_ms": cfg.TimeMs,
		"listen":  cfg.Listen,
	}).Debug("engine ready")

	var err error
	served := false
	select {
	case err = <-loopErr:
	case <-ctx.Done():
		logger.Infof("shutdown signal received: %v", ctx.Err())
	case err = <-serveErr:
		served = true
	}
	stop()
	if cfg.Listen != "" && !served {
		// wait for the spectator to finish its graceful shutdown
		if serr := <-serveErr; err == nil {
			err = serr
		}
	}
	return err
}
