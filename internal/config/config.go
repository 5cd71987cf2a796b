// Package config loads engine settings from dotenv files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	envName      = "CONNECT6_NAME"
	envTimeMs    = "CONNECT6_TIME_MS"
	envListen    = "CONNECT6_LISTEN"
	envLogLevel  = "CONNECT6_LOG_LEVEL"
	envLogFormat = "CONNECT6_LOG_FORMAT"
)

type Config struct {
	EngineName string `json:"engine_name"`
	TimeMs     int    `json:"time_ms"`
	Listen     string `json:"listen"`
	LogLevel   string `json:"log_level"`
	LogFormat  string `json:"log_format"`
}

func DefaultConfig() Config {
	return Config{
		EngineName: "Connect6 Engine",
		TimeMs:     3000,
		Listen:     "", // spectator server off
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load starts from DefaultConfig, reads the given dotenv files (missing ones
// are skipped, variables already set in the environment win) and applies the
// CONNECT6_* variables.
func Load(files ...string) (Config, error) {
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return FromEnv(DefaultConfig())
}

// FromEnv overlays the CONNECT6_* environment variables on base.
func FromEnv(base Config) (Config, error) {
	cfg := base
	if v, ok := os.LookupEnv(envName); ok && strings.TrimSpace(v) != "" {
		cfg.EngineName = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(envTimeMs); ok {
		ms, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, envTimeMs, v)
		}
		cfg.TimeMs = ms
	}
	if v, ok := os.LookupEnv(envListen); ok {
		cfg.Listen = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(envLogLevel); ok && v != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv(envLogFormat); ok && v != "" {
		cfg.LogFormat = strings.ToLower(strings.TrimSpace(v))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TimeMs <= 0 {
		return fmt.Errorf("%w: time_ms must be positive, got %d", ErrInvalidConfig, c.TimeMs)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// Store guards the live config shared by the session and the spectator server.
type Store struct {
	mu     sync.RWMutex
	config Config
}

func NewStore(cfg Config) *Store {
	return &Store{config: cfg}
}

func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *Store) Update(newConfig Config) {
	s.mu.Lock()
	s.config = newConfig
	s.mu.Unlock()
}
