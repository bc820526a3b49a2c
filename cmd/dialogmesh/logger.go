package main

import (
	"fmt"

	"github.com/hupe1980/dialogmesh/config"
	"github.com/hupe1980/dialogmesh/logging"
)

// newLogger builds the process logger from the log section, honouring the
// --log-level and --verbose overrides. The returned sync func flushes
// buffered entries and is safe to call for every backend.
func newLogger(cfg config.LogConfig) (logging.Logger, func(), error) {
	levelName := cfg.Level
	if logLevel != "" {
		levelName = logLevel
	}
	if verbose {
		levelName = "debug"
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Backend {
	case "", "slog":
		return logging.NewSlogLogger(level, cfg.Format, false), func() {}, nil
	case "zap":
		z, err := logging.NewZapLogger(level)
		if err != nil {
			return nil, nil, fmt.Errorf("build zap logger: %w", err)
		}
		return z, func() { _ = z.Sync() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown log backend %q", cfg.Backend)
	}
}
