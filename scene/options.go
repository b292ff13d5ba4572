package scene

import (
	"io"
	"log/slog"
	"time"
)

// ============================================================================
// SCENE OPTIONS — Functional options for scenes and the Controller
// ============================================================================

// Option configures scene behaviour via functional options pattern.
type Option func(*config)

type config struct {
	ComputedExtremes bool
	Logger           *slog.Logger
	Observer         Observer
}

// Observer is told how long each scene took to draw.
type Observer func(scene string, elapsed time.Duration)

// WithComputedExtremes derives the max/min annotations of the bar scenes
// from the aggregated data instead of the fixed author labels.
func WithComputedExtremes(enabled bool) Option {
	return func(c *config) {
		c.ComputedExtremes = enabled
	}
}

// WithLogger sets the logger used by the Controller.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithObserver registers a callback run after every render.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.Observer = o
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
