package engine

import (
	"io"
	"log/slog"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Fields           *FieldRegistry
	DefaultMeasure   string // measure used when Query.Measure is empty
	DefaultDimension string // dimension used when Query.By is empty
	Logger           *slog.Logger
}

// WithFields replaces the field registry used to resolve names.
func WithFields(f *FieldRegistry) Option {
	return func(c *config) {
		if f != nil {
			c.Fields = f
		}
	}
}

// WithDefaultMeasure sets the measure to aggregate when Query.Measure is empty.
func WithDefaultMeasure(measure string) Option {
	return func(c *config) {
		c.DefaultMeasure = measure
	}
}

// WithDefaultDimension sets the grouping dimension when Query.By is empty.
func WithDefaultDimension(dim string) Option {
	return func(c *config) {
		c.DefaultDimension = dim
	}
}

// WithLogger sets the logger for query diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Fields:           Fields,
		DefaultMeasure:   "highway_mpg",
		DefaultDimension: "make",
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
