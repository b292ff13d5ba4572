package engine

import (
	"fmt"
	"log/slog"
)

// ============================================================================
// EXECUTOR — Named query → aggregated stats
// ============================================================================
// Entry point: Execute(query, dataset, opts...)
//
// Pipeline:
//   1. Resolve measure and dimension names through the FieldRegistry
//   2. Group and average (GroupMean, first-occurrence order)
//   3. Sort if requested, then truncate to Limit
//   4. Return Result
//
// The bar scenes are Execute with By="make" and no sorting.
// ============================================================================

// Query names what to aggregate. Empty fields fall back to the defaults
// configured with WithDefaultMeasure and WithDefaultDimension.
type Query struct {
	Measure string `json:"measure"`         // "highway_mpg", "city_mpg", "engine_cylinders"
	By      string `json:"by"`              // "make", "fuel"
	SortBy  string `json:"sortBy"`          // see SortStats; "" keeps grouping order
	Limit   int    `json:"limit,omitempty"` // 0 = all
}

// Result is the outcome of Execute.
type Result struct {
	Measure        string           `json:"measure"`
	MeasureLabel   string           `json:"measureLabel"`
	Dimension      string           `json:"dimension"`
	DimensionLabel string           `json:"dimensionLabel"`
	Records        int              `json:"records"`
	Stats          []AggregatedStat `json:"stats"`
}

// Execute runs q against ds.
func Execute(q Query, ds *Dataset, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)

	q = resolveDefaults(q, cfg)
	value, err := cfg.Fields.Measure(q.Measure)
	if err != nil {
		return nil, err
	}
	key, err := cfg.Fields.Dimension(q.By)
	if err != nil {
		return nil, err
	}
	if q.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got %d", q.Limit)
	}

	stats := GroupMeanDataset(ds, key, value)
	SortStats(stats, q.SortBy)
	if q.Limit > 0 && q.Limit < len(stats) {
		stats = stats[:q.Limit]
	}

	cfg.Logger.Debug("query executed",
		slog.String("measure", q.Measure),
		slog.String("by", q.By),
		slog.String("sort", q.SortBy),
		slog.Int("records", ds.Len()),
		slog.Int("groups", len(stats)),
	)

	return &Result{
		Measure:        q.Measure,
		MeasureLabel:   cfg.Fields.Label(q.Measure),
		Dimension:      q.By,
		DimensionLabel: cfg.Fields.Label(q.By),
		Records:        ds.Len(),
		Stats:          stats,
	}, nil
}

func resolveDefaults(q Query, cfg *config) Query {
	if q.Measure == "" {
		q.Measure = cfg.DefaultMeasure
	}
	if q.By == "" {
		q.By = cfg.DefaultDimension
	}
	return q
}
