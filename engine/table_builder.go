package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from an executed Result
// ============================================================================
// A table has one text column for the dimension and one number column for
// the averaged measure. Values are formatted with two decimals, NaN as "NaN".
// ============================================================================

// TableData is a render-ready tabular view of aggregated stats.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// BuildTable produces a TableData from res.
func BuildTable(res *Result) *TableData {
	columns := []Column{
		{Key: res.Dimension, Label: res.DimensionLabel, Type: "text", Align: "left"},
		{Key: res.Measure, Label: res.MeasureLabel, Type: "number", Align: "right"},
	}

	rows := make([][]string, 0, len(res.Stats))
	for _, s := range res.Stats {
		rows = append(rows, []string{s.Make, FormatValue(s.Value)})
	}

	return &TableData{
		Title:   fmt.Sprintf("Average %s by %s", res.MeasureLabel, res.DimensionLabel),
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: "Maximum",
			Values: map[string]string{
				res.Measure: FormatValue(MaxValue(res.Stats)),
				"groups":    fmt.Sprintf("%d", len(res.Stats)),
				"records":   fmt.Sprintf("%d", res.Records),
			},
		},
	}
}

// FormatValue prints v with two decimals.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}
