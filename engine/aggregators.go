package engine

import (
	"math"
	"sort"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// ============================================================================
// AGGREGATORS — Grouping, averaging and ordering of per-make statistics
// ============================================================================
// Groups keep the order in which each key first appears. Nothing here sorts
// unless SortStats is called explicitly.
// ============================================================================

// GroupMean groups records by key and averages value within each group.
// The result holds one entry per distinct key in first-occurrence order.
// NaN values are skipped; a group with no finite values averages to NaN.
func GroupMean(records []CarRecord, key KeyFunc, value ValueFunc) []AggregatedStat {
	if len(records) == 0 {
		return []AggregatedStat{}
	}

	grouped := make(map[string][]float64)
	order := make([]string, 0)

	for _, r := range records {
		k := key(r)
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
			grouped[k] = []float64{}
		}
		if v := value(r); !math.IsNaN(v) {
			grouped[k] = append(grouped[k], v)
		}
	}

	out := make([]AggregatedStat, 0, len(order))
	for _, k := range order {
		out = append(out, AggregatedStat{Make: k, Value: meanOf(grouped[k])})
	}
	return out
}

// GroupMeanDataset is GroupMean over a Dataset.
func GroupMeanDataset(ds *Dataset, key KeyFunc, value ValueFunc) []AggregatedStat {
	return GroupMean(ds.Records(), key, value)
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stats.Mean(xs)
}

// ============================================================================
// EXTREMES
// ============================================================================

// MaxValue returns the largest finite value, or 0 when there is none.
func MaxValue(groups []AggregatedStat) float64 {
	m, found := 0.0, false
	for _, g := range groups {
		if !isFinite(g.Value) {
			continue
		}
		if !found || g.Value > m {
			m, found = g.Value, true
		}
	}
	return m
}

// Extreme is the set of makes tied at the largest or smallest value.
type Extreme struct {
	Makes []string `json:"makes"`
	Value float64  `json:"value"`
}

// Label joins the tied makes the way the chart annotations list them.
func (e Extreme) Label() string {
	return strings.Join(e.Makes, "、")
}

// Extremes returns the makes tied at the maximum and at the minimum finite
// value. ok is false when no group has a finite value.
func Extremes(groups []AggregatedStat) (hi, lo Extreme, ok bool) {
	for _, g := range groups {
		if !isFinite(g.Value) {
			continue
		}
		if !ok {
			hi = Extreme{Makes: []string{g.Make}, Value: g.Value}
			lo = Extreme{Makes: []string{g.Make}, Value: g.Value}
			ok = true
			continue
		}
		switch {
		case g.Value > hi.Value:
			hi = Extreme{Makes: []string{g.Make}, Value: g.Value}
		case g.Value == hi.Value:
			hi.Makes = append(hi.Makes, g.Make)
		}
		switch {
		case g.Value < lo.Value:
			lo = Extreme{Makes: []string{g.Make}, Value: g.Value}
		case g.Value == lo.Value:
			lo.Makes = append(lo.Makes, g.Make)
		}
	}
	return hi, lo, ok
}

// ============================================================================
// SORTING
// ============================================================================

// SortStats sorts groups in place by the named mode. Unknown modes, and the
// empty string, keep grouping order.
func SortStats(groups []AggregatedStat, sortBy string) {
	switch sortBy {
	case "value_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case "value_asc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case "label_asc", "alpha_asc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Make) < strings.ToLower(groups[j].Make) })
	case "label_desc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Make) > strings.ToLower(groups[j].Make) })
	default:
		// preserve grouping order
	}
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
