package schema

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ============================================================================
// SCHEMA — Describes the columns the loader expects in a cars CSV
// ============================================================================
// Headers are matched by their snake_case key, so "AverageCityMPG",
// "average city mpg" and "Average_City_MPG" all resolve to the same column.
// Columns that are not part of the schema are ignored.
// ============================================================================

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("missing required column")

// Kind classifies a column.
type Kind string

const (
	// KindDimension is a string column used for grouping.
	KindDimension Kind = "dimension"
	// KindMeasure is a numeric column.
	KindMeasure Kind = "measure"
)

// Config describes the complete shape of a dataset.
type Config struct {
	Name    string       `json:"name"`
	Columns []ColumnMeta `json:"columns"`
}

// ColumnMeta describes one source column.
type ColumnMeta struct {
	Key         string `json:"key"`
	Header      string `json:"header"`
	DisplayName string `json:"displayName"`
	Kind        Kind   `json:"kind"`
	Integer     bool   `json:"integer,omitempty"`
	Required    bool   `json:"required"`
}

// Column keys of the cars dataset.
const (
	ColMake            = "make"
	ColFuel            = "fuel"
	ColEngineCylinders = "engine_cylinders"
	ColHighwayMPG      = "average_highway_mpg"
	ColCityMPG         = "average_city_mpg"
)

// Cars returns the schema of the fuel-economy CSV.
func Cars() Config {
	return Config{
		Name: "cars2017",
		Columns: []ColumnMeta{
			{Key: ColMake, Header: "Make", DisplayName: "Make", Kind: KindDimension, Required: true},
			{Key: ColFuel, Header: "Fuel", DisplayName: "Fuel", Kind: KindDimension, Required: true},
			{Key: ColEngineCylinders, Header: "EngineCylinders", DisplayName: "Engine Cylinders", Kind: KindMeasure, Integer: true, Required: true},
			{Key: ColHighwayMPG, Header: "AverageHighwayMPG", DisplayName: "Average Highway MPG", Kind: KindMeasure, Required: true},
			{Key: ColCityMPG, Header: "AverageCityMPG", DisplayName: "Average City MPG", Kind: KindMeasure, Required: true},
		},
	}
}

// Keys returns all column keys in schema order.
func (c Config) Keys() []string {
	keys := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		keys[i] = col.Key
	}
	return keys
}

// Column looks up a column by key.
func (c Config) Column(key string) (ColumnMeta, bool) {
	for _, col := range c.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return ColumnMeta{}, false
}

// ============================================================================
// HEADER RESOLUTION
// ============================================================================

// Resolve maps each schema key to its index in headers. The first header
// with a matching key wins. Every missing required column is reported in
// one error wrapping ErrMissingColumn.
func (c Config) Resolve(headers []string) (map[string]int, error) {
	byKey := make(map[string]int, len(headers))
	for i, h := range headers {
		k := ToSnakeCase(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := byKey[k]; !seen {
			byKey[k] = i
		}
	}

	index := make(map[string]int, len(c.Columns))
	var missing []string
	for _, col := range c.Columns {
		i, ok := byKey[col.Key]
		if !ok {
			if col.Required {
				missing = append(missing, col.Header)
			}
			continue
		}
		index[col.Key] = i
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// ToSnakeCase converts "Column Name" or "columnName" → "column_name".
func ToSnakeCase(s string) string {
	// Handle camelCase: insert underscore before uppercase letters
	var result strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")
	return s
}
