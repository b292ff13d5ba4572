package engine

import (
	"encoding/json"
	"errors"
)

// ============================================================================
// ENGINE TYPES — Car fuel-economy records and per-group statistics
// ============================================================================
// The engine never mutates records. A Dataset is built once by the loader
// and handed to every scene and request by reference.
// ============================================================================

// Electricity is the fuel value that marks a battery-electric vehicle.
const Electricity = "Electricity"

var (
	// ErrUnknownMeasure is returned when a measure name is not registered.
	ErrUnknownMeasure = errors.New("unknown measure")
	// ErrUnknownDimension is returned when a dimension name is not registered.
	ErrUnknownDimension = errors.New("unknown dimension")
)

// ============================================================================
// RECORD
// ============================================================================

// CarRecord is one row of the fuel-economy dataset.
type CarRecord struct {
	Make            string  `json:"make"`
	Fuel            string  `json:"fuel"`
	EngineCylinders int     `json:"engineCylinders"`
	HighwayMPG      float64 `json:"highwayMPG"`
	CityMPG         float64 `json:"cityMPG"`
}

// IsElectric reports whether the record's fuel is exactly "Electricity".
func (r CarRecord) IsElectric() bool {
	return r.Fuel == Electricity
}

// HighwayFavoured reports whether highway MPG strictly exceeds city MPG.
func (r CarRecord) HighwayFavoured() bool {
	return r.HighwayMPG > r.CityMPG
}

// ============================================================================
// ACCESSORS
// ============================================================================

// KeyFunc extracts a grouping key from a record.
type KeyFunc func(CarRecord) string

// ValueFunc extracts a numeric field from a record.
type ValueFunc func(CarRecord) float64

// ByMake groups records by manufacturer.
func ByMake(r CarRecord) string { return r.Make }

// ByFuel groups records by fuel type.
func ByFuel(r CarRecord) string { return r.Fuel }

// HighwayMPG selects the average highway MPG.
func HighwayMPG(r CarRecord) float64 { return r.HighwayMPG }

// CityMPG selects the average city MPG.
func CityMPG(r CarRecord) float64 { return r.CityMPG }

// EngineCylinders selects the cylinder count.
func EngineCylinders(r CarRecord) float64 { return float64(r.EngineCylinders) }

// ============================================================================
// AGGREGATED STAT
// ============================================================================

// AggregatedStat is the mean of one numeric field over all records that
// share a make (or whichever key the aggregation was run with).
type AggregatedStat struct {
	Make  string  `json:"make"`
	Value float64 `json:"value"`
}

// MarshalJSON encodes a non-finite value as null.
func (s AggregatedStat) MarshalJSON() ([]byte, error) {
	var v *float64
	if isFinite(s.Value) {
		v = &s.Value
	}
	return json.Marshal(struct {
		Make  string   `json:"make"`
		Value *float64 `json:"value"`
	}{s.Make, v})
}
