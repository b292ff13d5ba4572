package engine

import (
	"fmt"
	"sort"
)

// ============================================================================
// DATASET — Immutable handle over the loaded records
// ============================================================================
// Written once by the loader, read by every scene. Callers never get the
// backing slice, so no scene can mutate what another scene draws from.
// ============================================================================

// Dataset is a read-only collection of CarRecords.
type Dataset struct {
	records []CarRecord
}

// NewDataset copies records into a new Dataset.
func NewDataset(records []CarRecord) *Dataset {
	cp := make([]CarRecord, len(records))
	copy(cp, records)
	return &Dataset{records: cp}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the record at index i.
func (d *Dataset) At(i int) CarRecord {
	return d.records[i]
}

// Records returns a copy of all records in load order.
func (d *Dataset) Records() []CarRecord {
	if d == nil {
		return nil
	}
	cp := make([]CarRecord, len(d.records))
	copy(cp, d.records)
	return cp
}

// Each calls fn for every record in load order without copying.
func (d *Dataset) Each(fn func(i int, r CarRecord)) {
	if d == nil {
		return
	}
	for i, r := range d.records {
		fn(i, r)
	}
}

// ============================================================================
// FIELD REGISTRY — Named dimensions and measures
// ============================================================================
//
// Usage:
//
//	key, _ := engine.Fields.Dimension("make")
//	val, _ := engine.Fields.Measure("city_mpg")
//	stats := engine.GroupMean(ds.Records(), key, val)
//
// ============================================================================

// FieldRegistry maps stable names to accessor functions.
// Declare once, look up many times.
type FieldRegistry struct {
	dims map[string]dimensionField
	meas map[string]measureField
}

type dimensionField struct {
	label string
	fn    KeyFunc
}

type measureField struct {
	label string
	fn    ValueFunc
}

// NewFieldRegistry creates an empty registry.
func NewFieldRegistry() *FieldRegistry {
	return &FieldRegistry{
		dims: make(map[string]dimensionField),
		meas: make(map[string]measureField),
	}
}

// WithDimension registers a dimension accessor.
func (f *FieldRegistry) WithDimension(name, label string, fn KeyFunc) *FieldRegistry {
	f.dims[name] = dimensionField{label: label, fn: fn}
	return f
}

// WithMeasure registers a measure accessor.
func (f *FieldRegistry) WithMeasure(name, label string, fn ValueFunc) *FieldRegistry {
	f.meas[name] = measureField{label: label, fn: fn}
	return f
}

// Dimension looks up a dimension accessor by name.
func (f *FieldRegistry) Dimension(name string) (KeyFunc, error) {
	d, ok := f.dims[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, name)
	}
	return d.fn, nil
}

// Measure looks up a measure accessor by name.
func (f *FieldRegistry) Measure(name string) (ValueFunc, error) {
	m, ok := f.meas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMeasure, name)
	}
	return m.fn, nil
}

// Label returns the display label for a dimension or measure name.
// Unknown names are returned unchanged.
func (f *FieldRegistry) Label(name string) string {
	if d, ok := f.dims[name]; ok {
		return d.label
	}
	if m, ok := f.meas[name]; ok {
		return m.label
	}
	return name
}

// DimensionNames returns the registered dimension names, sorted.
func (f *FieldRegistry) DimensionNames() []string {
	names := make([]string, 0, len(f.dims))
	for k := range f.dims {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// MeasureNames returns the registered measure names, sorted.
func (f *FieldRegistry) MeasureNames() []string {
	names := make([]string, 0, len(f.meas))
	for k := range f.meas {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Fields is the registry for CarRecord.
var Fields = NewFieldRegistry().
	WithDimension("make", "Make", ByMake).
	WithDimension("fuel", "Fuel", ByFuel).
	WithMeasure("highway_mpg", "Highway MPG", HighwayMPG).
	WithMeasure("city_mpg", "City MPG", CityMPG).
	WithMeasure("engine_cylinders", "Engine Cylinders", EngineCylinders)
