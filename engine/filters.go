package engine

// ============================================================================
// FILTERS — Single-pass record partitioning
// ============================================================================
// Partition preserves load order inside each half.
// ============================================================================

// Predicate selects records.
type Predicate func(CarRecord) bool

// Partition splits records into those matching pred and the rest.
func Partition(records []CarRecord, pred Predicate) (match, rest []CarRecord) {
	match = make([]CarRecord, 0, len(records))
	rest = make([]CarRecord, 0, len(records))
	for _, r := range records {
		if pred(r) {
			match = append(match, r)
		} else {
			rest = append(rest, r)
		}
	}
	return match, rest
}

// PartitionByFuel splits records into electric and non-electric subsets.
func PartitionByFuel(records []CarRecord) (electric, other []CarRecord) {
	return Partition(records, CarRecord.IsElectric)
}

// Filter returns the records matching pred.
func Filter(records []CarRecord, pred Predicate) []CarRecord {
	match, _ := Partition(records, pred)
	return match
}
