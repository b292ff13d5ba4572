package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/spektr-org/mpgscenes/engine"
	"github.com/spektr-org/mpgscenes/schema"
)

// ============================================================================
// CSV HELPER — Parses the cars CSV into an immutable engine.Dataset
// ============================================================================
// Numeric cells follow the coercion rules of the page that originally
// consumed this file: blank text is 0, a missing cell or unparseable text
// is NaN. NaN is not rejected; it shows up as a degenerate bar or point.
// ============================================================================

// LoadCars reads and parses a cars CSV file from disk.
func LoadCars(path string) (*engine.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return ParseCars(data)
}

// ParseCars parses cars CSV bytes.
func ParseCars(data []byte) (*engine.Dataset, error) {
	return ReadCars(bytes.NewReader(data))
}

// ReadCars parses cars CSV from r. The header row must contain every
// column of schema.Cars(); malformed rows are skipped.
func ReadCars(r io.Reader) (*engine.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Read header
	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read CSV headers: empty input")
		}
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	index, err := schema.Cars().Resolve(headers)
	if err != nil {
		return nil, err
	}

	var records []engine.CarRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		if isBlankRow(row) {
			continue
		}

		records = append(records, engine.CarRecord{
			Make:            cell(row, index[schema.ColMake]),
			Fuel:            cell(row, index[schema.ColFuel]),
			EngineCylinders: toInt(number(row, index[schema.ColEngineCylinders])),
			HighwayMPG:      number(row, index[schema.ColHighwayMPG]),
			CityMPG:         number(row, index[schema.ColCityMPG]),
		})
	}

	return engine.NewDataset(records), nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// number coerces a cell to float64. Blank is 0, missing or malformed is NaN.
func number(row []string, i int) float64 {
	if i < 0 || i >= len(row) {
		return math.NaN()
	}
	return toNumber(strings.TrimSpace(row[i]))
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// toNumber applies browser string-to-number rules: decimal literals,
// signed Infinity, and unsigned 0x/0o/0b integer literals. Go-only spellings
// such as inf, nan, hex floats and digit underscores are NaN.
func toNumber(s string) float64 {
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			digits := s[2:]
			if digits[0] == '+' || digits[0] == '-' {
				return math.NaN()
			}
			n, ok := new(big.Int).SetString(digits, base)
			if !ok {
				return math.NaN()
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f
		}
	}

	if !decimalPattern.MatchString(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

func toInt(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
