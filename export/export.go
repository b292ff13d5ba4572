// Package export writes aggregated stats as downloadable CSV or XLSX tables.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/mpgscenes/engine"
)

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = errors.New("unknown export format")

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename returns the download name for a result in format f.
func Filename(res *engine.Result, f Format) string {
	return fmt.Sprintf("%s_by_%s.%s", res.Measure, res.Dimension, f)
}

// Write encodes res to w in format f.
func Write(w io.Writer, res *engine.Result, f Format) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, res)
	case FormatXLSX:
		return WriteXLSX(w, res)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// ============================================================================
// CSV
// ============================================================================

// WriteCSV writes a header row of the dimension and measure labels followed
// by one row per group.
func WriteCSV(w io.Writer, res *engine.Result) error {
	tbl := engine.BuildTable(res)
	cw := csv.NewWriter(w)
	if err := cw.Write(header(tbl)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(tbl.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

func header(tbl *engine.TableData) []string {
	out := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		out[i] = c.Label
	}
	return out
}

// ============================================================================
// XLSX
// ============================================================================

// maxSheetName is Excel's limit on sheet name length.
const maxSheetName = 31

// WriteXLSX writes a workbook with one sheet named after the measure.
// Values are stored as numbers rounded to two decimals; NaN cells are left
// empty.
func WriteXLSX(w io.Writer, res *engine.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(res.MeasureLabel)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	tbl := engine.BuildTable(res)
	for col, label := range header(tbl) {
		if err := setCell(f, sheet, col+1, 1, label); err != nil {
			return err
		}
	}
	for i, s := range res.Stats {
		row := i + 2
		if err := setCell(f, sheet, 1, row, s.Make); err != nil {
			return err
		}
		if math.IsNaN(s.Value) {
			continue
		}
		if err := setCell(f, sheet, 2, row, engine.RoundTo2(s.Value)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}

// sheetName strips characters Excel rejects and truncates to the limit.
func sheetName(label string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, label)
	if name == "" {
		name = "Sheet1"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}
