package export

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/mpgscenes/engine"
)

func sampleResult() *engine.Result {
	return &engine.Result{
		Measure:        "highway_mpg",
		MeasureLabel:   "Highway MPG",
		Dimension:      "make",
		DimensionLabel: "Make",
		Records:        5,
		Stats: []engine.AggregatedStat{
			{Make: "Tesla", Value: 95},
			{Make: "Audi", Value: 28.456},
			{Make: "Ghost", Value: math.NaN()},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{".xlsx", FormatXLSX, false},
		{"XLSX", FormatXLSX, false},
		{"pdf", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult(), FormatCSV))

	assert.Equal(t, "Make,Highway MPG\nTesla,95.00\nAudi,28.46\nGhost,NaN\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult(), FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Highway MPG"}, f.GetSheetList())

	rows, err := f.GetRows("Highway MPG")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Make", "Highway MPG"}, rows[0])
	assert.Equal(t, []string{"Tesla", "95"}, rows[1])
	assert.Equal(t, []string{"Audi", "28.46"}, rows[2])
	assert.Equal(t, []string{"Ghost"}, rows[3])
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleResult(), Format("pdf"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFilenameAndContentType(t *testing.T) {
	assert.Equal(t, "highway_mpg_by_make.xlsx", Filename(sampleResult(), FormatXLSX))
	assert.Contains(t, FormatCSV.ContentType(), "text/csv")
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "a_b_c", sheetName("a/b?c"))
	assert.Equal(t, "Sheet1", sheetName(""))
	assert.Len(t, []rune(sheetName("a very long measure label that exceeds the limit")), 31)
}
