package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/mpgscenes/engine"
	"github.com/spektr-org/mpgscenes/scene"
)

var cars = engine.NewDataset([]engine.CarRecord{
	{Make: "Tesla", Fuel: "Electricity", HighwayMPG: 100, CityMPG: 110},
	{Make: "Audi", Fuel: "Gasoline", EngineCylinders: 4, HighwayMPG: 30, CityMPG: 22},
	{Make: "Tesla", Fuel: "Electricity", HighwayMPG: 90, CityMPG: 94},
	{Make: "Ferrari", Fuel: "Gasoline", EngineCylinders: 12, HighwayMPG: 16, CityMPG: 12},
})

func show(t *testing.T, name string) *scene.Surface {
	t.Helper()
	s, err := scene.NewController(cars).Show(name)
	require.NoError(t, err)
	return s
}

func renderSVG(t *testing.T, s *scene.Surface) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, s))
	return buf.String()
}

func TestSVGBarScene(t *testing.T) {
	out := renderSVG(t, show(t, "scene1"))

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `<svg width="960" height="580"`)
	assert.Equal(t, 3, strings.Count(out, `class="bar"`))
	assert.Contains(t, out, `data-fill="steelblue"`)
	assert.Contains(t, out, `data-hover-fill="red"`)
	assert.Contains(t, out, `data-tooltip="Car Make: Tesla&#10;&#10;Highway MPG: 95.00"`)
	assert.Contains(t, out, `width="780"`)
	assert.Contains(t, out, "Average Highway MPG by Car Make")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestSVGComparisonScene(t *testing.T) {
	out := renderSVG(t, show(t, "scene3"))

	assert.Equal(t, 2, strings.Count(out, "<circle"))
	assert.Equal(t, 4, strings.Count(out, `class="shape"`))
	assert.Contains(t, out, `stroke-dasharray="3, 3"`)
	assert.Contains(t, out, `transform="translate(40,20)"`)
}

func TestSVGIsDeterministic(t *testing.T) {
	for _, name := range scene.Names {
		assert.Equal(t, renderSVG(t, show(t, name)), renderSVG(t, show(t, name)), name)
	}
}

func TestSVGNonFiniteGeometry(t *testing.T) {
	s := scene.NewSurface(100, 100)
	s.Append(scene.Rect(math.NaN(), math.Inf(1), 10.4, 10.6, scene.Style{Fill: "red"}))

	out := renderSVG(t, s)
	assert.Contains(t, out, `x="0" y="0" width="10" height="11"`)
}

func TestSVGEscapesAttributes(t *testing.T) {
	s := scene.NewSurface(10, 10)
	s.Append(scene.Rect(0, 0, 1, 1, scene.Style{}).WithHover(scene.Hover{
		Idle:    scene.Style{Fill: "blue"},
		Active:  scene.Style{Fill: "red"},
		Tooltip: []string{`Make: "A&B"`},
	}))

	out := renderSVG(t, s)
	assert.Contains(t, out, `data-tooltip="Make: &#34;A&amp;B&#34;"`)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSVGReportsWriteError(t *testing.T) {
	err := SVG(failingWriter{}, show(t, "scene2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestPage(t *testing.T) {
	c := scene.NewController(cars)
	s, err := c.Show("scene2")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Page(&buf, PageData{
		Title:   "Average city MPG of various car makes",
		Active:  "scene2",
		Scenes:  c.Scenes(),
		Surface: s,
	}))
	out := buf.String()

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.NotContains(t, out, "<?xml")
	for _, name := range scene.Names {
		assert.Contains(t, out, `href="/scenes/`+name+`"`)
	}
	assert.Contains(t, out, `id="scene2" href="/scenes/scene2" class="active"`)
	assert.Contains(t, out, `<div id="tooltip"></div>`)
	assert.Contains(t, out, "-28")
	assert.Equal(t, 3, strings.Count(out, `class="bar"`))
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, show(t, "scene1")))

	var model struct {
		Width    float64           `json:"width"`
		Height   float64           `json:"height"`
		Elements []json.RawMessage `json:"elements"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &model))
	assert.Equal(t, 960.0, model.Width)
	assert.Equal(t, 580.0, model.Height)
	assert.Len(t, model.Elements, 8)
}
