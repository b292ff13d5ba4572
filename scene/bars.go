package scene

import (
	"github.com/spektr-org/mpgscenes/engine"
)

// ============================================================================
// BAR SCENES — Average MPG per make as horizontal bars
// ============================================================================
// scene1 and scene2 share everything but the field, palette and copy.
// ============================================================================

// Canvas size shared by all scenes.
const (
	CanvasWidth  = 960
	CanvasHeight = 580
)

// Margins is the space reserved around a plot area.
type Margins struct {
	Top, Right, Bottom, Left float64
}

var barMargins = Margins{Top: 50, Right: 30, Bottom: 30, Left: 150}

const barPadding = 0.1

// Fixed callout copy. These name the extremes of the 2017 dataset and are
// not recomputed unless WithComputedExtremes is set.
const (
	staticMaxLabel = "Tesla"
	staticMinLabel = "Aston Martin、Ferrari、Lamborghini、Rolls-Royce"
)

// BarScene draws one bar per make sized by the mean of a field.
type BarScene struct {
	name         string
	title        string
	value        engine.ValueFunc
	palette      BarPalette
	tooltipLabel string
	legendLabel  string
	legendX      float64
	xTitle       string
	maxTitle     string
	minTitle     string
	computed     bool

	// annotateFirst draws the callouts before the title block.
	annotateFirst bool
}

// NewHighwayScene returns scene1: average highway MPG by make.
func NewHighwayScene(opts ...Option) *BarScene {
	cfg := applyOptions(opts)
	return &BarScene{
		name:         "scene1",
		title:        "Average Highway MPG by Car Make",
		value:        engine.HighwayMPG,
		palette:      BarPalette{Fill: ColorSteelBlue, Highlight: ColorRed},
		tooltipLabel: "Highway MPG",
		legendLabel:  "Highway MPG",
		legendX:      820,
		xTitle:       "Highway MPG(/Miles)",
		maxTitle:     "Max Highway MPG Make: ",
		minTitle:     "Min Highway MPG Make",
		computed:     cfg.ComputedExtremes,
	}
}

// NewCityScene returns scene2: average city MPG by make.
func NewCityScene(opts ...Option) *BarScene {
	cfg := applyOptions(opts)
	return &BarScene{
		name:         "scene2",
		title:        "Average city MPG of various car makes",
		value:        engine.CityMPG,
		palette:      BarPalette{Fill: ColorOrange, Highlight: ColorBlue},
		tooltipLabel: "City MPG",
		legendLabel:  "AverageCityMPG",
		legendX:      850,
		xTitle:       "City MPG(/Miles)",
		maxTitle:     "Max City MPG Make: ",
		minTitle:     "Min City MPG Make",
		computed:     cfg.ComputedExtremes,

		annotateFirst: true,
	}
}

// Name returns the registry key, scene1 or scene2.
func (b *BarScene) Name() string { return b.name }

// Title returns the heading drawn above the chart.
func (b *BarScene) Title() string { return b.title }

// Palette returns the bar colours.
func (b *BarScene) Palette() BarPalette { return b.palette }

// Scales builds the band (vertical) and linear (horizontal) scales for stats.
func (b *BarScene) Scales(stats []engine.AggregatedStat) (*engine.BandScale, *engine.LinearScale) {
	makes := make([]string, len(stats))
	for i, s := range stats {
		makes[i] = s.Make
	}
	y := engine.NewBandScale(makes, barMargins.Top, CanvasHeight-barMargins.Bottom, barPadding)
	x := engine.NewLinearScale(0, engine.MaxValue(stats), barMargins.Left, CanvasWidth-barMargins.Right)
	return y, x
}

// Draw renders the scene onto s.
func (b *BarScene) Draw(s *Surface, ds *engine.Dataset) {
	stats := engine.GroupMeanDataset(ds, engine.ByMake, b.value)
	y, x := b.Scales(stats)

	s.Append(
		AxisBottom(x, x.Ticks(engine.DefaultTickCount), CanvasHeight-barMargins.Bottom),
		AxisLeftBand(y, barMargins.Left),
	)

	bars := Group("bars", "")
	x0 := x.Map(0)
	for _, st := range stats {
		top, _ := y.Position(st.Make)
		bar := Rect(x0, top, x.Map(st.Value)-x0, y.Bandwidth(), Style{}).
			WithClass("bar").
			WithHover(b.palette.Hover(BarTooltip(st.Make, b.tooltipLabel, st.Value)))
		bars.Add(bar)
	}
	s.Append(bars)

	notes := Annotations(b.annotations(stats, y, x)...)
	if b.annotateFirst {
		s.Append(notes)
	}
	s.Append(
		Text(CanvasWidth/2, 40, b.title, titleStyle).WithClass("title"),
		Group("legend", "",
			Rect(b.legendX, 20, 20, 20, Style{Fill: b.palette.Fill}),
			Text(710, 40, b.legendLabel, Style{Fill: b.palette.Fill, FontWeight: "bold"}),
		),
		Text(CanvasWidth/2, CanvasHeight-barMargins.Bottom+25, b.xTitle, axisTitleStyle).WithClass("x-axis-title"),
		Text(80, 50, "Car Makes", axisTitleStyle).WithClass("y-axis-title"),
	)
	if !b.annotateFirst {
		s.Append(notes)
	}
}

func (b *BarScene) annotations(stats []engine.AggregatedStat, y *engine.BandScale, x *engine.LinearScale) []Annotation {
	if b.computed {
		return extremeAnnotations(stats, y, x, b.maxTitle, b.minTitle)
	}
	return []Annotation{
		{Title: b.maxTitle, Label: staticMaxLabel, X: 660, Y: 510, DX: 50, DY: -30},
		{Title: b.minTitle, Label: staticMinLabel, X: 460, Y: 180, DX: 50, DY: -30},
	}
}

var (
	titleStyle     = Style{Fill: ColorBlue, FontSize: "20px", FontWeight: "bold", TextAnchor: "middle"}
	axisTitleStyle = Style{Fill: ColorBlue, FontWeight: "bold", TextAnchor: "middle"}
)
