package scene

import (
	"github.com/spektr-org/mpgscenes/engine"
)

// ============================================================================
// COMPARISON SCENE — City vs highway MPG, one mark per record
// ============================================================================
// Marks are placed by (highway, city) over a fixed [0, 150] domain. Shape
// encodes fuel (circle for Electricity, square otherwise) and colour encodes
// which MPG figure is larger. The dashed diagonal is where both are equal.
// ============================================================================

var comparisonMargins = Margins{Top: 20, Right: 20, Bottom: 30, Left: 40}

const (
	comparisonDomainMax = 150
	comparisonTickStep  = 10
	markSize            = 20
	markRadius          = 10
)

// ComparisonScene draws scene3.
type ComparisonScene struct{}

// NewComparisonScene returns scene3.
func NewComparisonScene() *ComparisonScene { return &ComparisonScene{} }

// Name returns the registry key.
func (c *ComparisonScene) Name() string { return "scene3" }

// Title returns the heading drawn above the scatter plot.
func (c *ComparisonScene) Title() string {
	return "AveragecityMPG  VS AveragehighwayMPG of various car makes"
}

// PlotSize returns the width and height of the inner plot area.
func (c *ComparisonScene) PlotSize() (float64, float64) {
	m := comparisonMargins
	return CanvasWidth - m.Left - m.Right, CanvasHeight - m.Top - m.Bottom
}

// Scales returns the highway (x) and city (y) scales in plot coordinates.
func (c *ComparisonScene) Scales() (*engine.LinearScale, *engine.LinearScale) {
	w, h := c.PlotSize()
	x := engine.NewLinearScale(0, comparisonDomainMax, 0, w)
	y := engine.NewLinearScale(0, comparisonDomainMax, h, 0)
	return x, y
}

// Draw renders the scene onto s.
func (c *ComparisonScene) Draw(s *Surface, ds *engine.Dataset) {
	w, h := c.PlotSize()
	x, y := c.Scales()
	ticks := engine.TickRange(0, comparisonDomainMax, comparisonTickStep)

	plot := Group("plot", translate(comparisonMargins.Left, comparisonMargins.Top),
		AxisBottom(x, ticks, h),
		AxisLeft(y, ticks, 0),
	)

	electric, other := engine.PartitionByFuel(ds.Records())
	for _, r := range other {
		plot.Add(Mark(r, x, y))
	}
	for _, r := range electric {
		plot.Add(Mark(r, x, y))
	}

	plot.Add(Line(0, h, w, 0, Style{Stroke: ColorGray, StrokeDash: "3, 3"}).WithClass("identity-line"))
	s.Append(plot)

	s.Append(
		Text(w/2, 40, c.Title(), titleStyle).WithClass("title"),
		Text(w-70, h-comparisonMargins.Bottom+80, "Highway MPG(/Miles)", axisTitleStyle).WithClass("x-axis-title"),
		Text(100, 15, "City MPG(/Miles)", axisTitleStyle).WithClass("y-axis-title"),
		Annotations(comparisonNotes...),
	)
}

// Mark builds the hoverable shape for one record.
func Mark(r engine.CarRecord, x, y *engine.LinearScale) *Element {
	px, py := x.Map(r.HighwayMPG), y.Map(r.CityMPG)
	var e *Element
	if PointShape(r) == ShapeCircle {
		e = Circle(px, py, markRadius, Style{})
	} else {
		e = Rect(px-markSize/2, py-markSize/2, markSize, markSize, Style{})
	}
	return e.WithClass("shape").WithHover(Hover{
		Idle:    PointStyle(r, Idle),
		Active:  PointStyle(r, Hovered),
		Tooltip: PointTooltip(r),
	})
}

var comparisonNotes = []Annotation{
	{Title: "Blue Meaning", Label: "highwayMPG > cityMPG", X: 660, Y: 260, DX: 50, DY: -30},
	{Title: "Orange Meaning", Label: "highwayMPG <= cityMPG", X: 200, Y: 150, DX: 50, DY: -30},
	{Title: "Identity Line", Label: "The line representing where cityMPG equals highwayMPG", X: 360, Y: 360, DX: 50, DY: -30},
	{Title: "Shape Meaning", Label: "Rect:Fuel is not 'Electricity',Circle:Fuel is 'Electricity'", X: 260, Y: 500, DX: 50, DY: -30},
}
