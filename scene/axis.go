package scene

import (
	"fmt"
	"math"

	"github.com/spektr-org/mpgscenes/engine"
)

// ============================================================================
// AXES — Tick marks and labels along one edge of the plot area
// ============================================================================
// Each builder returns one g element holding a domain path and one g.tick
// per tick value, positioned with a translate like a hand-written axis.
// ============================================================================

const (
	tickSize    = 6
	tickPadding = 3
	axisFont    = "10px"
	axisClass   = "axis bold"
)

// AxisBottom draws a horizontal axis for s, with the axis line at y.
func AxisBottom(s *engine.LinearScale, ticks []float64, y float64) *Element {
	r0, r1 := s.Range()
	g := Group(axisClass, translate(0, y),
		Path(fmt.Sprintf("M%s,%dV0H%sV%d", fmtCoord(r0), tickSize, fmtCoord(r1), tickSize),
			Style{Stroke: ColorAxis}).WithClass("domain"),
	)
	labels := engine.FormatTicks(ticks)
	for i, v := range ticks {
		x := s.Map(v)
		g.Add(Group("tick", translate(x, 0),
			Line(0, 0, 0, tickSize, Style{Stroke: ColorAxis}),
			Text(0, tickSize+tickPadding, labels[i],
				Style{Fill: ColorAxis, FontSize: axisFont, TextAnchor: "middle"}).WithDY("0.71em"),
		))
	}
	return g
}

// AxisLeft draws a vertical axis for s, with the axis line at x.
func AxisLeft(s *engine.LinearScale, ticks []float64, x float64) *Element {
	r0, r1 := s.Range()
	g := Group(axisClass, translate(x, 0), leftDomain(r0, r1))
	labels := engine.FormatTicks(ticks)
	for i, v := range ticks {
		g.Add(leftTick(s.Map(v), labels[i]))
	}
	return g
}

// AxisLeftBand draws a vertical axis with one tick at the centre of each
// band of b, with the axis line at x.
func AxisLeftBand(b *engine.BandScale, x float64) *Element {
	r0, r1 := b.Range()
	g := Group(axisClass, translate(x, 0), leftDomain(r0, r1))
	for _, c := range b.Domain() {
		y, _ := b.Center(c)
		g.Add(leftTick(y, c))
	}
	return g
}

func leftDomain(r0, r1 float64) *Element {
	return Path(fmt.Sprintf("M-%d,%sH0V%sH-%d", tickSize, fmtCoord(r0), fmtCoord(r1), tickSize),
		Style{Stroke: ColorAxis}).WithClass("domain")
}

func leftTick(y float64, label string) *Element {
	return Group("tick", translate(0, y),
		Line(0, 0, -tickSize, 0, Style{Stroke: ColorAxis}),
		Text(-(tickSize+tickPadding), 0, label,
			Style{Fill: ColorAxis, FontSize: axisFont, TextAnchor: "end"}).WithDY("0.32em"),
	)
}

func translate(x, y float64) string {
	return fmt.Sprintf("translate(%s,%s)", fmtCoord(x), fmtCoord(y))
}

// fmtCoord prints a coordinate with at most two decimals; non-finite
// values print as 0.
func fmtCoord(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return FormatNumber(engine.RoundTo2(v))
}
