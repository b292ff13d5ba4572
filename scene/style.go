package scene

import (
	"fmt"
	"strconv"

	"github.com/spektr-org/mpgscenes/engine"
)

// ============================================================================
// HOVER STYLES & TOOLTIPS — Pure (record, state) → presentation
// ============================================================================

// HoverState is the interaction state of a single mark.
type HoverState int

const (
	Idle HoverState = iota
	Hovered
)

// String returns "hovered" or "idle".
func (h HoverState) String() string {
	if h == Hovered {
		return "hovered"
	}
	return "idle"
}

// Colours used by the scenes.
const (
	ColorSteelBlue = "steelblue"
	ColorRed       = "red"
	ColorOrange    = "orange"
	ColorBlue      = "blue"
	ColorGray      = "gray"
	ColorAxis      = "black"
)

// TooltipOffsetY is the vertical distance between the pointer and the
// tooltip's top edge.
const TooltipOffsetY = -28

// BarPalette is the resting and highlighted fill of a bar scene.
type BarPalette struct {
	Fill      string
	Highlight string
}

// Style returns the bar style for state.
func (p BarPalette) Style(state HoverState) Style {
	if state == Hovered {
		return Style{Fill: p.Highlight}
	}
	return Style{Fill: p.Fill}
}

// Hover builds the hover description for one bar.
func (p BarPalette) Hover(tooltip []string) Hover {
	return Hover{Idle: p.Style(Idle), Active: p.Style(Hovered), Tooltip: tooltip}
}

// Shape is the mark used for a record in the comparison plot.
type Shape string

const (
	ShapeSquare Shape = "square"
	ShapeCircle Shape = "circle"
)

// PointShape returns circle for electric records and square otherwise.
func PointShape(r engine.CarRecord) Shape {
	if r.IsElectric() {
		return ShapeCircle
	}
	return ShapeSquare
}

// PointFill returns blue when highway MPG beats city MPG, else orange.
func PointFill(r engine.CarRecord) string {
	if r.HighwayFavoured() {
		return ColorBlue
	}
	return ColorOrange
}

// PointStyle returns the style of a comparison-plot mark in state.
func PointStyle(r engine.CarRecord, state HoverState) Style {
	if state == Hovered {
		return Style{Fill: ColorRed}
	}
	return Style{Fill: PointFill(r)}
}

// ============================================================================
// TOOLTIP TEXT
// ============================================================================

// BarTooltip returns the tooltip lines for a bar: the make, a blank
// separator and the value with two decimals.
func BarTooltip(carMake, label string, value float64) []string {
	return []string{
		"Car Make: " + carMake,
		"",
		fmt.Sprintf("%s: %.2f", label, value),
	}
}

// PointTooltip returns the tooltip lines for a comparison-plot mark.
func PointTooltip(r engine.CarRecord) []string {
	return []string{
		"Car Make: " + r.Make,
		"City MPG: " + FormatNumber(r.CityMPG),
		"Fuel: " + r.Fuel,
		"EngineCylinders: " + strconv.Itoa(r.EngineCylinders),
		"AverageHighwayMPG: " + FormatNumber(r.HighwayMPG),
		"AverageCityMPG: " + FormatNumber(r.CityMPG),
	}
}

// FormatNumber prints v with the shortest exact representation.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
