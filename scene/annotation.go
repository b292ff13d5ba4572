package scene

import (
	"github.com/spektr-org/mpgscenes/engine"
)

// ============================================================================
// ANNOTATIONS — Author-placed callouts
// ============================================================================
// An annotation marks a subject point (X, Y) and places its note at an
// offset (DX, DY), joined by a connector line. The note title sits above
// the label.
// ============================================================================

// Annotation is a textual callout overlaid on a chart.
type Annotation struct {
	Title string  `json:"title"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
}

const (
	annotationColor = "#333"
	noteLineHeight  = 16
)

// Element renders the annotation as a group positioned at its subject.
func (a Annotation) Element() *Element {
	note := Group("annotation-note", translate(a.DX, a.DY),
		Text(0, -noteLineHeight-4, a.Title, Style{Fill: annotationColor, FontWeight: "bold"}).WithClass("annotation-note-title"),
		Text(0, -4, a.Label, Style{Fill: annotationColor}).WithClass("annotation-note-label"),
		Line(0, 0, noteWidth(a), 0, Style{Stroke: annotationColor}).WithClass("annotation-note-line"),
	)
	connector := Line(0, 0, a.DX, a.DY, Style{Stroke: annotationColor}).WithClass("annotation-connector")
	return Group("annotation", translate(a.X, a.Y), connector, note)
}

// noteWidth approximates the underline width from the longer text.
func noteWidth(a Annotation) float64 {
	n := len([]rune(a.Title))
	if l := len([]rune(a.Label)); l > n {
		n = l
	}
	return float64(n) * 7
}

// Annotations renders several annotations inside one group.
func Annotations(list ...Annotation) *Element {
	g := Group("annotations", "")
	for _, a := range list {
		g.Add(a.Element())
	}
	return g
}

// ============================================================================
// COMPUTED EXTREMES
// ============================================================================

// extremeAnnotations places max and min callouts at the end of the bars
// holding the largest and smallest aggregated values. Ties are listed
// together and anchored at the first tied bar.
func extremeAnnotations(stats []engine.AggregatedStat, y *engine.BandScale, x *engine.LinearScale, maxTitle, minTitle string) []Annotation {
	hi, lo, ok := engine.Extremes(stats)
	if !ok {
		return nil
	}
	at := func(e engine.Extreme) (float64, float64) {
		cy, _ := y.Center(e.Makes[0])
		return x.Map(e.Value), cy
	}
	hx, hy := at(hi)
	lx, ly := at(lo)
	return []Annotation{
		{Title: maxTitle, Label: hi.Label(), X: hx, Y: hy, DX: 50, DY: -30},
		{Title: minTitle, Label: lo.Label(), X: lx, Y: ly, DX: 50, DY: -30},
	}
}
