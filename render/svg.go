// Package render turns a scene.Surface into bytes: standalone SVG, an HTML
// page with the scene buttons and tooltip, or the JSON element model.
package render

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/spektr-org/mpgscenes/scene"
)

// ============================================================================
// SVG — Surface → svgo calls
// ============================================================================
// svgo works in integer user units, so every coordinate is rounded here.
// Hover behaviour is carried as data attributes for the page script:
//   data-fill        resting fill
//   data-hover-fill  fill while hovered
//   data-tooltip     tooltip lines joined by &#10;
// ============================================================================

// SVG writes s as a standalone SVG document.
func SVG(w io.Writer, s *scene.Surface) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(px(s.Width), px(s.Height), `font-family="sans-serif"`)
	for _, e := range s.Elements {
		writeElement(canvas, e)
	}
	canvas.End()
	return ew.err
}

func writeElement(canvas *svg.SVG, e *scene.Element) {
	attrs := attributes(e)
	switch e.Kind {
	case scene.KindGroup:
		canvas.Group(attrs...)
		for _, c := range e.Children {
			writeElement(canvas, c)
		}
		canvas.Gend()
	case scene.KindRect:
		canvas.Rect(px(e.X), px(e.Y), px(e.Width), px(e.Height), attrs...)
	case scene.KindCircle:
		canvas.Circle(px(e.CX), px(e.CY), px(e.R), attrs...)
	case scene.KindLine:
		canvas.Line(px(e.X1), px(e.Y1), px(e.X2), px(e.Y2), attrs...)
	case scene.KindText:
		canvas.Text(px(e.X), px(e.Y), e.Text, attrs...)
	case scene.KindPath:
		canvas.Path(e.D, attrs...)
	}
}

// attributes builds name="value" pairs for svgo. Every pair contains '=',
// which makes svgo copy it verbatim instead of folding it into style.
func attributes(e *scene.Element) []string {
	var out []string
	add := func(name, value string) {
		if value != "" {
			out = append(out, fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value)))
		}
	}
	add("class", e.Class)
	add("transform", e.Transform)
	add("dy", e.DY)

	st := e.Style
	add("fill", st.Fill)
	add("stroke", st.Stroke)
	if st.StrokeWidth > 0 {
		add("stroke-width", strconv.FormatFloat(st.StrokeWidth, 'f', -1, 64))
	}
	add("stroke-dasharray", st.StrokeDash)
	add("font-size", st.FontSize)
	add("font-weight", st.FontWeight)
	add("text-anchor", st.TextAnchor)
	if e.Kind == scene.KindPath && st.Fill == "" {
		out = append(out, `fill="none"`)
	}

	if h := e.Hover; h != nil {
		add("data-fill", h.Idle.Fill)
		add("data-hover-fill", h.Active.Fill)
		lines := make([]string, len(h.Tooltip))
		for i, l := range h.Tooltip {
			lines[i] = html.EscapeString(l)
		}
		out = append(out, fmt.Sprintf(`data-tooltip="%s"`, strings.Join(lines, "&#10;")))
	}
	return out
}

// px rounds v to the nearest integer; NaN and infinities become 0.
func px(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

// errWriter remembers the first write error, since svgo does not report one.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
