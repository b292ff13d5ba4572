package scene

import (
	"encoding/json"
	"math"
)

// ============================================================================
// SURFACE — Retained drawing context shared by every scene
// ============================================================================
// Scenes never touch SVG or the DOM. They append Elements to a Surface and
// the render package serializes the tree. Geometry stays float64 here; any
// rounding happens in the adapter.
// ============================================================================

// Kind is the element type, named after the SVG tag it becomes.
type Kind string

const (
	KindGroup  Kind = "g"
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindLine   Kind = "line"
	KindText   Kind = "text"
	KindPath   Kind = "path"
)

// Style holds presentation attributes. Empty fields are not emitted.
type Style struct {
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	StrokeDash  string  `json:"strokeDasharray,omitempty"`
	FontSize    string  `json:"fontSize,omitempty"`
	FontWeight  string  `json:"fontWeight,omitempty"`
	TextAnchor  string  `json:"textAnchor,omitempty"`
}

// Hover describes an element's two interaction states and the tooltip
// shown while it is hovered.
type Hover struct {
	Idle    Style    `json:"idle"`
	Active  Style    `json:"active"`
	Tooltip []string `json:"tooltip"`
}

// Element is one node of the drawing. Which geometry fields apply depends
// on Kind: rect uses X/Y/Width/Height, circle CX/CY/R, line X1..Y2, text
// X/Y/Text/DY, path D.
type Element struct {
	Kind      Kind
	Class     string
	Transform string

	X, Y, Width, Height float64
	CX, CY, R           float64
	X1, Y1, X2, Y2      float64
	D                   string
	Text                string
	DY                  string

	Style    Style
	Hover    *Hover
	Children []*Element
}

// Group creates a g element.
func Group(class, transform string, children ...*Element) *Element {
	return &Element{Kind: KindGroup, Class: class, Transform: transform, Children: children}
}

// Rect creates a rectangle.
func Rect(x, y, w, h float64, st Style) *Element {
	return &Element{Kind: KindRect, X: x, Y: y, Width: w, Height: h, Style: st}
}

// Circle creates a circle.
func Circle(cx, cy, r float64, st Style) *Element {
	return &Element{Kind: KindCircle, CX: cx, CY: cy, R: r, Style: st}
}

// Line creates a straight line.
func Line(x1, y1, x2, y2 float64, st Style) *Element {
	return &Element{Kind: KindLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Style: st}
}

// Text creates a text element.
func Text(x, y float64, text string, st Style) *Element {
	return &Element{Kind: KindText, X: x, Y: y, Text: text, Style: st}
}

// Path creates a path from SVG path data.
func Path(d string, st Style) *Element {
	return &Element{Kind: KindPath, D: d, Style: st}
}

// WithClass sets the class and returns e.
func (e *Element) WithClass(class string) *Element {
	e.Class = class
	return e
}

// WithHover attaches hover behaviour and returns e. The idle style becomes
// the element's resting style.
func (e *Element) WithHover(h Hover) *Element {
	e.Style = h.Idle
	e.Hover = &h
	return e
}

// WithDY sets the text baseline shift and returns e.
func (e *Element) WithDY(dy string) *Element {
	e.DY = dy
	return e
}

// Add appends children and returns e.
func (e *Element) Add(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// ============================================================================
// SURFACE
// ============================================================================

// Surface is the drawing area. It owns an ordered list of root elements.
type Surface struct {
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Elements []*Element `json:"elements"`
}

// NewSurface creates an empty surface.
func NewSurface(width, height float64) *Surface {
	return &Surface{Width: width, Height: height, Elements: []*Element{}}
}

// Append adds root elements in drawing order.
func (s *Surface) Append(els ...*Element) {
	s.Elements = append(s.Elements, els...)
}

// Clear removes every element.
func (s *Surface) Clear() {
	s.Elements = []*Element{}
}

// Len returns the number of root elements.
func (s *Surface) Len() int { return len(s.Elements) }

// Walk visits every element depth-first in drawing order.
func (s *Surface) Walk(fn func(e *Element)) {
	var walk func(els []*Element)
	walk = func(els []*Element) {
		for _, e := range els {
			fn(e)
			walk(e.Children)
		}
	}
	walk(s.Elements)
}

// FindByClass returns every element whose class is class.
func (s *Surface) FindByClass(class string) []*Element {
	var out []*Element
	s.Walk(func(e *Element) {
		if e.Class == class {
			out = append(out, e)
		}
	})
	return out
}

// FindByKind returns every element of kind k.
func (s *Surface) FindByKind(k Kind) []*Element {
	var out []*Element
	s.Walk(func(e *Element) {
		if e.Kind == k {
			out = append(out, e)
		}
	})
	return out
}

// ============================================================================
// JSON — non-finite geometry is encoded as null
// ============================================================================

type num float64

func (n num) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// MarshalJSON emits only the geometry that applies to the element's kind.
func (e *Element) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{"kind": e.Kind}
	if e.Class != "" {
		out["class"] = e.Class
	}
	if e.Transform != "" {
		out["transform"] = e.Transform
	}
	switch e.Kind {
	case KindRect:
		out["x"], out["y"], out["width"], out["height"] = num(e.X), num(e.Y), num(e.Width), num(e.Height)
	case KindCircle:
		out["cx"], out["cy"], out["r"] = num(e.CX), num(e.CY), num(e.R)
	case KindLine:
		out["x1"], out["y1"], out["x2"], out["y2"] = num(e.X1), num(e.Y1), num(e.X2), num(e.Y2)
	case KindText:
		out["x"], out["y"], out["text"] = num(e.X), num(e.Y), e.Text
		if e.DY != "" {
			out["dy"] = e.DY
		}
	case KindPath:
		out["d"] = e.D
	}
	if e.Style != (Style{}) {
		out["style"] = e.Style
	}
	if e.Hover != nil {
		out["hover"] = e.Hover
	}
	if len(e.Children) > 0 {
		out["children"] = e.Children
	}
	return json.Marshal(out)
}
