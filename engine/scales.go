package engine

import (
	"math"
	"strconv"

	"github.com/aclements/go-moremath/scale"
)

// ============================================================================
// SCALES — Data-to-pixel mappings for categorical and numeric axes
// ============================================================================
// BandScale slots categories into equal bands with uniform padding.
// LinearScale maps a numeric domain onto a pixel range through
// go-moremath's scale.Linear, which also supplies tick levels.
// ============================================================================

// DefaultTickCount is the target number of major ticks on a linear axis.
const DefaultTickCount = 10

// scale.Linear sizes its tick slices from the domain span, which overflows
// int for spans far from 1. Outside these bounds Ticks returns the domain
// endpoints instead.
const (
	minTickSpan = 1e-300
	maxTickSpan = 1e300
)

// ============================================================================
// BAND SCALE
// ============================================================================

// BandScale maps each distinct category to a band within [r0, r1].
type BandScale struct {
	domain    []string
	index     map[string]int
	r0, r1    float64
	padding   float64
	start     float64
	step      float64
	bandwidth float64
}

// NewBandScale builds a band scale over categories in first-occurrence
// order. padding is used for both the inner gaps and the outer margins
// and is clamped to [0, 1]. Bands are centred in the range.
func NewBandScale(categories []string, r0, r1, padding float64) *BandScale {
	padding = math.Max(0, math.Min(1, padding))

	b := &BandScale{
		index:   make(map[string]int, len(categories)),
		r0:      r0,
		r1:      r1,
		padding: padding,
	}
	for _, c := range categories {
		if _, dup := b.index[c]; dup {
			continue
		}
		b.index[c] = len(b.domain)
		b.domain = append(b.domain, c)
	}

	n := float64(len(b.domain))
	b.step = (r1 - r0) / math.Max(1, n-padding+2*padding)
	b.start = r0 + (r1-r0-b.step*(n-padding))*0.5
	b.bandwidth = b.step * (1 - padding)
	return b
}

// Position returns the start of the band for category.
// ok is false for a category outside the domain.
func (b *BandScale) Position(category string) (pos float64, ok bool) {
	i, ok := b.index[category]
	if !ok {
		return math.NaN(), false
	}
	return b.start + b.step*float64(i), true
}

// Center returns the midpoint of the band for category.
func (b *BandScale) Center(category string) (float64, bool) {
	p, ok := b.Position(category)
	return p + b.bandwidth/2, ok
}

// Bandwidth returns the width of every band.
func (b *BandScale) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the starts of adjacent bands.
func (b *BandScale) Step() float64 { return b.step }

// Domain returns the categories in band order.
func (b *BandScale) Domain() []string {
	out := make([]string, len(b.domain))
	copy(out, b.domain)
	return out
}

// Range returns the configured pixel range.
func (b *BandScale) Range() (r0, r1 float64) { return b.r0, b.r1 }

// ============================================================================
// LINEAR SCALE
// ============================================================================

// LinearScale maps [d0, d1] onto [r0, r1].
type LinearScale struct {
	s      scale.Linear
	r0, r1 float64
}

// NewLinearScale builds a linear scale. A degenerate domain (d0 == d1, or
// a non-finite bound) is accepted and maps every input to r0.
func NewLinearScale(d0, d1, r0, r1 float64) *LinearScale {
	return &LinearScale{s: scale.Linear{Min: d0, Max: d1}, r0: r0, r1: r1}
}

// Degenerate reports whether the domain collapses to a single point.
func (l *LinearScale) Degenerate() bool {
	return l.s.Min == l.s.Max || !isFinite(l.s.Min) || !isFinite(l.s.Max)
}

// Map converts a domain value to a pixel coordinate. NaN maps to NaN.
func (l *LinearScale) Map(v float64) float64 {
	if l.Degenerate() {
		return l.r0
	}
	if math.IsNaN(v) {
		return math.NaN()
	}
	return l.r0 + l.s.Map(v)*(l.r1-l.r0)
}

// Domain returns the domain bounds.
func (l *LinearScale) Domain() (d0, d1 float64) { return l.s.Min, l.s.Max }

// Range returns the pixel range.
func (l *LinearScale) Range() (r0, r1 float64) { return l.r0, l.r1 }

// Ticks returns at most n major tick values inside the domain, in
// increasing order. A degenerate domain has the single tick d0, and a span
// too small or too large to subdivide has the two endpoints.
func (l *LinearScale) Ticks(n int) []float64 {
	if l.Degenerate() {
		if isFinite(l.s.Min) {
			return []float64{l.s.Min}
		}
		return nil
	}
	if n < 1 {
		n = DefaultTickCount
	}
	s := l.s
	if s.Min > s.Max {
		s.Min, s.Max = s.Max, s.Min
	}
	if span := s.Max - s.Min; span < minTickSpan || span > maxTickSpan {
		return []float64{s.Min, s.Max}
	}
	major, _ := s.Ticks(scale.TickOptions{Max: n})
	return major
}

// TickRange returns start, start+step, ... up to and including stop.
func TickRange(start, stop, step float64) []float64 {
	if step <= 0 || stop < start {
		return nil
	}
	n := int(math.Floor((stop-start)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// FormatTick renders a tick value with the shortest exact representation.
func FormatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// maxTickDecimals bounds fixed-point labels; finer spacings fall back to
// FormatTick.
const maxTickDecimals = 15

// FormatTicks labels ticks with as many decimals as their spacing needs,
// so accumulated float error such as 0.0015000000000000002 prints as 0.0015.
func FormatTicks(ticks []float64) []string {
	decimals := tickDecimals(ticks)
	out := make([]string, len(ticks))
	for i, v := range ticks {
		if decimals < 0 {
			out[i] = FormatTick(v)
			continue
		}
		out[i] = strconv.FormatFloat(v, 'f', decimals, 64)
		if isNegativeZero(out[i]) {
			out[i] = out[i][1:]
		}
	}
	return out
}

// tickDecimals returns the decimals needed to tell adjacent ticks apart,
// or -1 when the spacing is unknown or too fine for fixed-point.
func tickDecimals(ticks []float64) int {
	step := math.Inf(1)
	for i := 1; i < len(ticks); i++ {
		if d := math.Abs(ticks[i] - ticks[i-1]); d > 0 && d < step {
			step = d
		}
	}
	if !isFinite(step) {
		return -1
	}
	// 1e-9 absorbs error in steps like 0.1 whose log10 is just below -1.
	d := int(math.Max(0, math.Ceil(-math.Log10(step)-1e-9)))
	for ; d <= maxTickDecimals; d++ {
		if roundsCleanly(ticks, d, step*1e-6) {
			return d
		}
	}
	return -1
}

// roundsCleanly reports whether every tick survives rounding to d decimals
// within tol.
func roundsCleanly(ticks []float64, d int, tol float64) bool {
	p := math.Pow(10, float64(d))
	for _, v := range ticks {
		if math.Abs(math.Round(v*p)/p-v) > tol {
			return false
		}
	}
	return true
}

func isNegativeZero(s string) bool {
	if len(s) < 2 || s[0] != '-' {
		return false
	}
	for _, c := range s[1:] {
		if c != '0' && c != '.' {
			return false
		}
	}
	return true
}
