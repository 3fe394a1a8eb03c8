package inkview

import (
	"math"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// PathOp is a bitmask of path operations.
type PathOp uint32

const (
	PathOpArc PathOp = 1 << iota // elliptical arc segments
)

// FillRule selects how overlapping figures are filled.
type FillRule uint8

const (
	FillWinding FillRule = iota // non-zero winding
	FillEvenOdd                 // even-odd parity
)

// Geometry is a finalized, immutable path produced by PathBuilder.
type Geometry struct {
	path    *gg.Path
	closed  []bool
	fill    FillRule
	bounds  Rect
	hasArea bool // at least one point
}

// Elements returns the path elements. The returned slice MUST NOT be mutated.
func (g *Geometry) Elements() []gg.PathElement {
	return g.path.Elements()
}

// Figures returns the number of figures (subpaths) in the geometry.
func (g *Geometry) Figures() int {
	return len(g.closed)
}

// Closed reports whether figure i was ended with ClosePath.
func (g *Geometry) Closed(i int) bool {
	return g.closed[i]
}

// Empty reports whether the geometry has no points.
func (g *Geometry) Empty() bool {
	return !g.hasArea
}

// FillRule returns the fill rule the geometry was built with.
func (g *Geometry) FillRule() FillRule {
	return g.fill
}

// Bounds returns the bounding box of every point in the geometry, control
// points included. The zero Rect is returned for an empty geometry.
func (g *Geometry) Bounds() Rect {
	return g.bounds
}

// AppendVectorPath replays the geometry onto an ebiten vector path.
func (g *Geometry) AppendVectorPath(p *vector.Path) {
	for _, el := range g.path.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			p.MoveTo(float32(e.Point.X), float32(e.Point.Y))
		case gg.LineTo:
			p.LineTo(float32(e.Point.X), float32(e.Point.Y))
		case gg.QuadTo:
			p.QuadTo(float32(e.Control.X), float32(e.Control.Y), float32(e.Point.X), float32(e.Point.Y))
		case gg.CubicTo:
			p.CubicTo(float32(e.Control1.X), float32(e.Control1.Y),
				float32(e.Control2.X), float32(e.Control2.Y),
				float32(e.Point.X), float32(e.Point.Y))
		case gg.Close:
			p.Close()
		}
	}
}

// PathBuilder incrementally constructs a vector path and memoizes the
// finalized Geometry. Any mutating call drops the memoized value; Geometry
// recomputes it lazily.
type PathBuilder struct {
	path     *gg.Path
	closed   []bool
	inFigure bool
	fill     FillRule
	cached   *Geometry
}

// NewPathBuilder creates an empty builder using the winding fill rule.
func NewPathBuilder() *PathBuilder {
	return &PathBuilder{path: gg.NewPath(), fill: FillWinding}
}

// UnsupportedOperations reports the path operations this builder ignores.
func (b *PathBuilder) UnsupportedOperations() PathOp {
	return PathOpArc
}

// SetFillRule changes the fill rule of subsequently built geometries.
func (b *PathBuilder) SetFillRule(rule FillRule) {
	b.fill = rule
	b.cached = nil
}

// MoveTo ends any open figure as open and starts a new one at (x, y).
func (b *PathBuilder) MoveTo(x, y float64) {
	if b.inFigure {
		b.endFigure(false)
	}
	b.path.MoveTo(x, y)
	b.closed = append(b.closed, false)
	b.inFigure = true
	b.cached = nil
}

// LineTo appends a straight segment to the current figure.
func (b *PathBuilder) LineTo(x, y float64) {
	b.ensureFigure()
	b.path.LineTo(x, y)
	b.cached = nil
}

// CurveTo appends a cubic Bezier segment to the current figure.
func (b *PathBuilder) CurveTo(x1, y1, x2, y2, x, y float64) {
	b.ensureFigure()
	b.path.CubicTo(x1, y1, x2, y2, x, y)
	b.cached = nil
}

// QuadTo appends a quadratic Bezier segment to the current figure.
func (b *PathBuilder) QuadTo(x1, y1, x, y float64) {
	b.ensureFigure()
	b.path.QuadraticTo(x1, y1, x, y)
	b.cached = nil
}

// ArcTo is not supported and does nothing; see UnsupportedOperations.
func (b *PathBuilder) ArcTo(rx, ry, phi float64, largeArc, sweep bool, x, y float64) {}

// ClosePath ends the current figure as closed.
func (b *PathBuilder) ClosePath() {
	if b.inFigure {
		b.endFigure(true)
	}
	b.cached = nil
}

// Geometry ends an open figure as open and returns the finalized geometry.
// Calling it again without an intervening mutation returns the same value.
func (b *PathBuilder) Geometry() *Geometry {
	if b.inFigure {
		b.endFigure(false)
		b.cached = nil
	}
	if b.cached != nil {
		return b.cached
	}
	g := &Geometry{
		path:   b.path.Clone(),
		closed: append([]bool(nil), b.closed...),
		fill:   b.fill,
	}
	g.bounds, g.hasArea = elementBounds(g.path.Elements())
	b.cached = g
	return g
}

// ensureFigure begins a figure at the current point when a segment is added
// after the previous figure was ended.
func (b *PathBuilder) ensureFigure() {
	if b.inFigure {
		return
	}
	p := b.path.CurrentPoint()
	b.path.MoveTo(p.X, p.Y)
	b.closed = append(b.closed, false)
	b.inFigure = true
}

func (b *PathBuilder) endFigure(closed bool) {
	if closed {
		b.path.Close()
		b.closed[len(b.closed)-1] = true
	}
	b.inFigure = false
}

// elementBounds returns the bounding box of every point referenced by els.
func elementBounds(els []gg.PathElement) (Rect, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	add := func(p gg.Point) {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	for _, el := range els {
		switch e := el.(type) {
		case gg.MoveTo:
			add(e.Point)
		case gg.LineTo:
			add(e.Point)
		case gg.QuadTo:
			add(e.Control)
			add(e.Point)
		case gg.CubicTo:
			add(e.Control1)
			add(e.Control2)
			add(e.Point)
		}
	}
	if minX > maxX {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}
