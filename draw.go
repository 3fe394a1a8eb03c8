package inkview

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// white source texture singleton for vertex-colored triangles (single-threaded)
var whiteSubImage *ebiten.Image

func ensureWhiteImage() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// StrokeStyle configures DrawGeometry. A zero Width fills the geometry using
// its fill rule instead of stroking it.
type StrokeStyle struct {
	Color     color.Color
	Width     float64
	AntiAlias bool
}

// ViewGeoM returns the ebiten transform equivalent to tr.
func ViewGeoM(tr ViewTransform) ebiten.GeoM {
	m := tr.Matrix()
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[2])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[3])
	g.SetElement(1, 2, m[5])
	return g
}

// DrawGeometry renders model-space geometry onto dst through the view
// transform. Stroke widths are in view pixels.
func DrawGeometry(dst *ebiten.Image, g *Geometry, tr ViewTransform, style StrokeStyle) {
	if g == nil || g.Empty() {
		return
	}
	var p vector.Path
	appendViewPath(&p, g, tr.Matrix())

	var vs []ebiten.Vertex
	var is []uint16
	fillRule := ebiten.FillRuleNonZero
	if style.Width > 0 {
		vs, is = p.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{
			Width:    float32(style.Width),
			LineCap:  vector.LineCapRound,
			LineJoin: vector.LineJoinRound,
		})
	} else {
		vs, is = p.AppendVerticesAndIndicesForFilling(nil, nil)
		if g.FillRule() == FillEvenOdd {
			fillRule = ebiten.FillRuleEvenOdd
		}
	}
	if len(is) == 0 {
		return
	}

	clr := style.Color
	if clr == nil {
		clr = color.Black
	}
	r, gr, b, a := clr.RGBA()
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(gr) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	dst.DrawTriangles(vs, is, ensureWhiteImage(), &ebiten.DrawTrianglesOptions{
		AntiAlias: style.AntiAlias,
		FillRule:  fillRule,
	})
}

// appendViewPath replays g onto p with every point mapped through m, so
// stroke widths stay in view pixels at any zoom.
func appendViewPath(p *vector.Path, g *Geometry, m [6]float64) {
	pt := func(q gg.Point) (float32, float32) {
		x, y := transformPoint(m, q.X, q.Y)
		return float32(x), float32(y)
	}
	for _, el := range g.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			p.MoveTo(pt(e.Point))
		case gg.LineTo:
			p.LineTo(pt(e.Point))
		case gg.QuadTo:
			cx, cy := pt(e.Control)
			x, y := pt(e.Point)
			p.QuadTo(cx, cy, x, y)
		case gg.CubicTo:
			c1x, c1y := pt(e.Control1)
			c2x, c2y := pt(e.Control2)
			x, y := pt(e.Point)
			p.CubicTo(c1x, c1y, c2x, c2y, x, y)
		case gg.Close:
			p.Close()
		}
	}
}
