package inkview

import "testing"

func TestViewGeoMMatchesTransform(t *testing.T) {
	tr := ViewTransform{Offset: Vec2{30, -12}, Scale: 2.5}
	g := ViewGeoM(tr)
	for _, p := range []Vec2{{0, 0}, {10, 20}, {-7, 3.5}} {
		x, y := g.Apply(p.X, p.Y)
		want := tr.ModelToView(p)
		assertNear(t, "x", x, want.X)
		assertNear(t, "y", y, want.Y)
	}
}

func TestDrawGeometrySkipsEmpty(t *testing.T) {
	// dst is never touched for nil or empty geometry.
	DrawGeometry(nil, nil, ViewTransform{Scale: 1}, StrokeStyle{})
	DrawGeometry(nil, NewPathBuilder().Geometry(), ViewTransform{Scale: 1}, StrokeStyle{Width: 2})
}
