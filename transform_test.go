package inkview

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func TestViewTransformMatrix(t *testing.T) {
	tr := ViewTransform{Offset: Vec2{10, 20}, Scale: 2}
	assertMatrix(t, "matrix", tr.Matrix(), [6]float64{2, 0, 0, 2, -10, -20})
	assertMatrix(t, "linear", tr.linear(), [6]float64{2, 0, 0, 2, 0, 0})
}

func TestViewTransformRoundtrip(t *testing.T) {
	tr := ViewTransform{Offset: Vec2{-35, 12.5}, Scale: 1.75}
	points := []Vec2{{0, 0}, {100, 50}, {-42, 7.25}}
	for _, p := range points {
		v := tr.ModelToView(p)
		back := tr.ViewToModel(v)
		assertNear(t, "x", back.X, p.X)
		assertNear(t, "y", back.Y, p.Y)
	}
}

func TestModelToView(t *testing.T) {
	tr := ViewTransform{Offset: Vec2{50, 25}, Scale: 2}
	v := tr.ModelToView(Vec2{100, 100})
	assertNear(t, "x", v.X, 150)
	assertNear(t, "y", v.Y, 175)
}

func TestInvertAffine(t *testing.T) {
	m := [6]float64{2, 0, 0, 4, 10, -8}
	inv := invertAffine(m)
	assertMatrix(t, "inverse", inv, [6]float64{0.5, 0, 0, 0.25, -5, 2})
	x, y := transformPoint(m, 3, -1)
	x, y = transformPoint(inv, x, y)
	assertNear(t, "x", x, 3)
	assertNear(t, "y", y, -1)
}

func TestInvertAffineSingular(t *testing.T) {
	m := [6]float64{0, 0, 0, 0, 3, 3}
	assertMatrix(t, "singular", invertAffine(m), identityTransform)
}
