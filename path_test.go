package inkview

import (
	"testing"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

func TestGeometryMemoized(t *testing.T) {
	b := NewPathBuilder()
	b.MoveTo(0, 0)
	b.LineTo(10, 0)

	g1 := b.Geometry()
	g2 := b.Geometry()
	if g1 != g2 {
		t.Fatal("Geometry without mutation should return the memoized instance")
	}

	b.LineTo(10, 10)
	g3 := b.Geometry()
	if g3 == g1 {
		t.Fatal("LineTo should force recomputation")
	}
	if len(g1.Elements()) != 2 {
		t.Errorf("earlier geometry changed: %d elements, want 2", len(g1.Elements()))
	}
	if len(g3.Elements()) != 4 {
		// MoveTo, LineTo, implicit MoveTo at the current point, LineTo
		t.Errorf("got %d elements, want 4", len(g3.Elements()))
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	mutations := []struct {
		name string
		fn   func(b *PathBuilder)
	}{
		{"MoveTo", func(b *PathBuilder) { b.MoveTo(5, 5) }},
		{"LineTo", func(b *PathBuilder) { b.LineTo(5, 5) }},
		{"CurveTo", func(b *PathBuilder) { b.CurveTo(1, 1, 2, 2, 3, 3) }},
		{"QuadTo", func(b *PathBuilder) { b.QuadTo(1, 1, 2, 2) }},
		{"ClosePath", func(b *PathBuilder) { b.ClosePath() }},
	}
	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			b := NewPathBuilder()
			b.MoveTo(0, 0)
			b.LineTo(1, 0)
			g1 := b.Geometry()
			m.fn(b)
			if b.Geometry() == g1 {
				t.Errorf("%s did not invalidate the memoized geometry", m.name)
			}
		})
	}
}

func TestArcToIsNoop(t *testing.T) {
	b := NewPathBuilder()
	if b.UnsupportedOperations()&PathOpArc == 0 {
		t.Fatal("arc should be reported as unsupported")
	}
	b.MoveTo(0, 0)
	b.LineTo(4, 0)
	g1 := b.Geometry()
	b.ArcTo(5, 5, 0, false, true, 10, 10)
	if b.Geometry() != g1 {
		t.Error("ArcTo should not invalidate the memoized geometry")
	}
}

func TestFiguresOpenAndClosed(t *testing.T) {
	b := NewPathBuilder()
	b.MoveTo(0, 0)
	b.LineTo(10, 0)
	b.LineTo(10, 10)
	b.ClosePath()
	b.MoveTo(20, 20)
	b.LineTo(30, 20)
	b.MoveTo(40, 40)
	b.QuadTo(45, 50, 50, 40)

	g := b.Geometry()
	if g.Figures() != 3 {
		t.Fatalf("Figures = %d, want 3", g.Figures())
	}
	want := []bool{true, false, false}
	for i, w := range want {
		if g.Closed(i) != w {
			t.Errorf("Closed(%d) = %v, want %v", i, g.Closed(i), w)
		}
	}
	if g.FillRule() != FillWinding {
		t.Errorf("FillRule = %v, want winding", g.FillRule())
	}
}

func TestGeometryEndsOpenFigure(t *testing.T) {
	b := NewPathBuilder()
	b.MoveTo(0, 0)
	b.LineTo(1, 1)
	g := b.Geometry()
	if g.Closed(0) {
		t.Error("figure ended by Geometry should be open")
	}
	for _, el := range g.Elements() {
		if _, ok := el.(gg.Close); ok {
			t.Error("open figure should not contain a Close element")
		}
	}
}

func TestGeometryBounds(t *testing.T) {
	b := NewPathBuilder()
	if !b.Geometry().Empty() {
		t.Error("empty builder should produce an empty geometry")
	}
	b.MoveTo(10, 20)
	b.CurveTo(0, 0, 50, 60, 30, 40)
	got := b.Geometry().Bounds()
	want := Rect{X: 0, Y: 0, Width: 50, Height: 60}
	if got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
}

func TestAppendVectorPath(t *testing.T) {
	b := NewPathBuilder()
	b.MoveTo(0, 0)
	b.LineTo(10, 0)
	b.QuadTo(15, 5, 10, 10)
	b.CurveTo(8, 12, 2, 12, 0, 10)
	b.ClosePath()

	var p vector.Path
	b.Geometry().AppendVectorPath(&p)
	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	if len(vs) == 0 || len(is) == 0 {
		t.Error("vector path should produce fill geometry")
	}
}
