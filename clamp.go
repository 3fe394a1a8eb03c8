package inkview

import "math"

// ClampPolicy restricts the view offset for the current content. It is
// consulted before every offset change becomes visible. An error leaves the
// view unchanged and is returned to the caller.
type ClampPolicy interface {
	ClampViewOffset(offset Vec2, scale float64, viewport Vec2) (Vec2, error)
}

// ClampFunc adapts a plain function to ClampPolicy.
type ClampFunc func(offset Vec2, scale float64, viewport Vec2) (Vec2, error)

// ClampViewOffset calls f.
func (f ClampFunc) ClampViewOffset(offset Vec2, scale float64, viewport Vec2) (Vec2, error) {
	return f(offset, scale, viewport)
}

// NoClamp accepts every offset unchanged.
type NoClamp struct{}

// ClampViewOffset returns offset.
func (NoClamp) ClampViewOffset(offset Vec2, _ float64, _ Vec2) (Vec2, error) {
	return offset, nil
}

// BoundsClamp keeps the visible area inside a model-space rectangle. When the
// scaled content is smaller than the viewport along an axis, the content is
// centered on that axis instead.
type BoundsClamp struct {
	Bounds Rect
}

// ClampViewOffset clamps offset so the viewport stays within Bounds.
func (b BoundsClamp) ClampViewOffset(offset Vec2, scale float64, viewport Vec2) (Vec2, error) {
	return Vec2{
		X: clampAxis(offset.X, b.Bounds.X, b.Bounds.Width, scale, viewport.X),
		Y: clampAxis(offset.Y, b.Bounds.Y, b.Bounds.Height, scale, viewport.Y),
	}, nil
}

func clampAxis(off, start, extent, scale, view float64) float64 {
	lo := start * scale
	hi := (start+extent)*scale - view
	if lo > hi {
		return (start+extent*0.5)*scale - view*0.5
	}
	return math.Max(lo, math.Min(off, hi))
}
