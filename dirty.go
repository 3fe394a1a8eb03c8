package inkview

import "image"

// DirtyRegion is one invalidation forwarded to the rendering backend.
// Full is set when the whole layer must be redrawn; X/Y/Width/Height then
// cover the current viewport.
type DirtyRegion struct {
	X, Y, Width, Height int
	Layers              LayerMask
	Full                bool
}

// Rect returns the region as an image.Rectangle.
func (r DirtyRegion) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// layerDirty is the pending state of one layer between flushes.
type layerDirty struct {
	full bool
	rect image.Rectangle
}

// DirtyTracker collects per-layer invalidation requests and forwards them,
// rounded and clipped to the viewport, to the rendering backend.
type DirtyTracker struct {
	viewport image.Rectangle
	layers   [layerCount]layerDirty
	handlers handlerList[DirtyRegion]
}

// NewDirtyTracker creates a tracker for a viewport of the given size.
func NewDirtyTracker(width, height int) *DirtyTracker {
	return &DirtyTracker{viewport: image.Rect(0, 0, width, height)}
}

// Resize changes the viewport used for clipping. Any pending partial regions
// are promoted to full redraws since their coordinates may no longer apply.
func (d *DirtyTracker) Resize(width, height int) {
	d.viewport = image.Rect(0, 0, width, height)
	for i := range d.layers {
		if !d.layers[i].rect.Empty() {
			d.layers[i] = layerDirty{full: true}
		}
	}
}

// Viewport returns the clip rectangle.
func (d *DirtyTracker) Viewport() image.Rectangle {
	return d.viewport
}

// OnInvalidate registers a callback fired synchronously for every accepted
// invalidation.
func (d *DirtyTracker) OnInvalidate(fn func(DirtyRegion)) CallbackHandle {
	return d.handlers.add(fn)
}

// Invalidate marks the named layers fully dirty.
func (d *DirtyTracker) Invalidate(layers LayerMask) {
	layers &= LayerAll
	if layers == 0 {
		return
	}
	for _, l := range [...]LayerMask{LayerModel, LayerCapture} {
		if layers&l != 0 {
			d.layers[layerIndex(l)] = layerDirty{full: true}
		}
	}
	vp := d.viewport
	d.handlers.dispatch(DirtyRegion{
		X: vp.Min.X, Y: vp.Min.Y, Width: vp.Dx(), Height: vp.Dy(),
		Layers: layers, Full: true,
	})
}

// InvalidateRect marks a sub-rectangle of the named layers dirty. A negative
// height is a no-op. The rectangle is rounded outward to integer pixels and
// clipped to the viewport; nothing is recorded if the result is empty.
func (d *DirtyTracker) InvalidateRect(x, y, width, height float64, layers LayerMask) {
	if height < 0 {
		return
	}
	layers &= LayerAll
	if layers == 0 {
		return
	}
	r := Rect{X: x, Y: y, Width: width, Height: height}.pixelBounds()
	if r.Empty() {
		return
	}
	if !d.viewport.Empty() {
		r = r.Intersect(d.viewport)
		if r.Empty() {
			return
		}
	}
	for _, l := range [...]LayerMask{LayerModel, LayerCapture} {
		if layers&l == 0 {
			continue
		}
		ld := &d.layers[layerIndex(l)]
		if ld.full {
			continue
		}
		ld.rect = ld.rect.Union(r)
	}
	d.handlers.dispatch(DirtyRegion{
		X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy(),
		Layers: layers,
	})
}

// Pending reports the pending state of a single layer: whether it needs a full
// redraw, and otherwise the union of its dirty rectangles (empty if clean).
// layer must be exactly LayerModel or LayerCapture; any other mask reports
// nothing pending.
func (d *DirtyTracker) Pending(layer LayerMask) (full bool, rect image.Rectangle) {
	if layer != LayerModel && layer != LayerCapture {
		return false, image.Rectangle{}
	}
	ld := d.layers[layerIndex(layer)]
	return ld.full, ld.rect
}

// IsDirty reports whether any of the named layers has pending work.
func (d *DirtyTracker) IsDirty(layers LayerMask) bool {
	for _, l := range [...]LayerMask{LayerModel, LayerCapture} {
		if layers&l == 0 {
			continue
		}
		ld := d.layers[layerIndex(l)]
		if ld.full || !ld.rect.Empty() {
			return true
		}
	}
	return false
}

// Flush returns the pending region of every dirty layer and clears the
// tracker. Full layers report the whole viewport.
func (d *DirtyTracker) Flush() []DirtyRegion {
	var out []DirtyRegion
	for _, l := range [...]LayerMask{LayerModel, LayerCapture} {
		ld := &d.layers[layerIndex(l)]
		switch {
		case ld.full:
			vp := d.viewport
			out = append(out, DirtyRegion{
				X: vp.Min.X, Y: vp.Min.Y, Width: vp.Dx(), Height: vp.Dy(),
				Layers: l, Full: true,
			})
		case !ld.rect.Empty():
			r := ld.rect
			out = append(out, DirtyRegion{
				X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy(),
				Layers: l,
			})
		}
		*ld = layerDirty{}
	}
	return out
}
