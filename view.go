package inkview

import (
	"fmt"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// defaultZoomStep is the scale factor of one zoom unit.
const defaultZoomStep = 1.10

// ContentSource describes the content currently shown by the view.
type ContentSource interface {
	// Loaded reports whether any content is available.
	Loaded() bool
	// Kind names the content type. ContentKindRawContent is centered on reset.
	Kind() string
	// ContentBox is the model-space extent of the content.
	ContentBox() (Rect, error)
	// ViewBox is the model-space area the content declares as its page.
	ViewBox() (Rect, error)
}

// ViewSizer is implemented by content that needs the viewport size.
type ViewSizer interface {
	SetViewSize(width, height int) error
}

// scrollAnim holds active scroll-to tweens for the view offset.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// ViewManager owns the pan offset and zoom scale of the view. Every committed
// change passes through the clamp policy, marks all layers dirty and is
// published to OnChanged listeners.
type ViewManager struct {
	transform ViewTransform
	viewport  Vec2
	clamp     ClampPolicy
	content   ContentSource
	dirty     *DirtyTracker
	zoomStep  float64

	handlers handlerList[ViewTransform]
	scroll   *scrollAnim
}

// NewViewManager creates a view at scale 1 and zero offset. A nil clamp
// policy behaves as NoClamp.
func NewViewManager(content ContentSource, clamp ClampPolicy, dirty *DirtyTracker) *ViewManager {
	if clamp == nil {
		clamp = NoClamp{}
	}
	v := &ViewManager{
		transform: ViewTransform{Scale: 1},
		clamp:     clamp,
		content:   content,
		dirty:     dirty,
		zoomStep:  defaultZoomStep,
	}
	if dirty != nil {
		vp := dirty.Viewport()
		v.viewport = Vec2{float64(vp.Dx()), float64(vp.Dy())}
	}
	return v
}

// Transform returns the current view transform.
func (v *ViewManager) Transform() ViewTransform {
	return v.transform
}

// Viewport returns the viewport size in pixels.
func (v *ViewManager) Viewport() Vec2 {
	return v.viewport
}

// SetViewport changes the viewport size. The offset is not re-clamped; call
// Reset or Scroll afterwards if the content must stay in range.
func (v *ViewManager) SetViewport(width, height float64) {
	v.viewport = Vec2{width, height}
}

// SetZoomStep changes the factor applied per zoom unit.
func (v *ViewManager) SetZoomStep(step float64) error {
	if step <= 0 {
		return ErrInvalidZoom
	}
	v.zoomStep = step
	return nil
}

// SetClampPolicy replaces the clamp policy. A nil policy behaves as NoClamp.
func (v *ViewManager) SetClampPolicy(p ClampPolicy) {
	if p == nil {
		p = NoClamp{}
	}
	v.clamp = p
}

// OnChanged registers a callback fired after every committed change.
func (v *ViewManager) OnChanged(fn func(ViewTransform)) CallbackHandle {
	return v.handlers.add(fn)
}

// Reset returns the view to scale 1 and positions the content. Raw content
// is centered in the viewport; any other kind has its view box aligned to the
// viewport origin. When force is set all layers are marked dirty.
func (v *ViewManager) Reset(force bool) error {
	if v.content == nil || !v.content.Loaded() {
		return ErrNoContent
	}
	v.scroll = nil

	tr := ViewTransform{Scale: 1}.linear()
	var offset Vec2
	if v.content.Kind() == ContentKindRawContent {
		box, err := v.content.ContentBox()
		if err != nil {
			return fmt.Errorf("reset view: content box: %w", err)
		}
		c := box.Center()
		cx, cy := transformPoint(tr, c.X, c.Y)
		offset = Vec2{cx - v.viewport.X*0.5, cy - v.viewport.Y*0.5}
	} else {
		box, err := v.content.ViewBox()
		if err != nil {
			return fmt.Errorf("reset view: view box: %w", err)
		}
		x, y := transformPoint(tr, box.X, box.Y)
		offset = Vec2{x, y}
	}

	clamped, err := v.clamp.ClampViewOffset(offset, 1, v.viewport)
	if err != nil {
		return fmt.Errorf("reset view: clamp: %w", err)
	}
	v.transform = ViewTransform{Offset: clamped, Scale: 1}
	Logger().Debug("view reset", "kind", v.content.Kind(), "offset_x", clamped.X, "offset_y", clamped.Y)
	if force && v.dirty != nil {
		v.dirty.Invalidate(LayerAll)
	}
	v.handlers.dispatch(v.transform)
	return nil
}

// ZoomIn multiplies the scale by delta times the zoom step. The factor grows
// linearly with delta: ZoomIn(2) scales by 2*1.10, not 1.10*1.10.
func (v *ViewManager) ZoomIn(delta uint) error {
	return v.Zoom(float64(delta) * v.zoomStep)
}

// ZoomOut multiplies the scale by delta times the inverse zoom step.
func (v *ViewManager) ZoomOut(delta uint) error {
	return v.Zoom(float64(delta) * (1 / v.zoomStep))
}

// Zoom multiplies the scale by factor, keeping the model point under the
// viewport center fixed. A factor or resulting scale that is not finite and
// positive fails with ErrInvalidZoom and leaves the view unchanged.
func (v *ViewManager) Zoom(factor float64) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return ErrInvalidZoom
	}
	scale := v.transform.Scale * factor
	if !(scale > 0) || math.IsInf(scale, 0) {
		return ErrInvalidZoom
	}
	c := Vec2{v.viewport.X * 0.5, v.viewport.Y * 0.5}
	off := v.transform.Offset
	offset := Vec2{(c.X+off.X)*factor - c.X, (c.Y+off.Y)*factor - c.Y}
	if err := v.commit(offset, scale); err != nil {
		return fmt.Errorf("zoom: %w", err)
	}
	return nil
}

// Scroll adds (dx, dy) to the view offset.
func (v *ViewManager) Scroll(dx, dy float64) error {
	off := v.transform.Offset
	if err := v.commit(Vec2{off.X + dx, off.Y + dy}, v.transform.Scale); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

// ScrollTo animates the view offset to target over duration seconds. The
// animation advances in Update; each step is clamped.
func (v *ViewManager) ScrollTo(target Vec2, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	off := v.transform.Offset
	v.scroll = &scrollAnim{
		tweenX: gween.New(float32(off.X), float32(target.X), duration, easeFn),
		tweenY: gween.New(float32(off.Y), float32(target.Y), duration, easeFn),
	}
}

// Animating reports whether a ScrollTo animation is in progress.
func (v *ViewManager) Animating() bool {
	return v.scroll != nil
}

// StopScroll cancels a running ScrollTo animation where it is.
func (v *ViewManager) StopScroll() {
	v.scroll = nil
}

// Update advances a running scroll animation by dt seconds. A clamp failure
// stops the animation.
func (v *ViewManager) Update(dt float32) {
	if v.scroll == nil {
		return
	}
	off := v.transform.Offset
	if !v.scroll.doneX {
		val, done := v.scroll.tweenX.Update(dt)
		off.X = float64(val)
		v.scroll.doneX = done
	}
	if !v.scroll.doneY {
		val, done := v.scroll.tweenY.Update(dt)
		off.Y = float64(val)
		v.scroll.doneY = done
	}
	if v.scroll.doneX && v.scroll.doneY {
		v.scroll = nil
	}
	if err := v.commit(off, v.transform.Scale); err != nil {
		Logger().Warn("scroll animation stopped", "error", err)
		v.scroll = nil
	}
}

// commit clamps offset and applies it with scale. On a clamp error the view
// is left untouched.
func (v *ViewManager) commit(offset Vec2, scale float64) error {
	clamped, err := v.clamp.ClampViewOffset(offset, scale, v.viewport)
	if err != nil {
		Logger().Warn("clamp policy failed", "error", err)
		return err
	}
	v.transform = ViewTransform{Offset: clamped, Scale: scale}
	if v.dirty != nil {
		v.dirty.Invalidate(LayerAll)
	}
	v.handlers.dispatch(v.transform)
	return nil
}
