package inkview

import (
	"image"
	"math"
)

// Vec2 is a 2D vector used for positions, offsets, sizes, and deltas
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width*0.5, r.Y + r.Height*0.5}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// pixelBounds rounds r outward to integer pixel bounds: floor on the minimum
// corner, ceil on the maximum corner. The result is not canonicalized, so a
// negative extent yields an empty rectangle.
func (r Rect) pixelBounds() image.Rectangle {
	return image.Rectangle{
		Min: image.Point{X: int(math.Floor(r.X)), Y: int(math.Floor(r.Y))},
		Max: image.Point{X: int(math.Ceil(r.X + r.Width)), Y: int(math.Ceil(r.Y + r.Height))},
	}
}

// LayerMask selects one or more render layers.
type LayerMask uint8

const (
	LayerModel   LayerMask = 1 << iota // recognized model content
	LayerCapture                       // in-progress ink capture
	LayerAll     = LayerModel | LayerCapture
)

// layerCount is the number of distinct layers in LayerAll.
const layerCount = 2

// layerIndex maps a single-bit mask to a slot in per-layer arrays.
func layerIndex(l LayerMask) int {
	if l == LayerCapture {
		return 1
	}
	return 0
}

// String returns a short name for logging.
func (l LayerMask) String() string {
	switch l {
	case 0:
		return "none"
	case LayerModel:
		return "model"
	case LayerCapture:
		return "capture"
	case LayerAll:
		return "all"
	default:
		return "unknown"
	}
}

// DeviceClass identifies the physical pointing device behind a pointer.
type DeviceClass uint8

const (
	DevicePen   DeviceClass = iota // stylus
	DeviceTouch                    // finger contact
	DeviceMouse                    // mouse or touchpad cursor
)

// String returns the device class name.
func (d DeviceClass) String() string {
	switch d {
	case DevicePen:
		return "pen"
	case DeviceTouch:
		return "touch"
	case DeviceMouse:
		return "mouse"
	default:
		return "unknown"
	}
}

// InputMode controls how device classes are reported to the ink engine.
type InputMode uint8

const (
	InputModeAuto  InputMode = iota // report the device class as-is
	InputModeTouch                  // treat every pointer as touch
	InputModePen                    // treat every pointer as a pen
)

// resolve returns the device class seen by the ink engine for d.
func (m InputMode) resolve(d DeviceClass) DeviceClass {
	switch m {
	case InputModeTouch:
		return DeviceTouch
	case InputModePen:
		return DevicePen
	default:
		return d
	}
}

// PointerUpdateKind describes the button transition carried by a pointer event.
type PointerUpdateKind uint8

const (
	UpdateOther           PointerUpdateKind = iota // move, hover, or a non-primary button
	UpdatePrimaryPressed                           // primary button or contact went down
	UpdatePrimaryReleased                          // primary button or contact went up
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// ContentKindRawContent is the content kind whose view is centered on its
// content box on reset. Every other kind aligns to the view box origin.
const ContentKindRawContent = "Raw Content"
