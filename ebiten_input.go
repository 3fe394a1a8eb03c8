package inkview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// mousePointerID is the pointer id of the mouse. Touch ids start above it.
const mousePointerID = 0

// EbitenInput polls mouse, touch and wheel state from ebiten each frame and
// feeds it to a Controller as pointer events. Ebiten reports neither pen
// devices nor coalesced samples, so pens arrive as mouse or touch and moves
// carry no intermediate samples; use Config.InputMode to force pen handling.
type EbitenInput struct {
	lastX, lastY int
	touchBuf     []ebiten.TouchID
}

// NewEbitenInput creates an input source for the running ebiten game.
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{}
}

// Poll reads this frame's input and dispatches it to c.
func (in *EbitenInput) Poll(c *Controller) {
	ts := c.clock.Monotonic()
	in.pollMouse(c, ts)
	in.pollTouches(c, ts)
	in.pollWheel(c)
}

func (in *EbitenInput) pollMouse(c *Controller, ts uint64) {
	mx, my := ebiten.CursorPosition()
	held := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	e := PointerEvent{
		ID: mousePointerID, Device: DeviceMouse,
		X: float64(mx), Y: float64(my),
		Timestamp: ts, Primary: held, InContact: held,
	}
	if held {
		e.Pressure = 0.5
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		e.Update = UpdatePrimaryPressed
		report("mouse press", c.PointerDown(e))
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		e.Update = UpdatePrimaryReleased
		report("mouse release", c.PointerUp(e))
	case held && (mx != in.lastX || my != in.lastY):
		report("mouse move", c.PointerMoved(e))
	}
	in.lastX, in.lastY = mx, my
}

func touchPointerID(id ebiten.TouchID) int {
	return int(id) + 1
}

func (in *EbitenInput) pollTouches(c *Controller, ts uint64) {
	in.touchBuf = inpututil.AppendJustPressedTouchIDs(in.touchBuf[:0])
	for _, id := range in.touchBuf {
		x, y := ebiten.TouchPosition(id)
		report("touch press", c.PointerDown(PointerEvent{
			ID: touchPointerID(id), Device: DeviceTouch,
			X: float64(x), Y: float64(y), Timestamp: ts, Pressure: 1,
			Primary: true, InContact: true, Update: UpdatePrimaryPressed,
		}))
	}

	in.touchBuf = ebiten.AppendTouchIDs(in.touchBuf[:0])
	for _, id := range in.touchBuf {
		if inpututil.TouchPressDuration(id) <= 1 {
			continue // pressed this tick
		}
		x, y := ebiten.TouchPosition(id)
		px, py := inpututil.TouchPositionInPreviousTick(id)
		if x == px && y == py {
			continue
		}
		report("touch move", c.PointerMoved(PointerEvent{
			ID: touchPointerID(id), Device: DeviceTouch,
			X: float64(x), Y: float64(y), Timestamp: ts, Pressure: 1,
			Primary: true, InContact: true,
		}))
	}

	in.touchBuf = inpututil.AppendJustReleasedTouchIDs(in.touchBuf[:0])
	for _, id := range in.touchBuf {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		report("touch release", c.PointerUp(PointerEvent{
			ID: touchPointerID(id), Device: DeviceTouch,
			X: float64(x), Y: float64(y), Timestamp: ts,
			Update: UpdatePrimaryReleased,
		}))
	}
}

func (in *EbitenInput) pollWheel(c *Controller) {
	wx, wy := ebiten.Wheel()
	if wx == 0 && wy == 0 {
		return
	}
	mods := readModifiers()
	if wy != 0 {
		report("wheel", c.PointerWheel(WheelEvent{Delta: int(wy * wheelDelta), Modifiers: mods}))
	}
	if wx != 0 {
		report("wheel", c.PointerWheel(WheelEvent{Delta: int(wx * wheelDelta), Horizontal: true, Modifiers: mods}))
	}
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}
