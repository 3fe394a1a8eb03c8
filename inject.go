package inkview

// syntheticKind is the type of an injected event.
type syntheticKind uint8

const (
	syntheticPress syntheticKind = iota
	syntheticMove
	syntheticRelease
	syntheticWheel
)

// injectPointerID is the pointer id used for injected events.
const injectPointerID = 0

// syntheticEvent is a single injected input event in view coordinates.
type syntheticEvent struct {
	kind       syntheticKind
	x, y       float64
	device     DeviceClass
	wheelDelta int
	mods       KeyModifiers
}

// InjectPress queues a primary press at (x, y) from the given device. The
// event is consumed on the next Update instead of platform input.
func (c *Controller) InjectPress(x, y float64, device DeviceClass) {
	c.injectQueue = append(c.injectQueue, syntheticEvent{kind: syntheticPress, x: x, y: y, device: device})
}

// InjectMove queues a move with the primary button held. Use it between
// InjectPress and InjectRelease.
func (c *Controller) InjectMove(x, y float64, device DeviceClass) {
	c.injectQueue = append(c.injectQueue, syntheticEvent{kind: syntheticMove, x: x, y: y, device: device})
}

// InjectRelease queues a primary release at (x, y).
func (c *Controller) InjectRelease(x, y float64, device DeviceClass) {
	c.injectQueue = append(c.injectQueue, syntheticEvent{kind: syntheticRelease, x: x, y: y, device: device})
}

// InjectTap queues a press followed by a release at the same point.
// Consumes two frames.
func (c *Controller) InjectTap(x, y float64, device DeviceClass) {
	c.InjectPress(x, y, device)
	c.InjectRelease(x, y, device)
}

// InjectWheel queues a vertical wheel event. delta is in platform units,
// 120 per notch.
func (c *Controller) InjectWheel(delta int, mods KeyModifiers) {
	c.injectQueue = append(c.injectQueue, syntheticEvent{kind: syntheticWheel, wheelDelta: delta, mods: mods})
}

// InjectDrag queues a press at (fromX, fromY), frames-2 linearly
// interpolated moves and a release at (toX, toY). The sequence consumes
// frames frames; the minimum is 2.
func (c *Controller) InjectDrag(fromX, fromY, toX, toY float64, frames int, device DeviceClass) {
	if frames < 2 {
		frames = 2
	}
	c.InjectPress(fromX, fromY, device)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		c.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t, device)
	}
	c.InjectRelease(toX, toY, device)
}

// PendingInjections returns the number of queued injected events.
func (c *Controller) PendingInjections() int {
	return len(c.injectQueue)
}

// processInjected pops one event from the inject queue and dispatches it.
// Returns true if an event was consumed, so platform input is skipped.
func (c *Controller) processInjected() bool {
	if len(c.injectQueue) == 0 {
		return false
	}
	evt := c.injectQueue[0]
	copy(c.injectQueue, c.injectQueue[1:])
	c.injectQueue = c.injectQueue[:len(c.injectQueue)-1]

	e := PointerEvent{
		ID: injectPointerID, Device: evt.device,
		X: evt.x, Y: evt.y,
		Timestamp: c.clock.Monotonic(),
		Pressure:  1,
	}
	switch evt.kind {
	case syntheticPress:
		e.Primary, e.InContact, e.Update = true, true, UpdatePrimaryPressed
		report("injected press", c.PointerDown(e))
	case syntheticMove:
		e.Primary, e.InContact = true, true
		report("injected move", c.PointerMoved(e))
	case syntheticRelease:
		e.Update = UpdatePrimaryReleased
		e.Pressure = 0
		report("injected release", c.PointerUp(e))
	case syntheticWheel:
		report("injected wheel", c.PointerWheel(WheelEvent{Delta: evt.wheelDelta, Modifiers: evt.mods}))
	}
	return true
}
