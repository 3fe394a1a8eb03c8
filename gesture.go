package inkview

import (
	"errors"
	"fmt"
	"math"
)

const (
	defaultScrollThreshold = 3.0   // pixels a touch must travel before it scrolls
	defaultScrollSpeed     = 100.0 // pixels per wheel notch
	wheelDelta             = 120   // platform units per wheel notch
)

// PointerSample is one intermediate position reported with a move event.
type PointerSample struct {
	X, Y      float64
	Timestamp uint64 // microseconds, monotonic
	Pressure  float64
}

// PointerEvent is a raw pointer event from the platform.
type PointerEvent struct {
	ID        int
	Device    DeviceClass
	X, Y      float64
	Timestamp uint64 // microseconds, monotonic
	Pressure  float64

	// Primary is true while the left button or contact is held.
	Primary bool
	// Update is the button transition carried by this event.
	Update PointerUpdateKind
	// InContact is false for hover moves.
	InContact bool

	// Intermediate holds samples coalesced into this event, newest first.
	Intermediate []PointerSample
}

// WheelEvent is a mouse wheel notch or touchpad scroll.
type WheelEvent struct {
	// Delta is in platform units; 120 is one notch.
	Delta      int
	Horizontal bool
	Modifiers  KeyModifiers
}

// InkEventKind identifies a stroke event forwarded to the ink engine.
type InkEventKind uint8

const (
	InkDown InkEventKind = iota
	InkMove
	InkUp
	InkCancel
)

func (k InkEventKind) String() string {
	switch k {
	case InkDown:
		return "down"
	case InkMove:
		return "move"
	case InkUp:
		return "up"
	case InkCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// InkEvent is a stroke sample in view coordinates with an epoch timestamp.
type InkEvent struct {
	Kind      InkEventKind
	X, Y      float64
	Timestamp int64 // Unix milliseconds
	Pressure  float64
	Device    DeviceClass
	PointerID int
}

// InkEngine receives stroke events. Errors are returned to the caller of
// the pointer entry point that triggered them.
type InkEngine interface {
	PointerDown(InkEvent) error
	PointerUp(InkEvent) error
	PointerCancel(pointerID int) error
	// PointerEvents ingests a batch of move events in chronological order.
	// The slice is reused after the call returns.
	PointerEvents([]InkEvent) error
}

// ScrollGate is optionally implemented by an InkEngine that can veto touch
// scrolling, for example while a selection is being dragged.
type ScrollGate interface {
	IsScrollAllowed() bool
}

// SessionMode is what a pointer session has been decided to be.
type SessionMode uint8

const (
	ModeNone SessionMode = iota
	ModeDrawing
	ModeScrolling
)

// PointerSession is the single active pointer interaction.
type PointerSession struct {
	ID     int
	Device DeviceClass // class reported to the ink engine
	Start  Vec2
	Last   Vec2
	Mode   SessionMode
}

// GestureState is the state of the gesture disambiguator.
type GestureState uint8

const (
	GestureIdle GestureState = iota
	GestureUndecided
	GestureDrawing
	GestureScrolling
)

func (s GestureState) String() string {
	switch s {
	case GestureIdle:
		return "idle"
	case GestureUndecided:
		return "undecided"
	case GestureDrawing:
		return "drawing"
	case GestureScrolling:
		return "scrolling"
	default:
		return "unknown"
	}
}

// GestureEventKind identifies a gesture transition.
type GestureEventKind uint8

const (
	GestureBegan GestureEventKind = iota
	GestureDecided
	GestureScrolled
	GestureEnded
	GestureCanceled
	GestureWheel
)

func (k GestureEventKind) String() string {
	switch k {
	case GestureBegan:
		return "began"
	case GestureDecided:
		return "decided"
	case GestureScrolled:
		return "scrolled"
	case GestureEnded:
		return "ended"
	case GestureCanceled:
		return "canceled"
	case GestureWheel:
		return "wheel"
	default:
		return "unknown"
	}
}

// GestureEvent describes one gesture transition. It is published to OnGesture
// callbacks and to the EventStore, if one is set.
type GestureEvent struct {
	Kind      GestureEventKind
	State     GestureState
	PointerID int
	Device    DeviceClass
	Position  Vec2
	Delta     Vec2
	Timestamp int64 // Unix milliseconds, zero for wheel events
}

// EventStore is the interface for optional ECS integration.
type EventStore interface {
	EmitEvent(GestureEvent)
}

// Gesture turns raw pointer events into ink strokes or view pans. It tracks
// exactly one pointer at a time: presses from other pointers are ignored
// while a session is active.
type Gesture struct {
	engine  InkEngine
	view    *ViewManager
	content ContentSource
	time    TimeBase

	mode        InputMode
	threshold   float64
	scrollSpeed float64

	session  *PointerSession
	handlers handlerList[GestureEvent]
	store    EventStore
	batch    []InkEvent
}

// NewGesture creates a disambiguator forwarding strokes to engine and pans to
// view. Pointer input is ignored while content reports nothing loaded.
func NewGesture(engine InkEngine, view *ViewManager, content ContentSource, tb TimeBase) *Gesture {
	return &Gesture{
		engine:      engine,
		view:        view,
		content:     content,
		time:        tb,
		threshold:   defaultScrollThreshold,
		scrollSpeed: defaultScrollSpeed,
	}
}

// SetInputMode changes how device classes are reported. It takes effect at
// the next press.
func (g *Gesture) SetInputMode(m InputMode) { g.mode = m }

// InputMode returns the current input mode.
func (g *Gesture) InputMode() InputMode { return g.mode }

// SetScrollThreshold sets the per-move distance a touch must exceed on either
// axis to become a scroll.
func (g *Gesture) SetScrollThreshold(px float64) { g.threshold = px }

// SetScrollSpeed sets the pan distance of one wheel notch.
func (g *Gesture) SetScrollSpeed(px float64) { g.scrollSpeed = px }

// SetEventStore sets the optional ECS bridge.
func (g *Gesture) SetEventStore(store EventStore) { g.store = store }

// OnGesture registers a callback for gesture transitions.
func (g *Gesture) OnGesture(fn func(GestureEvent)) CallbackHandle {
	return g.handlers.add(fn)
}

// State returns the current state.
func (g *Gesture) State() GestureState {
	if g.session == nil {
		return GestureIdle
	}
	switch g.session.Mode {
	case ModeDrawing:
		return GestureDrawing
	case ModeScrolling:
		return GestureScrolling
	default:
		return GestureUndecided
	}
}

// Session returns a copy of the active session.
func (g *Gesture) Session() (PointerSession, bool) {
	if g.session == nil {
		return PointerSession{}, false
	}
	return *g.session, true
}

func (g *Gesture) loaded() bool {
	return g.content != nil && g.content.Loaded()
}

func (g *Gesture) scrollAllowed() bool {
	if sg, ok := g.engine.(ScrollGate); ok {
		return sg.IsScrollAllowed()
	}
	return true
}

// PointerDown starts a session on a primary press. If the ink engine rejects
// the stroke, no session is created and the error is returned.
func (g *Gesture) PointerDown(e PointerEvent) error {
	if !g.loaded() || g.session != nil {
		return nil
	}
	if !e.Primary || e.Update != UpdatePrimaryPressed {
		return nil
	}

	dev := g.mode.resolve(e.Device)
	ink := g.inkEvent(InkDown, e.X, e.Y, e.Timestamp, e.Pressure, dev, e.ID)
	if err := g.engine.PointerDown(ink); err != nil {
		Logger().Warn("stroke begin rejected", "pointer", e.ID, "error", err)
		return fmt.Errorf("stroke begin: %w", err)
	}

	pos := Vec2{e.X, e.Y}
	g.session = &PointerSession{
		ID: e.ID, Device: dev, Start: pos, Last: pos,
	}
	Logger().Debug("gesture began", "pointer", e.ID, "device", dev)
	g.emit(GestureEvent{Kind: GestureBegan, Position: pos, Timestamp: ink.Timestamp})
	return nil
}

// PointerMoved handles a move of the active pointer. A touch session that
// moves more than the threshold on either axis cancels its stroke and starts
// scrolling; otherwise the move samples are forwarded as ink.
func (g *Gesture) PointerMoved(e PointerEvent) error {
	s := g.session
	if !g.loaded() || s == nil || s.ID != e.ID {
		return nil
	}
	if !e.InContact || !e.Primary {
		return nil
	}

	pos := Vec2{e.X, e.Y}
	delta := pos.Sub(s.Last)
	s.Last = pos

	var errs []error
	if s.Device == DeviceTouch && s.Mode == ModeNone &&
		(math.Abs(delta.X) > g.threshold || math.Abs(delta.Y) > g.threshold) {
		if g.scrollAllowed() {
			if err := g.engine.PointerCancel(s.ID); err != nil {
				Logger().Warn("stroke cancel failed", "pointer", s.ID, "error", err)
				errs = append(errs, fmt.Errorf("stroke cancel: %w", err))
			}
			g.decide(ModeScrolling, pos)
		} else {
			g.decide(ModeDrawing, pos)
		}
	}

	if s.Mode == ModeScrolling {
		if err := g.pan(delta, pos); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	}

	if err := g.engine.PointerEvents(g.moveBatch(e)); err != nil {
		Logger().Warn("stroke move rejected", "pointer", s.ID, "error", err)
		errs = append(errs, fmt.Errorf("stroke move: %w", err))
	}
	if s.Mode == ModeNone && s.Device != DeviceTouch {
		g.decide(ModeDrawing, pos)
	}
	return errors.Join(errs...)
}

// PointerUp ends the session on the primary release. A scrolling session
// applies its final pan; otherwise the stroke is ended.
func (g *Gesture) PointerUp(e PointerEvent) error {
	s := g.session
	if !g.loaded() || s == nil || s.ID != e.ID {
		return nil
	}
	if e.Primary || e.Update != UpdatePrimaryReleased {
		return nil
	}

	pos := Vec2{e.X, e.Y}
	delta := pos.Sub(s.Last)
	s.Last = pos

	var err error
	if s.Mode == ModeScrolling {
		err = g.pan(delta, pos)
	} else {
		ink := g.inkEvent(InkUp, e.X, e.Y, e.Timestamp, e.Pressure, s.Device, s.ID)
		if err = g.engine.PointerUp(ink); err != nil {
			Logger().Warn("stroke end rejected", "pointer", s.ID, "error", err)
			err = fmt.Errorf("stroke end: %w", err)
		}
	}
	g.end(GestureEnded, g.time.EpochMillis(e.Timestamp))
	return err
}

// PointerCanceled aborts the session when the platform cancels its pointer.
// Mouse cancellations are honored only while the primary button is held.
func (g *Gesture) PointerCanceled(e PointerEvent) error {
	s := g.session
	if !g.loaded() || s == nil || s.ID != e.ID {
		return nil
	}
	if e.Device == DeviceMouse && !e.Primary {
		return nil
	}
	return g.cancel(g.time.EpochMillis(e.Timestamp))
}

// CancelSampling aborts the active session on behalf of the host, for
// example when the content is being replaced mid-stroke.
func (g *Gesture) CancelSampling() error {
	if g.session == nil {
		return nil
	}
	return g.cancel(0)
}

func (g *Gesture) cancel(ts int64) error {
	s := g.session
	var err error
	if s.Mode != ModeScrolling {
		if err = g.engine.PointerCancel(s.ID); err != nil {
			Logger().Warn("stroke cancel failed", "pointer", s.ID, "error", err)
			err = fmt.Errorf("stroke cancel: %w", err)
		}
	}
	g.end(GestureCanceled, ts)
	return err
}

// PointerWheel zooms with Ctrl held and otherwise scrolls, vertically or
// horizontally with Shift. Horizontal wheels are ignored.
func (g *Gesture) PointerWheel(w WheelEvent) error {
	if !g.loaded() || w.Horizontal {
		return nil
	}
	ticks := w.Delta / wheelDelta
	if ticks == 0 {
		return nil
	}

	var err error
	var d Vec2
	if w.Modifiers&ModCtrl != 0 {
		if ticks > 0 {
			err = g.view.ZoomIn(uint(ticks))
		} else {
			err = g.view.ZoomOut(uint(-ticks))
		}
	} else {
		amount := -g.scrollSpeed * float64(ticks)
		if w.Modifiers&ModShift != 0 {
			d.X = amount
		} else {
			d.Y = amount
		}
		err = g.view.Scroll(d.X, d.Y)
	}
	if err != nil {
		return err
	}
	g.emit(GestureEvent{Kind: GestureWheel, Delta: d})
	return nil
}

// decide fixes the session mode. Modes are only ever decided once.
func (g *Gesture) decide(m SessionMode, pos Vec2) {
	g.session.Mode = m
	Logger().Debug("gesture decided", "pointer", g.session.ID, "state", g.State())
	g.emit(GestureEvent{Kind: GestureDecided, Position: pos})
}

// pan scrolls the view opposite to the pointer movement so the content
// follows the finger.
func (g *Gesture) pan(delta, pos Vec2) error {
	if err := g.view.Scroll(-delta.X, -delta.Y); err != nil {
		return err
	}
	g.emit(GestureEvent{Kind: GestureScrolled, Position: pos, Delta: Vec2{-delta.X, -delta.Y}})
	return nil
}

// end destroys the session and publishes kind with the Idle state.
func (g *Gesture) end(kind GestureEventKind, ts int64) {
	s := g.session
	g.session = nil
	Logger().Debug("gesture "+kind.String(), "pointer", s.ID)
	g.emit(GestureEvent{
		Kind: kind, PointerID: s.ID, Device: s.Device,
		Position: s.Last, Timestamp: ts,
	})
}

// moveBatch converts the intermediate samples of e to ink events in
// chronological order. When the platform reports none, the event's own
// position is used.
func (g *Gesture) moveBatch(e PointerEvent) []InkEvent {
	s := g.session
	g.batch = g.batch[:0]
	if len(e.Intermediate) == 0 {
		g.batch = append(g.batch, g.inkEvent(InkMove, e.X, e.Y, e.Timestamp, e.Pressure, s.Device, s.ID))
		return g.batch
	}
	for i := len(e.Intermediate) - 1; i >= 0; i-- {
		p := e.Intermediate[i]
		g.batch = append(g.batch, g.inkEvent(InkMove, p.X, p.Y, p.Timestamp, p.Pressure, s.Device, s.ID))
	}
	return g.batch
}

func (g *Gesture) inkEvent(kind InkEventKind, x, y float64, ts uint64, pressure float64, dev DeviceClass, id int) InkEvent {
	return InkEvent{
		Kind: kind, X: x, Y: y,
		Timestamp: g.time.EpochMillis(ts),
		Pressure:  pressure, Device: dev, PointerID: id,
	}
}

// emit fills in session fields and publishes ev.
func (g *Gesture) emit(ev GestureEvent) {
	ev.State = g.State()
	if s := g.session; s != nil {
		ev.PointerID = s.ID
		ev.Device = s.Device
	}
	g.handlers.dispatch(ev)
	if g.store != nil {
		g.store.EmitEvent(ev)
	}
}
