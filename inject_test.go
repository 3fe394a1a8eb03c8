package inkview

import "testing"

func TestInjectTapDrawsStroke(t *testing.T) {
	c, engine := newTestController(t, &fakeContent{loaded: true})

	c.InjectTap(50, 50, DevicePen)
	if c.PendingInjections() != 2 {
		t.Fatalf("expected 2 queued events, got %d", c.PendingInjections())
	}

	// Frame 1: press
	c.Update(1.0 / 60)
	if want := []InkEventKind{InkDown}; !equalKinds(engine.kinds(), want) {
		t.Fatalf("after press: %v, want %v", engine.kinds(), want)
	}
	if c.Gesture().State() != GestureUndecided {
		t.Errorf("state = %v, want undecided", c.Gesture().State())
	}

	// Frame 2: release
	c.Update(1.0 / 60)
	if want := []InkEventKind{InkDown, InkUp}; !equalKinds(engine.kinds(), want) {
		t.Errorf("after release: %v, want %v", engine.kinds(), want)
	}
	if c.PendingInjections() != 0 {
		t.Errorf("expected empty queue, got %d", c.PendingInjections())
	}
	if c.Gesture().State() != GestureIdle {
		t.Errorf("state = %v, want idle", c.Gesture().State())
	}
}

func TestInjectTouchDragScrolls(t *testing.T) {
	c, engine := newTestController(t, &fakeContent{loaded: true})

	// press at 100, moves to 80 and 60, release at 40.
	c.InjectDrag(100, 100, 40, 100, 4, DeviceTouch)
	if c.PendingInjections() != 4 {
		t.Fatalf("queued %d events, want 4", c.PendingInjections())
	}
	for c.PendingInjections() > 0 {
		c.Update(1.0 / 60)
	}

	if want := []InkEventKind{InkDown, InkCancel}; !equalKinds(engine.kinds(), want) {
		t.Errorf("engine calls = %v, want %v", engine.kinds(), want)
	}
	if got := c.View().Transform().Offset; got != (Vec2{60, 0}) {
		t.Errorf("offset = %v, want {60 0}", got)
	}
	if c.Gesture().State() != GestureIdle {
		t.Errorf("state = %v, want idle", c.Gesture().State())
	}
}

func TestInjectDrag_MinFrames(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.InjectDrag(0, 0, 100, 100, 1, DeviceMouse)
	if c.PendingInjections() != 2 {
		t.Errorf("expected 2 events (min), got %d", c.PendingInjections())
	}
}

func TestInjectQueueOrder(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.InjectPress(1, 2, DevicePen)
	c.InjectMove(3, 4, DevicePen)
	c.InjectRelease(5, 6, DevicePen)

	want := []syntheticKind{syntheticPress, syntheticMove, syntheticRelease}
	for i, k := range want {
		if c.injectQueue[i].kind != k {
			t.Errorf("event %d kind = %d, want %d", i, c.injectQueue[i].kind, k)
		}
		if c.injectQueue[i].device != DevicePen {
			t.Errorf("event %d device = %v, want pen", i, c.injectQueue[i].device)
		}
	}
	if c.injectQueue[2].x != 5 || c.injectQueue[2].y != 6 {
		t.Errorf("release at (%v, %v), want (5, 6)", c.injectQueue[2].x, c.injectQueue[2].y)
	}
}

func TestInjectWheelZooms(t *testing.T) {
	c, _ := newTestController(t, &fakeContent{loaded: true})
	step := 1.10
	c.InjectWheel(wheelDelta, ModCtrl)
	c.Update(1.0 / 60)
	if got := c.View().Transform().Scale; got != step {
		t.Errorf("scale = %v, want %v", got, step)
	}
}

func TestInjectedEventsSkipPlatformInput(t *testing.T) {
	src := &countingSource{}
	c, err := NewController(Options{Engine: &recordingEngine{}, Allocator: PixmapAllocator{}, Input: src})
	if err != nil {
		t.Fatal(err)
	}
	c.InjectPress(0, 0, DeviceMouse)
	c.Update(1.0 / 60)
	if src.polls != 0 {
		t.Errorf("input polled %d times during injection", src.polls)
	}
	c.Update(1.0 / 60)
	if src.polls != 1 {
		t.Errorf("input polled %d times, want 1", src.polls)
	}
}

func TestProcessInjected_EmptyQueue(t *testing.T) {
	c, _ := newTestController(t, nil)
	if c.processInjected() {
		t.Error("processInjected should return false with an empty queue")
	}
}
