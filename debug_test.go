package inkview

import (
	"bytes"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(NewTextLogger(&buf, "debug"))
	t.Cleanup(func() {
		SetLogger(nil)
		SetLogLevel("info")
	})
	return &buf
}

func TestDebugLogReportsFrameStats(t *testing.T) {
	buf := captureLogs(t)
	c, _ := newTestController(t, &fakeContent{loaded: true})
	c.SetDebugMode(true)

	if err := c.PointerDown(press(1, DevicePen, 5, 5)); err != nil {
		t.Fatal(err)
	}
	c.InvalidateRect(0, 0, 10, 10, LayerCapture)
	buf.Reset()
	c.Update(1.0 / 60)

	out := buf.String()
	for _, want := range []string{"msg=frame", "pointer_events=1", "rect_invalidations=1", "gesture=undecided"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug log missing %q:\n%s", want, out)
		}
	}
	if c.stats != (frameStats{}) {
		t.Errorf("stats not reset: %+v", c.stats)
	}
}

func TestDebugLogQuietFrames(t *testing.T) {
	buf := captureLogs(t)
	c, _ := newTestController(t, nil)
	c.SetDebugMode(true)
	buf.Reset()

	c.Update(1.0 / 60)
	if strings.Contains(buf.String(), "msg=frame") {
		t.Errorf("idle frame should not be logged:\n%s", buf.String())
	}
}

func TestReleaseModeNoFrameLog(t *testing.T) {
	buf := captureLogs(t)
	c, _ := newTestController(t, nil)
	c.Invalidate(LayerAll)
	buf.Reset()

	c.Update(1.0 / 60)
	if strings.Contains(buf.String(), "msg=frame") {
		t.Errorf("frame stats logged without debug mode:\n%s", buf.String())
	}
	if c.stats != (frameStats{}) {
		t.Error("stats should still be reset each frame")
	}
}

func TestDebugSurfaceCountWarning(t *testing.T) {
	buf := captureLogs(t)
	p := NewSurfacePool(PixmapAllocator{}, 0)
	for i := 0; i <= debugMaxSurfaces; i++ {
		if _, err := p.Create(1, 1, true); err != nil {
			t.Fatal(err)
		}
	}
	buf.Reset()

	debugCheckSurfaceCount(p)
	if !strings.Contains(buf.String(), "many live offscreen surfaces") {
		t.Errorf("expected surface count warning, got:\n%s", buf.String())
	}
}

func TestDebugSurfaceCountUnderThreshold(t *testing.T) {
	buf := captureLogs(t)
	p := NewSurfacePool(PixmapAllocator{}, 0)
	if _, err := p.Create(1, 1, true); err != nil {
		t.Fatal(err)
	}
	buf.Reset()

	debugCheckSurfaceCount(p)
	if buf.Len() != 0 {
		t.Errorf("unexpected warning:\n%s", buf.String())
	}
}
