package inkview

import "testing"

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-scroll", "after-scroll"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.Screenshot("a")
	c.Screenshot("b")
	c.Screenshot("c")
	if c.PendingScreenshots() != 3 {
		t.Fatalf("queue len = %d, want 3", c.PendingScreenshots())
	}
	if c.screenshotQueue[0] != "a" || c.screenshotQueue[1] != "b" || c.screenshotQueue[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", c.screenshotQueue)
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	c, _ := newTestController(t, nil)
	if c.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want %q", c.ScreenshotDir, "screenshots")
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 255, // opaque red
		64, 32, 0, 128, // half-transparent
		0, 0, 0, 0, // transparent
	}
	img := unpremultiply(pixels, 3, 1)

	if got := img.NRGBAAt(0, 0); got.R != 255 || got.A != 255 {
		t.Errorf("opaque pixel = %+v", got)
	}
	if got := img.NRGBAAt(1, 0); got.R != 127 || got.G != 63 || got.B != 0 || got.A != 128 {
		t.Errorf("translucent pixel = %+v, want {127 63 0 128}", got)
	}
	if got := img.NRGBAAt(2, 0); got.A != 0 {
		t.Errorf("transparent pixel = %+v", got)
	}
}
