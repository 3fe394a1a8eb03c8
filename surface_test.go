package inkview

import (
	"errors"
	"image"
	"path/filepath"
	"testing"
)

type failingAllocator struct{}

func (failingAllocator) Allocate(int, int, bool) (SurfaceBuffer, error) {
	return nil, errors.New("out of video memory")
}

// countingAllocator wraps PixmapAllocator and records frees.
type countingAllocator struct {
	freed int
}

type countingBuffer struct {
	SurfaceBuffer
	owner *countingAllocator
}

func (b *countingBuffer) Free() {
	b.owner.freed++
	b.SurfaceBuffer.Free()
}

func (a *countingAllocator) Allocate(w, h int, alpha bool) (SurfaceBuffer, error) {
	buf, err := PixmapAllocator{}.Allocate(w, h, alpha)
	if err != nil {
		return nil, err
	}
	return &countingBuffer{SurfaceBuffer: buf, owner: a}, nil
}

func TestSurfaceCreateReleaseLifecycle(t *testing.T) {
	p := NewSurfacePool(PixmapAllocator{}, 0)

	h, err := p.Create(64, 64, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s, err := p.Get(h)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Width != 64 || s.Height != 64 || s.HasAlpha {
		t.Errorf("surface = %+v", s)
	}
	if s.Buffer().Bounds() != image.Rect(0, 0, 64, 64) {
		t.Errorf("buffer bounds = %v", s.Buffer().Bounds())
	}

	if err := p.Release(h); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := p.Get(h); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("Get after release: err = %v, want ErrResourceNotFound", err)
	}
	err = p.Release(h)
	if !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("second Release: err = %v, want ErrResourceNotFound", err)
	}
	var nf *ResourceNotFoundError
	if !errors.As(err, &nf) || nf.Handle != h {
		t.Errorf("error should carry handle %d, got %v", h, err)
	}
}

func TestSurfaceHandlesNeverReused(t *testing.T) {
	p := NewSurfacePool(PixmapAllocator{}, 0)
	seen := map[SurfaceHandle]bool{}
	var last SurfaceHandle
	for i := 0; i < 5; i++ {
		h, err := p.Create(8, 8, true)
		if err != nil {
			t.Fatal(err)
		}
		if seen[h] {
			t.Fatalf("handle %d reused", h)
		}
		if i > 0 && h <= last {
			t.Fatalf("handle %d not greater than %d", h, last)
		}
		seen[h] = true
		last = h
		if err := p.Release(h); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSurfaceAllocationErrors(t *testing.T) {
	p := NewSurfacePool(PixmapAllocator{}, 128)
	sizes := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 10},
		{"negative height", 10, -1},
		{"too wide", 129, 10},
		{"too tall", 10, 4096},
	}
	for _, tt := range sizes {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Create(tt.w, tt.h, true)
			if !errors.Is(err, ErrAllocation) {
				t.Errorf("Create(%d, %d): err = %v, want ErrAllocation", tt.w, tt.h, err)
			}
		})
	}
	if p.Len() != 0 {
		t.Errorf("Len = %d after failed creates, want 0", p.Len())
	}
}

func TestSurfaceBackendFailure(t *testing.T) {
	p := NewSurfacePool(failingAllocator{}, 0)
	_, err := p.Create(32, 32, true)
	var ae *AllocationError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *AllocationError", err)
	}
	if ae.Width != 32 || ae.Height != 32 || ae.Err == nil {
		t.Errorf("AllocationError = %+v", ae)
	}

	// A failed allocation must not consume a handle.
	p.alloc = PixmapAllocator{}
	h, err := p.Create(1, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if h != 0 {
		t.Errorf("first successful handle = %d, want 0", h)
	}
}

func TestSurfacePoolCloseFreesAll(t *testing.T) {
	alloc := &countingAllocator{}
	p := NewSurfacePool(alloc, 0)
	for i := 0; i < 3; i++ {
		if _, err := p.Create(4, 4, true); err != nil {
			t.Fatal(err)
		}
	}
	p.Close()
	if p.Len() != 0 {
		t.Errorf("Len = %d after Close, want 0", p.Len())
	}
	if alloc.freed != 3 {
		t.Errorf("freed = %d, want 3", alloc.freed)
	}
	h, err := p.Create(4, 4, true)
	if err != nil {
		t.Fatal(err)
	}
	if h != 3 {
		t.Errorf("handle after Close = %d, want 3", h)
	}
}

func TestDrawSession(t *testing.T) {
	p := NewSurfacePool(PixmapAllocator{}, 0)
	h, _ := p.Create(16, 16, true)

	ds, err := p.BeginDraw(h)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Surface().Handle != h {
		t.Errorf("session surface = %d, want %d", ds.Surface().Handle, h)
	}
	ds.Close()
	ds.Close()
	if !ds.Closed() {
		t.Error("session should be closed")
	}

	if _, err := p.BeginDraw(h + 10); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("BeginDraw unknown: err = %v", err)
	}
}

func TestPixmapSurfaceAccessors(t *testing.T) {
	p := NewSurfacePool(PixmapAllocator{}, 0)
	h, _ := p.Create(10, 5, false)
	s, _ := p.Get(h)
	if s.Pixmap() == nil {
		t.Fatal("Pixmap() = nil for pixmap-backed surface")
	}
	if s.Image() != nil {
		t.Error("Image() should be nil for pixmap-backed surface")
	}
	// Surfaces without alpha start opaque.
	if c := s.Pixmap().GetPixel(0, 0); c.A != 1 {
		t.Errorf("alpha = %v, want 1", c.A)
	}

	path := filepath.Join(t.TempDir(), "surface.png")
	if err := s.SavePNG(path); err != nil {
		t.Errorf("SavePNG: %v", err)
	}
}
