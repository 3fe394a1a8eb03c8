package inkview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
)

// SurfaceHandle identifies an offscreen surface. Handles increase
// monotonically and are never reused.
type SurfaceHandle uint32

// defaultMaxSurfaceSize bounds either dimension of a surface.
const defaultMaxSurfaceSize = 16384

// opaqueWhite initializes surfaces created without an alpha channel.
var opaqueWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// SurfaceBuffer is the backing pixel storage of an offscreen surface.
type SurfaceBuffer interface {
	Bounds() image.Rectangle
	// Free releases the backing storage. The buffer must not be used after.
	Free()
}

// SurfaceAllocator creates backing buffers for the pool.
type SurfaceAllocator interface {
	Allocate(width, height int, alpha bool) (SurfaceBuffer, error)
}

// OffscreenSurface is a fixed-size pixel surface owned by a SurfacePool.
type OffscreenSurface struct {
	Handle   SurfaceHandle
	Width    int
	Height   int
	HasAlpha bool

	buf SurfaceBuffer
}

// Buffer returns the backing storage.
func (s *OffscreenSurface) Buffer() SurfaceBuffer {
	return s.buf
}

// Image returns the backing *ebiten.Image, or nil when the surface was not
// allocated by an EbitenAllocator.
func (s *OffscreenSurface) Image() *ebiten.Image {
	if b, ok := s.buf.(*ebitenBuffer); ok {
		return b.img
	}
	return nil
}

// Pixmap returns the backing *gg.Pixmap, or nil when the surface was not
// allocated by a PixmapAllocator.
func (s *OffscreenSurface) Pixmap() *gg.Pixmap {
	if b, ok := s.buf.(*pixmapBuffer); ok {
		return b.pm
	}
	return nil
}

// SurfacePool allocates, indexes, and releases offscreen surfaces by handle.
//
// A drawing session opened with BeginDraw must be closed by the caller before
// another is opened against the same surface. The pool keeps no reference
// counts and does not enforce this.
type SurfacePool struct {
	alloc    SurfaceAllocator
	maxSize  int
	next     SurfaceHandle
	surfaces map[SurfaceHandle]*OffscreenSurface
}

// NewSurfacePool creates a pool backed by alloc. A maxSize of zero uses the
// default bound.
func NewSurfacePool(alloc SurfaceAllocator, maxSize int) *SurfacePool {
	if maxSize <= 0 {
		maxSize = defaultMaxSurfaceSize
	}
	return &SurfacePool{
		alloc:    alloc,
		maxSize:  maxSize,
		surfaces: make(map[SurfaceHandle]*OffscreenSurface),
	}
}

// Create allocates a surface and returns its handle. It fails with an
// *AllocationError when the size is out of range or the backend fails.
func (p *SurfacePool) Create(width, height int, alpha bool) (SurfaceHandle, error) {
	if width <= 0 || height <= 0 || width > p.maxSize || height > p.maxSize {
		return 0, &AllocationError{
			Width: width, Height: height,
			Err: fmt.Errorf("size out of range (max %d)", p.maxSize),
		}
	}
	buf, err := p.alloc.Allocate(width, height, alpha)
	if err != nil {
		return 0, &AllocationError{Width: width, Height: height, Err: err}
	}
	h := p.next
	p.next++
	p.surfaces[h] = &OffscreenSurface{
		Handle: h, Width: width, Height: height, HasAlpha: alpha,
		buf: buf,
	}
	Logger().Debug("offscreen surface created", "handle", h, "width", width, "height", height, "alpha", alpha)
	return h, nil
}

// Get returns the surface for h or a *ResourceNotFoundError.
func (p *SurfacePool) Get(h SurfaceHandle) (*OffscreenSurface, error) {
	s, ok := p.surfaces[h]
	if !ok {
		return nil, &ResourceNotFoundError{Handle: h}
	}
	return s, nil
}

// Release removes h and frees its backing storage. Releasing an unknown or
// already released handle is an error.
func (p *SurfacePool) Release(h SurfaceHandle) error {
	s, ok := p.surfaces[h]
	if !ok {
		return &ResourceNotFoundError{Handle: h}
	}
	delete(p.surfaces, h)
	s.buf.Free()
	s.buf = nil
	Logger().Debug("offscreen surface released", "handle", h)
	return nil
}

// Len returns the number of live surfaces.
func (p *SurfacePool) Len() int {
	return len(p.surfaces)
}

// Close releases every live surface. Handles are not reset, so handles
// created afterwards still never collide with earlier ones.
func (p *SurfacePool) Close() {
	for h, s := range p.surfaces {
		s.buf.Free()
		delete(p.surfaces, h)
	}
}

// DrawSession is an open drawing pass against one surface.
type DrawSession struct {
	surface *OffscreenSurface
	closed  bool
}

// BeginDraw opens a drawing session on h.
func (p *SurfacePool) BeginDraw(h SurfaceHandle) (*DrawSession, error) {
	s, err := p.Get(h)
	if err != nil {
		return nil, err
	}
	return &DrawSession{surface: s}, nil
}

// Surface returns the surface being drawn.
func (d *DrawSession) Surface() *OffscreenSurface {
	return d.surface
}

// Close ends the session. It is safe to call more than once.
func (d *DrawSession) Close() {
	d.closed = true
}

// Closed reports whether Close has been called.
func (d *DrawSession) Closed() bool {
	return d.closed
}

// SavePNG writes the surface contents to path. Only pixmap-backed surfaces
// can be read back without a running game loop.
func (s *OffscreenSurface) SavePNG(path string) error {
	pm := s.Pixmap()
	if pm == nil {
		return errors.New("save png: surface is not pixmap-backed")
	}
	return writePNG(path, pm.ToImage())
}

func writePNG(path string, img image.Image) error {
	if err := imaging.Save(img, path, imaging.PNGCompressionLevel(png.BestSpeed)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// --- ebiten backend ---

// EbitenAllocator allocates unmanaged *ebiten.Image surfaces.
type EbitenAllocator struct{}

func (EbitenAllocator) Allocate(width, height int, alpha bool) (SurfaceBuffer, error) {
	img := ebiten.NewImageWithOptions(
		image.Rect(0, 0, width, height),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
	if !alpha {
		img.Fill(opaqueWhite)
	}
	return &ebitenBuffer{img: img}, nil
}

type ebitenBuffer struct {
	img *ebiten.Image
}

func (b *ebitenBuffer) Bounds() image.Rectangle { return b.img.Bounds() }

func (b *ebitenBuffer) Free() {
	if b.img != nil {
		b.img.Deallocate()
		b.img = nil
	}
}

// --- software backend ---

// PixmapAllocator allocates CPU-side *gg.Pixmap surfaces. It needs no
// graphics device and is used for tests and headless rendering.
type PixmapAllocator struct{}

func (PixmapAllocator) Allocate(width, height int, alpha bool) (SurfaceBuffer, error) {
	pm := gg.NewPixmap(width, height)
	if !alpha {
		pm.Clear(gg.White)
	}
	return &pixmapBuffer{pm: pm}, nil
}

type pixmapBuffer struct {
	pm *gg.Pixmap
}

func (b *pixmapBuffer) Bounds() image.Rectangle { return b.pm.Bounds() }

func (b *pixmapBuffer) Free() { b.pm = nil }
