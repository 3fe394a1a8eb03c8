package inkview

import (
	"errors"
	"fmt"
)

// DisplayInfo describes the physical display the view is shown on.
type DisplayInfo struct {
	// RawDPIX and RawDPIY are the physical dots per inch. Zero means the
	// display did not report its size.
	RawDPIX, RawDPIY float64
	// RawPixelsPerViewPixel is the device scale factor, or zero if unknown.
	RawPixelsPerViewPixel float64
	// ResolutionScale is the scale in percent (e.g. 150), or zero if unknown.
	ResolutionScale float64
}

// fallbackDPI is used when the display reports no physical size.
const fallbackDPI = 96

// resolve returns the pixel density and the DPI in view pixels.
func (d DisplayInfo) resolve() (density, dpiX, dpiY float64) {
	density = 1
	switch {
	case d.RawPixelsPerViewPixel > 0:
		density = d.RawPixelsPerViewPixel
	case d.ResolutionScale > 0:
		density = d.ResolutionScale / 100
	}
	dpiX, dpiY = d.RawDPIX/density, d.RawDPIY/density
	if dpiX == 0 || dpiY == 0 {
		dpiX, dpiY = fallbackDPI, fallbackDPI
	}
	return density, dpiX, dpiY
}

// Configurator is the numeric configuration store of the ink engine.
type Configurator interface {
	SetNumber(key string, value float64) error
}

// PointerSource feeds platform pointer input into a Controller once per
// frame. EbitenInput is the stock implementation.
type PointerSource interface {
	Poll(c *Controller)
}

// Options configures NewController. Engine is required.
type Options struct {
	Engine  InkEngine
	Content ContentSource
	// Clamp defaults to NoClamp.
	Clamp ClampPolicy
	// Allocator defaults to EbitenAllocator.
	Allocator SurfaceAllocator
	// Clock defaults to SystemClock.
	Clock Clock
	// Input is polled from Update when no injected event is pending.
	Input   PointerSource
	Display DisplayInfo
	// Config defaults to DefaultConfig.
	Config *Config

	Width, Height int
}

// Controller is the host-facing canvas controller. It routes pointer input
// through the gesture disambiguator, owns the view transform, the dirty
// tracker and the offscreen surface pool, and must be used from a single
// goroutine.
type Controller struct {
	cfg     *Config
	engine  InkEngine
	content ContentSource
	clock   Clock
	input   PointerSource

	dirty   *DirtyTracker
	view    *ViewManager
	gesture *Gesture
	pool    *SurfacePool

	density, dpiX, dpiY float64

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	debug           bool
	stats           frameStats
	injectQueue     []syntheticEvent
	testRunner      *TestRunner
	screenshotQueue []string
	closed          bool
}

// NewController wires the components together.
func NewController(opts Options) (*Controller, error) {
	if opts.Engine == nil {
		return nil, errors.New("inkview: Options.Engine is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("inkview: invalid config: %w", err)
	}
	alloc := opts.Allocator
	if alloc == nil {
		alloc = EbitenAllocator{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock()
	}

	c := &Controller{
		engine:        opts.Engine,
		content:       opts.Content,
		clock:         clock,
		input:         opts.Input,
		dirty:         NewDirtyTracker(opts.Width, opts.Height),
		ScreenshotDir: "screenshots",
	}
	c.density, c.dpiX, c.dpiY = opts.Display.resolve()
	c.view = NewViewManager(opts.Content, opts.Clamp, c.dirty)
	c.gesture = NewGesture(opts.Engine, c.view, opts.Content, NewTimeBase(clock))
	c.pool = NewSurfacePool(alloc, cfg.MaxSurfaceSize)
	c.dirty.OnInvalidate(func(r DirtyRegion) {
		if r.Full {
			c.stats.fullInvalidations++
		} else {
			c.stats.rectInvalidations++
		}
	})
	if err := c.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	Logger().Debug("controller created",
		"width", opts.Width, "height", opts.Height,
		"density", c.density, "dpi_x", c.dpiX, "dpi_y", c.dpiY)
	return c, nil
}

// ApplyConfig validates cfg and applies it. Surface size limits only affect
// surfaces created afterwards.
func (c *Controller) ApplyConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("inkview: invalid config: %w", err)
	}
	mode, _ := ParseInputMode(cfg.InputMode)
	c.gesture.SetInputMode(mode)
	c.gesture.SetScrollThreshold(cfg.ScrollThreshold)
	c.gesture.SetScrollSpeed(cfg.ScrollSpeed)
	if err := c.view.SetZoomStep(cfg.ZoomStep); err != nil {
		return err
	}
	c.pool.maxSize = cfg.MaxSurfaceSize
	c.debug = cfg.Debug
	c.cfg = cfg
	return nil
}

// PollConfig applies a config reloaded by w, if one is pending, including its
// log level. Invalid configs and watch errors are logged and otherwise
// ignored.
func (c *Controller) PollConfig(w *ConfigWatcher) {
	select {
	case cfg := <-w.Updates():
		if err := c.ApplyConfig(cfg); err != nil {
			Logger().Warn("config reload rejected", "error", err)
			return
		}
		SetLogLevel(cfg.LogLevel)
		Logger().Info("config reloaded", "log_level", cfg.LogLevel)
	case err := <-w.Errors():
		Logger().Warn("config watch", "error", err)
	default:
	}
}

// Config returns the active configuration.
func (c *Controller) Config() *Config { return c.cfg }

// View returns the view transform manager.
func (c *Controller) View() *ViewManager { return c.view }

// Gesture returns the pointer gesture disambiguator.
func (c *Controller) Gesture() *Gesture { return c.gesture }

// Dirty returns the dirty-region tracker.
func (c *Controller) Dirty() *DirtyTracker { return c.dirty }

// Surfaces returns the offscreen surface pool.
func (c *Controller) Surfaces() *SurfacePool { return c.pool }

// SetEventStore sets the optional ECS bridge for gesture events.
func (c *Controller) SetEventStore(store EventStore) { c.gesture.SetEventStore(store) }

// SetDebugMode enables per-frame statistics logging at debug level.
func (c *Controller) SetDebugMode(enabled bool) { c.debug = enabled }

// --- Invalidation ---

// Invalidate marks the given layers for a full redraw.
func (c *Controller) Invalidate(layers LayerMask) {
	c.dirty.Invalidate(layers)
}

// InvalidateRect marks a region of the given layers for redraw. A negative
// height is ignored.
func (c *Controller) InvalidateRect(x, y, width, height float64, layers LayerMask) {
	c.dirty.InvalidateRect(x, y, width, height, layers)
}

// OnResize updates the viewport, tells content implementing ViewSizer about
// the new size and schedules a full redraw.
func (c *Controller) OnResize(width, height int) error {
	c.dirty.Resize(width, height)
	c.view.SetViewport(float64(width), float64(height))
	c.dirty.Invalidate(LayerAll)
	if vs, ok := c.content.(ViewSizer); ok {
		if err := vs.SetViewSize(width, height); err != nil {
			return fmt.Errorf("set view size: %w", err)
		}
	}
	return nil
}

// --- View ---

// ResetView returns the view to its initial position. It does nothing when
// no content is loaded.
func (c *Controller) ResetView(force bool) error {
	if err := c.view.Reset(force); err != nil && !errors.Is(err, ErrNoContent) {
		return err
	}
	return nil
}

// ZoomIn scales the view up by delta zoom steps, linearly.
func (c *Controller) ZoomIn(delta uint) error { return c.view.ZoomIn(delta) }

// ZoomOut scales the view down by delta zoom steps, linearly.
func (c *Controller) ZoomOut(delta uint) error { return c.view.ZoomOut(delta) }

// --- Offscreen surfaces ---

// SupportsOffscreenRendering reports whether offscreen surfaces can be
// created. It is always true.
func (c *Controller) SupportsOffscreenRendering() bool { return true }

// CreateOffscreenSurface allocates a surface and returns its handle.
func (c *Controller) CreateOffscreenSurface(width, height int, alpha bool) (SurfaceHandle, error) {
	return c.pool.Create(width, height, alpha)
}

// ReleaseOffscreenSurface frees a surface. Releasing twice is an error.
func (c *Controller) ReleaseOffscreenSurface(h SurfaceHandle) error {
	return c.pool.Release(h)
}

// OffscreenSurface returns the surface registered under h.
func (c *Controller) OffscreenSurface(h SurfaceHandle) (*OffscreenSurface, error) {
	return c.pool.Get(h)
}

// BeginOffscreenDraw opens a drawing session on h. Close it before opening
// another on the same surface.
func (c *Controller) BeginOffscreenDraw(h SurfaceHandle) (*DrawSession, error) {
	return c.pool.BeginDraw(h)
}

// --- Display ---

// PixelDensity returns physical pixels per view pixel.
func (c *Controller) PixelDensity() float64 { return c.density }

// DPI returns the horizontal and vertical dots per inch in view pixels.
func (c *Controller) DPI() (x, y float64) { return c.dpiX, c.dpiY }

// Margin keys pushed by ConfigureMargins.
var (
	verticalMarginKeys   = []string{"text.margin.top", "math.margin.top", "math.margin.bottom"}
	horizontalMarginKeys = []string{"text.margin.left", "text.margin.right", "math.margin.left", "math.margin.right"}
)

// ConfigureMargins converts the configured pixel margins to millimetres at
// the display DPI and pushes them to the engine configuration.
func (c *Controller) ConfigureMargins(conf Configurator) error {
	vertical := pxToMM(c.cfg.Margins.VerticalPX, c.dpiY)
	horizontal := pxToMM(c.cfg.Margins.HorizontalPX, c.dpiX)
	for _, k := range verticalMarginKeys {
		if err := conf.SetNumber(k, vertical); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	for _, k := range horizontalMarginKeys {
		if err := conf.SetNumber(k, horizontal); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}

func pxToMM(px, dpi float64) float64 {
	return 25.4 * px / dpi
}

// --- Pointer input ---

// PointerDown forwards a press to the gesture disambiguator.
func (c *Controller) PointerDown(e PointerEvent) error {
	c.stats.pointerEvents++
	return c.gesture.PointerDown(e)
}

// PointerMoved forwards a move to the gesture disambiguator.
func (c *Controller) PointerMoved(e PointerEvent) error {
	c.stats.pointerEvents++
	return c.gesture.PointerMoved(e)
}

// PointerUp forwards a release to the gesture disambiguator.
func (c *Controller) PointerUp(e PointerEvent) error {
	c.stats.pointerEvents++
	return c.gesture.PointerUp(e)
}

// PointerCanceled forwards a platform cancellation.
func (c *Controller) PointerCanceled(e PointerEvent) error {
	c.stats.pointerEvents++
	return c.gesture.PointerCanceled(e)
}

// PointerWheel forwards a wheel event.
func (c *Controller) PointerWheel(w WheelEvent) error {
	c.stats.wheelEvents++
	return c.gesture.PointerWheel(w)
}

// CancelSampling aborts the active pointer session, if any.
func (c *Controller) CancelSampling() error {
	return c.gesture.CancelSampling()
}

// --- Frame loop ---

// Update advances one frame: the test runner, one injected event or the
// platform input, then the scroll animation.
func (c *Controller) Update(dt float32) {
	if c.closed {
		return
	}
	if c.testRunner != nil {
		c.testRunner.step(c)
	}
	if !c.processInjected() && c.input != nil {
		c.input.Poll(c)
	}
	c.view.Update(dt)
	c.debugLog()
}

// Close aborts any active session and releases every offscreen surface.
func (c *Controller) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.gesture.CancelSampling()
	c.pool.Close()
	return err
}

// report logs a pointer entry point error. Platform input has no caller to
// return errors to.
func report(op string, err error) {
	if err != nil {
		Logger().Warn(op+" failed", "error", err)
	}
}
