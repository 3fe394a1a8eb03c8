package inkview

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// LayerPainter redraws a render layer. PaintLayer is called once per dirty
// region with dst already cleared inside region; drawing outside region is
// clipped away.
type LayerPainter interface {
	PaintLayer(dst *ebiten.Image, layer LayerMask, region image.Rectangle, view ViewTransform)
}

// RunConfig configures Run. Zero values fall back to the controller config.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// ConfigPath, when set, is watched and hot-reloaded into the controller.
	ConfigPath string
}

// Run opens a window and drives c until the window closes. The model layer is
// drawn below the capture layer; each is repainted only where it was
// invalidated.
func Run(c *Controller, painter LayerPainter, cfg RunConfig) error {
	wc := c.Config().Window
	if cfg.Title == "" {
		cfg.Title = wc.Title
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = wc.Width, wc.Height
	}
	cfg.ShowFPS = cfg.ShowFPS || wc.ShowFPS

	var watcher *ConfigWatcher
	if cfg.ConfigPath != "" {
		w, err := WatchConfig(cfg.ConfigPath)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		watcher = w
		defer watcher.Close()
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if c.input == nil {
		c.input = NewEbitenInput()
	}

	g := &runner{ctrl: c, painter: painter, watcher: watcher, showFPS: cfg.ShowFPS}
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return c.Close()
}

// runner is the ebiten.Game behind Run.
type runner struct {
	ctrl    *Controller
	painter LayerPainter
	watcher *ConfigWatcher
	showFPS bool

	model   *ebiten.Image
	capture *ebiten.Image
	w, h    int
}

func (r *runner) Update() error {
	if r.watcher != nil {
		r.ctrl.PollConfig(r.watcher)
	}
	r.ctrl.Update(float32(1.0 / float64(ebiten.TPS())))
	return nil
}

func (r *runner) Draw(screen *ebiten.Image) {
	if r.model != nil {
		view := r.ctrl.View().Transform()
		for _, region := range r.ctrl.Dirty().Flush() {
			dst := r.model
			if region.Layers == LayerCapture {
				dst = r.capture
			}
			rect := region.Rect()
			sub := dst.SubImage(rect).(*ebiten.Image)
			sub.Clear()
			if r.painter != nil {
				r.painter.PaintLayer(sub, region.Layers, rect, view)
			}
		}
		screen.DrawImage(r.model, nil)
		screen.DrawImage(r.capture, nil)
	}
	if r.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	r.ctrl.flushScreenshots(screen)
}

func (r *runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != r.w || outsideHeight != r.h {
		r.w, r.h = outsideWidth, outsideHeight
		r.resize()
	}
	return outsideWidth, outsideHeight
}

func (r *runner) resize() {
	first := r.model == nil
	if !first {
		r.model.Deallocate()
		r.capture.Deallocate()
	}
	r.model = ebiten.NewImage(r.w, r.h)
	r.capture = ebiten.NewImage(r.w, r.h)
	if err := r.ctrl.OnResize(r.w, r.h); err != nil {
		Logger().Warn("resize failed", "error", err)
	}
	if first {
		if err := r.ctrl.ResetView(false); err != nil {
			Logger().Warn("reset view failed", "error", err)
		}
	}
}
