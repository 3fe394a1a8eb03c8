package inkview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Config holds the tunable behaviour of a Controller.
type Config struct {
	// InputMode is "auto", "pen" or "touch".
	InputMode string `toml:"input_mode" yaml:"input_mode" json:"input_mode"`
	// ScrollThreshold is the per-move distance in pixels a touch must exceed
	// on either axis to start scrolling.
	ScrollThreshold float64 `toml:"scroll_threshold" yaml:"scroll_threshold" json:"scroll_threshold"`
	// ScrollSpeed is the pan distance in pixels of one wheel notch.
	ScrollSpeed float64 `toml:"scroll_speed" yaml:"scroll_speed" json:"scroll_speed"`
	// ZoomStep is the scale factor of one zoom unit.
	ZoomStep float64 `toml:"zoom_step" yaml:"zoom_step" json:"zoom_step"`
	// MaxSurfaceSize bounds each dimension of an offscreen surface.
	MaxSurfaceSize int `toml:"max_surface_size" yaml:"max_surface_size" json:"max_surface_size"`

	Margins MarginConfig `toml:"margins" yaml:"margins" json:"margins"`
	Window  WindowConfig `toml:"window" yaml:"window" json:"window"`

	// LogLevel is "debug", "info", "warn" or "error". It applies to loggers
	// made with NewTextLogger and is re-applied on hot reload.
	LogLevel string `toml:"log_level" yaml:"log_level" json:"log_level"`
	// Debug enables per-frame statistics logging.
	Debug bool `toml:"debug" yaml:"debug" json:"debug"`
}

// MarginConfig sets the editing margins pushed to the ink engine, in view
// pixels. They are converted to millimetres using the display DPI.
type MarginConfig struct {
	VerticalPX   float64 `toml:"vertical_px" yaml:"vertical_px" json:"vertical_px"`
	HorizontalPX float64 `toml:"horizontal_px" yaml:"horizontal_px" json:"horizontal_px"`
}

// WindowConfig configures the window opened by Run.
type WindowConfig struct {
	Title  string `toml:"title" yaml:"title" json:"title"`
	Width  int    `toml:"width" yaml:"width" json:"width"`
	Height int    `toml:"height" yaml:"height" json:"height"`
	// ShowFPS draws the frame rate overlay.
	ShowFPS bool `toml:"show_fps" yaml:"show_fps" json:"show_fps"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		InputMode:       "auto",
		ScrollThreshold: defaultScrollThreshold,
		ScrollSpeed:     defaultScrollSpeed,
		ZoomStep:        defaultZoomStep,
		MaxSurfaceSize:  defaultMaxSurfaceSize,
		Margins: MarginConfig{
			VerticalPX:   60,
			HorizontalPX: 40,
		},
		Window: WindowConfig{
			Title:  "inkview",
			Width:  1024,
			Height: 768,
		},
		LogLevel: "info",
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if _, err := ParseInputMode(c.InputMode); err != nil {
		return err
	}
	if c.ScrollThreshold < 0 {
		return fmt.Errorf("scroll_threshold must be >= 0, got %v", c.ScrollThreshold)
	}
	if c.ScrollSpeed <= 0 {
		return fmt.Errorf("scroll_speed must be > 0, got %v", c.ScrollSpeed)
	}
	if c.ZoomStep <= 0 {
		return fmt.Errorf("zoom_step must be > 0, got %v", c.ZoomStep)
	}
	if c.MaxSurfaceSize <= 0 {
		return fmt.Errorf("max_surface_size must be > 0, got %d", c.MaxSurfaceSize)
	}
	if c.Margins.VerticalPX < 0 || c.Margins.HorizontalPX < 0 {
		return errors.New("margins must be >= 0")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// ParseInputMode converts a config string to an InputMode.
func ParseInputMode(s string) (InputMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return InputModeAuto, nil
	case "pen":
		return InputModePen, nil
	case "touch":
		return InputModeTouch, nil
	default:
		return InputModeAuto, fmt.Errorf("unknown input_mode %q", s)
	}
}

// LoadConfig reads a config file, choosing the format by extension. A missing
// file yields the defaults. The result is validated.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// ParseConfig decodes data over the defaults. Format is "toml", "json",
// "yaml" or "yml"; anything else tries each in turn.
func ParseConfig(data []byte, format string) (*Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(format) {
	case "toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultConfig()
		if err := json.Unmarshal(data, cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultConfig()
		if err := yaml.Unmarshal(data, cfg); err == nil {
			return cfg, nil
		}
		return nil, errors.New("unable to parse config (tried TOML, JSON, YAML)")
	}
	return cfg, nil
}

// SaveConfig writes cfg as TOML.
func SaveConfig(cfg *Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode TOML: %w", err)
	}
	return f.Close()
}

// ConfigWatcher reloads a config file when it changes on disk. Reloaded
// configs are delivered on Updates; the receiver applies them on its own
// goroutine, typically from the game loop via Controller.PollConfig.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan *Config
	errs    chan error
	cancel  context.CancelFunc
	done    chan struct{}
}

const configDebounce = 100 * time.Millisecond

// WatchConfig starts watching path. Close stops it.
func WatchConfig(path string) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are still seen.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cw := &ConfigWatcher{
		path:    path,
		watcher: w,
		updates: make(chan *Config, 1),
		errs:    make(chan error, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go cw.loop(ctx)
	return cw, nil
}

// Updates delivers each successfully reloaded config. Only the latest
// pending config is kept.
func (cw *ConfigWatcher) Updates() <-chan *Config { return cw.updates }

// Errors delivers reload and watch errors. Errors are dropped when the
// channel is full.
func (cw *ConfigWatcher) Errors() <-chan error { return cw.errs }

// Close stops watching and waits for the watch goroutine to exit.
func (cw *ConfigWatcher) Close() error {
	cw.cancel()
	err := cw.watcher.Close()
	<-cw.done
	return err
}

func (cw *ConfigWatcher) loop(ctx context.Context) {
	defer close(cw.done)
	var debounce *time.Timer
	var fire <-chan time.Time
	base := filepath.Base(cw.path)
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(configDebounce)
			} else {
				debounce.Reset(configDebounce)
			}
			fire = debounce.C
		case <-fire:
			fire = nil
			cw.reload()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.sendErr(err)
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		cw.sendErr(fmt.Errorf("reload config: %w", err))
		return
	}
	// Replace any config the receiver has not picked up yet.
	select {
	case <-cw.updates:
	default:
	}
	cw.updates <- cfg
}

func (cw *ConfigWatcher) sendErr(err error) {
	select {
	case cw.errs <- err:
	default:
	}
}
