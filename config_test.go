package inkview

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3.0, cfg.ScrollThreshold)
	assert.Equal(t, 100.0, cfg.ScrollSpeed)
	assert.Equal(t, 1.10, cfg.ZoomStep)
	assert.Equal(t, 60.0, cfg.Margins.VerticalPX)
	assert.Equal(t, 40.0, cfg.Margins.HorizontalPX)
}

func TestLoadConfigFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"inkview.toml": "input_mode = \"pen\"\nscroll_speed = 50.0\n\n[margins]\nvertical_px = 30.0\n",
		"inkview.json": `{"input_mode": "pen", "scroll_speed": 50, "margins": {"vertical_px": 30}}`,
		"inkview.yaml": "input_mode: pen\nscroll_speed: 50\nmargins:\n  vertical_px: 30\n",
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			cfg, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, "pen", cfg.InputMode)
			assert.Equal(t, 50.0, cfg.ScrollSpeed)
			assert.Equal(t, 30.0, cfg.Margins.VerticalPX)
			// Unset fields keep their defaults.
			assert.Equal(t, 40.0, cfg.Margins.HorizontalPX)
			assert.Equal(t, 1.10, cfg.ZoomStep)
		})
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("zoom_step = -1.0\n"), 0o644))
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "zoom_step")
}

func TestParseConfigAutoDetect(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"debug": true}`), "")
	require.NoError(t, err)
	assert.True(t, cfg.Debug)

	_, err = ParseConfig([]byte("{{{ not a config"), "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"input mode", func(c *Config) { c.InputMode = "stylus" }},
		{"threshold", func(c *Config) { c.ScrollThreshold = -1 }},
		{"scroll speed", func(c *Config) { c.ScrollSpeed = 0 }},
		{"surface size", func(c *Config) { c.MaxSurfaceSize = 0 }},
		{"margins", func(c *Config) { c.Margins.HorizontalPX = -2 }},
		{"window", func(c *Config) { c.Window.Width = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseInputMode(t *testing.T) {
	for in, want := range map[string]InputMode{
		"":      InputModeAuto,
		"AUTO":  InputModeAuto,
		"pen":   InputModePen,
		"Touch": InputModeTouch,
	} {
		got, err := ParseInputMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseInputMode("mouse")
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.toml")
	cfg := DefaultConfig()
	cfg.InputMode = "touch"
	cfg.Window.ShowFPS = true
	require.NoError(t, SaveConfig(cfg, path))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConfigWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.toml")
	require.NoError(t, os.WriteFile(path, []byte("scroll_speed = 10.0\n"), 0o644))

	w, err := WatchConfig(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("scroll_speed = 25.0\n"), 0o644))

	select {
	case cfg := <-w.Updates():
		assert.Equal(t, 25.0, cfg.ScrollSpeed)
	case err := <-w.Errors():
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
