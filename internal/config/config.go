package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds viewer tuning, output settings and service endpoints
type Config struct {
	// Measurement
	Units   string  `yaml:"units"`
	Density float32 `yaml:"density"`

	// Camera and input
	ZoomMin          float32 `yaml:"zoom_min"`
	ZoomMax          float32 `yaml:"zoom_max"`
	RotateSpeed      float32 `yaml:"rotate_speed"`
	WheelSpeed       float32 `yaml:"wheel_speed"`
	BurstFrames      int     `yaml:"burst_frames"`
	AutoRotateFrames int     `yaml:"auto_rotate_frames"` // negative disables
	AutoRotateStep   float32 `yaml:"auto_rotate_step"`

	// Rendering
	RenderSize  int `yaml:"render_size"`
	Supersample int `yaml:"supersample"`
	Workers     int `yaml:"workers"`

	// Services
	Services Services `yaml:"services"`
}

// Services holds the optional remote endpoints. Empty URLs disable a client.
type Services struct {
	SnapshotURL string        `yaml:"snapshot_url"`
	VisitURL    string        `yaml:"visit_url"`
	PriceURL    string        `yaml:"price_url"`
	Platform    string        `yaml:"platform"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Flags holds CLI flag values that override config file settings
type Flags struct {
	Units       string
	Density     float32
	RenderSize  int
	Supersample int
	Workers     int
	SnapshotURL string
}

// DefaultPath returns $XDG_CONFIG_HOME/stlvol/config.yaml or the platform
// equivalent
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "stlvol", "config.yaml")
}

// Load reads a YAML config file. A missing file yields an empty Config.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies CLI overrides and fills remaining zero fields with
// defaults. Flags take priority when non-zero.
func (c *Config) Resolve(flags Flags) {
	if flags.Units != "" {
		c.Units = flags.Units
	}
	if flags.Density > 0 {
		c.Density = flags.Density
	}
	if flags.RenderSize > 0 {
		c.RenderSize = flags.RenderSize
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.SnapshotURL != "" {
		c.Services.SnapshotURL = flags.SnapshotURL
	}

	if c.Units == "" {
		c.Units = "mm"
	}
	if c.Density <= 0 {
		c.Density = 0.8
	}
	if c.ZoomMin <= 0 {
		c.ZoomMin = 0.4
	}
	if c.ZoomMax <= c.ZoomMin {
		c.ZoomMax = max(4.0, c.ZoomMin)
	}
	if c.RotateSpeed <= 0 {
		c.RotateSpeed = 0.01
	}
	if c.WheelSpeed <= 0 {
		c.WheelSpeed = 0.0015
	}
	if c.BurstFrames <= 0 {
		c.BurstFrames = 30
	}
	if c.AutoRotateFrames < 0 {
		c.AutoRotateFrames = 0
	} else if c.AutoRotateFrames == 0 {
		c.AutoRotateFrames = 120
	}
	if c.AutoRotateStep <= 0 {
		c.AutoRotateStep = 0.015
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Services.Platform == "" {
		c.Services.Platform = "desktop"
	}
	if c.Services.Timeout <= 0 {
		c.Services.Timeout = 5 * time.Second
	}
}
