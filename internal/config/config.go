// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all settings.
type Config struct {
	View     ViewConfig     `yaml:"view"`
	Camera   CameraConfig   `yaml:"camera"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ViewConfig holds terminal viewer settings. This is the only section that
// is hot-reloaded.
type ViewConfig struct {
	FPS         int      `yaml:"fps"`
	Background  HexColor `yaml:"background"`
	ShowHUD     bool     `yaml:"show_hud"`
	ShowVolumes bool     `yaml:"show_volumes"` // outline hit volumes
	Ambient     float64  `yaml:"ambient"`
	Diffuse     float64  `yaml:"diffuse"`
}

// CameraConfig holds projection and zoom settings.
type CameraConfig struct {
	FOV         float64 `yaml:"fov"` // degrees
	Distance    float64 `yaml:"distance"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	ZoomStep    float64 `yaml:"zoom_step"`
}

// SnapshotConfig holds offscreen render settings.
type SnapshotConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	Supersample int `yaml:"supersample"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		View: ViewConfig{
			FPS:         30,
			Background:  HexColor{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff},
			ShowHUD:     true,
			ShowVolumes: false,
			Ambient:     0.35,
			Diffuse:     0.65,
		},
		Camera: CameraConfig{
			FOV:         45,
			Distance:    20,
			MinDistance: 8,
			MaxDistance: 40,
			ZoomStep:    2,
		},
		Snapshot: SnapshotConfig{
			Width:       800,
			Height:      1000,
			Supersample: 2,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate reports the first out-of-range value.
func (c *Config) Validate() error {
	switch {
	case c.View.FPS < 1 || c.View.FPS > 120:
		return fmt.Errorf("%w: view.fps %d not in [1, 120]", ErrInvalid, c.View.FPS)
	case c.View.Ambient < 0 || c.View.Diffuse < 0:
		return fmt.Errorf("%w: light terms must be non-negative", ErrInvalid)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: camera.fov %v not in (0, 180)", ErrInvalid, c.Camera.FOV)
	case c.Camera.MinDistance <= 0 || c.Camera.MinDistance > c.Camera.MaxDistance:
		return fmt.Errorf("%w: camera distance range [%v, %v]", ErrInvalid, c.Camera.MinDistance, c.Camera.MaxDistance)
	case c.Camera.Distance < c.Camera.MinDistance || c.Camera.Distance > c.Camera.MaxDistance:
		return fmt.Errorf("%w: camera.distance %v outside zoom range", ErrInvalid, c.Camera.Distance)
	case c.Snapshot.Width < 1 || c.Snapshot.Height < 1:
		return fmt.Errorf("%w: snapshot size %dx%d", ErrInvalid, c.Snapshot.Width, c.Snapshot.Height)
	case c.Snapshot.Supersample < 1 || c.Snapshot.Supersample > 8:
		return fmt.Errorf("%w: snapshot.supersample %d not in [1, 8]", ErrInvalid, c.Snapshot.Supersample)
	}
	return nil
}

// HexColor is an opaque RGB color written as "#rrggbb" in YAML.
type HexColor color.RGBA

// RGBA returns the color as color.RGBA.
func (h HexColor) RGBA() color.RGBA {
	return color.RGBA(h)
}

// String formats the color as #rrggbb.
func (h HexColor) String() string {
	return fmt.Sprintf("#%02x%02x%02x", h.R, h.G, h.B)
}

// ParseHexColor parses "#rrggbb" or "rrggbb".
func ParseHexColor(s string) (HexColor, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	if len(s) != 6 {
		return HexColor{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return HexColor{}, fmt.Errorf("color %q: %w", s, err)
	}
	return HexColor{R: r, G: g, B: b, A: 0xff}, nil
}

// MarshalYAML implements yaml.Marshaler.
func (h HexColor) MarshalYAML() (any, error) {
	return h.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *HexColor) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	c, err := ParseHexColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*h = c
	return nil
}
