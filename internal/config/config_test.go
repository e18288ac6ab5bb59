package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.View.FPS != 30 {
		t.Errorf("expected fps 30, got %d", cfg.View.FPS)
	}
	if !cfg.View.ShowHUD {
		t.Error("expected HUD on by default")
	}
	if cfg.View.Background.String() != "#0f172a" {
		t.Errorf("expected background #0f172a, got %s", cfg.View.Background)
	}
	if cfg.Camera.Distance != 20 {
		t.Errorf("expected distance 20, got %v", cfg.Camera.Distance)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "spine.yaml")
	yamlContent := `
view:
  fps: 60
  background: "#000000"
camera:
  fov: 35
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.View.FPS != 60 {
		t.Errorf("expected fps 60, got %d", cfg.View.FPS)
	}
	if cfg.View.Background.RGBA() != (HexColor{A: 0xff}).RGBA() {
		t.Errorf("expected black background, got %s", cfg.View.Background)
	}
	if cfg.Camera.FOV != 35 {
		t.Errorf("expected fov 35, got %v", cfg.Camera.FOV)
	}
	// Unset keys keep their defaults.
	if !cfg.View.ShowHUD {
		t.Error("show_hud default lost during merge")
	}
	if cfg.Camera.Distance != 20 {
		t.Errorf("distance default lost: %v", cfg.Camera.Distance)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"bad color", "view:\n  background: teal\n", false},
		{"fps out of range", "view:\n  fps: 0\n", true},
		{"distance outside zoom", "camera:\n  distance: 100\n", true},
		{"supersample too large", "snapshot:\n  supersample: 32\n", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrInvalid); got != tc.invalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v (%v)", got, tc.invalid, err)
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected ErrNotExist, got %v", err)
		}
	})
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.View.Background = HexColor{R: 0x12, G: 0x34, B: 0x56, A: 0xff}
	cfg.View.ShowVolumes = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "#123456") {
		t.Errorf("background not written as hex:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.View != cfg.View {
		t.Errorf("view = %+v, want %+v", loaded.View, cfg.View)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#60a5fa", "#60a5fa", true},
		{"F472B6", "#f472b6", true},
		{" #000000 ", "#000000", true},
		{"#fff", "", false},
		{"#gggggg", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			c, err := ParseHexColor(tc.in)
			if (err == nil) != tc.ok {
				t.Fatalf("err = %v, want ok=%v", err, tc.ok)
			}
			if tc.ok && c.String() != tc.want {
				t.Errorf("got %s, want %s", c, tc.want)
			}
		})
	}
}

func TestConfigDirXDG(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG only applies on other unix systems")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got, want := ConfigDir(), filepath.Join("/tmp/xdg", "spine"); got != want {
		t.Errorf("ConfigDir() = %s, want %s", got, want)
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spine.yaml")
	if err := os.WriteFile(path, []byte("view:\n  fps: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := make(chan *Config, 4)
	w, err := Watch(path, 20*time.Millisecond, nil, func(c *Config) { got <- c })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("view:\n  fps: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-got:
		if cfg.View.FPS != 12 {
			t.Errorf("reloaded fps = %d, want 12", cfg.View.FPS)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatchCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spine.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := Watch(path, DefaultDebounce, nil, func(*Config) {})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
