package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/spine/internal/config"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		regionsYAML = false
		exportOriented = false
	})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("spine %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestRegionsList(t *testing.T) {
	out := execute(t, "regions")
	for _, want := range []string{"cervical", "Thoracic Spine", "5 vertebrae", "sacral"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRegionsDetailYAML(t *testing.T) {
	out := execute(t, "regions", "lumbar", "--yaml")
	if !strings.Contains(out, "key: lumbar") || !strings.Contains(out, "count: 5 vertebrae") {
		t.Errorf("unexpected yaml:\n%s", out)
	}
}

func TestExportGLB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spine.glb")
	out := execute(t, "export", path)
	if !strings.Contains(out, "Wrote") {
		t.Errorf("output = %q", out)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	for _, n := range doc.Nodes {
		if strings.Contains(n.Name, "hit-") {
			t.Errorf("indicator %q exported", n.Name)
		}
	}
}

func TestExportSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spine.stl")
	execute(t, "export", path)
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if (info.Size()-84)%50 != 0 {
		t.Errorf("size %d is not a whole number of facets", info.Size())
	}
}

func TestViewOptionsFromConfig(t *testing.T) {
	c := config.Default()
	c.View.Ambient = 0.5
	c.Camera.FOV = 90

	opts := viewOptions(c)
	if math.Abs(opts.FOV-math.Pi/2) > 1e-12 {
		t.Errorf("fov = %v, want pi/2", opts.FOV)
	}
	if opts.Light.Ambient != 0.5 {
		t.Errorf("ambient = %v", opts.Light.Ambient)
	}
	if opts.Background != c.View.Background.RGBA() {
		t.Errorf("background = %v", opts.Background)
	}
}
