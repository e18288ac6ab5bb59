package viewer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/taigrr/spine/pkg/interact"
	"github.com/taigrr/spine/pkg/math3d"
	"github.com/taigrr/spine/pkg/models"
	"github.com/taigrr/spine/pkg/regions"
	"github.com/taigrr/spine/pkg/render"
	"github.com/taigrr/spine/pkg/spine"
)

type fakeContainer struct {
	mu        sync.Mutex
	w, h      int
	events    []interact.Selection
	detached  int
	presented int
	lastFB    *render.Framebuffer
}

func (c *fakeContainer) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w, c.h
}

func (c *fakeContainer) Dispatch(s interact.Selection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, s)
}

func (c *fakeContainer) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detached++
}

func (c *fakeContainer) setSize(w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w, c.h = w, h
}

type presentingContainer struct {
	fakeContainer
}

func (c *presentingContainer) Present(fb *render.Framebuffer, _ Overlay) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presented++
	c.lastFB = fb
	return nil
}

// idleClock never fires, so auto-rotate stays off after a drag.
type idleClock struct{}

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

func (idleClock) AfterFunc(time.Duration, func()) interact.Timer { return idleTimer{} }

func newTestViewer(t *testing.T) (*Viewer, *fakeContainer) {
	t.Helper()
	c := &fakeContainer{w: 160, h: 200}
	v := New(c, Options{Clock: idleClock{}})
	if v == nil {
		t.Fatal("New returned nil")
	}
	t.Cleanup(v.Destroy)
	return v, c
}

// screenPoint projects a model-space point to viewport pixels.
func screenPoint(t *testing.T, v *Viewer, p math3d.Vec3) (float64, float64) {
	t.Helper()
	world := v.Model().Root.WorldMatrix().MulVec3(p)
	w, h := v.fb.Width, v.fb.Height
	x, y, _, ok := v.Camera().WorldToScreen(world, w, h)
	if !ok {
		t.Fatalf("point %v not on screen", p)
	}
	return x, y
}

func TestNilContainer(t *testing.T) {
	v := New(nil, Options{})
	if v != nil {
		t.Fatal("New(nil) should return nil")
	}

	// Every method must be a silent no-op.
	v.Frame()
	v.Zoom(1)
	v.ResetView()
	v.SetAppearance(Appearance{})
	v.ToggleVolumes()
	v.Destroy()
	if err := v.Run(context.Background()); err != nil {
		t.Errorf("Run: %v", err)
	}
	if v.Controller() != nil || v.Model() != nil || v.Camera() != nil {
		t.Error("accessors should return nil")
	}
	if v.Stats() != (Stats{}) {
		t.Error("Stats should be zero")
	}
}

func TestLumbarClickDispatchesOnce(t *testing.T) {
	v, c := newTestViewer(t)
	v.Frame()

	vol, ok := v.Model().Volume(regions.Lumbar)
	if !ok {
		t.Fatal("no lumbar volume")
	}
	x, y := screenPoint(t, v, math3d.V3(0, (vol.MinY+vol.MaxY)/2, vol.CenterZ))

	if !v.Controller().Click(x, y) {
		t.Fatal("click on lumbar volume missed")
	}
	if len(c.events) != 1 {
		t.Fatalf("got %d selections, want 1", len(c.events))
	}
	sel := c.events[0]
	if sel.Key != regions.Lumbar {
		t.Errorf("key = %q, want lumbar", sel.Key)
	}
	if sel.Count != "5 vertebrae" {
		t.Errorf("count = %q, want 5 vertebrae", sel.Count)
	}
}

func TestClickOutsideModel(t *testing.T) {
	v, c := newTestViewer(t)
	v.Frame()
	if v.Controller().Click(1, 1) {
		t.Error("corner click should miss")
	}
	if len(c.events) != 0 {
		t.Errorf("got %d selections, want 0", len(c.events))
	}
}

func TestHoverHighlightsThroughViewer(t *testing.T) {
	v, _ := newTestViewer(t)
	v.Frame()

	vol, _ := v.Model().Volume(regions.Cervical)
	x, y := screenPoint(t, v, math3d.V3(0, (vol.MinY+vol.MaxY)/2, vol.CenterZ))
	v.Controller().PointerMove(x, y)

	if got := v.Controller().Hovered(); got != regions.Cervical {
		t.Fatalf("hovered = %q, want cervical", got)
	}
	for _, n := range v.Model().RegionMeshes(regions.Cervical) {
		if n.Material.EmissiveIntensity != interact.HighlightIntensity {
			t.Fatalf("%s not highlighted", n.Name)
		}
	}
	if got := v.Controller().Cursor(); got != interact.CursorPointer {
		t.Errorf("cursor = %v, want pointer", got)
	}
}

func TestFrameDrawsModel(t *testing.T) {
	v, _ := newTestViewer(t)
	v.Frame()

	bg := v.appearance.Background
	drawn := 0
	for _, p := range v.fb.Pixels {
		if p != bg {
			drawn++
		}
	}
	if drawn == 0 {
		t.Fatal("frame is empty")
	}
	if s := v.Stats(); s.Frames != 1 || s.Triangles == 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestFrameAppliesRotation(t *testing.T) {
	v, _ := newTestViewer(t)
	ctrl := v.Controller()
	ctrl.PointerDown(0, 0)
	ctrl.PointerMove(100, 0)
	ctrl.PointerUp()

	for range 200 {
		v.Frame()
	}
	rot := ctrl.Rotation()
	want := math3d.Euler{X: spine.BaseTilt + rot.Pitch, Y: rot.Yaw}
	if got := v.Model().Root.Rotation; got != want {
		t.Errorf("root rotation = %v, want %v", got, want)
	}
	if ctrl.AutoRotate() {
		t.Error("auto-rotate should stay off until the resume timer fires")
	}
}

func TestPassiveResize(t *testing.T) {
	v, c := newTestViewer(t)
	v.Frame()

	c.setSize(80, 60)
	v.Frame()
	if v.fb.Width != 80 || v.fb.Height != 60 {
		t.Errorf("framebuffer = %dx%d, want 80x60", v.fb.Width, v.fb.Height)
	}
	if got := v.Camera().AspectRatio; got != 80.0/60.0 {
		t.Errorf("aspect = %v", got)
	}

	c.setSize(0, 0)
	v.Frame()
	if v.fb != nil {
		t.Error("zero size should release the framebuffer")
	}
}

func TestDestroy(t *testing.T) {
	v, c := newTestViewer(t)
	v.Frame()

	v.Destroy()
	v.Destroy()
	if c.detached != 1 {
		t.Errorf("detached %d times, want 1", c.detached)
	}
	if !v.Destroyed() {
		t.Error("Destroyed = false")
	}
	if v.fb != nil || v.raster != nil {
		t.Error("framebuffer not released")
	}

	v.Frame()
	if v.Stats().Frames != 1 {
		t.Error("Frame drew after Destroy")
	}

	done := make(chan error, 1)
	go func() { done <- v.Run(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Destroy")
	}
}

func TestRunPresents(t *testing.T) {
	c := &presentingContainer{fakeContainer{w: 40, h: 40}}
	v := New(c, Options{FPS: 100, Clock: idleClock{}})
	defer v.Destroy()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if err := v.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.presented == 0 {
		t.Fatal("nothing presented")
	}
	if c.lastFB.Width != 40 {
		t.Errorf("presented width = %d", c.lastFB.Width)
	}
}

type failingPresenter struct {
	fakeContainer
}

var errPresent = errors.New("present failed")

func (*failingPresenter) Present(*render.Framebuffer, Overlay) error {
	return errPresent
}

func TestRunStopsOnPresentError(t *testing.T) {
	c := &failingPresenter{fakeContainer{w: 20, h: 20}}
	v := New(c, Options{FPS: 100})
	defer v.Destroy()

	if err := v.Run(context.Background()); !errors.Is(err, errPresent) {
		t.Errorf("Run err = %v, want %v", err, errPresent)
	}
}

func TestZoomSpring(t *testing.T) {
	z := newZoom(30, 20, 8, 40, 2)
	z.by(-100)
	if z.target != 8 {
		t.Fatalf("target = %v, want clamped 8", z.target)
	}
	var pos float64
	for range 300 {
		pos = z.update()
	}
	if pos < 7.99 || pos > 8.01 {
		t.Errorf("settled at %v, want 8", pos)
	}

	z.reset()
	if z.target != 20 {
		t.Errorf("reset target = %v", z.target)
	}
}

func TestViewerZoomMovesCamera(t *testing.T) {
	v, _ := newTestViewer(t)
	v.Zoom(2)
	for range 150 {
		v.Frame()
	}
	if got := v.Camera().Position.Z; got < DefaultDistance+3.9 || got > DefaultDistance+4.1 {
		t.Errorf("camera z = %v, want %v", got, DefaultDistance+4)
	}

	v.ResetView()
	for range 150 {
		v.Frame()
	}
	if got := v.Stats().Distance; got < DefaultDistance-0.1 || got > DefaultDistance+0.1 {
		t.Errorf("distance after reset = %v", got)
	}
}

func TestSurfaceOf(t *testing.T) {
	tests := []struct {
		name string
		mat  models.Material
		want float64
	}{
		{"opaque ignores opacity", models.Material{Opacity: 0.2}, 1},
		{"transparent", models.Material{Opacity: 0.45, Transparent: true}, 0.45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := surfaceOf(&tt.mat).Opacity; got != tt.want {
				t.Errorf("opacity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConcurrentInput(t *testing.T) {
	v, _ := newTestViewer(t)
	ctrl := v.Controller()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 200 {
			x := float64(i % 160)
			ctrl.PointerMove(x, 100)
			if i%50 == 0 {
				ctrl.Click(x, 100)
			}
		}
	}()
	for range 50 {
		v.Frame()
	}
	wg.Wait()
}

func BenchmarkFrame(b *testing.B) {
	v := New(&fakeContainer{w: 160, h: 100}, Options{})
	defer v.Destroy()
	for b.Loop() {
		v.Frame()
	}
}
