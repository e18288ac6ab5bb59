// Package viewer runs the spine model as an interactive view: it owns the
// camera, framebuffer and rasterizer, feeds input to the interaction
// controller and redraws at a fixed frame rate. A Container hosts the view
// and receives region selections.
package viewer

import (
	"context"
	"image/color"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/spine/pkg/interact"
	"github.com/taigrr/spine/pkg/math3d"
	"github.com/taigrr/spine/pkg/regions"
	"github.com/taigrr/spine/pkg/render"
	"github.com/taigrr/spine/pkg/spine"
)

// Container hosts a viewer. Size is the drawable area in framebuffer
// pixels; it is polled every frame, so resizing is passive.
type Container interface {
	Size() (width, height int)
	Dispatch(interact.Selection)
	Detach()
}

// Presenter is implemented by containers that display frames. Run calls
// Present after every frame.
type Presenter interface {
	Present(fb *render.Framebuffer, o Overlay) error
}

// Overlay is the interaction state a presenter draws over the frame.
type Overlay struct {
	Tooltip    interact.Tooltip // Visible is false when hidden
	Cursor     interact.Cursor
	Hovered    regions.Key
	AutoRotate bool
	Stats      Stats
}

// Stats describes the most recent frame.
type Stats struct {
	FPS       float64
	Frames    uint64
	Triangles int
	Culled    int
	Distance  float64
}

// Appearance holds the settings that may change while the view runs.
type Appearance struct {
	Background  color.RGBA
	Light       render.Light
	ShowVolumes bool // Outline the hit volumes
}

// Options configures a Viewer. Zero values select defaults.
type Options struct {
	Appearance

	FPS         int
	FOV         float64 // Radians
	Distance    float64
	MinDistance float64
	MaxDistance float64
	ZoomStep    float64

	Clock  interact.Clock
	Logger *zap.Logger
}

// Default view settings.
const (
	DefaultFPS         = 30
	DefaultFOV         = math.Pi / 4
	DefaultDistance    = 20.0
	DefaultMinDistance = 8.0
	DefaultMaxDistance = 40.0
	DefaultZoomStep    = 2.0
)

// DefaultOptions returns the settings New falls back to.
func DefaultOptions() Options {
	return Options{
		Appearance: Appearance{
			Background: render.ColorBackdrop,
			Light:      render.DefaultLight(),
		},
		FPS:         DefaultFPS,
		FOV:         DefaultFOV,
		Distance:    DefaultDistance,
		MinDistance: DefaultMinDistance,
		MaxDistance: DefaultMaxDistance,
		ZoomStep:    DefaultZoomStep,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Background == (color.RGBA{}) {
		o.Background = d.Background
	}
	if o.Light == (render.Light{}) {
		o.Light = d.Light
	}
	if o.FPS <= 0 {
		o.FPS = d.FPS
	}
	if o.FOV <= 0 {
		o.FOV = d.FOV
	}
	if o.MinDistance <= 0 {
		o.MinDistance = d.MinDistance
	}
	if o.MaxDistance <= 0 {
		o.MaxDistance = d.MaxDistance
	}
	if o.MinDistance > o.MaxDistance {
		o.MinDistance, o.MaxDistance = o.MaxDistance, o.MinDistance
	}
	if o.Distance <= 0 {
		o.Distance = d.Distance
	}
	o.Distance = math3d.Clamp(o.Distance, o.MinDistance, o.MaxDistance)
	if o.ZoomStep <= 0 {
		o.ZoomStep = d.ZoomStep
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Viewer renders one spine model into a container. A nil *Viewer is
// inert: every method is a no-op.
type Viewer struct {
	container  Container
	controller *interact.Controller
	log        *zap.Logger
	opts       Options

	// mu guards everything below, plus the model's transforms and
	// materials. Lock order: controller, then mu.
	mu         sync.Mutex
	model      *spine.Model
	camera     *render.Camera
	fb         *render.Framebuffer
	raster     *render.Rasterizer
	wire       *render.Wireframe
	appearance Appearance
	zoom       zoom
	stats      Stats
	fpsFrames  int
	fpsTime    time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// New builds the spine model and attaches a view of it to container. A
// nil container yields a nil Viewer.
func New(container Container, opts Options) *Viewer {
	if container == nil {
		return nil
	}
	opts = opts.withDefaults()

	v := &Viewer{
		container:  container,
		log:        opts.Logger,
		opts:       opts,
		appearance: opts.Appearance,
		zoom:       newZoom(opts.FPS, opts.Distance, opts.MinDistance, opts.MaxDistance, opts.ZoomStep),
		fpsTime:    time.Now(),
		done:       make(chan struct{}),
	}
	v.model = spine.Assemble(spine.WithLogger(opts.Logger.Named("spine")))

	v.camera = render.NewCamera()
	v.camera.SetFOV(opts.FOV)
	v.camera.SetClipPlanes(0.1, opts.MaxDistance*3)
	v.camera.SetPosition(math3d.V3(0, 0, opts.Distance))

	width, height := container.Size()
	v.resizeLocked(width, height)

	v.controller = interact.New(picker{v}, interact.Options{
		Highlighter: interact.NewHighlighter(v.model).WithLock(&v.mu),
		Dispatcher:  container,
		Clock:       opts.Clock,
		Logger:      opts.Logger.Named("interact"),
		InitialYaw:  spine.InitialYaw,
		Width:       float64(width),
		Height:      float64(height),
	})

	v.log.Info("viewer created", zap.Int("width", width), zap.Int("height", height), zap.Int("fps", opts.FPS))
	return v
}

// picker casts camera rays against the model's hit volumes.
type picker struct {
	v *Viewer
}

func (p picker) Pick(ndcX, ndcY float64) (regions.Key, bool) {
	p.v.mu.Lock()
	defer p.v.mu.Unlock()
	return p.v.model.Pick(p.v.camera.Ray(ndcX, ndcY))
}

// Controller returns the interaction controller that input is fed to.
func (v *Viewer) Controller() *interact.Controller {
	if v == nil {
		return nil
	}
	return v.controller
}

// Model returns the rendered spine.
func (v *Viewer) Model() *spine.Model {
	if v == nil {
		return nil
	}
	return v.model
}

// Camera returns the view camera.
func (v *Viewer) Camera() *render.Camera {
	if v == nil {
		return nil
	}
	return v.camera
}

// Destroyed reports whether Destroy has been called.
func (v *Viewer) Destroyed() bool {
	if v == nil {
		return true
	}
	select {
	case <-v.done:
		return true
	default:
		return false
	}
}

// Frame advances and draws one frame: controller tick, rotation, clear,
// opaque meshes, then translucent meshes.
func (v *Viewer) Frame() {
	if v.Destroyed() {
		return
	}

	width, height := v.container.Size()
	v.mu.Lock()
	var resized bool
	if v.fb == nil {
		resized = width > 0 && height > 0
	} else {
		resized = v.fb.Width != width || v.fb.Height != height
	}
	if resized && !v.Destroyed() {
		v.resizeLocked(width, height)
	}
	v.mu.Unlock()
	if resized {
		v.controller.Resize(float64(width), float64(height))
	}

	rot := v.controller.Tick()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.raster == nil {
		return
	}

	dist := v.zoom.update()
	if v.camera.Position.Z != dist {
		v.camera.SetPosition(math3d.V3(0, 0, dist))
		v.raster.InvalidateFrustum()
	}

	v.model.SetRotation(rot.Pitch, rot.Yaw)

	v.fb.Clear(v.appearance.Background)
	v.raster.ClearDepth()
	v.raster.ResetCullingStats()
	v.raster.Light = v.appearance.Light

	v.stats.Triangles = drawScene(v.raster, v.wire, v.camera, v.model.Root, v.appearance.ShowVolumes)
	v.stats.Culled = v.raster.CullingStats.MeshesCulled
	v.stats.Distance = dist
	v.stats.Frames++

	v.fpsFrames++
	if elapsed := time.Since(v.fpsTime); elapsed >= time.Second {
		v.stats.FPS = float64(v.fpsFrames) / elapsed.Seconds()
		v.fpsFrames = 0
		v.fpsTime = time.Now()
	}
}

// resizeLocked reallocates the framebuffer. Non-positive sizes release it.
func (v *Viewer) resizeLocked(width, height int) {
	if width <= 0 || height <= 0 {
		v.fb, v.raster, v.wire = nil, nil, nil
		return
	}
	v.fb = render.NewFramebuffer(width, height)
	v.raster = render.NewRasterizer(v.camera, v.fb)
	v.raster.Light = v.appearance.Light
	v.wire = render.NewWireframe(v.camera, v.fb)
	v.camera.SetAspectRatio(float64(width) / float64(height))
}

// Run draws frames at the configured rate until ctx is done or Destroy
// is called. Containers that implement Presenter are shown each frame.
func (v *Viewer) Run(ctx context.Context) error {
	if v == nil {
		return nil
	}
	presenter, _ := v.container.(Presenter)

	ticker := time.NewTicker(time.Second / time.Duration(v.opts.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-v.done:
			return nil
		case <-ticker.C:
		}

		v.Frame()
		if presenter == nil {
			continue
		}
		if err := v.present(presenter); err != nil {
			return err
		}
	}
}

func (v *Viewer) present(p Presenter) error {
	o := v.overlay()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.fb == nil {
		return nil
	}
	o.Stats = v.stats
	return p.Present(v.fb, o)
}

// overlay reads controller state. It must not run under mu.
func (v *Viewer) overlay() Overlay {
	c := v.controller
	o := Overlay{
		Cursor:     c.Cursor(),
		Hovered:    c.Hovered(),
		AutoRotate: c.AutoRotate(),
	}
	if t, ok := c.Tooltip(); ok {
		o.Tooltip = t
	}
	return o
}

// Stats returns figures for the last frame.
func (v *Viewer) Stats() Stats {
	if v == nil {
		return Stats{}
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats
}

// Zoom moves the zoom target by steps; positive steps move away.
func (v *Viewer) Zoom(steps float64) {
	if v == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.zoom.by(steps)
}

// ResetView returns rotation and zoom to their initial values.
func (v *Viewer) ResetView() {
	if v == nil {
		return
	}
	v.controller.Reset()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.zoom.reset()
}

// SetAppearance replaces the background, light and volume overlay from
// the next frame on.
func (v *Viewer) SetAppearance(a Appearance) {
	if v == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.appearance = a
	v.log.Debug("appearance updated", zap.Bool("volumes", a.ShowVolumes))
}

// ToggleVolumes flips the hit-volume outline and returns the new state.
func (v *Viewer) ToggleVolumes() bool {
	if v == nil {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.appearance.ShowVolumes = !v.appearance.ShowVolumes
	return v.appearance.ShowVolumes
}

// Destroy stops Run, cancels the pending auto-rotate resume, releases
// the framebuffer and detaches from the container. It is idempotent.
func (v *Viewer) Destroy() {
	if v == nil {
		return
	}
	v.stopOnce.Do(func() {
		close(v.done)
		v.controller.Close()

		v.mu.Lock()
		v.fb, v.raster, v.wire = nil, nil, nil
		v.mu.Unlock()

		v.container.Detach()
		v.log.Info("viewer destroyed")
	})
}
