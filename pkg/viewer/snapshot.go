package viewer

import (
	"errors"
	"image"

	"go.uber.org/zap"

	"github.com/taigrr/spine/pkg/export"
	"github.com/taigrr/spine/pkg/interact"
	"github.com/taigrr/spine/pkg/math3d"
	"github.com/taigrr/spine/pkg/regions"
	"github.com/taigrr/spine/pkg/render"
	"github.com/taigrr/spine/pkg/spine"
)

// ErrInvalidSize is returned for snapshots without a positive size.
var ErrInvalidSize = errors.New("invalid snapshot size")

// SnapshotOptions configures an offscreen render.
type SnapshotOptions struct {
	Appearance

	Width, Height int
	Supersample   int // Render at this multiple, then downscale
	FOV           float64
	Distance      float64
	Pitch, Yaw    float64
	Highlight     regions.Key // Region drawn as if hovered; "" for none
	Logger        *zap.Logger
}

// Snapshot renders the spine once without a container.
func Snapshot(o SnapshotOptions) (*image.RGBA, error) {
	if o.Width <= 0 || o.Height <= 0 {
		return nil, ErrInvalidSize
	}
	if o.Supersample < 1 {
		o.Supersample = 1
	}
	d := DefaultOptions()
	if o.Background == (render.Color{}) {
		o.Background = d.Background
	}
	if o.Light == (render.Light{}) {
		o.Light = d.Light
	}
	if o.FOV <= 0 {
		o.FOV = d.FOV
	}
	if o.Distance <= 0 {
		o.Distance = d.Distance
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	model := spine.Assemble(spine.WithLogger(o.Logger.Named("spine")))
	if o.Highlight != "" {
		key, err := regions.ParseKey(string(o.Highlight))
		if err != nil {
			return nil, err
		}
		interact.NewHighlighter(model).Highlight(key)
	}
	model.SetRotation(o.Pitch, o.Yaw)

	w, h := o.Width*o.Supersample, o.Height*o.Supersample
	cam := render.NewCamera()
	cam.SetFOV(o.FOV)
	cam.SetAspectRatio(float64(w) / float64(h))
	cam.SetPosition(math3d.V3(0, 0, o.Distance))

	fb := render.NewFramebuffer(w, h)
	fb.Clear(o.Background)
	r := render.NewRasterizer(cam, fb)
	r.Light = o.Light
	r.ClearDepth()

	tris := drawScene(r, render.NewWireframe(cam, fb), cam, model.Root, o.ShowVolumes)
	o.Logger.Debug("snapshot rendered",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("triangles", tris),
		zap.String("highlight", string(o.Highlight)),
	)

	return export.Downsample(fb.ToImage(), o.Width, o.Height), nil
}
