// Package interact turns pointer and touch input into spine rotation,
// region hover highlighting and click selection.
package interact

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/spine/pkg/math3d"
	"github.com/taigrr/spine/pkg/regions"
)

// Interaction tuning.
const (
	YawPerPixel    = 0.008
	PitchPerPixel  = 0.004
	PitchLimit     = 0.6
	Damping        = 0.06
	AutoRotateStep = 0.003 // Yaw added per frame while idle
	ResumeDelay    = 3000 * time.Millisecond
)

// Picker maps a normalized device coordinate (-1..1, Y up) to the region
// whose hit volume it falls on.
type Picker interface {
	Pick(ndcX, ndcY float64) (regions.Key, bool)
}

// Rotation is a two-axis orientation in radians.
type Rotation struct {
	Pitch float64
	Yaw   float64
}

// Touch is one active touch point in viewport pixels.
type Touch struct {
	X, Y float64
}

// Options configures a Controller. Zero values select defaults.
type Options struct {
	Highlighter *Highlighter
	Dispatcher  Dispatcher
	Clock       Clock
	Logger      *zap.Logger
	InitialYaw  float64
	Width       float64
	Height      float64
}

// Controller owns the interaction state for one spine view. Its methods
// are safe to call from an input goroutine while another goroutine calls
// Tick, and the resume timer fires on its own goroutine.
type Controller struct {
	mu sync.Mutex

	picker    Picker
	highlight *Highlighter
	dispatch  Dispatcher
	clock     Clock
	log       *zap.Logger

	initialYaw float64
	current    Rotation
	target     Rotation

	dragging   bool
	autoRotate bool
	lastX      float64
	lastY      float64
	pointer    math3d.Vec2 // NDC
	pointerX   float64     // Viewport pixels
	pointerY   float64
	width      float64
	height     float64

	hovered regions.Key
	tooltip *Tooltip

	resume     Timer
	generation uint64
	closed     bool
}

// New creates a controller. Auto-rotation starts enabled.
func New(picker Picker, opts Options) *Controller {
	c := &Controller{
		picker:     picker,
		highlight:  opts.Highlighter,
		dispatch:   opts.Dispatcher,
		clock:      opts.Clock,
		log:        opts.Logger,
		initialYaw: opts.InitialYaw,
		current:    Rotation{Yaw: opts.InitialYaw},
		target:     Rotation{Yaw: opts.InitialYaw},
		autoRotate: true,
		width:      opts.Width,
		height:     opts.Height,
	}
	if c.clock == nil {
		c.clock = WallClock()
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// PointerDown starts a drag.
func (c *Controller) PointerDown(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.dragging = true
	c.autoRotate = false
	c.cancelResumeLocked()
	c.lastX, c.lastY = x, y
}

// PointerMove updates hover state and, while dragging, the rotation
// target.
func (c *Controller) PointerMove(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.updatePointerLocked(x, y)
	c.hoverLocked()

	if !c.dragging {
		return
	}
	dx := x - c.lastX
	dy := y - c.lastY
	c.target.Yaw += dx * YawPerPixel
	c.target.Pitch = math3d.Clamp(c.target.Pitch+dy*PitchPerPixel, -PitchLimit, PitchLimit)
	c.lastX, c.lastY = x, y
}

// PointerUp ends a drag and schedules auto-rotation to resume.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.dragging {
		return
	}

	c.dragging = false
	c.scheduleResumeLocked()
}

// PointerLeave clears hover state when the pointer exits the viewport.
func (c *Controller) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.setHoverLocked("")
}

// TouchStart mirrors PointerDown for a single touch.
func (c *Controller) TouchStart(touches []Touch) {
	if len(touches) != 1 {
		return
	}
	c.PointerDown(touches[0].X, touches[0].Y)
}

// TouchMove mirrors PointerMove for a single touch.
func (c *Controller) TouchMove(touches []Touch) {
	if len(touches) != 1 {
		return
	}
	c.PointerMove(touches[0].X, touches[0].Y)
}

// TouchEnd mirrors PointerUp.
func (c *Controller) TouchEnd() {
	c.PointerUp()
}

// Click selects the region under (x, y), if any, and dispatches it. It
// reports whether a region was hit.
func (c *Controller) Click(x, y float64) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.updatePointerLocked(x, y)
	key, ok := c.pickLocked()
	dispatch := c.dispatch
	c.mu.Unlock()

	if !ok {
		return false
	}
	r, ok := regions.Lookup(key)
	if !ok {
		return false
	}
	c.log.Info("region selected", zap.String("region", string(key)))
	if dispatch != nil {
		dispatch.Dispatch(NewSelection(r))
	}
	return true
}

// Tick advances one frame: auto-rotation, then damping toward the target.
// It returns the rotation to draw with.
func (c *Controller) Tick() Rotation {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.autoRotate {
		c.target.Yaw += AutoRotateStep
	}
	c.current.Pitch += (c.target.Pitch - c.current.Pitch) * Damping
	c.current.Yaw += (c.target.Yaw - c.current.Yaw) * Damping
	return c.current
}

// Resize records the viewport size used to normalize pointer positions.
func (c *Controller) Resize(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width, c.height = width, height
}

// Reset returns the rotation target to the initial view.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = Rotation{Yaw: c.initialYaw}
}

// Close cancels the pending resume timer and ignores further input.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.cancelResumeLocked()
	c.setHoverLocked("")
	c.closed = true
}

// Rotation returns the current (smoothed) rotation.
func (c *Controller) Rotation() Rotation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Target returns the rotation being eased toward.
func (c *Controller) Target() Rotation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// AutoRotate reports whether idle rotation is active.
func (c *Controller) AutoRotate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoRotate
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

// Hovered returns the hovered region, or "" when none is.
func (c *Controller) Hovered() regions.Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hovered
}

// Pointer returns the last pointer position in normalized device
// coordinates.
func (c *Controller) Pointer() math3d.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pointer
}

// Tooltip returns a copy of the tooltip. ok is false until the first
// hover creates it.
func (c *Controller) Tooltip() (t Tooltip, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tooltip == nil {
		return Tooltip{}, false
	}
	return *c.tooltip, true
}

// Cursor returns the affordance for the current state. Dragging wins
// over hovering.
func (c *Controller) Cursor() Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.dragging:
		return CursorGrabbing
	case c.hovered != "":
		return CursorPointer
	}
	return CursorGrab
}

func (c *Controller) updatePointerLocked(x, y float64) {
	c.pointerX, c.pointerY = x, y
	if c.tooltip != nil {
		c.tooltip.X, c.tooltip.Y = x, y
	}
	if c.width <= 0 || c.height <= 0 {
		return
	}
	c.pointer = math3d.V2(2*x/c.width-1, 1-2*y/c.height)
}

func (c *Controller) pickLocked() (regions.Key, bool) {
	if c.picker == nil || c.width <= 0 || c.height <= 0 {
		return "", false
	}
	return c.picker.Pick(c.pointer.X, c.pointer.Y)
}

func (c *Controller) hoverLocked() {
	key, ok := c.pickLocked()
	if !ok {
		key = ""
	}
	c.setHoverLocked(key)
}

func (c *Controller) setHoverLocked(key regions.Key) {
	if key == c.hovered {
		return
	}

	if c.hovered != "" {
		if c.highlight != nil {
			c.highlight.Restore()
		}
		if c.tooltip != nil {
			c.tooltip.hide()
		}
		c.log.Debug("hover exit", zap.String("region", string(c.hovered)))
	}

	c.hovered = key
	if key == "" {
		return
	}

	r, ok := regions.Lookup(key)
	if !ok {
		c.hovered = ""
		return
	}
	if c.highlight != nil {
		c.highlight.Highlight(key)
	}
	if c.tooltip == nil {
		c.tooltip = &Tooltip{}
	}
	c.tooltip.show(r)
	c.tooltip.X, c.tooltip.Y = c.pointerX, c.pointerY
	c.log.Debug("hover enter", zap.String("region", string(key)))
}

func (c *Controller) cancelResumeLocked() {
	if c.resume != nil {
		c.resume.Stop()
		c.resume = nil
	}
	c.generation++
}

func (c *Controller) scheduleResumeLocked() {
	c.cancelResumeLocked()
	gen := c.generation
	c.resume = c.clock.AfterFunc(ResumeDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || gen != c.generation || c.dragging {
			return
		}
		c.autoRotate = true
		c.resume = nil
		c.log.Debug("auto-rotate resumed")
	})
}
