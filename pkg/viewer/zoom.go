package viewer

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/spine/pkg/math3d"
)

// zoom eases the camera distance toward its target with a critically
// damped spring.
type zoom struct {
	spring   harmonica.Spring
	pos      float64
	vel      float64
	target   float64
	initial  float64
	min, max float64
	step     float64
}

func newZoom(fps int, distance, min, max, step float64) zoom {
	return zoom{
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		pos:     distance,
		target:  distance,
		initial: distance,
		min:     min,
		max:     max,
		step:    step,
	}
}

func (z *zoom) by(steps float64) {
	z.target = math3d.Clamp(z.target+steps*z.step, z.min, z.max)
}

func (z *zoom) reset() {
	z.target = z.initial
}

// update advances one frame and returns the distance to draw with.
func (z *zoom) update() float64 {
	z.pos, z.vel = z.spring.Update(z.pos, z.vel, z.target)
	return z.pos
}
