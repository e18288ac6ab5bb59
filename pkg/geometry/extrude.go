package geometry

import (
	"github.com/taigrr/spine/pkg/math3d"
	"github.com/taigrr/spine/pkg/models"
)

// Extrude sweeps a closed 2D outline from z=0 to z=depth. A positive bevel
// adds an inset ring bevel units beyond each face, giving rounded edges. The
// outline should be convex or star-shaped around its centroid; the caps are
// fanned from it.
func Extrude(name string, shape []math3d.Vec2, depth, bevel float64) *models.Mesh {
	m := models.NewMesh(name)
	if len(shape) < 3 {
		return m
	}

	pts := counterClockwise(shape)
	c := centroid(pts)

	type layer struct {
		inset, z float64
	}
	layers := []layer{{0, 0}, {0, depth}}
	if bevel > 0 {
		layers = []layer{{bevel, -bevel}, {0, 0}, {0, depth}, {bevel, depth + bevel}}
	}

	n := len(pts)
	rings := make([][]int, len(layers))
	for li, l := range layers {
		rings[li] = make([]int, n)
		for k, p := range pts {
			q := insetToward(p, c, l.inset)
			rings[li][k] = m.AddVertex(math3d.V3(q.X, q.Y, l.z), math3d.Zero3(), math3d.V2(0, 0))
		}
	}

	for li := range len(layers) - 1 {
		lower, upper := rings[li], rings[li+1]
		for k := range n {
			next := (k + 1) % n
			m.AddQuad(lower[k], lower[next], upper[next], upper[k])
		}
	}

	m.CalculateSmoothNormals()

	// Caps get their own vertices so they shade flat.
	addCap(m, pts, c, layers[0].inset, layers[0].z, false)
	last := layers[len(layers)-1]
	addCap(m, pts, c, last.inset, last.z, true)

	m.CalculateBounds()
	return m
}

func addCap(m *models.Mesh, pts []math3d.Vec2, c math3d.Vec2, inset, z float64, front bool) {
	normal := math3d.V3(0, 0, -1)
	if front {
		normal = math3d.V3(0, 0, 1)
	}
	center := m.AddVertex(math3d.V3(c.X, c.Y, z), normal, math3d.V2(0.5, 0.5))
	ring := make([]int, len(pts))
	for k, p := range pts {
		q := insetToward(p, c, inset)
		ring[k] = m.AddVertex(math3d.V3(q.X, q.Y, z), normal, math3d.V2(0, 0))
	}
	for k := range ring {
		next := (k + 1) % len(ring)
		if front {
			m.AddFace(center, ring[k], ring[next])
		} else {
			m.AddFace(center, ring[next], ring[k])
		}
	}
}

func centroid(pts []math3d.Vec2) math3d.Vec2 {
	var sum math3d.Vec2
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(pts)))
}

// insetToward moves p toward c by d, never crossing 90% of the way.
func insetToward(p, c math3d.Vec2, d float64) math3d.Vec2 {
	if d == 0 {
		return p
	}
	dir := c.Sub(p)
	l := dir.Len()
	if l == 0 {
		return p
	}
	step := min(d, 0.9*l)
	return p.Add(dir.Scale(step / l))
}

func signedArea(pts []math3d.Vec2) float64 {
	var a float64
	for k, p := range pts {
		q := pts[(k+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

func counterClockwise(pts []math3d.Vec2) []math3d.Vec2 {
	out := make([]math3d.Vec2, len(pts))
	copy(out, pts)
	if signedArea(out) < 0 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
