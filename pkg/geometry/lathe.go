// Package geometry builds parametric triangle meshes: surfaces of revolution,
// bevelled extrusions and the simple solids derived from them.
package geometry

import (
	"math"

	"github.com/taigrr/spine/pkg/math3d"
	"github.com/taigrr/spine/pkg/models"
)

// Lathe revolves a profile around the Y axis. Profile points are (radius, y)
// pairs ordered from the bottom of the solid to the top; that order makes the
// faces wind outward. The seam column is duplicated so UVs wrap cleanly.
func Lathe(name string, profile []math3d.Vec2, segments int) *models.Mesh {
	m := models.NewMesh(name)
	n := len(profile)
	if n < 2 || segments < 3 {
		return m
	}

	for j := 0; j <= segments; j++ {
		u := float64(j) / float64(segments)
		phi := u * 2 * math.Pi
		sin, cos := math.Sin(phi), math.Cos(phi)
		for i, p := range profile {
			pos := math3d.V3(p.X*sin, p.Y, p.X*cos)
			m.AddVertex(pos, math3d.Zero3(), math3d.V2(u, float64(i)/float64(n-1)))
		}
	}

	for j := range segments {
		for i := range n - 1 {
			a := j*n + i
			b := (j+1)*n + i
			c := (j+1)*n + i + 1
			d := j*n + i + 1
			m.AddQuad(a, b, c, d)
		}
	}

	m.CalculateSmoothNormals()

	// Weld normals across the duplicated seam column. Pole vertices only
	// touch a degenerate triangle on one side of the seam.
	for i := range n {
		first := &m.Vertices[i]
		last := &m.Vertices[segments*n+i]
		welded := first.Normal.Add(last.Normal).Normalize()
		first.Normal, last.Normal = welded, welded
	}

	m.CalculateBounds()
	return m
}

// Cylinder builds a capped, possibly tapered cylinder centered on the origin
// with its axis along Y.
func Cylinder(name string, radiusTop, radiusBottom, height float64, segments int) *models.Mesh {
	h := height / 2
	// Rim points are doubled so caps and walls keep separate normals.
	profile := []math3d.Vec2{
		{X: 0, Y: -h},
		{X: radiusBottom, Y: -h},
		{X: radiusBottom, Y: -h},
		{X: radiusTop, Y: h},
		{X: radiusTop, Y: h},
		{X: 0, Y: h},
	}
	return Lathe(name, profile, segments)
}

// Sphere builds a UV sphere centered on the origin. Non-uniform node scale
// turns it into an ellipsoid.
func Sphere(name string, radius float64, widthSegments, heightSegments int) *models.Mesh {
	profile := make([]math3d.Vec2, heightSegments+1)
	for i := range profile {
		theta := float64(i) / float64(heightSegments) * math.Pi
		profile[i] = math3d.V2(radius*math.Sin(theta), -radius*math.Cos(theta))
	}
	return Lathe(name, profile, widthSegments)
}

// Torus builds a ring lying in the XZ plane around the Y axis.
func Torus(name string, radius, tube float64, radialSegments, tubularSegments int) *models.Mesh {
	profile := make([]math3d.Vec2, radialSegments+1)
	for i := range profile {
		a := float64(i) / float64(radialSegments) * 2 * math.Pi
		profile[i] = math3d.V2(radius+tube*math.Cos(a), tube*math.Sin(a))
	}
	return Lathe(name, profile, tubularSegments)
}

// Circle builds a flat disc in the XY plane facing +Z.
func Circle(name string, radius float64, segments int) *models.Mesh {
	m := models.NewMesh(name)
	normal := math3d.V3(0, 0, 1)
	center := m.AddVertex(math3d.Zero3(), normal, math3d.V2(0.5, 0.5))
	for j := 0; j <= segments; j++ {
		a := float64(j) / float64(segments) * 2 * math.Pi
		x, y := math.Cos(a), math.Sin(a)
		m.AddVertex(math3d.V3(x*radius, y*radius, 0), normal, math3d.V2((x+1)/2, (y+1)/2))
	}
	for j := 1; j <= segments; j++ {
		m.AddFace(center, j, j+1)
	}
	m.CalculateBounds()
	return m
}
