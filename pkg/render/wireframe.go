package render

import (
	"github.com/taigrr/spine/pkg/math3d"
)

// Wireframe draws mesh edges without depth testing. The viewer uses it to
// outline the invisible hit volumes when debugging picks.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// DrawLine3D draws a line in 3D space.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, _, vis1 := w.camera.WorldToScreen(p1, w.fb.Width, w.fb.Height)
	x2, y2, _, vis2 := w.camera.WorldToScreen(p2, w.fb.Width, w.fb.Height)

	// Only draw if both endpoints project; no line clipping.
	if !vis1 || !vis2 {
		return
	}
	w.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), color)
}

// DrawMesh outlines every triangle edge of mesh.
func (w *Wireframe) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)
		var p [3]math3d.Vec3
		for k := range 3 {
			local, _, _ := mesh.GetVertex(face[k])
			p[k] = transform.MulVec3(local)
		}
		w.DrawLine3D(p[0], p[1], color)
		w.DrawLine3D(p[1], p[2], color)
		w.DrawLine3D(p[2], p[0], color)
	}
}
