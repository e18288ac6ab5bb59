package render

import (
	"math"

	"github.com/taigrr/spine/pkg/math3d"
)

// Vertex represents a world-space vertex ready for rasterization.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// Surface is the per-draw shading input: base color, glow and coverage.
type Surface struct {
	Color             Color
	Emissive          Color
	EmissiveIntensity float64
	Opacity           float64 // 1 = opaque; below 1 blends without writing depth
}

// Opaque reports whether the surface writes depth.
func (s Surface) Opaque() bool {
	return s.Opacity >= 1
}

// Light is a key light plus a dimmer fill from the opposite side.
type Light struct {
	Direction    math3d.Vec3 // toward the key light
	Ambient      float64
	Diffuse      float64
	Fill         math3d.Vec3 // toward the fill light
	FillStrength float64
}

// DefaultLight returns the studio lighting used by the viewer.
func DefaultLight() Light {
	return Light{
		Direction:    math3d.V3(0.5, 0.8, 0.6).Normalize(),
		Ambient:      0.35,
		Diffuse:      0.65,
		Fill:         math3d.V3(-0.6, -0.2, -0.5).Normalize(),
		FillStrength: 0.25,
	}
}

func (l Light) intensity(n math3d.Vec3) float64 {
	i := l.Ambient + l.Diffuse*math.Max(0, n.Dot(l.Direction)) + l.FillStrength*math.Max(0, n.Dot(l.Fill))
	return math.Min(i, 1.2)
}

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	camera       *Camera
	fb           *Framebuffer
	zbuffer      []float64    // Depth buffer (1D array, row-major)
	frustum      Frustum      // Cached frustum planes
	frustumDirty bool         // Whether frustum needs recalculation
	CullingStats CullingStats // Statistics for debugging/benchmarking
	Light        Light
}

// CullingStats tracks frustum culling performance.
type CullingStats struct {
	MeshesTested int // Total meshes tested for culling
	MeshesCulled int // Meshes culled (not rendered)
	MeshesDrawn  int // Meshes that passed culling
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:       camera,
		fb:           fb,
		frustumDirty: true,
		Light:        DefaultLight(),
	}
	r.Resize()
	return r
}

// Resize resizes the rasterizer's buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// InvalidateFrustum marks the frustum as needing recalculation.
// Call this when the camera moves.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumDirty = true
}

// UpdateFrustum recalculates the frustum planes from the camera.
func (r *Rasterizer) UpdateFrustum() {
	if r.frustumDirty {
		r.frustum = NewFrustumFromMatrix(r.camera.ViewProjectionMatrix())
		r.frustumDirty = false
	}
}

// ResetCullingStats resets the culling statistics (call once per frame).
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// IsVisible tests if a world-space AABB is visible in the frustum.
func (r *Rasterizer) IsVisible(worldBounds AABB) bool {
	r.UpdateFrustum()
	return r.frustum.IntersectAABB(worldBounds)
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y      float64 // Screen coordinates
	Z         float64 // Depth (for Z-buffer)
	W         float64
	Intensity float64
}

// edgeCoeffs returns A, B, C for edge(x,y) = A*x + B*y + C.
// Positive = left of edge, negative = right of edge, zero = on edge.
func edgeCoeffs(x0, y0, x1, y1 float64) (a, b, c float64) {
	a = y0 - y1
	b = x1 - x0
	c = x0*y1 - x1*y0
	return
}

// DrawTriangle rasterizes a Gouraud-lit triangle. Both faces are drawn;
// normals facing away from the eye are flipped so thin translucent shells
// light the same from either side.
func (r *Rasterizer) DrawTriangle(tri Triangle, s Surface) {
	if r.fb == nil {
		return
	}
	var sv [3]screenVertex
	allBehind := true

	viewProj := r.camera.ViewProjectionMatrix()
	eye := r.camera.Position
	w, h := float64(r.Width()), float64(r.Height())

	for i := range 3 {
		v := tri.V[i]
		clipPos := viewProj.MulVec4(math3d.V4FromV3(v.Position, 1))
		if clipPos.W > 0 {
			allBehind = false
		}
		if clipPos.W != 0 {
			invW := 1.0 / clipPos.W
			sv[i].X = clipPos.X * invW
			sv[i].Y = clipPos.Y * invW
			sv[i].Z = clipPos.Z * invW
		}
		sv[i].W = clipPos.W

		// NDC to screen coordinates
		sv[i].X = (sv[i].X + 1) * 0.5 * w
		sv[i].Y = (1 - sv[i].Y) * 0.5 * h // Y flipped

		n := v.Normal
		if n.Dot(eye.Sub(v.Position)) < 0 {
			n = n.Negate()
		}
		sv[i].Intensity = r.Light.intensity(n)
	}

	// Near-plane clipping is not performed; the model sits well inside it.
	if allBehind || sv[0].W <= 0 || sv[1].W <= 0 || sv[2].W <= 0 {
		return
	}

	area2 := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area2 == 0 {
		return
	}
	if area2 < 0 {
		sv[1], sv[2] = sv[2], sv[1]
		area2 = -area2
	}

	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(w-1, math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(h-1, math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	a0, b0, c0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	a1, b1, c1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	a2, b2, c2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)
	invArea := 1.0 / area2

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := a0*px + b0*py + c0
	w1Row := a1*px + b1*py + c1
	w2Row := a2*px + b2*py + c2

	opaque := s.Opaque()
	glow := [3]float64{
		float64(s.Emissive.R) * s.EmissiveIntensity,
		float64(s.Emissive.G) * s.EmissiveIntensity,
		float64(s.Emissive.B) * s.EmissiveIntensity,
	}
	width := r.Width()

	for y := minY; y <= maxY; y++ {
		e0, e1, e2 := w0Row, w1Row, w2Row
		for x := minX; x <= maxX; x++ {
			if e0 >= 0 && e1 >= 0 && e2 >= 0 {
				l0, l1, l2 := e0*invArea, e1*invArea, e2*invArea
				z := l0*sv[0].Z + l1*sv[1].Z + l2*sv[2].Z
				idx := y*width + x
				if z < r.zbuffer[idx] {
					in := l0*sv[0].Intensity + l1*sv[1].Intensity + l2*sv[2].Intensity
					c := shade(s.Color, in, glow)
					if opaque {
						r.zbuffer[idx] = z
						r.fb.Pixels[idx] = c
					} else {
						r.fb.BlendPixel(x, y, c, s.Opacity)
					}
				}
			}
			e0 += a0
			e1 += a1
			e2 += a2
		}
		w0Row += b0
		w1Row += b1
		w2Row += b2
	}
}

func shade(base Color, intensity float64, glow [3]float64) Color {
	return Color{
		R: clampByte(float64(base.R)*intensity + glow[0]),
		G: clampByte(float64(base.G)*intensity + glow[1]),
		B: clampByte(float64(base.B)*intensity + glow[2]),
		A: 255,
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// MeshRenderer is the read-only mesh view the rasterizer needs.
// It keeps this package independent of the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// tryFrustumCull attempts to cull a mesh using its bounds if available.
// Returns true if the mesh should be culled (not visible).
func (r *Rasterizer) tryFrustumCull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.CullingStats.MeshesTested++

	minBounds, maxBounds := bounded.GetBounds()
	if !r.IsVisible(AABB{Min: minBounds, Max: maxBounds}.Transform(transform)) {
		r.CullingStats.MeshesCulled++
		return true
	}

	r.CullingStats.MeshesDrawn++
	return false
}

// DrawMesh renders a mesh with the given world transform and surface.
// Returns false if the mesh was culled.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, s Surface) bool {
	if r.tryFrustumCull(mesh, transform) {
		return false
	}

	normalMat := transform.NormalMatrix()
	var tri Triangle
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)
		for k := range 3 {
			p, n, _ := mesh.GetVertex(face[k])
			tri.V[k] = Vertex{
				Position: transform.MulVec3(p),
				Normal:   normalMat.MulVec3Dir(n).Normalize(),
			}
		}
		r.DrawTriangle(tri, s)
	}
	return true
}
