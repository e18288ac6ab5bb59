package viewer

import (
	"sort"

	"github.com/taigrr/spine/pkg/models"
	"github.com/taigrr/spine/pkg/regions"
	"github.com/taigrr/spine/pkg/render"
	"github.com/taigrr/spine/pkg/scene"
)

// surfaceOf converts a material to the rasterizer's shading input.
func surfaceOf(m *models.Material) render.Surface {
	s := render.Surface{
		Color:             m.Color,
		Emissive:          m.Emissive,
		EmissiveIntensity: m.EmissiveIntensity,
		Opacity:           1,
	}
	if m.Transparent {
		s.Opacity = m.Opacity
	}
	return s
}

type translucent struct {
	d     scene.Drawable
	depth float64 // view-space Z, more negative is farther
}

// drawScene renders every mesh under root. Opaque meshes go first so
// translucent ones blend over a complete depth buffer, far to near.
// Hit-volume indicators are only outlined when showVolumes is set.
func drawScene(r *render.Rasterizer, wire *render.Wireframe, cam *render.Camera, root *scene.Node, showVolumes bool) int {
	view := cam.ViewMatrix()
	triangles := 0

	var (
		blend   []translucent
		volumes []scene.Drawable
	)
	for _, d := range root.Drawables() {
		n := d.Node
		switch {
		case n.Indicator:
			if showVolumes {
				volumes = append(volumes, d)
			}
			continue
		case n.Material == nil:
			continue
		case !n.Material.Visible():
			continue
		}

		s := surfaceOf(n.Material)
		if !s.Opaque() {
			center := view.MulVec3(d.World.MulVec3(n.Mesh.Center()))
			blend = append(blend, translucent{d: d, depth: center.Z})
			continue
		}
		if r.DrawMesh(n.Mesh, d.World, s) {
			triangles += n.Mesh.TriangleCount()
		}
	}

	sort.SliceStable(blend, func(i, j int) bool { return blend[i].depth < blend[j].depth })
	for _, t := range blend {
		n := t.d.Node
		if r.DrawMesh(n.Mesh, t.d.World, surfaceOf(n.Material)) {
			triangles += n.Mesh.TriangleCount()
		}
	}

	for _, d := range volumes {
		c := render.ColorWhite
		if reg, ok := regions.Lookup(d.Node.Region); ok {
			c = reg.Color
		}
		wire.DrawMesh(d.Node.Mesh, d.World, c)
	}
	return triangles
}
