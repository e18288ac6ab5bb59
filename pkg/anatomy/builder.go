// Package anatomy synthesizes the meshes of individual spine structures:
// vertebrae, intervertebral discs, the sacrum and the coccyx.
package anatomy

import (
	"fmt"
	"math"

	"github.com/taigrr/spine/pkg/geometry"
	"github.com/taigrr/spine/pkg/math3d"
	"github.com/taigrr/spine/pkg/models"
	"github.com/taigrr/spine/pkg/regions"
	"github.com/taigrr/spine/pkg/scene"
)

// Unit vertebra dimensions. Node scale stretches them per segment.
const (
	BodyRadius = 0.42
	BodyHeight = 0.28

	bodyWaist = 0.12 // Fractional narrowing at mid-height
	radial    = 16
	coarse    = 8
)

// Sacrum and coccyx dimensions.
const (
	SacrumHeight = 1.3
	sacrumDepth  = 0.6 // Anteroposterior flattening

	CoccyxRadius = 0.16
	CoccyxShrink = 0.8
	CoccyxStep   = 1.3 // Drop per piece, in multiples of the previous radius
	CoccyxPieces = 4
)

// Builder creates structure groups. It caches unit geometry, which is
// never mutated after construction, and hands each mesh node its own
// material clone.
type Builder struct {
	palette Palette
	cache   map[string]*models.Mesh
	meshes  []*scene.Node
}

// NewBuilder creates a builder using the given palette.
func NewBuilder(p Palette) *Builder {
	return &Builder{
		palette: p,
		cache:   make(map[string]*models.Mesh),
	}
}

// Meshes returns every mesh node built so far, in build order.
func (b *Builder) Meshes() []*scene.Node {
	return b.meshes
}

func (b *Builder) geometry(key string, build func() *models.Mesh) *models.Mesh {
	if m, ok := b.cache[key]; ok {
		return m
	}
	m := build()
	b.cache[key] = m
	return m
}

func (b *Builder) part(group *scene.Node, region regions.Key, name string, mesh *models.Mesh, mat *models.Material) *scene.Node {
	n := scene.NewMesh(name, mesh, mat.Clone())
	n.Region = region
	group.Add(n)
	b.meshes = append(b.meshes, n)
	return n
}

// BuildVertebra builds one vertebra centered on its body, posterior
// elements toward -Z. The group is uniformly scaled and sits curveOffset
// forward along Z.
func (b *Builder) BuildVertebra(scale float64, region regions.Key, variant Variant, curveOffset float64) *scene.Node {
	shape := variant.Shape()
	g := scene.NewGroup(fmt.Sprintf("vertebra-%s", region))
	g.Region = region
	g.Scale = math3d.V3(scale, scale, scale)
	g.Position.Z = curveOffset

	bone, articular := b.palette.Bone, b.palette.Articular

	b.part(g, region, "body", b.geometry("body", vertebralBody), bone)

	pedicle := b.geometry("pedicle", func() *models.Mesh {
		return geometry.Cylinder("pedicle", 0.07, 0.08, 0.25, coarse)
	})
	lamina := b.geometry("lamina", func() *models.Mesh {
		plate := []math3d.Vec2{{X: 0, Y: 0}, {X: 0.22, Y: 0.02}, {X: 0.2, Y: 0.2}, {X: 0, Y: 0.16}}
		return geometry.Extrude("lamina", plate, 0.06, 0.015)
	})
	transverse := b.geometry(fmt.Sprintf("transverse-%s", variant), func() *models.Mesh {
		l := shape.TransverseLength
		bar := []math3d.Vec2{{X: 0, Y: -0.05}, {X: l, Y: -0.035}, {X: l, Y: 0.035}, {X: 0, Y: 0.05}}
		return geometry.Extrude("transverse", bar, 0.07, 0.012)
	})
	facet := b.geometry("facet", func() *models.Mesh {
		return geometry.Sphere("facet", 0.06, coarse, coarse/2)
	})

	for _, side := range []float64{1, -1} {
		p := b.part(g, region, "pedicle", pedicle, bone)
		p.Position = math3d.V3(side*0.22, 0, -0.45)
		p.Rotation.X = math.Pi / 2

		l := b.part(g, region, "lamina", lamina, bone)
		l.Position = math3d.V3(side*0.02, -0.03, -0.55)
		l.Rotation.X = -math.Pi / 2
		l.Scale.X = side

		t := b.part(g, region, "transverse-process", transverse, bone)
		t.Position = math3d.V3(side*0.22, 0, -0.5)
		t.Rotation.Y = side * 0.3
		t.Scale.X = side

		for _, up := range []float64{1, -1} {
			f := b.part(g, region, "articular-facet", facet, articular)
			f.Position = math3d.V3(side*0.2, up*0.17, -0.55)
			f.Scale = math3d.V3(1, 0.6, 1)
		}
	}

	spinous := b.geometry(fmt.Sprintf("spinous-%s", variant), func() *models.Mesh {
		l := shape.SpinousLength
		profile := []math3d.Vec2{{X: 0, Y: 0}, {X: 0.07, Y: 0}, {X: 0.055, Y: l * 0.5}, {X: 0.035, Y: l}, {X: 0, Y: l}}
		return geometry.Lathe("spinous", profile, coarse)
	})
	base := math3d.V3(0, 0, -0.72)
	sp := b.part(g, region, "spinous-process", spinous, bone)
	sp.Position = base
	sp.Rotation.X = -(math.Pi/2 + shape.SpinousAngle)

	if shape.Bifid {
		tipDir := math3d.V3(0, -math.Sin(shape.SpinousAngle), -math.Cos(shape.SpinousAngle))
		tip := base.Add(tipDir.Scale(shape.SpinousLength))
		knob := b.geometry("bifid-tip", func() *models.Mesh {
			return geometry.Sphere("bifid-tip", 0.045, coarse, coarse/2)
		})
		for _, side := range []float64{1, -1} {
			k := b.part(g, region, "bifid-tip", knob, articular)
			k.Position = tip.Add(math3d.V3(side*0.045, 0, 0))
		}
	}

	if shape.Costal {
		disc := b.geometry("costal-facet", func() *models.Mesh {
			return geometry.Circle("costal-facet", 0.07, radial)
		})
		for _, side := range []float64{1, -1} {
			c := b.part(g, region, "costal-facet", disc, articular)
			c.Position = math3d.V3(side*(BodyRadius+0.01), 0.05, -0.1)
			c.Rotation.Y = side * math.Pi / 2
		}
	}

	return g
}

// vertebralBody lathes a drum whose sides curve inward at mid-height.
func vertebralBody() *models.Mesh {
	const rings = 8
	h := BodyHeight / 2
	profile := []math3d.Vec2{{X: 0, Y: -h}}
	for k := 0; k <= rings; k++ {
		t := float64(k) / rings
		r := BodyRadius * (1 - bodyWaist*math.Sin(math.Pi*t))
		p := math3d.V2(r, -h+t*BodyHeight)
		profile = append(profile, p)
		if k == 0 || k == rings {
			// Doubled rim keeps the end plates flat.
			profile = append(profile, p)
		}
	}
	profile = append(profile, math3d.V2(0, h))
	return geometry.Lathe("body", profile, radial)
}

// BuildDisc builds an intervertebral disc: a translucent annulus ring
// tinted by the region color around a softer nucleus.
func (b *Builder) BuildDisc(scale float64, region regions.Key, curveOffset float64) *scene.Node {
	g := scene.NewGroup(fmt.Sprintf("disc-%s", region))
	g.Region = region
	g.Scale = math3d.V3(scale, scale, scale)
	g.Position.Z = curveOffset

	annulus := b.palette.Annulus.Clone()
	if r, ok := regions.Lookup(region); ok {
		annulus.Color = tint(annulus.Color, r.Color, 0.25)
	}

	ring := b.geometry("annulus", func() *models.Mesh {
		return geometry.Torus("annulus", 0.3, 0.1, coarse, radial)
	})
	a := b.part(g, region, "annulus", ring, annulus)
	a.Scale = math3d.V3(1, 0.6, 1)

	core := b.geometry("nucleus", func() *models.Mesh {
		return geometry.Sphere("nucleus", 0.22, radial, coarse)
	})
	n := b.part(g, region, "nucleus", core, b.palette.Nucleus)
	n.Scale = math3d.V3(1, 0.35, 1)

	return g
}

// sacrumProfile is the wedge outline from apex to base. The radius falls
// off faster than the height so the sacrum tapers to a point.
var sacrumProfile = []math3d.Vec2{
	{X: 0, Y: -SacrumHeight},
	{X: 0.1, Y: -SacrumHeight},
	{X: 0.28, Y: -0.95},
	{X: 0.44, Y: -0.55},
	{X: 0.55, Y: -0.2},
	{X: 0.6, Y: 0},
	{X: 0.6, Y: 0},
	{X: 0, Y: 0},
}

// sacrumRadius interpolates the wedge radius at height y (0 at the top,
// negative downward).
func sacrumRadius(y float64) float64 {
	for i := 1; i < len(sacrumProfile); i++ {
		a, b := sacrumProfile[i-1], sacrumProfile[i]
		if y >= a.Y && y <= b.Y && b.Y > a.Y {
			t := (y - a.Y) / (b.Y - a.Y)
			return a.X + (b.X-a.X)*t
		}
	}
	return 0
}

// BuildSacrum builds the sacrum with its origin at the top of the wedge;
// the structure extends SacrumHeight downward.
func (b *Builder) BuildSacrum() *scene.Node {
	region := regions.Sacral
	g := scene.NewGroup("sacrum")
	g.Region = region

	wedge := b.geometry("sacrum", func() *models.Mesh {
		return geometry.Lathe("sacrum", sacrumProfile, radial)
	})
	w := b.part(g, region, "sacrum-body", wedge, b.palette.Bone)
	w.Scale = math3d.V3(1, 1, sacrumDepth)

	foramen := b.geometry("foramen", func() *models.Mesh {
		return geometry.Circle("foramen", 1, radial)
	})
	for k := range 4 {
		fk := float64(k)
		y := -0.2 - fk*0.27
		x := 0.28 - fk*0.05
		r := 0.05 - fk*0.005
		for _, side := range []float64{1, -1} {
			sx := side * x
			// Sit just proud of the flattened posterior surface.
			z := posteriorDepth(sx, y) - 0.01
			f := b.part(g, region, "sacral-foramen", foramen, b.palette.Articular)
			f.Position = math3d.V3(sx, y, z)
			f.Rotation.Y = math.Pi
			f.Scale = math3d.V3(r, r, 1)
		}
	}

	wing := b.geometry("ala", func() *models.Mesh {
		outline := []math3d.Vec2{{X: 0, Y: 0}, {X: 0.45, Y: 0.1}, {X: 0.5, Y: -0.15}, {X: 0.1, Y: -0.35}}
		return geometry.Extrude("ala", outline, 0.2, 0.03)
	})
	for _, side := range []float64{1, -1} {
		a := b.part(g, region, "sacral-ala", wing, b.palette.Bone)
		a.Position = math3d.V3(side*0.45, -0.08, -0.1)
		a.Scale.X = side
	}

	bump := b.geometry("crest", func() *models.Mesh {
		return geometry.Sphere("crest", 0.06, coarse, coarse/2)
	})
	for k := range 4 {
		y := -0.2 - float64(k)*0.25
		c := b.part(g, region, "median-crest", bump, b.palette.Articular)
		c.Position = math3d.V3(0, y, posteriorDepth(0, y))
		c.Scale = math3d.V3(1, 0.6, 0.6)
	}

	return g
}

// posteriorDepth returns the Z of the flattened wedge's back surface at
// lateral offset x and height y.
func posteriorDepth(x, y float64) float64 {
	r := sacrumRadius(y)
	if math.Abs(x) >= r {
		return 0
	}
	return -math.Sqrt(r*r-x*x) * sacrumDepth
}

// BuildCoccyx builds the tailbone as shrinking, flattened spheres stacked
// downward from the group origin.
func (b *Builder) BuildCoccyx() *scene.Node {
	region := regions.Sacral
	g := scene.NewGroup("coccyx")
	g.Region = region

	piece := b.geometry("coccyx", func() *models.Mesh {
		return geometry.Sphere("coccyx", 1, radial, coarse)
	})

	r := CoccyxRadius
	y := 0.0
	for range CoccyxPieces {
		c := b.part(g, region, "coccygeal-segment", piece, b.palette.Bone)
		c.Position = math3d.V3(0, y, 0)
		c.Scale = math3d.V3(r, r*0.7, r*0.8)
		y -= r * CoccyxStep
		r *= CoccyxShrink
	}

	return g
}

// CoccyxExtent returns how far below its origin the coccyx reaches.
func CoccyxExtent() float64 {
	r := CoccyxRadius
	drop := 0.0
	for range CoccyxPieces - 1 {
		drop += r * CoccyxStep
		r *= CoccyxShrink
	}
	return drop + r*0.7
}
