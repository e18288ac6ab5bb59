package spine

import (
	"fmt"
	"image/color"
	"math"

	"go.uber.org/zap"

	"github.com/taigrr/spine/pkg/anatomy"
	"github.com/taigrr/spine/pkg/geometry"
	"github.com/taigrr/spine/pkg/math3d"
	"github.com/taigrr/spine/pkg/models"
	"github.com/taigrr/spine/pkg/regions"
	"github.com/taigrr/spine/pkg/scene"
)

// Kind distinguishes free vertebrae from the terminal composites.
type Kind int

const (
	Vertebra Kind = iota
	Sacrum
	Coccyx
)

func (k Kind) String() string {
	switch k {
	case Vertebra:
		return "vertebra"
	case Sacrum:
		return "sacrum"
	case Coccyx:
		return "coccyx"
	}
	return "unknown"
}

// Segment is one placed skeletal segment.
type Segment struct {
	Region  regions.Key
	Kind    Kind
	Index   int // Position within the region
	Y       float64
	Scale   float64
	Curve   float64
	Variant anatomy.Variant // Meaningful for vertebrae only
	Node    *scene.Node
}

// Label returns the conventional name, e.g. "C3", "T12", "S", "Co".
func (s Segment) Label() string {
	switch s.Kind {
	case Sacrum:
		return "S"
	case Coccyx:
		return "Co"
	}
	prefix := map[regions.Key]string{
		regions.Cervical: "C",
		regions.Thoracic: "T",
		regions.Lumbar:   "L",
	}[s.Region]
	return fmt.Sprintf("%s%d", prefix, s.Index+1)
}

// HitVolume is an invisible Y-aligned cylinder covering one region.
type HitVolume struct {
	Region  regions.Key
	MinY    float64
	MaxY    float64
	Radius  float64
	CenterZ float64
	Node    *scene.Node
}

// Cylinder returns the volume as a ray-cast target in model space.
func (h HitVolume) Cylinder() math3d.Cylinder {
	return math3d.Cylinder{
		Center: math3d.V3(0, 0, h.CenterZ),
		Radius: h.Radius,
		MinY:   h.MinY,
		MaxY:   h.MaxY,
	}
}

// Contains reports whether y lies within the volume's vertical span.
func (h HitVolume) Contains(y float64) bool {
	return y >= h.MinY && y <= h.MaxY
}

// Model is the assembled spine.
type Model struct {
	Root     *scene.Node
	Segments []Segment
	Discs    []*scene.Node
	Volumes  []HitVolume

	index     map[regions.Key][]*scene.Node
	boundsMin math3d.Vec3
	boundsMax math3d.Vec3
	log       *zap.Logger
}

// Option configures Assemble.
type Option func(*assembly)

type assembly struct {
	palette anatomy.Palette
	log     *zap.Logger
}

// WithPalette overrides the default materials.
func WithPalette(p anatomy.Palette) Option {
	return func(a *assembly) { a.palette = p }
}

// WithLogger sets the logger used during assembly and picking.
func WithLogger(l *zap.Logger) Option {
	return func(a *assembly) {
		if l != nil {
			a.log = l
		}
	}
}

// Assemble builds the full column: 24 vertebrae with discs between
// neighbours in the same region, the sacrum, the coccyx and one hit
// volume per region.
func Assemble(opts ...Option) *Model {
	a := assembly{palette: anatomy.DefaultPalette(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&a)
	}

	b := anatomy.NewBuilder(a.palette)
	m := &Model{
		Root:  scene.NewGroup("spine"),
		index: make(map[regions.Key][]*scene.Node),
		log:   a.log,
	}

	type span struct {
		top, bottom float64
		maxScale    float64
		minZ, maxZ  float64
	}
	spans := make(map[regions.Key]*span)

	y := TopY
	for _, rl := range Layout {
		variant, _ := anatomy.VariantFor(rl.Region)
		sp := &span{top: y, minZ: math.Inf(1), maxZ: math.Inf(-1)}
		spans[rl.Region] = sp

		for i := range rl.Count {
			scale := rl.Scale(i)
			curve := rl.Curve(i)

			node := b.BuildVertebra(scale, rl.Region, variant, curve)
			node.Position.Y = y
			m.Root.Add(node)
			seg := Segment{
				Region:  rl.Region,
				Kind:    Vertebra,
				Index:   i,
				Y:       y,
				Scale:   scale,
				Curve:   curve,
				Variant: variant,
				Node:    node,
			}
			node.Name = seg.Label()
			m.Segments = append(m.Segments, seg)

			if i < rl.Count-1 {
				disc := b.BuildDisc(
					(scale+rl.Scale(i+1))/2,
					rl.Region,
					(curve+rl.Curve(i+1))/2,
				)
				disc.Position.Y = y - SegmentSpacing/2
				disc.Name = fmt.Sprintf("disc-%s-%s", seg.Label(), Segment{Region: rl.Region, Index: i + 1}.Label())
				m.Root.Add(disc)
				m.Discs = append(m.Discs, disc)
			}

			sp.bottom = y
			sp.maxScale = math.Max(sp.maxScale, scale)
			sp.minZ = math.Min(sp.minZ, curve)
			sp.maxZ = math.Max(sp.maxZ, curve)
			y -= SegmentSpacing
		}
		y -= RegionGap
	}

	sacrum := b.BuildSacrum()
	sacrum.Position.Y = y
	m.Root.Add(sacrum)
	m.Segments = append(m.Segments, Segment{
		Region: regions.Sacral, Kind: Sacrum, Y: y, Scale: 1, Curve: SacralAmplitude, Node: sacrum,
	})

	coccyx := b.BuildCoccyx()
	coccyx.Position.Y = y - CoccyxDrop
	m.Root.Add(coccyx)
	m.Segments = append(m.Segments, Segment{
		Region: regions.Sacral, Kind: Coccyx, Index: 1, Y: y - CoccyxDrop, Scale: 1, Curve: SacralAmplitude, Node: coccyx,
	})

	spans[regions.Sacral] = &span{
		top:    y,
		bottom: y - CoccyxDrop - anatomy.CoccyxExtent(),
	}

	for _, n := range b.Meshes() {
		m.index[n.Region] = append(m.index[n.Region], n)
	}

	pad := SegmentSpacing / 2
	for _, key := range regions.Keys() {
		sp := spans[key]
		v := HitVolume{
			Region: key,
			MinY:   sp.bottom - pad,
			MaxY:   sp.top + pad,
		}
		if key == regions.Sacral {
			// The alae reach furthest laterally.
			v.MinY = sp.bottom
			v.Radius = 1.0
		} else {
			v.CenterZ = (sp.minZ + sp.maxZ) / 2
			v.Radius = (sp.maxZ-sp.minZ)/2 + 0.9*sp.maxScale
		}
		v.Node = indicator(v)
		m.Root.Add(v.Node)
		m.Volumes = append(m.Volumes, v)

		lo := math3d.V3(-v.Radius, v.MinY, v.CenterZ-v.Radius)
		hi := math3d.V3(v.Radius, v.MaxY, v.CenterZ+v.Radius)
		if len(m.Volumes) == 1 {
			m.boundsMin, m.boundsMax = lo, hi
		} else {
			m.boundsMin = m.boundsMin.Min(lo)
			m.boundsMax = m.boundsMax.Max(hi)
		}
	}

	m.SetRotation(0, InitialYaw)

	a.log.Debug("spine assembled",
		zap.Int("segments", len(m.Segments)),
		zap.Int("discs", len(m.Discs)),
		zap.Int("meshes", len(b.Meshes())),
		zap.Int("nodes", m.Root.Count()),
	)
	return m
}

// indicator builds the invisible proxy node for a hit volume.
func indicator(v HitVolume) *scene.Node {
	h := v.MaxY - v.MinY
	mesh := geometry.Cylinder("hit-"+string(v.Region), v.Radius, v.Radius, h, 16)
	mat := &models.Material{
		Name:        "indicator",
		Color:       color.RGBA{0xff, 0xff, 0xff, 0xff},
		Opacity:     0,
		Transparent: true,
	}
	n := scene.NewMesh("hit-"+string(v.Region), mesh, mat)
	n.Position = math3d.V3(0, (v.MinY+v.MaxY)/2, v.CenterZ)
	n.Region = v.Region
	n.Indicator = true
	return n
}

// RegionMeshes returns the anatomy mesh nodes tagged with key. Hit
// volumes are never included.
func (m *Model) RegionMeshes(key regions.Key) []*scene.Node {
	return m.index[key]
}

// Volume returns the hit volume for key.
func (m *Model) Volume(key regions.Key) (HitVolume, bool) {
	for _, v := range m.Volumes {
		if v.Region == key {
			return v, true
		}
	}
	return HitVolume{}, false
}

// SegmentsIn returns the segments belonging to key.
func (m *Model) SegmentsIn(key regions.Key) []Segment {
	var out []Segment
	for _, s := range m.Segments {
		if s.Region == key {
			out = append(out, s)
		}
	}
	return out
}

// SetRotation orients the whole column. The base tilt is always added to
// pitch.
func (m *Model) SetRotation(pitch, yaw float64) {
	m.Root.Rotation = math3d.Euler{X: BaseTilt + pitch, Y: yaw}
}

// Pick casts a world-space ray against the hit volumes only and returns
// the region of the nearest one hit.
func (m *Model) Pick(ray math3d.Ray) (regions.Key, bool) {
	local := ray.Transform(m.Root.WorldMatrix().Inverse())
	if _, hit := local.IntersectBox(m.boundsMin, m.boundsMax); !hit {
		return "", false
	}

	var (
		best    regions.Key
		nearest = math.Inf(1)
	)
	for _, v := range m.Volumes {
		if t, hit := local.IntersectCylinder(v.Cylinder()); hit && t < nearest {
			nearest = t
			best = v.Region
		}
	}
	if best == "" {
		return "", false
	}
	m.log.Debug("pick", zap.String("region", string(best)), zap.Float64("t", nearest))
	return best, true
}
