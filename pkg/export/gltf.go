package export

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/spine/pkg/models"
)

// WriteGLTF encodes parts as a single-scene glTF document. Binary selects
// the GLB container; otherwise the buffer is embedded as a data URI so the
// .gltf file is self-contained. Each part becomes a node carrying its
// region in extras.
func WriteGLTF(w io.Writer, parts []Part, binary bool) error {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "spine"

	materials := make(map[models.Material]int)
	for _, p := range parts {
		matIdx := -1
		if p.Material != nil {
			idx, ok := materials[*p.Material]
			if !ok {
				idx = len(doc.Materials)
				doc.Materials = append(doc.Materials, gltfMaterial(p.Material))
				materials[*p.Material] = idx
			}
			matIdx = idx
		}

		meshIdx, err := writeMesh(doc, p, matIdx)
		if err != nil {
			return fmt.Errorf("mesh %s: %w", p.Name, err)
		}

		node := &gltf.Node{Name: p.Name, Mesh: ptr(meshIdx)}
		if p.Region != "" {
			node.Extras = map[string]any{"region": string(p.Region)}
		}
		doc.Nodes = append(doc.Nodes, node)
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	if !binary && len(doc.Buffers) > 0 {
		buf := doc.Buffers[0]
		buf.URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf.Data)
	}

	enc := gltf.NewEncoder(w)
	enc.AsBinary = binary
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode gltf: %w", err)
	}
	return nil
}

func writeMesh(doc *gltf.Document, p Part, matIdx int) (int, error) {
	m := p.Mesh
	if m.VertexCount() == 0 || m.TriangleCount() == 0 {
		return 0, fmt.Errorf("empty mesh")
	}

	positions := make([][3]float32, m.VertexCount())
	normals := make([][3]float32, m.VertexCount())
	for i, v := range m.Vertices {
		positions[i] = [3]float32{float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z)}
		normals[i] = [3]float32{float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z)}
	}
	indices := make([]uint32, 0, m.TriangleCount()*3)
	for _, f := range m.Faces {
		indices = append(indices, uint32(f.V[0]), uint32(f.V[1]), uint32(f.V[2]))
	}

	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION: modeler.WritePosition(doc, positions),
			gltf.NORMAL:   modeler.WriteNormal(doc, normals),
		},
		Indices: ptr(modeler.WriteIndices(doc, indices)),
	}
	if matIdx >= 0 {
		prim.Material = ptr(matIdx)
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: p.Name, Primitives: []*gltf.Primitive{prim}})
	return len(doc.Meshes) - 1, nil
}

func gltfMaterial(m *models.Material) *gltf.Material {
	base := m.BaseColorFactor()
	out := &gltf.Material{
		Name: m.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &base,
			MetallicFactor:  ptr(m.Metalness),
			RoughnessFactor: ptr(m.Roughness),
		},
		EmissiveFactor: m.EmissiveFactor(),
		AlphaMode:      gltf.AlphaOpaque,
	}
	if m.Transparent {
		out.AlphaMode = gltf.AlphaBlend
		out.DoubleSided = true
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
