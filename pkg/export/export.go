// Package export writes the assembled spine to interchange formats: glTF
// and GLB scenes, binary STL meshes, and PNG or WebP images.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/spine/pkg/models"
	"github.com/taigrr/spine/pkg/regions"
	"github.com/taigrr/spine/pkg/scene"
)

// ErrUnsupportedFormat is returned for file extensions no writer handles.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Part is one visible mesh with its world transform baked in.
type Part struct {
	Name     string // region/segment/part, e.g. "lumbar/L3/body"
	Region   regions.Key
	Mesh     *models.Mesh
	Material *models.Material
}

// Collect bakes every visible mesh under root into world space. Hit-volume
// indicators and fully transparent surfaces are skipped.
func Collect(root *scene.Node) []Part {
	var parts []Part

	var visit func(n *scene.Node, parent []string)
	visit = func(n *scene.Node, parent []string) {
		if n.Indicator {
			return
		}
		path := append(parent, n.Name)
		if n.Mesh != nil && (n.Material == nil || n.Material.Visible()) {
			mesh := n.Mesh.Clone()
			mesh.Transform(n.WorldMatrix())
			parts = append(parts, Part{
				Name:     partName(n.Region, path[1:]),
				Region:   n.Region,
				Mesh:     mesh,
				Material: n.Material,
			})
		}
		for _, c := range n.Children {
			visit(c, path)
		}
	}
	visit(root, nil)
	return parts
}

func partName(region regions.Key, path []string) string {
	if region == "" {
		return strings.Join(path, "/")
	}
	return string(region) + "/" + strings.Join(path, "/")
}

// TriangleCount sums the triangles of all parts.
func TriangleCount(parts []Part) int {
	total := 0
	for _, p := range parts {
		total += p.Mesh.TriangleCount()
	}
	return total
}

// Format identifies an output encoding.
type Format int

const (
	FormatGLB Format = iota
	FormatGLTF
	FormatSTL
	FormatPNG
	FormatWebP
)

func (f Format) String() string {
	switch f {
	case FormatGLB:
		return "glb"
	case FormatGLTF:
		return "gltf"
	case FormatSTL:
		return "stl"
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// IsModel reports whether f holds geometry rather than pixels.
func (f Format) IsModel() bool {
	return f == FormatGLB || f == FormatGLTF || f == FormatSTL
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb":
		return FormatGLB, nil
	case ".gltf":
		return FormatGLTF, nil
	case ".stl":
		return FormatSTL, nil
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}
