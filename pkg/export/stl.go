package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/taigrr/spine/pkg/math3d"
)

const (
	stlHeaderSize = 80
	stlFacetSize  = 50
)

// WriteSTL encodes parts as one binary STL solid. STL has no materials or
// names, so parts are concatenated. Facet normals are recomputed from the
// winding.
func WriteSTL(w io.Writer, parts []Part) error {
	bw := bufio.NewWriter(w)

	var header [stlHeaderSize]byte
	copy(header[:], "spine binary STL")
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("write stl header: %w", err)
	}

	count := TriangleCount(parts)
	if uint64(count) > math.MaxUint32 {
		return fmt.Errorf("too many triangles for stl: %d", count)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(count)); err != nil {
		return fmt.Errorf("write stl count: %w", err)
	}

	var facet [stlFacetSize]byte
	for _, p := range parts {
		for _, f := range p.Mesh.Faces {
			a := p.Mesh.Vertices[f.V[0]].Position
			b := p.Mesh.Vertices[f.V[1]].Position
			c := p.Mesh.Vertices[f.V[2]].Position
			n := b.Sub(a).Cross(c.Sub(a)).Normalize()

			putVec(facet[0:12], n)
			putVec(facet[12:24], a)
			putVec(facet[24:36], b)
			putVec(facet[36:48], c)
			binary.LittleEndian.PutUint16(facet[48:50], 0)

			if _, err := bw.Write(facet[:]); err != nil {
				return fmt.Errorf("write stl facet: %w", err)
			}
		}
	}
	return bw.Flush()
}

func putVec(b []byte, v math3d.Vec3) {
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(float32(v.Z)))
}
