package models

import (
	"math"
	"testing"

	"github.com/taigrr/spine/pkg/math3d"
)

func quad() *Mesh {
	m := NewMesh("quad")
	a := m.AddVertex(math3d.V3(0, 0, 0), math3d.Zero3(), math3d.V2(0, 0))
	b := m.AddVertex(math3d.V3(1, 0, 0), math3d.Zero3(), math3d.V2(1, 0))
	c := m.AddVertex(math3d.V3(1, 1, 0), math3d.Zero3(), math3d.V2(1, 1))
	d := m.AddVertex(math3d.V3(0, 1, 0), math3d.Zero3(), math3d.V2(0, 1))
	m.AddQuad(a, b, c, d)
	m.CalculateSmoothNormals()
	m.CalculateBounds()
	return m
}

func TestSmoothNormalsFaceOutward(t *testing.T) {
	m := quad()
	for i, v := range m.Vertices {
		if v.Normal.Sub(math3d.V3(0, 0, 1)).Len() > 1e-9 {
			t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
		}
	}
}

func TestBounds(t *testing.T) {
	m := quad()
	if m.BoundsMin != math3d.V3(0, 0, 0) || m.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("bounds = %v..%v", m.BoundsMin, m.BoundsMax)
	}
	if m.Center() != math3d.V3(0.5, 0.5, 0) {
		t.Errorf("center = %v", m.Center())
	}
}

func TestTransformMirrorKeepsWindingOutward(t *testing.T) {
	m := quad()
	m.Transform(math3d.Scale(math3d.V3(-1, 1, 1)))

	f := m.Faces[0]
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

	if n.Sub(math3d.V3(0, 0, 1)).Len() > 1e-9 {
		t.Errorf("mirrored face normal = %v, want +Z", n)
	}
	if m.BoundsMin.X != -1 {
		t.Errorf("bounds not refreshed: %v", m.BoundsMin)
	}
}

func TestAppendOffsetsIndices(t *testing.T) {
	m := quad()
	m.Append(quad(), math3d.Translate(math3d.V3(0, 0, 2)))

	if m.VertexCount() != 8 || m.TriangleCount() != 4 {
		t.Fatalf("got %d vertices, %d triangles", m.VertexCount(), m.TriangleCount())
	}
	for _, idx := range m.Faces[2].V {
		if idx < 4 {
			t.Errorf("appended face references original vertex %d", idx)
		}
	}
	if math.Abs(m.BoundsMax.Z-2) > 1e-9 {
		t.Errorf("bounds max Z = %v, want 2", m.BoundsMax.Z)
	}
}

func TestClonePreservesGeometry(t *testing.T) {
	m := quad()
	clone := m.Clone()
	clone.Vertices[0].Position = math3d.V3(9, 9, 9)

	if m.Vertices[0].Position == clone.Vertices[0].Position {
		t.Error("Clone should have independent vertex storage")
	}
	if clone.TriangleCount() != m.TriangleCount() {
		t.Error("Clone should preserve faces")
	}
}
