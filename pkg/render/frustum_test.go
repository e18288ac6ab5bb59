package render

import (
	"math"
	"testing"

	"github.com/taigrr/spine/pkg/math3d"
)

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if math.Abs(plane.Normal.Len()-1) > 1e-9 {
		t.Errorf("normal length = %v, want 1", plane.Normal.Len())
	}
	if math.Abs(plane.D-2) > 1e-9 {
		t.Errorf("D = %v, want 2", plane.D)
	}
	if d := plane.DistanceToPoint(math3d.V3(0, 0, 5)); math.Abs(d-6) > 1e-9 {
		t.Errorf("distance = %v, want 6", d)
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	tests := []struct {
		name     string
		m        math3d.Mat4
		min, max math3d.Vec3
	}{
		{"translation", math3d.Translate(math3d.V3(10, 20, 30)), math3d.V3(9, 19, 29), math3d.V3(11, 21, 31)},
		{"scale", math3d.Scale(math3d.V3(2, 1, 0.5)), math3d.V3(-2, -1, -0.5), math3d.V3(2, 1, 0.5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := box.Transform(tc.m)
			if got.Min.Distance(tc.min) > 1e-9 || got.Max.Distance(tc.max) > 1e-9 {
				t.Errorf("got [%v %v], want [%v %v]", got.Min, got.Max, tc.min, tc.max)
			}
		})
	}

	t.Run("rotation grows bounds", func(t *testing.T) {
		got := box.Transform(math3d.RotateY(math.Pi / 4))
		if got.Max.X <= 1.4 {
			t.Errorf("rotated max.X = %v, want ~1.414", got.Max.X)
		}
	})
}

func TestFrustumIntersectAABB(t *testing.T) {
	proj := math3d.Perspective(math.Pi/3, 16.0/9.0, 1, 100)
	frustum := NewFrustumFromMatrix(proj)

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"fully inside", NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)), true},
		{"crossing near plane", NewAABB(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)), true},
		{"behind camera", NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)), false},
		{"beyond far plane", NewAABB(math3d.V3(-1, -1, -150), math3d.V3(1, 1, -120)), false},
		{"far to the right", NewAABB(math3d.V3(100, -1, -10), math3d.V3(110, 1, -5)), false},
		{"contains frustum", NewAABB(math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 0, 20))
	cam.LookAt(math3d.Zero3())
	f := cam.GetFrustum()

	if !f.ContainsPoint(math3d.V3(0, 7, 0)) {
		t.Error("top of the column should be in view")
	}
	if f.ContainsPoint(math3d.V3(0, 0, 30)) {
		t.Error("point behind the camera should not be in view")
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	frustum := NewFrustumFromMatrix(math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 1000))
	box := NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5))

	for b.Loop() {
		_ = frustum.IntersectAABB(box)
	}
}
