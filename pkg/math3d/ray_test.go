package math3d

import (
	"math"
	"testing"
)

func TestIntersectCylinder(t *testing.T) {
	c := Cylinder{Center: V3(0, 0, 0), Radius: 1, MinY: -2, MaxY: 2}

	tests := []struct {
		name    string
		ray     Ray
		wantHit bool
		wantT   float64
	}{
		{"straight on", NewRay(V3(0, 0, 10), V3(0, 0, -1)), true, 9},
		{"miss beside", NewRay(V3(1.5, 0, 10), V3(0, 0, -1)), false, 0},
		{"above span", NewRay(V3(0, 3, 10), V3(0, 0, -1)), false, 0},
		{"through top cap", NewRay(V3(0, 10, 0), V3(0, -1, 0)), true, 8},
		{"origin inside", NewRay(V3(0, 0, 0), V3(1, 0, 0)), true, 1},
		{"pointing away", NewRay(V3(0, 0, 10), V3(0, 0, 1)), false, 0},
		{"parallel outside", NewRay(V3(2, 10, 0), V3(0, -1, 0)), false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, hit := tc.ray.IntersectCylinder(c)
			if hit != tc.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tc.wantHit)
			}
			if hit && math.Abs(got-tc.wantT) > 1e-9 {
				t.Errorf("t = %v, want %v", got, tc.wantT)
			}
		})
	}
}

func TestIntersectCylinderOffsetAxis(t *testing.T) {
	c := Cylinder{Center: V3(0, 0, 0.5), Radius: 0.5, MinY: 0, MaxY: 1}
	r := NewRay(V3(0, 0.5, 5), V3(0, 0, -1))

	got, hit := r.IntersectCylinder(c)
	if !hit {
		t.Fatal("expected hit")
	}
	if math.Abs(got-4) > 1e-9 {
		t.Errorf("t = %v, want 4", got)
	}
}

func TestUnprojectCenterRay(t *testing.T) {
	eye := V3(0, 0, 10)
	view := LookAt(eye, Zero3(), Up())
	proj := Perspective(math.Pi/3, 1, 0.1, 100)
	r := Unproject(0, 0, proj.Mul(view).Inverse())

	if r.Direction.Sub(V3(0, 0, -1)).Len() > 1e-6 {
		t.Errorf("direction = %v, want (0,0,-1)", r.Direction)
	}
	if math.Abs(r.Origin.X) > 1e-6 || math.Abs(r.Origin.Y) > 1e-6 {
		t.Errorf("origin = %v, want on the Z axis", r.Origin)
	}
}

func TestRayTransform(t *testing.T) {
	r := NewRay(V3(0, 0, 0), V3(1, 0, 0))
	moved := r.Transform(Translate(V3(0, 5, 0)).Mul(RotateY(math.Pi / 2)))

	if moved.Origin.Sub(V3(0, 5, 0)).Len() > 1e-9 {
		t.Errorf("origin = %v", moved.Origin)
	}
	// RotateY(pi/2) maps +X to -Z.
	if moved.Direction.Sub(V3(0, 0, -1)).Len() > 1e-9 {
		t.Errorf("direction = %v", moved.Direction)
	}
}

func TestComposeOrder(t *testing.T) {
	m := Compose(V3(1, 0, 0), Euler{Y: math.Pi / 2}, V3(2, 2, 2))
	got := m.MulVec3(V3(1, 0, 0))
	want := V3(1, 0, -2) // scaled, rotated, then translated
	if got.Sub(want).Len() > 1e-9 {
		t.Errorf("Compose applied = %v, want %v", got, want)
	}

	back := m.Inverse().MulVec3(got)
	if back.Sub(V3(1, 0, 0)).Len() > 1e-9 {
		t.Errorf("inverse round trip = %v", back)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, -0.6, 0.6) != 0.6 {
		t.Error("upper clamp")
	}
	if Clamp(-5, -0.6, 0.6) != -0.6 {
		t.Error("lower clamp")
	}
	if Clamp(0.2, -0.6, 0.6) != 0.2 {
		t.Error("inside range")
	}
}

func TestIntersectBox(t *testing.T) {
	min, max := V3(-1, -1, -1), V3(1, 1, 1)

	tests := []struct {
		name string
		ray  Ray
		hit  bool
		t    float64
	}{
		{"front", NewRay(V3(0, 0, 5), V3(0, 0, -1)), true, 4},
		{"inside", NewRay(Zero3(), V3(1, 0, 0)), true, 1},
		{"behind", NewRay(V3(0, 0, 5), V3(0, 0, 1)), false, 0},
		{"parallel outside", NewRay(V3(0, 2, 5), V3(0, 0, -1)), false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, hit := tc.ray.IntersectBox(min, max)
			if hit != tc.hit {
				t.Fatalf("hit = %v, want %v", hit, tc.hit)
			}
			if hit && math.Abs(got-tc.t) > 1e-9 {
				t.Errorf("t = %v, want %v", got, tc.t)
			}
		})
	}
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	// The plane x + y = c scaled by 2 along X becomes x/2 + y = c.
	m := Scale(V3(2, 1, 1))
	n := m.NormalMatrix().MulVec3Dir(V3(1, 1, 0).Normalize()).Normalize()
	want := V3(0.5, 1, 0).Normalize()
	if n.Distance(want) > 1e-9 {
		t.Errorf("normal = %v, want %v", n, want)
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	tr := m.Transpose()
	if tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("translation not moved to bottom row: %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("double transpose should be identity")
	}
}
