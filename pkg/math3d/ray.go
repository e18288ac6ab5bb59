package math3d

import "math"

// Ray is a half-line with an origin and a normalized direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a ray, normalizing dir.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Transform returns the ray mapped through m. The direction is renormalized,
// so distances along the result are in m's output space.
func (r Ray) Transform(m Mat4) Ray {
	return NewRay(m.MulVec3(r.Origin), m.MulVec3Dir(r.Direction))
}

// Unproject builds a world-space ray through a point in normalized device
// coordinates (-1..1, Y up) using the inverse view-projection matrix.
func Unproject(ndcX, ndcY float64, invViewProj Mat4) Ray {
	near := invViewProj.MulVec4(V4(ndcX, ndcY, -1, 1)).PerspectiveDivide()
	far := invViewProj.MulVec4(V4(ndcX, ndcY, 1, 1)).PerspectiveDivide()
	return NewRay(near, far.Sub(near))
}

// Cylinder is a finite, capped cylinder whose axis is parallel to Y.
type Cylinder struct {
	Center Vec3 // X and Z locate the axis; Y is ignored
	Radius float64
	MinY   float64
	MaxY   float64
}

// IntersectCylinder returns the nearest non-negative distance at which the
// ray enters c. If the origin is inside c the exit distance is returned.
func (r Ray) IntersectCylinder(c Cylinder) (t float64, hit bool) {
	ox := r.Origin.X - c.Center.X
	oz := r.Origin.Z - c.Center.Z
	dx, dz := r.Direction.X, r.Direction.Z

	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	// Radial slab: solve |(o + t*d).xz|^2 = R^2.
	a := dx*dx + dz*dz
	if a < 1e-12 {
		if ox*ox+oz*oz > c.Radius*c.Radius {
			return 0, false
		}
	} else {
		b := 2 * (ox*dx + oz*dz)
		cc := ox*ox + oz*oz - c.Radius*c.Radius
		disc := b*b - 4*a*cc
		if disc < 0 {
			return 0, false
		}
		sq := math.Sqrt(disc)
		tmin = (-b - sq) / (2 * a)
		tmax = (-b + sq) / (2 * a)
	}

	// Vertical slab.
	if r.Direction.Y != 0 {
		t1 := (c.MinY - r.Origin.Y) / r.Direction.Y
		t2 := (c.MaxY - r.Origin.Y) / r.Direction.Y
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	} else if r.Origin.Y < c.MinY || r.Origin.Y > c.MaxY {
		return 0, false
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectBox returns the nearest non-negative distance at which the ray
// enters the axis-aligned box [min, max], or the exit distance if the origin
// is inside.
func (r Ray) IntersectBox(min, max Vec3) (t float64, hit bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{min.X, min.Y, min.Z}
	hi := [3]float64{max.X, max.Y, max.Z}

	for i := range 3 {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / d[i]
		t2 := (hi[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
