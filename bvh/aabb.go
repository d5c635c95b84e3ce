package bvh

import "math"

// Vec3 is a point or direction in 3D. Planar particle sets use Z = 0.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Axis returns component 0 (X), 1 (Y) or 2 (Z).
func (v Vec3) Axis(a int) float64 {
	switch a {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// AABB is an axis-aligned box. An empty box has Min > Max.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns the identity box for Union.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Union returns the smallest box containing b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: Vec3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// HalfArea returns half the surface area, the split cost weight. Empty boxes
// have zero area.
func (b AABB) HalfArea() float64 {
	if b.Empty() {
		return 0
	}
	e := b.Max.Sub(b.Min)
	return e.X*e.Y + e.Y*e.Z + e.Z*e.X
}

// Contains reports whether o lies inside b, with tolerance eps.
func (b AABB) Contains(o AABB, eps float64) bool {
	return o.Min.X >= b.Min.X-eps && o.Min.Y >= b.Min.Y-eps && o.Min.Z >= b.Min.Z-eps &&
		o.Max.X <= b.Max.X+eps && o.Max.Y <= b.Max.Y+eps && o.Max.Z <= b.Max.Z+eps
}

// SphereOverlaps reports whether a sphere touches the box.
func (b AABB) SphereOverlaps(c Vec3, r float64) bool {
	dx := math.Max(math.Max(b.Min.X-c.X, 0), c.X-b.Max.X)
	dy := math.Max(math.Max(b.Min.Y-c.Y, 0), c.Y-b.Max.Y)
	dz := math.Max(math.Max(b.Min.Z-c.Z, 0), c.Z-b.Max.Z)
	return dx*dx+dy*dy+dz*dz <= r*r
}

// Ray is a half line Origin + t·Dir for t ≥ 0.
type Ray struct {
	Origin, Dir Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// Hit returns the entry distance of r into b within [0, tMax]. Axes where the
// ray is parallel to the slab only test whether the origin lies inside it.
func (b AABB) Hit(r Ray, tMax float64) (float64, bool) {
	tMin := 0.0
	for a := 0; a < 3; a++ {
		o := r.Origin.Axis(a)
		d := r.Dir.Axis(a)
		lo := b.Min.Axis(a)
		hi := b.Max.Axis(a)

		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		inv := 1.0 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}
