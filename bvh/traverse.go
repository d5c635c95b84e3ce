package bvh

import "math"

// Hit is the closest particle struck by a ray. Index is in leaf order; use
// Tree.Order to recover the input index.
type Hit struct {
	Index int
	T     float64
}

// IntersectRay returns the closest particle sphere hit by r within tMax.
// Children are only visited when the ray enters their box.
func (t *Tree[T]) IntersectRay(r Ray, tMax float64) (Hit, bool) {
	best := Hit{Index: -1, T: tMax}
	if len(t.Nodes) == 0 {
		return best, false
	}

	var stack [MaxStackDepth]int
	sp := 0
	if _, ok := t.Nodes[0].Bounds.Hit(r, best.T); ok {
		stack[sp] = 0
		sp++
	}

	for sp > 0 {
		sp--
		n := &t.Nodes[stack[sp]]

		if n.IsLeaf() {
			for k := n.ParticleStart; k < n.ParticleStart+n.ParticleCount; k++ {
				if d, ok := raySphere(r, t.Centers[k], t.Radius); ok && d < best.T {
					best = Hit{Index: k, T: d}
				}
			}
			continue
		}

		da, okA := t.Nodes[n.ChildA].Bounds.Hit(r, best.T)
		db, okB := t.Nodes[n.ChildB].Bounds.Hit(r, best.T)
		near, far := n.ChildA, n.ChildB
		if okA && okB && db < da {
			near, far = far, near
		}
		// Push the far child first so the near one is popped next.
		if okA && okB {
			stack[sp] = far
			sp++
			stack[sp] = near
			sp++
		} else if okA {
			stack[sp] = n.ChildA
			sp++
		} else if okB {
			stack[sp] = n.ChildB
			sp++
		}
	}

	return best, best.Index >= 0
}

// QueryRadius appends to dst the leaf-order indices of particles whose centre
// lies within radius of c.
func (t *Tree[T]) QueryRadius(c Vec3, radius float64, dst []int) []int {
	if len(t.Nodes) == 0 {
		return dst
	}
	r2 := radius * radius

	var stack [MaxStackDepth]int
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		n := &t.Nodes[stack[sp]]
		if !n.Bounds.SphereOverlaps(c, radius) {
			continue
		}
		if n.IsLeaf() {
			for k := n.ParticleStart; k < n.ParticleStart+n.ParticleCount; k++ {
				d := t.Centers[k].Sub(c)
				if d.Dot(d) <= r2 {
					dst = append(dst, k)
				}
			}
			continue
		}
		stack[sp] = n.ChildB
		sp++
		stack[sp] = n.ChildA
		sp++
	}
	return dst
}

// raySphere returns the first non-negative intersection distance.
func raySphere(r Ray, c Vec3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(c)
	a := r.Dir.Dot(r.Dir)
	if a == 0 {
		return 0, false
	}
	b := oc.Dot(r.Dir)
	cc := oc.Dot(oc) - radius*radius
	disc := b*b - a*cc
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := (-b - sq) / a
	if t < 0 {
		t = (-b + sq) / a
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
