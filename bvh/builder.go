// Package bvh builds a bounding volume hierarchy over spherical particles.
//
// Build splits top-down using a coarse surface-area cost: three axes, five
// evenly spaced planes each. Nodes are stored in a flat slice with the root at
// index 0 and siblings adjacent, and particles are reordered so every leaf
// owns a contiguous range.
package bvh

import "math"

const (
	numSplitTests = 5
	// MaxStackDepth bounds traversal; Build clamps maxDepth below it.
	MaxStackDepth = 64
)

// Node is one box of the hierarchy. Internal nodes have ParticleCount == 0 and
// two children; leaves have ParticleCount > 0 and both child indices 0.
type Node struct {
	Bounds        AABB
	ChildA        int
	ChildB        int
	ParticleStart int
	ParticleCount int
}

// IsLeaf reports whether n owns particles.
func (n Node) IsLeaf() bool {
	return n.ParticleCount > 0
}

// Tree is a built hierarchy. Particles, Centers and Order are in leaf order;
// Order[k] is the input index of Particles[k].
type Tree[T any] struct {
	Nodes     []Node
	Particles []T
	Centers   []Vec3
	Order     []int
	Radius    float64
}

// item is the per-particle working record moved around during partitioning.
type item[T any] struct {
	box     AABB
	center  Vec3
	index   int
	payload T
}

type builder[T any] struct {
	items []item[T]
	nodes []Node
}

// Build constructs a hierarchy over items. position returns each item's
// centre and radius pads it into a box. maxDepth bounds the number of splits
// along any root-to-leaf path.
func Build[T any](items []T, position func(T) Vec3, radius float64, maxDepth int) *Tree[T] {
	t := &Tree[T]{Radius: radius}
	if len(items) == 0 {
		return t
	}
	maxDepth = min(max(maxDepth, 0), MaxStackDepth-1)

	b := &builder[T]{
		items: make([]item[T], len(items)),
		nodes: make([]Node, 0, 2*len(items)),
	}

	ext := Vec3{radius, radius, radius}
	root := EmptyAABB()
	for i, it := range items {
		c := position(it)
		box := AABB{Min: c.Sub(ext), Max: c.Add(ext)}
		b.items[i] = item[T]{box: box, center: c, index: i, payload: it}
		root = root.Union(box)
	}

	b.nodes = append(b.nodes, Node{Bounds: root})
	b.split(0, 0, len(items), maxDepth)

	t.Nodes = b.nodes
	t.Particles = make([]T, len(items))
	t.Centers = make([]Vec3, len(items))
	t.Order = make([]int, len(items))
	for k, it := range b.items {
		t.Particles[k] = it.payload
		t.Centers[k] = it.center
		t.Order[k] = it.index
	}
	return t
}

func (b *builder[T]) split(nodeIdx, start, count, depth int) {
	bounds := b.nodes[nodeIdx].Bounds
	axis, pos, cost := b.chooseSplit(bounds, start, count)
	parentCost := bounds.HalfArea() * float64(count)

	if cost >= parentCost || depth <= 0 {
		b.nodes[nodeIdx].ParticleStart = start
		b.nodes[nodeIdx].ParticleCount = count
		return
	}

	mid := start
	for k := start; k < start+count; k++ {
		if b.items[k].center.Axis(axis) < pos {
			b.items[k], b.items[mid] = b.items[mid], b.items[k]
			mid++
		}
	}
	countA := mid - start
	countB := count - countA

	childA := len(b.nodes)
	b.nodes = append(b.nodes,
		Node{Bounds: b.rangeBounds(start, countA)},
		Node{Bounds: b.rangeBounds(mid, countB)},
	)
	b.nodes[nodeIdx].ChildA = childA
	b.nodes[nodeIdx].ChildB = childA + 1

	b.split(childA, start, countA, depth-1)
	b.split(childA+1, mid, countB, depth-1)
}

// chooseSplit returns the cheapest (axis, position) among the candidate
// planes. Earlier candidates win ties. Nodes with fewer than two particles
// report +Inf.
func (b *builder[T]) chooseSplit(bounds AABB, start, count int) (axis int, pos, cost float64) {
	cost = math.Inf(1)
	if count <= 1 {
		return 0, 0, cost
	}

	for a := 0; a < 3; a++ {
		lo := bounds.Min.Axis(a)
		hi := bounds.Max.Axis(a)
		for i := 0; i < numSplitTests; i++ {
			t := float64(i+1) / float64(numSplitTests+1)
			p := lo + (hi-lo)*t
			if c := b.evaluate(a, p, start, count); c < cost {
				axis, pos, cost = a, p, c
			}
		}
	}
	return axis, pos, cost
}

func (b *builder[T]) evaluate(axis int, pos float64, start, count int) float64 {
	boxA, boxB := EmptyAABB(), EmptyAABB()
	countA, countB := 0, 0
	for k := start; k < start+count; k++ {
		it := &b.items[k]
		if it.center.Axis(axis) < pos {
			boxA = boxA.Union(it.box)
			countA++
		} else {
			boxB = boxB.Union(it.box)
			countB++
		}
	}

	cost := 0.0
	if countA > 0 {
		cost += boxA.HalfArea() * float64(countA)
	}
	if countB > 0 {
		cost += boxB.HalfArea() * float64(countB)
	}
	return cost
}

func (b *builder[T]) rangeBounds(start, count int) AABB {
	box := EmptyAABB()
	for k := start; k < start+count; k++ {
		box = box.Union(b.items[k].box)
	}
	return box
}

// Stats summarises the shape of a tree.
type Stats struct {
	Nodes       int
	Leaves      int
	Depth       int
	MaxLeafSize int
}

// Stats walks the tree and reports node, leaf and depth counts.
func (t *Tree[T]) Stats() Stats {
	var s Stats
	if len(t.Nodes) == 0 {
		return s
	}
	s.Nodes = len(t.Nodes)

	type entry struct{ node, depth int }
	stack := make([]entry, 0, MaxStackDepth)
	stack = append(stack, entry{0, 0})
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.Nodes[e.node]
		s.Depth = max(s.Depth, e.depth)
		if n.IsLeaf() {
			s.Leaves++
			s.MaxLeafSize = max(s.MaxLeafSize, n.ParticleCount)
			continue
		}
		stack = append(stack, entry{n.ChildB, e.depth + 1}, entry{n.ChildA, e.depth + 1})
	}
	return s
}
