package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flip/bvh"
	"github.com/pthm-cable/flip/camera"
)

// BVHRenderer outlines hierarchy boxes projected onto the xy plane.
type BVHRenderer struct {
	LeafColor  rl.Color
	InnerColor rl.Color
	// ShowInner also draws interior nodes.
	ShowInner bool
}

// NewBVHRenderer creates a renderer that draws leaves only.
func NewBVHRenderer() *BVHRenderer {
	return &BVHRenderer{
		LeafColor:  rl.Color{R: 120, G: 255, B: 120, A: 140},
		InnerColor: rl.Color{R: 120, G: 160, B: 255, A: 70},
	}
}

// Draw outlines the boxes of tree. Empty trees draw nothing.
func (r *BVHRenderer) Draw(nodes []bvh.Node, cam *camera.Camera) {
	for i := range nodes {
		n := &nodes[i]
		leaf := n.IsLeaf()
		if !leaf && !r.ShowInner {
			continue
		}
		b := n.Bounds
		if b.Empty() {
			continue
		}
		x0, y0 := cam.WorldToScreen(float32(b.Min.X), float32(b.Max.Y))
		x1, y1 := cam.WorldToScreen(float32(b.Max.X), float32(b.Min.Y))
		color := r.InnerColor
		if leaf {
			color = r.LeafColor
		}
		rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 1, color)
	}
}
