package stream

import "github.com/pthm-cable/flip/fluid"

// Circle is an obstacle as sent to viewers.
type Circle struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Radius float32 `json:"r"`
}

// Frame is one published view of the tank. Positions are in metres, y up.
// Colours are packed 0xRRGGBB.
type Frame struct {
	Tick      int32     `json:"tick"`
	SimTime   float64   `json:"sim_time"`
	Radius    float32   `json:"radius"`
	X         []float32 `json:"x"`
	Y         []float32 `json:"y"`
	Color     []uint32  `json:"color"`
	Obstacles []Circle  `json:"obstacles,omitempty"`
}

// FrameFromSnapshot converts a solver snapshot into a frame, reusing dst's
// buffers.
func FrameFromSnapshot(dst *Frame, tick int32, s *fluid.Snapshot) {
	n := s.NumParticles()
	dst.Tick = tick
	dst.SimTime = s.SimTime
	dst.Radius = float32(s.ParticleRadius)

	dst.X = dst.X[:0]
	dst.Y = dst.Y[:0]
	dst.Color = dst.Color[:0]
	for i := 0; i < n; i++ {
		dst.X = append(dst.X, float32(s.PosX[i]))
		dst.Y = append(dst.Y, float32(s.PosY[i]))
		dst.Color = append(dst.Color, PackRGB(s.Color[i]))
	}

	dst.Obstacles = dst.Obstacles[:0]
	for _, o := range s.Obstacles {
		dst.Obstacles = append(dst.Obstacles, Circle{X: float32(o.X), Y: float32(o.Y), Radius: float32(o.Radius)})
	}
}

// PackRGB packs a [0,1] colour into 0xRRGGBB.
func PackRGB(c fluid.RGB) uint32 {
	return uint32(channel(c.R))<<16 | uint32(channel(c.G))<<8 | uint32(channel(c.B))
}

func channel(v float64) uint8 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
