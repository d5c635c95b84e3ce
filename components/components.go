// Package components defines ECS components for tank obstacles.
package components

// Position is an obstacle centre in tank coordinates (metres, y up).
type Position struct {
	X, Y float64
}

// Velocity is the obstacle velocity in metres per second.
type Velocity struct {
	X, Y float64
}

// Obstacle marks a solid disc that displaces fluid.
type Obstacle struct {
	Radius float64
	// Dragged obstacles follow the pointer instead of their velocity.
	Dragged bool
}
