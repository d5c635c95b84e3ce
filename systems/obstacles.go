package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flip/components"
	"github.com/pthm-cable/flip/config"
	"github.com/pthm-cable/flip/fluid"
)

// Bounds is the open region obstacles may move in: the tank minus its
// wall cells.
type Bounds struct {
	Width, Height float64
	Wall          float64
}

// ObstacleSystem moves obstacle entities and stamps them into the solver.
type ObstacleSystem struct {
	mapper *ecs.Map3[components.Position, components.Velocity, components.Obstacle]
	filter ecs.Filter3[components.Position, components.Velocity, components.Obstacle]
	posMap *ecs.Map1[components.Position]
	velMap *ecs.Map1[components.Velocity]
	obsMap *ecs.Map1[components.Obstacle]
	world  *ecs.World
	bounds Bounds
}

// NewObstacleSystem creates a new obstacle system.
func NewObstacleSystem(w *ecs.World, bounds Bounds) *ObstacleSystem {
	return &ObstacleSystem{
		mapper: ecs.NewMap3[components.Position, components.Velocity, components.Obstacle](w),
		filter: *ecs.NewFilter3[components.Position, components.Velocity, components.Obstacle](w),
		posMap: ecs.NewMap1[components.Position](w),
		velMap: ecs.NewMap1[components.Velocity](w),
		obsMap: ecs.NewMap1[components.Obstacle](w),
		world:  w,
		bounds: bounds,
	}
}

// Spawn creates an obstacle entity from its configuration.
func (s *ObstacleSystem) Spawn(oc config.ObstacleConfig) ecs.Entity {
	pos := components.Position{X: oc.X, Y: oc.Y}
	vel := components.Velocity{X: oc.VelX, Y: oc.VelY}
	obs := components.Obstacle{Radius: oc.Radius}
	return s.mapper.NewEntity(&pos, &vel, &obs)
}

// Update advances free obstacles by dt, bouncing off the tank walls.
func (s *ObstacleSystem) Update(dt float64) {
	b := s.bounds
	query := s.filter.Query()
	for query.Next() {
		pos, vel, obs := query.Get()
		if obs.Dragged {
			continue
		}

		pos.X += vel.X * dt
		pos.Y += vel.Y * dt

		minX, maxX := b.Wall+obs.Radius, b.Width-b.Wall-obs.Radius
		minY, maxY := b.Wall+obs.Radius, b.Height-obs.Radius
		if pos.X < minX {
			pos.X = minX
			vel.X = math.Abs(vel.X)
		}
		if pos.X > maxX {
			pos.X = maxX
			vel.X = -math.Abs(vel.X)
		}
		if pos.Y < minY {
			pos.Y = minY
			vel.Y = math.Abs(vel.Y)
		}
		if pos.Y > maxY {
			pos.Y = maxY
			vel.Y = -math.Abs(vel.Y)
		}
	}
}

// Apply clears the solver's obstacle cells and stamps every obstacle.
func (s *ObstacleSystem) Apply(f *fluid.FlipFluid) {
	f.ClearObstacles()
	query := s.filter.Query()
	for query.Next() {
		pos, vel, obs := query.Get()
		f.AddObstacle(fluid.Obstacle{
			X:      pos.X,
			Y:      pos.Y,
			Radius: obs.Radius,
			VelX:   vel.X,
			VelY:   vel.Y,
		})
	}
}

// Pick returns the first obstacle containing (x, y).
func (s *ObstacleSystem) Pick(x, y float64) (ecs.Entity, bool) {
	var picked ecs.Entity
	found := false
	query := s.filter.Query()
	for query.Next() {
		pos, _, obs := query.Get()
		dx := x - pos.X
		dy := y - pos.Y
		if !found && dx*dx+dy*dy <= obs.Radius*obs.Radius {
			picked = query.Entity()
			found = true
		}
	}
	return picked, found
}

// First returns the earliest spawned obstacle.
func (s *ObstacleSystem) First() (ecs.Entity, bool) {
	query := s.filter.Query()
	defer query.Close()
	if query.Next() {
		return query.Entity(), true
	}
	return ecs.Entity{}, false
}

// Grab marks e as dragged and moves it to (x, y) at rest.
func (s *ObstacleSystem) Grab(e ecs.Entity, x, y float64) {
	if !s.world.Alive(e) {
		return
	}
	pos := s.posMap.Get(e)
	pos.X, pos.Y = s.clampInside(x, y, s.obsMap.Get(e).Radius)
	*s.velMap.Get(e) = components.Velocity{}
	s.obsMap.Get(e).Dragged = true
}

// DragTo moves e to (x, y) and sets its velocity from the displacement so
// the fluid is pushed along.
func (s *ObstacleSystem) DragTo(e ecs.Entity, x, y, dt float64) {
	if !s.world.Alive(e) || dt <= 0 {
		return
	}
	pos := s.posMap.Get(e)
	vel := s.velMap.Get(e)
	obs := s.obsMap.Get(e)

	x, y = s.clampInside(x, y, obs.Radius)
	vel.X = (x - pos.X) / dt
	vel.Y = (y - pos.Y) / dt
	pos.X = x
	pos.Y = y
	obs.Dragged = true
}

// clampInside keeps a disc of radius r clear of the walls and the floor.
func (s *ObstacleSystem) clampInside(x, y, r float64) (float64, float64) {
	x = math.Max(math.Min(x, s.bounds.Width-s.bounds.Wall-r), s.bounds.Wall+r)
	y = math.Max(math.Min(y, s.bounds.Height-r), s.bounds.Wall+r)
	return x, y
}

// Release ends a drag and stops the obstacle.
func (s *ObstacleSystem) Release(e ecs.Entity) {
	if !s.world.Alive(e) {
		return
	}
	*s.velMap.Get(e) = components.Velocity{}
	s.obsMap.Get(e).Dragged = false
}

// Index returns the position of e in the order Apply writes obstacles, or -1.
func (s *ObstacleSystem) Index(e ecs.Entity) int {
	idx := -1
	i := 0
	query := s.filter.Query()
	for query.Next() {
		if idx < 0 && query.Entity() == e {
			idx = i
		}
		i++
	}
	return idx
}

// Count returns the number of obstacles.
func (s *ObstacleSystem) Count() int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		n++
	}
	return n
}
