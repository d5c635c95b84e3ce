package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayGrid      OverlayID = "grid"
	OverlayParticles OverlayID = "particles"
	OverlayObstacles OverlayID = "obstacles"
	OverlayPressure  OverlayID = "pressure"
	OverlayBVH       OverlayID = "bvh"
	OverlayVelocity  OverlayID = "velocity"
	OverlayPerf      OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID   // Unique identifier
	Name      string      // Display name
	Key       int32       // Keyboard key to toggle (0 = no key)
	KeyLabel  string      // Key label for display (e.g., "G", "P")
	Category  string      // Grouping (e.g., "fluid", "debug")
	Exclusive []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:        OverlayGrid,
		Name:      "Grid Cells",
		Key:       rl.KeyG,
		KeyLabel:  "G",
		Category:  "fluid",
		Exclusive: []OverlayID{OverlayPressure},
	})
	r.Register(OverlayDescriptor{
		ID:        OverlayPressure,
		Name:      "Pressure",
		Key:       rl.KeyF,
		KeyLabel:  "F",
		Category:  "fluid",
		Exclusive: []OverlayID{OverlayGrid},
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayParticles,
		Name:     "Particles",
		Key:      rl.KeyP,
		KeyLabel: "P",
		Category: "fluid",
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayObstacles,
		Name:     "Obstacles",
		Key:      rl.KeyO,
		KeyLabel: "O",
		Category: "fluid",
	})

	r.Register(OverlayDescriptor{
		ID:       OverlayBVH,
		Name:     "BVH Leaves",
		Key:      rl.KeyB,
		KeyLabel: "B",
		Category: "debug",
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayVelocity,
		Name:     "Velocity",
		Key:      rl.KeyV,
		KeyLabel: "V",
		Category: "debug",
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayPerf,
		Name:     "Perf Panel",
		Key:      rl.KeyF3,
		KeyLabel: "F3",
		Category: "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	newState := !r.enabled[id]
	r.SetEnabled(id, newState)
	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}
