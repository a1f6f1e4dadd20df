// Package components defines ECS components for the simulation.
package components

import (
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// Position represents an entity's world position.
type Position struct {
	r2.Vec
}

// Vitals holds a body's deviated attributes and energy state.
type Vitals struct {
	Energy            float64
	Speed             float64 // world units per tick
	VisionDistance    float64
	DivisionThreshold float64
	Lifespan          float64 // seconds, shortened by movement

	// Attributes before any infection, restored on recovery
	BaseSpeed  float64
	BaseVision float64
}

// PlantID is derived from the simulation time a plant was created at.
type PlantID uint64

// Plant is a stationary food item.
type Plant struct {
	ID PlantID
	HP float64 // energy credited when eaten
}

// Cross is a death marker left behind when a dying body is removed.
// It is an immutable snapshot; nothing refers back to the body.
type Cross struct {
	Pos       r2.Vec
	Timestamp time.Duration
	Energy    float64
	Viruses   [NumViruses]Infection
	Color     colorful.Color
	BodyType  uint32
}

// Expired reports whether the cross is older than lifespan at now.
func (c *Cross) Expired(now, lifespan time.Duration) bool {
	return now-c.Timestamp > lifespan
}

// Infected reports whether the snapshot carried any virus.
func (c *Cross) Infected() bool {
	return anyInfected(c.Viruses)
}
