package components

import (
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// Diet determines what a body eats.
type Diet uint8

const (
	EaterOfPlants Diet = iota
	EaterOfBodies
)

func (d Diet) String() string {
	if d == EaterOfBodies {
		return "bodies"
	}
	return "plants"
}

// StatusKind is the behavioral state of a body.
type StatusKind uint8

const (
	Sleeping StatusKind = iota
	FollowingPlant
	FollowingBody // only eaters of bodies
	EscapingBody
	Walking // eaters of bodies with nothing in view, along Organism.Heading
)

func (k StatusKind) String() string {
	switch k {
	case FollowingPlant:
		return "following_plant"
	case FollowingBody:
		return "following_body"
	case EscapingBody:
		return "escaping_body"
	case Walking:
		return "walking"
	}
	return "sleeping"
}

// Status is the current behavior plus the id of its target.
// Targets are ids, never entity handles, and are resolved on every read.
type Status struct {
	Kind  StatusKind
	Plant PlantID // FollowingPlant
	Body  uint32  // FollowingBody, EscapingBody
}

// SleepingStatus returns the idle status.
func SleepingStatus() Status { return Status{} }

// WalkingStatus returns the target-free wandering status.
func WalkingStatus() Status { return Status{Kind: Walking} }

// HasTarget reports whether the status refers to another entity.
func (s Status) HasTarget() bool {
	switch s.Kind {
	case FollowingPlant, FollowingBody, EscapingBody:
		return true
	}
	return false
}

// FollowPlant returns a status chasing plant id.
func FollowPlant(id PlantID) Status { return Status{Kind: FollowingPlant, Plant: id} }

// FollowBody returns a status chasing body id.
func FollowBody(id uint32) Status { return Status{Kind: FollowingBody, Body: id} }

// EscapeBody returns a status fleeing from body id.
func EscapeBody(id uint32) Status { return Status{Kind: EscapingBody, Body: id} }

// Virus identifies a disease.
type Virus uint8

const (
	SpeedVirus Virus = iota
	VisionVirus
	NumViruses
)

func (v Virus) String() string {
	if v == VisionVirus {
		return "vision"
	}
	return "speed"
}

// Infection tracks one virus in a body.
type Infection struct {
	Infected bool
	Healed   float64 // energy already spent on recovery
}

func anyInfected(vs [NumViruses]Infection) bool {
	for _, v := range vs {
		if v.Infected {
			return true
		}
	}
	return false
}

// Shape selects how a body is drawn.
type Shape uint8

const (
	ShapeCircle Shape = iota // eater of plants
	ShapeSquare              // eater of bodies
	ShapeCross               // dying
)

// Organism bundles identity, lineage, and behavior state of a body.
type Organism struct {
	ID       uint32
	Diet     Diet
	BodyType uint32 // lineage tag shared with all descendants
	IQ       int
	Color    colorful.Color
	Status   Status
	Heading  r2.Vec // unit walking direction; zero until a walk starts

	Born      time.Duration
	Dying     bool
	DeathTime time.Duration

	Viruses [NumViruses]Infection
}

// Shape returns the draw shape for the organism's current state.
func (o *Organism) Shape() Shape {
	switch {
	case o.Dying:
		return ShapeCross
	case o.Diet == EaterOfBodies:
		return ShapeSquare
	}
	return ShapeCircle
}

// Infected reports whether the organism carries any virus.
func (o *Organism) Infected() bool {
	return anyInfected(o.Viruses)
}
