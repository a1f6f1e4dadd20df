package systems

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Chaser is a body currently following the one deciding what to do.
type Chaser struct {
	ID    uint32
	Pos   r2.Vec
	Speed float64
	Dist  float64
}

// PickChaser selects whom to escape from. By default that is the closest
// chaser; bodies with iq >= 3 first consider chasers faster than themselves.
func PickChaser(chasers []Chaser, iq int, ownSpeed float64) (Chaser, bool) {
	if len(chasers) == 0 {
		return Chaser{}, false
	}
	if iq >= 3 {
		if c, ok := closestChaser(chasers, func(c Chaser) bool { return c.Speed > ownSpeed }); ok {
			return c, true
		}
	}
	return closestChaser(chasers, nil)
}

func closestChaser(chasers []Chaser, keep func(Chaser) bool) (Chaser, bool) {
	best, found := Chaser{}, false
	for _, c := range chasers {
		if keep != nil && !keep(c) {
			continue
		}
		if !found || c.Dist < best.Dist {
			best, found = c, true
		}
	}
	return best, found
}

// FoodCandidate is something a body could eat.
type FoodCandidate struct {
	Dist  float64
	Value float64 // energy the food is worth
	// ClaimedByKin is set when a body of the same type is already after it.
	ClaimedByKin bool
}

// Forager is the part of a body that decides which food is worth chasing.
type Forager struct {
	IQ          int
	Energy      float64
	Speed       float64
	CostPerTick float64 // energy spent per tick while moving
	MinEnergy   float64
}

// Accepts applies the iq-gated food filters: iq >= 1 leaves food to kin,
// iq >= 2 skips food the body would not survive reaching.
func (f Forager) Accepts(c FoodCandidate) bool {
	if f.IQ >= 1 && c.ClaimedByKin {
		return false
	}
	if f.IQ >= 2 && ArrivalEnergy(f.Energy, c.Dist, f.Speed, f.CostPerTick) < f.MinEnergy {
		return false
	}
	return true
}

// Closest tracks the nearest accepted candidate across a query.
type Closest[K comparable] struct {
	ID    K
	Pos   r2.Vec
	Dist  float64
	Found bool
}

// Offer records id if it is nearer than the current best.
func (c *Closest[K]) Offer(id K, pos r2.Vec, dist float64) {
	if !c.Found || dist < c.Dist {
		c.ID, c.Pos, c.Dist, c.Found = id, pos, dist, true
	}
}

// Reached reports whether a body moving speed per tick gets to food at dist
// this tick.
func Reached(dist, speed float64) bool {
	return dist <= speed
}
