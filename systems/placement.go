package systems

import (
	"math"
	"math/rand"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/config"
)

// Reserved colors new bodies must stay away from: plants and infection markers.
var (
	PlantGreen = colorful.Color{R: 0, G: 228.0 / 255, B: 48.0 / 255}
	MarkerRed  = colorful.Color{R: 230.0 / 255, G: 41.0 / 255, B: 55.0 / 255}
)

// Occupancy answers whether anything is indexed within radius of a point.
type Occupancy interface {
	Occupied(center r2.Vec, radius float64) bool
}

// Occupied implements Occupancy.
func (ci *CellIndex[K]) Occupied(center r2.Vec, radius float64) bool {
	return ci.Any(center, radius, nil)
}

// Placer finds free positions (and distinct colors) by rejection sampling.
// Every loop is bounded: by attempt counts, and for plants also by wall clock.
type Placer struct {
	Width, Height float64
	Radius, Gap   float64
	ColorGap      float64

	BodyAttempts  int
	ColorAttempts int
	PlantAttempts int
	PlantBudget   time.Duration

	// Now is the wall clock used for the plant budget.
	Now func() time.Time
}

// NewPlacer builds a placer from a config snapshot.
func NewPlacer(cfg *config.Config) *Placer {
	return &Placer{
		Width:         cfg.Derived.WorldW,
		Height:        cfg.Derived.WorldH,
		Radius:        cfg.Body.Radius,
		Gap:           cfg.Body.MinGap,
		ColorGap:      cfg.Body.ColorGap,
		BodyAttempts:  cfg.Body.SpawnAttempts,
		ColorAttempts: cfg.Body.ColorAttempts,
		PlantAttempts: cfg.Plants.SpawnAttempts,
		PlantBudget:   cfg.Plants.SpawnTimeLimit,
		Now:           time.Now,
	}
}

// free reports whether pos keeps the border margin and the spacing to every
// indexed entity.
func (p *Placer) free(pos r2.Vec, occupied []Occupancy) bool {
	margin := p.Radius + p.Gap
	if pos.X <= margin || pos.X >= p.Width-margin || pos.Y <= margin || pos.Y >= p.Height-margin {
		return false
	}
	spacing := 2*p.Radius + p.Gap
	for _, o := range occupied {
		if o.Occupied(pos, spacing) {
			return false
		}
	}
	return true
}

func (p *Placer) sample(rng *rand.Rand) r2.Vec {
	return r2.Vec{X: rng.Float64() * p.Width, Y: rng.Float64() * p.Height}
}

// SpawnPlant searches for a free plant position. It gives up, returning
// ok=false, once the wall-clock budget or the attempt cap is exhausted.
func (p *Placer) SpawnPlant(rng *rand.Rand, occupied ...Occupancy) (r2.Vec, bool) {
	deadline := p.Now().Add(p.PlantBudget)
	for attempt := 0; attempt < p.PlantAttempts; attempt++ {
		if attempt > 0 && !p.Now().Before(deadline) {
			return r2.Vec{}, false
		}
		pos := p.sample(rng)
		if p.free(pos, occupied) {
			return pos, true
		}
	}
	return r2.Vec{}, false
}

// SpawnBody searches for a free body position and a color distinct from
// PlantGreen, MarkerRed and every color in taken. n is the total body count
// the color separation is scaled for. When positions run out it returns
// ok=false; when colors run out it keeps the most separated candidate.
func (p *Placer) SpawnBody(rng *rand.Rand, taken []colorful.Color, n int, occupied ...Occupancy) (r2.Vec, colorful.Color, bool) {
	var pos r2.Vec
	found := false
	for range p.BodyAttempts {
		pos = p.sample(rng)
		if p.free(pos, occupied) {
			found = true
			break
		}
	}
	if !found {
		return r2.Vec{}, colorful.Color{}, false
	}
	return pos, p.SampleColor(rng, taken, n), true
}

// ColorThreshold returns the minimum RGB distance between body colors for a
// population of n bodies.
func (p *Placer) ColorThreshold(n int) float64 {
	return p.ColorGap / math.Cbrt(float64(n+3))
}

// SampleColor draws uniform RGB colors until one is at least ColorThreshold(n)
// away from the reserved colors and from taken.
func (p *Placer) SampleColor(rng *rand.Rand, taken []colorful.Color, n int) colorful.Color {
	threshold := p.ColorThreshold(n)
	var best colorful.Color
	bestDist := -1.0

	attempts := max(p.ColorAttempts, 1)
	for range attempts {
		c := colorful.Color{R: rng.Float64(), G: rng.Float64(), B: rng.Float64()}
		d := nearestColor(c, taken)
		if d >= threshold {
			return c
		}
		if d > bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func nearestColor(c colorful.Color, taken []colorful.Color) float64 {
	d := math.Min(c.DistanceRgb(PlantGreen), c.DistanceRgb(MarkerRed))
	for _, t := range taken {
		d = math.Min(d, c.DistanceRgb(t))
	}
	return d
}

// Deviate draws uniformly from [v*(1-d), v*(1+d)]. A zero deviation returns v.
func Deviate(rng *rand.Rand, v, d float64) float64 {
	if d == 0 {
		return v
	}
	return v*(1-d) + rng.Float64()*2*d*v
}
