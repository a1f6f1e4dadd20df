package main

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/config"
	"github.com/pthm-cable/eportal/systems"
)

// PlacementParams holds the spacing knobs shown as sliders.
type PlacementParams struct {
	Radius   float32
	MinGap   float32
	ColorGap float32
	Bodies   int
	Plants   int
	Seed     int64
}

func paramsFrom(cfg *config.Config) PlacementParams {
	return PlacementParams{
		Radius:   float32(cfg.Body.Radius),
		MinGap:   float32(cfg.Body.MinGap),
		ColorGap: float32(cfg.Body.ColorGap),
		Bodies:   cfg.Population.PlantEaters + cfg.Population.BodyEaters,
		Plants:   cfg.Population.Plants,
		Seed:     12345,
	}
}

type placedBody struct {
	pos   r2.Vec
	color colorful.Color
}

// layout is one initial population laid out by the placer.
type layout struct {
	bodies       []placedBody
	plants       []r2.Vec
	failedBodies int
	failedPlants int
	closestColor float64
}

// place runs the placer the same way population spawning does: bodies first,
// then plants, both avoiding everything placed so far.
func place(base *config.Config, params PlacementParams) layout {
	cfg := *base
	cfg.Body.Radius = float64(params.Radius)
	cfg.Body.MinGap = float64(params.MinGap)
	cfg.Body.ColorGap = float64(params.ColorGap)

	placer := systems.NewPlacer(&cfg)
	grid := systems.NewGrid(cfg.Derived.WorldW, cfg.Derived.WorldH, cfg.Grid.Rows)
	bodies := systems.NewCellIndex[int](grid)
	plants := systems.NewCellIndex[int](grid)
	rng := rand.New(rand.NewSource(params.Seed))

	var out layout
	var taken []colorful.Color
	for i := range params.Bodies {
		pos, c, ok := placer.SpawnBody(rng, taken, params.Bodies, bodies)
		if !ok {
			out.failedBodies++
			continue
		}
		bodies.Insert(i, pos)
		taken = append(taken, c)
		out.bodies = append(out.bodies, placedBody{pos: pos, color: c})
	}
	for i := range params.Plants {
		pos, ok := placer.SpawnPlant(rng, bodies, plants)
		if !ok {
			out.failedPlants++
			continue
		}
		plants.Insert(i, pos)
		out.plants = append(out.plants, pos)
	}

	out.closestColor = closestPair(taken)
	return out
}

// closestPair returns the smallest RGB distance between any two colors, or 0
// for fewer than two.
func closestPair(colors []colorful.Color) float64 {
	best := 0.0
	for i := range colors {
		for j := i + 1; j < len(colors); j++ {
			d := colors[i].DistanceRgb(colors[j])
			if best == 0 || d < best {
				best = d
			}
		}
	}
	return best
}
