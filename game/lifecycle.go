package game

import (
	"log/slog"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/components"
	"github.com/pthm-cable/eportal/geom"
	"github.com/pthm-cable/eportal/systems"
	"github.com/pthm-cable/eportal/telemetry"
)

// birth is a child queued during the body pass and created after it.
type birth struct {
	pos    r2.Vec
	vitals components.Vitals
	org    components.Organism
}

// spawnInitialPopulation places the configured bodies and plants.
func (g *Game) spawnInitialPopulation() {
	pop := g.cfg.Population
	total := pop.PlantEaters + pop.BodyEaters
	colors := make([]colorful.Color, 0, total)

	placed, failed := 0, 0
	for i := range total {
		diet := components.EaterOfPlants
		if i >= pop.PlantEaters {
			diet = components.EaterOfBodies
		}
		pos, col, ok := g.placer.SpawnBody(g.rng, colors, total, g.bodyCells, g.plantCells)
		if !ok {
			failed++
			continue
		}
		colors = append(colors, col)
		g.addBody(pos, g.newVitals(), g.newOrganism(diet, col))
		placed++
	}

	plants, skipped := 0, 0
	for range pop.Plants {
		if g.spawnPlant() {
			plants++
		} else {
			skipped++
		}
	}

	slog.Info("population_spawned",
		"bodies", placed,
		"bodies_failed", failed,
		"plants", plants,
		"plants_skipped", skipped,
	)
}

// newVitals draws first-generation attributes around the configured averages.
func (g *Game) newVitals() components.Vitals {
	b := g.cfg.Body
	d := b.Deviation
	v := components.Vitals{
		Energy:            systems.Deviate(g.rng, b.AverageEnergy, d),
		Speed:             systems.Deviate(g.rng, b.AverageSpeed, d),
		VisionDistance:    systems.Deviate(g.rng, b.AverageVisionDistance, d),
		DivisionThreshold: systems.Deviate(g.rng, b.AverageDivisionThreshold, d),
		Lifespan:          systems.Deviate(g.rng, b.Lifespan.Seconds(), d),
	}
	v.BaseSpeed = v.Speed
	v.BaseVision = v.VisionDistance
	return v
}

// newOrganism creates a first-generation organism with its own body type.
func (g *Game) newOrganism(diet components.Diet, col colorful.Color) components.Organism {
	org := components.Organism{
		Diet:     diet,
		BodyType: g.nextBodyTy,
		IQ:       g.rng.Intn(g.cfg.Body.MaxIQ + 1),
		Color:    col,
		Born:     g.now,
	}
	g.nextBodyTy++

	vc := g.cfg.Viruses
	for virus := range components.NumViruses {
		c := vc.Speed
		if virus == components.VisionVirus {
			c = vc.Vision
		}
		if c.InfectionChance > 0 && g.rng.Float64() < c.InfectionChance {
			org.Viruses[virus] = components.Infection{
				Infected: true,
				Healed:   g.rng.Float64() * c.HealEnergy,
			}
		}
	}
	return org
}

// addBody creates the entity and indexes it. Returns the assigned id.
func (g *Game) addBody(pos r2.Vec, v components.Vitals, org components.Organism) uint32 {
	org.ID = g.nextBodyID
	g.nextBodyID++
	systems.RefreshAttributes(&org, &v, g.cfg.Viruses)

	p := components.Position{Vec: pos}
	e := g.bodyMapper.NewEntity(&p, &v, &org)
	g.bodies[org.ID] = e
	g.bodyCells.Insert(org.ID, pos)
	return org.ID
}

// nextPlantID derives an id from the simulation time, bumped past the last
// issued id so ids never repeat.
func (g *Game) nextPlantID() components.PlantID {
	id := max(components.PlantID(g.now), g.lastPlantID+1)
	for {
		if _, taken := g.plants[id]; !taken {
			break
		}
		id++
	}
	g.lastPlantID = id
	return id
}

// spawnPlant places one plant, reporting whether a free spot was found in
// budget.
func (g *Game) spawnPlant() bool {
	pos, ok := g.placer.SpawnPlant(g.rng, g.bodyCells, g.plantCells)
	g.collector.RecordPlantSpawn(ok)
	if !ok {
		return false
	}
	g.addPlant(pos)
	return true
}

func (g *Game) addPlant(pos r2.Vec) components.PlantID {
	id := g.nextPlantID()
	p := components.Position{Vec: pos}
	pl := components.Plant{ID: id, HP: g.cfg.Plants.HP}
	e := g.plantMapper.NewEntity(&p, &pl)
	g.plants[id] = e
	g.plantCells.Insert(id, pos)
	return id
}

// removePlant takes a plant out of the lookups now and queues the entity.
func (g *Game) removePlant(id components.PlantID) {
	e, ok := g.plants[id]
	if !ok {
		return
	}
	delete(g.plants, id)
	g.plantCells.Remove(id)
	g.pendingPlants = append(g.pendingPlants, e)
}

// removeBody takes a body out of the lookups now and queues the entity.
func (g *Game) removeBody(id uint32) {
	e, ok := g.bodies[id]
	if !ok {
		return
	}
	delete(g.bodies, id)
	g.bodyCells.Remove(id)
	g.pendingBodies = append(g.pendingBodies, e)
}

// kill marks a body as dying. It stays on the field, inert, for the grace
// period and then leaves a cross.
func (g *Game) kill(org *components.Organism, cause telemetry.DeathCause) {
	org.Dying = true
	org.DeathTime = g.now
	org.Status = components.SleepingStatus()
	g.collector.RecordDeath(cause)
}

// bury removes a dying body and records its cross.
func (g *Game) bury(pos r2.Vec, v *components.Vitals, org *components.Organism) {
	g.crosses = append(g.crosses, components.Cross{
		Pos:       pos,
		Timestamp: g.now,
		Energy:    v.Energy,
		Viruses:   org.Viruses,
		Color:     org.Color,
		BodyType:  org.BodyType,
	})
	g.removeBody(org.ID)
}

// queueBirth splits a parent that reached its division threshold.
func (g *Game) queueBirth(pos r2.Vec, v *components.Vitals, org *components.Organism) {
	b := g.cfg.Body
	d := b.Deviation

	child := components.Vitals{
		Energy:            v.Energy / 2,
		Speed:             systems.Deviate(g.rng, v.BaseSpeed, d),
		VisionDistance:    systems.Deviate(g.rng, v.BaseVision, d),
		DivisionThreshold: systems.Deviate(g.rng, v.DivisionThreshold, d),
		Lifespan:          systems.Deviate(g.rng, b.Lifespan.Seconds(), d),
	}
	child.BaseSpeed = child.Speed
	child.BaseVision = child.VisionDistance

	cost := systems.BirthCost(&child, g.cfg.Energy)
	if cost > v.Energy {
		return
	}
	v.Energy -= cost

	iq := org.IQ
	if g.rng.Float64() < b.IQChangeChance {
		if g.rng.Intn(2) == 0 {
			iq--
		} else {
			iq++
		}
		iq = min(max(iq, 0), b.MaxIQ)
	}

	corg := components.Organism{
		Diet:     org.Diet,
		BodyType: org.BodyType,
		IQ:       iq,
		Color:    org.Color,
		Born:     g.now,
	}
	for virus, inf := range org.Viruses {
		if inf.Infected {
			corg.Viruses[virus] = components.Infection{Infected: true}
		}
	}

	angle := g.rng.Float64() * 2 * math.Pi
	offset := r2.Scale(2*b.Radius+b.MinGap, r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)})
	cpos := geom.Clamp(r2.Add(pos, offset), b.Radius, b.Radius, g.cfg.Derived.WorldW-b.Radius, g.cfg.Derived.WorldH-b.Radius)

	g.births = append(g.births, birth{pos: cpos, vitals: child, org: corg})
}

// flushBirths creates the children queued this tick.
func (g *Game) flushBirths() {
	for i := range g.births {
		b := &g.births[i]
		g.addBody(b.pos, b.vitals, b.org)
		g.collector.RecordBirth(b.org.Diet)
	}
	g.births = g.births[:0]
}

// flushRemovals deletes queued entities from the world once enough have
// piled up, and compacts expired crosses under the same threshold.
func (g *Game) flushRemovals(force bool) {
	threshold := g.cfg.Removal.MinToRemove

	if force || len(g.pendingBodies) > threshold {
		g.removeEntities(g.pendingBodies)
		g.pendingBodies = g.pendingBodies[:0]
	}
	if force || len(g.pendingPlants) > threshold {
		g.removeEntities(g.pendingPlants)
		g.pendingPlants = g.pendingPlants[:0]
	}

	expired := 0
	for i := range g.crosses {
		if g.crosses[i].Expired(g.now, g.cfg.Body.CrossLifespan) {
			expired++
		}
	}
	if expired > 0 && (force || expired > threshold) {
		kept := g.crosses[:0]
		for _, c := range g.crosses {
			if !c.Expired(g.now, g.cfg.Body.CrossLifespan) {
				kept = append(kept, c)
			}
		}
		g.crosses = kept
	}
}

func (g *Game) removeEntities(entities []ecs.Entity) {
	for _, e := range entities {
		if g.world.Alive(e) {
			g.world.RemoveEntity(e)
		}
	}
}
