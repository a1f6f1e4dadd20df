package game

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/components"
	"github.com/pthm-cable/eportal/geom"
	"github.com/pthm-cable/eportal/systems"
	"github.com/pthm-cable/eportal/telemetry"
)

// claim keys the number of bodies of one type following one target.
type claim struct {
	kind     components.StatusKind
	target   uint64
	bodyType uint32
}

func claimOf(st components.Status, bodyType uint32) (claim, bool) {
	switch st.Kind {
	case components.FollowingPlant:
		return claim{kind: st.Kind, target: uint64(st.Plant), bodyType: bodyType}, true
	case components.FollowingBody:
		return claim{kind: st.Kind, target: uint64(st.Body), bodyType: bodyType}, true
	}
	return claim{}, false
}

// Step advances the simulation by one tick.
func (g *Game) Step() {
	g.perf.StartTick()
	g.tick++
	g.now += g.cfg.Derived.DT

	g.perf.StartPhase(telemetry.PhaseConditions)
	g.updateConditions()

	g.perf.StartPhase(telemetry.PhasePlants)
	g.updatePlants()

	g.perf.StartPhase(telemetry.PhaseBodies)
	g.buildClaims()
	g.updateBodies()

	g.perf.StartPhase(telemetry.PhaseBirths)
	g.flushBirths()

	g.perf.StartPhase(telemetry.PhaseCleanup)
	g.flushRemovals(false)

	g.perf.EndTick()

	g.flushTelemetry()
}

// updateConditions advances weather and resource conditions.
func (g *Game) updateConditions() {
	cc := g.cfg.Conditions
	if g.weather.Update(g.now, g.rng, cc.Weather) {
		kind, span, _ := g.weather.Active()
		g.collector.RecordConditionStarted()
		slog.Info("condition_started",
			"tick", g.tick,
			"condition", kind.String(),
			"duration", span.Duration.String(),
		)
	}
	for _, kind := range g.resources.Update(g.now, g.rng, cc) {
		span, _ := g.resources.Active(kind)
		g.collector.RecordConditionStarted()
		slog.Info("condition_started",
			"tick", g.tick,
			"condition", kind.String(),
			"duration", span.Duration.String(),
		)
	}
}

// rollCount turns an expected count into an integer, rolling the fraction.
func (g *Game) rollCount(expected float64) int {
	if expected <= 0 {
		return 0
	}
	n := int(expected)
	if g.rng.Float64() < expected-float64(n) {
		n++
	}
	return n
}

// updatePlants spawns new plants and withers old ones, both scaled by the
// active conditions.
func (g *Game) updatePlants() {
	cc := g.cfg.Conditions
	pc := g.cfg.Plants

	spawn := g.rollCount(pc.PerTick * g.weather.SpawnFactor(cc.Weather) * g.resources.SpawnFactor(cc))
	for range spawn {
		g.spawnPlant()
	}

	wither := g.rollCount(float64(len(g.plants)) * pc.DeathRate * g.weather.DeathFactor(cc.Weather))
	for range wither {
		id, ok := g.plantCells.Random(g.rng)
		if !ok {
			break
		}
		g.removePlant(id)
		g.collector.RecordPlantWithered()
	}
}

// buildClaims counts, per body type, who is following what.
func (g *Game) buildClaims() {
	clear(g.claims)
	query := g.bodyFilter.Query()
	for query.Next() {
		_, _, org := query.Get()
		if !g.live(query.Entity(), org.ID) || org.Dying {
			continue
		}
		if c, ok := claimOf(g.resolveStatus(org.Status), org.BodyType); ok {
			g.claims[c]++
		}
	}
}

// claimedByKin reports whether another body of org's type follows target.
func (g *Game) claimedByKin(org *components.Organism, st components.Status) bool {
	c, ok := claimOf(st, org.BodyType)
	if !ok {
		return false
	}
	n := g.claims[c]
	if own, ok := claimOf(org.Status, org.BodyType); ok && own == c {
		n--
	}
	return n > 0
}

// resolveStatus returns st, or Sleeping when its target no longer exists.
func (g *Game) resolveStatus(st components.Status) components.Status {
	if !st.HasTarget() {
		return st
	}
	if _, ok := g.targetPos(st); !ok {
		return components.SleepingStatus()
	}
	return st
}

// targetPos looks up the current position of a status target.
func (g *Game) targetPos(st components.Status) (r2.Vec, bool) {
	switch st.Kind {
	case components.FollowingPlant:
		return g.plantCells.Pos(st.Plant)
	case components.FollowingBody, components.EscapingBody:
		return g.bodyCells.Pos(st.Body)
	}
	return r2.Vec{}, false
}

// updateBodies runs the per-body pass: death, healing, infection, the
// behavior decision, movement, energy costs and reproduction.
func (g *Game) updateBodies() {
	bc := g.cfg.Body

	query := g.bodyFilter.Query()
	for query.Next() {
		pos, v, org := query.Get()
		if !g.live(query.Entity(), org.ID) {
			continue
		}

		if org.Dying {
			if g.now-org.DeathTime > bc.DyingGrace {
				g.bury(pos.Vec, v, org)
			}
			continue
		}
		if age := (g.now - org.Born).Seconds(); age > v.Lifespan {
			g.kill(org, telemetry.DeathOldAge)
			continue
		}
		if v.Energy < bc.MinEnergy {
			g.kill(org, telemetry.DeathStarved)
			continue
		}

		org.Status = g.resolveStatus(org.Status)

		if cured := systems.Heal(org, v, g.cfg.Viruses); cured > 0 {
			g.collector.RecordRecoveries(cured)
		}
		g.contactInfection(pos.Vec, v, org)

		target, meal := g.decide(pos.Vec, v, org)
		moving := org.Status.Kind != components.Sleeping

		switch {
		case org.Status.Kind == components.EscapingBody:
			pos.Vec = g.clampToArea(geom.Towards(pos.Vec, target, -v.Speed))
		case meal.Found && systems.Reached(meal.Dist, v.Speed):
			pos.Vec = meal.Pos
			g.eat(v, org, meal.ID)
			org.Status = components.SleepingStatus()
		case org.Status.Kind == components.Walking:
			pos.Vec = g.walk(pos.Vec, v, org)
		case moving:
			pos.Vec = g.clampToArea(geom.Towards(pos.Vec, target, v.Speed))
		}
		g.bodyCells.Move(org.ID, pos.Vec)

		v.Energy -= systems.TickCost(v, org.IQ, moving, g.cfg.Energy)
		v.Lifespan -= systems.LifespanCost(v, moving, g.cfg.Energy)

		if v.Energy >= v.DivisionThreshold {
			g.queueBirth(pos.Vec, v, org)
		}
	}
}

// food is the chosen meal: a plant or a body, identified by a tagged id.
type food struct {
	systems.Closest[foodID]
}

type foodID struct {
	plant components.PlantID
	body  uint32
}

// decide picks the body's status for this tick. It returns the point to move
// towards (or away from) and, when following food, the food itself.
func (g *Game) decide(pos r2.Vec, v *components.Vitals, org *components.Organism) (r2.Vec, food) {
	if chaser, ok := g.pickChaser(pos, v, org); ok {
		org.Status = components.EscapeBody(chaser.ID)
		return chaser.Pos, food{}
	}

	f := g.findFood(pos, v, org)
	if !f.Found {
		g.idle(org)
		return pos, f
	}
	if f.ID.body != 0 {
		org.Status = components.FollowBody(f.ID.body)
	} else {
		org.Status = components.FollowPlant(f.ID.plant)
	}
	return f.Pos, f
}

// idle puts eaters of plants to sleep. Eaters of bodies keep walking their
// heading, picking a fresh random one when the walk starts.
func (g *Game) idle(org *components.Organism) {
	if org.Diet != components.EaterOfBodies {
		org.Status = components.SleepingStatus()
		return
	}
	if org.Status.Kind != components.Walking || org.Heading == (r2.Vec{}) {
		angle := g.rng.Float64() * 2 * math.Pi
		org.Heading = r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
	}
	org.Status = components.WalkingStatus()
}

// walk moves a walking body one step along its heading. A body stopped by
// the area edge drops its heading so the next step turns.
func (g *Game) walk(pos r2.Vec, v *components.Vitals, org *components.Organism) r2.Vec {
	next := r2.Add(pos, r2.Scale(v.Speed, org.Heading))
	clamped := g.clampToArea(next)
	if clamped != next {
		org.Heading = r2.Vec{}
	}
	return clamped
}

// pickChaser finds the bodies in view that are following org.
func (g *Game) pickChaser(pos r2.Vec, v *components.Vitals, org *components.Organism) (systems.Chaser, bool) {
	g.chasers = g.chasers[:0]
	g.bodyCells.Query(pos, v.VisionDistance, func(id uint32, p r2.Vec) bool {
		if id == org.ID {
			return true
		}
		_, ov, oorg := g.bodyMapper.Get(g.bodies[id])
		if oorg.Dying || oorg.Status.Kind != components.FollowingBody || oorg.Status.Body != org.ID {
			return true
		}
		g.chasers = append(g.chasers, systems.Chaser{
			ID:    id,
			Pos:   p,
			Speed: ov.Speed,
			Dist:  geom.Distance(pos, p),
		})
		return true
	})
	return systems.PickChaser(g.chasers, org.IQ, v.Speed)
}

// findFood returns the closest acceptable food in view.
func (g *Game) findFood(pos r2.Vec, v *components.Vitals, org *components.Organism) food {
	forager := systems.Forager{
		IQ:          org.IQ,
		Energy:      v.Energy,
		Speed:       v.Speed,
		CostPerTick: systems.TickCost(v, org.IQ, true, g.cfg.Energy),
		MinEnergy:   g.cfg.Body.MinEnergy,
	}

	var best food
	if org.Diet == components.EaterOfPlants {
		g.plantCells.Query(pos, v.VisionDistance, func(id components.PlantID, p r2.Vec) bool {
			dist := geom.Distance(pos, p)
			cand := systems.FoodCandidate{
				Dist:         dist,
				Value:        g.cfg.Plants.HP,
				ClaimedByKin: g.claimedByKin(org, components.FollowPlant(id)),
			}
			if forager.Accepts(cand) {
				best.Offer(foodID{plant: id}, p, dist)
			}
			return true
		})
		return best
	}

	g.bodyCells.Query(pos, v.VisionDistance, func(id uint32, p r2.Vec) bool {
		if id == org.ID {
			return true
		}
		_, pv, porg := g.bodyMapper.Get(g.bodies[id])
		if porg.BodyType == org.BodyType || (!porg.Dying && pv.Energy >= v.Energy) {
			return true
		}
		dist := geom.Distance(pos, p)
		cand := systems.FoodCandidate{
			Dist:         dist,
			Value:        pv.Energy,
			ClaimedByKin: g.claimedByKin(org, components.FollowBody(id)),
		}
		if forager.Accepts(cand) {
			best.Offer(foodID{body: id}, p, dist)
		}
		return true
	})
	return best
}

// eat credits the food's energy and removes it from the field.
func (g *Game) eat(v *components.Vitals, org *components.Organism, id foodID) {
	maxEnergy := g.cfg.Body.MaxEnergy

	if id.body == 0 {
		v.Energy += systems.EatGain(v.Energy, g.cfg.Plants.HP, maxEnergy)
		g.removePlant(id.plant)
		g.collector.RecordPlantEaten()
		return
	}

	e, ok := g.bodies[id.body]
	if !ok {
		return
	}
	_, pv, porg := g.bodyMapper.Get(e)
	v.Energy += systems.EatGain(v.Energy, pv.Energy, maxEnergy)
	if n := systems.InfectFrom(org, v, porg.Viruses, g.cfg.Viruses); n > 0 {
		g.collector.RecordInfections(n)
	}
	if !porg.Dying {
		g.collector.RecordDeath(telemetry.DeathEaten)
	}
	g.removeBody(id.body)
}

// contactInfection passes viruses from touching bodies to org.
func (g *Game) contactInfection(pos r2.Vec, v *components.Vitals, org *components.Organism) {
	n := 0
	g.bodyCells.Query(pos, 2*g.cfg.Body.Radius, func(id uint32, _ r2.Vec) bool {
		if id == org.ID {
			return true
		}
		_, _, other := g.bodyMapper.Get(g.bodies[id])
		n += systems.InfectFrom(org, v, other.Viruses, g.cfg.Viruses)
		return true
	})
	if n > 0 {
		g.collector.RecordInfections(n)
	}
}

func (g *Game) clampToArea(p r2.Vec) r2.Vec {
	r := g.cfg.Body.Radius
	return geom.Clamp(p, r, r, g.cfg.Derived.WorldW-r, g.cfg.Derived.WorldH-r)
}

// snapshot samples the world for a telemetry window.
func (g *Game) snapshot() telemetry.Snapshot {
	c := g.Counts()
	snap := telemetry.Snapshot{
		PlantEaters: c.PlantEaters,
		BodyEaters:  c.BodyEaters,
		Plants:      c.Plants,
		Crosses:     c.Crosses,
		Energies:    make([]float64, 0, len(g.bodies)),
		Weather:     "none",
	}
	if kind, _, ok := g.weather.Active(); ok {
		snap.Weather = kind.String()
	}
	_, snap.FewerPlants = g.resources.Active(systems.FewerPlants)
	_, snap.MorePlants = g.resources.Active(systems.MorePlants)

	query := g.bodyFilter.Query()
	for query.Next() {
		_, v, org := query.Get()
		if g.live(query.Entity(), org.ID) && !org.Dying {
			snap.Energies = append(snap.Energies, v.Energy)
		}
	}
	return snap
}

// flushTelemetry closes the stats window when it is due.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}
	stats := g.collector.Flush(g.tick, g.snapshot())
	perf := g.perf.Stats()

	if g.onStats != nil {
		g.onStats(stats)
	}
	if g.logStats {
		stats.LogStats()
		perf.LogStats()
	}
	for _, b := range g.bookmarks.Check(stats) {
		b.LogBookmark()
	}
	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Warn("telemetry_write_failed", "error", err)
	}
	if err := g.output.WritePerf(perf, g.tick); err != nil {
		slog.Warn("perf_write_failed", "error", err)
	}
}
