package telemetry

import (
	"time"

	"github.com/pthm-cable/eportal/components"
)

// DeathCause says why a body died.
type DeathCause uint8

const (
	DeathStarved DeathCause = iota
	DeathOldAge
	DeathEaten
)

func (c DeathCause) String() string {
	switch c {
	case DeathOldAge:
		return "old_age"
	case DeathEaten:
		return "eaten"
	}
	return "starved"
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  time.Duration

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	births             [2]int // by diet
	deaths             [3]int // by cause
	plantsEaten        int
	plantsSpawned      int
	plantSpawnsSkipped int
	plantsWithered     int
	infections         int
	recoveries         int
	conditionsStarted  int
}

// NewCollector creates a new stats collector.
// window: how long each stats window lasts in simulation time
// dt: simulation time per tick
func NewCollector(window, dt time.Duration) *Collector {
	ticksPerWindow := int32(window / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(diet components.Diet) {
	c.births[diet]++
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(cause DeathCause) {
	c.deaths[cause]++
}

// RecordPlantEaten records a plant being eaten.
func (c *Collector) RecordPlantEaten() { c.plantsEaten++ }

// RecordPlantSpawn records a plant spawn attempt and whether it succeeded.
func (c *Collector) RecordPlantSpawn(ok bool) {
	if ok {
		c.plantsSpawned++
	} else {
		c.plantSpawnsSkipped++
	}
}

// RecordPlantWithered records a plant removed by aging.
func (c *Collector) RecordPlantWithered() { c.plantsWithered++ }

// RecordInfections records n new infections.
func (c *Collector) RecordInfections(n int) { c.infections += n }

// RecordRecoveries records n cured infections.
func (c *Collector) RecordRecoveries(n int) { c.recoveries += n }

// RecordConditionStarted records a weather or resource condition starting.
func (c *Collector) RecordConditionStarted() { c.conditionsStarted++ }

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Snapshot is the world state sampled at the end of a window.
type Snapshot struct {
	PlantEaters int
	BodyEaters  int
	Plants      int
	Crosses     int
	Energies    []float64
	Weather     string
	FewerPlants bool
	MorePlants  bool
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, snap Snapshot) WindowStats {
	es := ComputeEnergyStats(snap.Energies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      (time.Duration(currentTick) * c.dt).Seconds(),

		PlantEaters: snap.PlantEaters,
		BodyEaters:  snap.BodyEaters,
		Plants:      snap.Plants,
		Crosses:     snap.Crosses,

		PlantEaterBirths: c.births[components.EaterOfPlants],
		BodyEaterBirths:  c.births[components.EaterOfBodies],
		DeathsStarved:    c.deaths[DeathStarved],
		DeathsOldAge:     c.deaths[DeathOldAge],
		DeathsEaten:      c.deaths[DeathEaten],

		PlantsEaten:        c.plantsEaten,
		PlantsSpawned:      c.plantsSpawned,
		PlantSpawnsSkipped: c.plantSpawnsSkipped,
		PlantsWithered:     c.plantsWithered,

		Infections:        c.infections,
		Recoveries:        c.recoveries,
		ConditionsStarted: c.conditionsStarted,
		Weather:           snap.Weather,
		FewerPlants:       snap.FewerPlants,
		MorePlants:        snap.MorePlants,

		EnergyMean: es.Mean,
		EnergyStd:  es.Std,
		EnergyP10:  es.P10,
		EnergyP50:  es.P50,
		EnergyP90:  es.P90,
	}

	// Reset for next window
	*c = Collector{
		windowDurationTicks: c.windowDurationTicks,
		dt:                  c.dt,
		windowStartTick:     currentTick,
	}

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
