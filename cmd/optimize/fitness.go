package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/eportal/config"
	"github.com/pthm-cable/eportal/game"
	"github.com/pthm-cable/eportal/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Minimum viable population: if either diet stays below this for
// extinctionGraceSec, it counts as functionally extinct.
const (
	minViablePop       = 3
	extinctionGraceSec = 30.0
	warmupSec          = 5.0
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before functional extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
}

type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Invalid parameter sets score zero survival.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return 0
	}

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(cfg, s)
			q := computeQuality(r.windowStats, cfg)
			results[idx] = seedResult{fitness: computeFitness(r.survivalTicks, q), quality: q}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until functional extinction
// or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(base *config.Config, seed int64) *runResult {
	cfg := *base
	result := &runResult{survivalTicks: fe.maxTicks}

	g, err := game.New(&cfg, game.Options{
		Seed:     seed,
		Populate: true,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.survivalTicks = 0
		return result
	}
	defer g.Close()

	dt := cfg.Derived.DTSeconds
	graceTicks := int32(extinctionGraceSec / dt)
	warmupTicks := int32(warmupSec / dt)
	var plantBelow, bodyBelow int32

	for g.Tick() < fe.maxTicks {
		g.Step()

		tick := g.Tick()
		if tick < warmupTicks {
			continue
		}

		c := g.Counts()
		if c.PlantEaters == 0 || c.BodyEaters == 0 {
			result.survivalTicks = tick
			return result
		}

		plantBelow = below(c.PlantEaters, plantBelow)
		bodyBelow = below(c.BodyEaters, bodyBelow)
		if plantBelow >= graceTicks || bodyBelow >= graceTicks {
			result.survivalTicks = tick
			return result
		}
	}
	return result
}

// below extends a streak of ticks under the viable population, or resets it.
func below(count int, streak int32) int32 {
	if count < minViablePop {
		return streak + 1
	}
	return 0
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Survival dominates; quality adds up to a 20% bonus.
func computeFitness(survivalTicks int32, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.40
	qualityWeightStability = 0.35
	qualityWeightEnergy    = 0.25

	qualityWarmupWindows = 3 // skip first N windows
	qualityMinPop        = 3 // exclude windows where either diet < this
	targetRatio          = 6.0
)

// computeQuality scores the ecosystem in [0, 1] from window stats: plant
// eaters outnumbering body eaters by targetRatio, steady populations, and
// median energy near half the division threshold.
func computeQuality(windows []telemetry.WindowStats, cfg *config.Config) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var ratioSum, energySum float64
	var plantCounts, bodyCounts []float64
	targetEnergy := cfg.Body.AverageDivisionThreshold / 2

	for _, w := range windows[qualityWarmupWindows:] {
		if w.PlantEaters < qualityMinPop || w.BodyEaters < qualityMinPop {
			continue
		}
		plantCounts = append(plantCounts, float64(w.PlantEaters))
		bodyCounts = append(bodyCounts, float64(w.BodyEaters))

		logErr := math.Log(float64(w.PlantEaters) / float64(w.BodyEaters) / targetRatio)
		ratioSum += math.Exp(-logErr * logErr)

		rel := (w.EnergyP50 - targetEnergy) / (0.5 * targetEnergy)
		energySum += math.Exp(-rel * rel)
	}

	n := len(plantCounts)
	if n == 0 {
		return 0
	}

	stability := 0.0
	if n >= 2 {
		cvPlant, cvBody := cv(plantCounts), cv(bodyCounts)
		stability = math.Exp(-(cvPlant*cvPlant + cvBody*cvBody))
	}

	quality := qualityWeightRatio*ratioSum/float64(n) +
		qualityWeightStability*stability +
		qualityWeightEnergy*energySum/float64(n)
	return min(max(quality, 0), 1)
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
