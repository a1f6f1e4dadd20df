// Package main tunes eportal parameters with CMA-ES so that plant eaters and
// body eaters coexist.
package main

import (
	"github.com/pthm-cable/eportal/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Energy
			{Name: "mass_cost", Path: "energy.mass", Min: 1e-6, Max: 1e-4, Default: 1e-5,
				get: func(c *config.Config) float64 { return c.Energy.Mass },
				set: func(c *config.Config, v float64) { c.Energy.Mass = v }},
			{Name: "movement_cost", Path: "energy.movement", Min: 1e-5, Max: 2e-4, Default: 5e-5,
				get: func(c *config.Config) float64 { return c.Energy.Movement },
				set: func(c *config.Config, v float64) { c.Energy.Movement = v }},
			{Name: "speed_price", Path: "energy.speed_price", Min: 1, Max: 30, Default: 10,
				get: func(c *config.Config) float64 { return c.Energy.SpeedPrice },
				set: func(c *config.Config, v float64) { c.Energy.SpeedPrice = v }},
			{Name: "vision_price", Path: "energy.vision_price", Min: 0.01, Max: 0.5, Default: 0.1,
				get: func(c *config.Config) float64 { return c.Energy.VisionPrice },
				set: func(c *config.Config, v float64) { c.Energy.VisionPrice = v }},
			// Plants
			{Name: "plants_per_tick", Path: "plants.per_tick", Min: 0.5, Max: 6, Default: 2,
				get: func(c *config.Config) float64 { return c.Plants.PerTick },
				set: func(c *config.Config, v float64) { c.Plants.PerTick = v }},
			{Name: "plant_hp", Path: "plants.hp", Min: 10, Max: 60, Default: 25,
				get: func(c *config.Config) float64 { return c.Plants.HP },
				set: func(c *config.Config, v float64) { c.Plants.HP = v }},
			// Bodies
			{Name: "division_threshold", Path: "body.average_division_threshold", Min: 150, Max: 400, Default: 250,
				get: func(c *config.Config) float64 { return c.Body.AverageDivisionThreshold },
				set: func(c *config.Config, v float64) { c.Body.AverageDivisionThreshold = v }},
			{Name: "vision_distance", Path: "body.average_vision_distance", Min: 60, Max: 300, Default: 150,
				get: func(c *config.Config) float64 { return c.Body.AverageVisionDistance },
				set: func(c *config.Config, v float64) { c.Body.AverageVisionDistance = v }},
			{Name: "speed", Path: "body.average_speed", Min: 0.5, Max: 4, Default: 1.5,
				get: func(c *config.Config) float64 { return c.Body.AverageSpeed },
				set: func(c *config.Config, v float64) { c.Body.AverageSpeed = v }},
			// Population
			{Name: "body_eaters", Path: "population.body_eaters", Min: 10, Max: 200, Default: 60,
				get: func(c *config.Config) float64 { return float64(c.Population.BodyEaters) },
				set: func(c *config.Config, v float64) { c.Population.BodyEaters = int(v) }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and refreshes its
// derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
	return cfg.Prepare()
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}
