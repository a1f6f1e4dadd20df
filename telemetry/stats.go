package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	PlantEaters int `csv:"plant_eaters"`
	BodyEaters  int `csv:"body_eaters"`
	Plants      int `csv:"plants"`
	Crosses     int `csv:"crosses"`

	// Events during window
	PlantEaterBirths int `csv:"plant_eater_births"`
	BodyEaterBirths  int `csv:"body_eater_births"`
	DeathsStarved    int `csv:"deaths_starved"`
	DeathsOldAge     int `csv:"deaths_old_age"`
	DeathsEaten      int `csv:"deaths_eaten"`

	PlantsEaten        int `csv:"plants_eaten"`
	PlantsSpawned      int `csv:"plants_spawned"`
	PlantSpawnsSkipped int `csv:"plant_spawns_skipped"`
	PlantsWithered     int `csv:"plants_withered"`

	Infections int `csv:"infections"`
	Recoveries int `csv:"recoveries"`

	// Conditions
	ConditionsStarted int    `csv:"conditions_started"`
	Weather           string `csv:"weather"`
	FewerPlants       bool   `csv:"fewer_plants"`
	MorePlants        bool   `csv:"more_plants"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`
}

// EnergyStats summarizes a set of energy values.
type EnergyStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeEnergyStats calculates mean, standard deviation and empirical
// quantiles. Empty input yields zeros; a single value has zero spread.
func ComputeEnergyStats(values []float64) EnergyStats {
	n := len(values)
	if n == 0 {
		return EnergyStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	es := EnergyStats{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
	if n > 1 {
		es.Std = stat.StdDev(sorted, nil)
	}
	return es
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("window_stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"plant_eaters", s.PlantEaters,
		"body_eaters", s.BodyEaters,
		"plants", s.Plants,
		"crosses", s.Crosses,
		"plant_eater_births", s.PlantEaterBirths,
		"body_eater_births", s.BodyEaterBirths,
		"deaths_starved", s.DeathsStarved,
		"deaths_old_age", s.DeathsOldAge,
		"deaths_eaten", s.DeathsEaten,
		"plants_eaten", s.PlantsEaten,
		"plants_spawned", s.PlantsSpawned,
		"plant_spawns_skipped", s.PlantSpawnsSkipped,
		"plants_withered", s.PlantsWithered,
		"infections", s.Infections,
		"recoveries", s.Recoveries,
		"conditions_started", s.ConditionsStarted,
		"weather", s.Weather,
		"fewer_plants", s.FewerPlants,
		"more_plants", s.MorePlants,
		"energy_mean", s.EnergyMean,
		"energy_p50", s.EnergyP50,
	)
}
