package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/eportal/config"
	"github.com/pthm-cable/eportal/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9*math.Max(1, math.Abs(def[i])) {
			t.Errorf("%s: round trip %v -> %v", pv.Specs[i].Name, def[i], back[i])
		}
	}
}

func TestDefaultsMatchEmbeddedConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-12 {
			t.Errorf("%s: config has %v, spec default %v", spec.Name, got[i], spec.Default)
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	values := pv.DefaultVector()
	for i := range values {
		values[i] = pv.Specs[i].Max * 10
	}
	if err := pv.ApplyToConfig(cfg, values); err != nil {
		t.Fatalf("ApplyToConfig: %v", err)
	}

	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] > spec.Max {
			t.Errorf("%s = %v, exceeds max %v", spec.Name, got[i], spec.Max)
		}
	}
}

func TestComputeQuality(t *testing.T) {
	cfg := config.Default()
	half := cfg.Body.AverageDivisionThreshold / 2

	window := func(plantEaters, bodyEaters int, p50 float64) telemetry.WindowStats {
		return telemetry.WindowStats{PlantEaters: plantEaters, BodyEaters: bodyEaters, EnergyP50: p50}
	}

	var ideal []telemetry.WindowStats
	for range 10 {
		ideal = append(ideal, window(60, 10, half))
	}
	if q := computeQuality(ideal, cfg); math.Abs(q-1) > 1e-9 {
		t.Errorf("steady ideal ecosystem quality = %v, want 1", q)
	}

	var extinct []telemetry.WindowStats
	for range 10 {
		extinct = append(extinct, window(60, 0, half))
	}
	if q := computeQuality(extinct, cfg); q != 0 {
		t.Errorf("quality without body eaters = %v, want 0", q)
	}

	if q := computeQuality(ideal[:3], cfg); q != 0 {
		t.Errorf("quality within warmup = %v, want 0", q)
	}
}

func TestComputeFitnessPrefersSurvival(t *testing.T) {
	if computeFitness(1000, 0) >= computeFitness(500, 1) {
		t.Error("longer survival should score better than higher quality")
	}
	if computeFitness(1000, 1) >= computeFitness(1000, 0) {
		t.Error("higher quality should break survival ties")
	}
}
