package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/eportal/components"
	"github.com/pthm-cable/eportal/config"
)

func TestComputeEnergyStats(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   EnergyStats
	}{
		{"empty", nil, EnergyStats{}},
		{"single", []float64{7}, EnergyStats{Mean: 7, P10: 7, P50: 7, P90: 7}},
		{
			"one to ten unsorted",
			[]float64{10, 3, 1, 8, 5, 2, 9, 4, 7, 6},
			EnergyStats{Mean: 5.5, Std: math.Sqrt(55.0 / 6), P10: 1, P50: 5, P90: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeEnergyStats(tt.values)
			check := func(field string, g, w float64) {
				if math.Abs(g-w) > 1e-9 {
					t.Errorf("%s: got %v, want %v", field, g, w)
				}
			}
			check("mean", got.Mean, tt.want.Mean)
			check("std", got.Std, tt.want.Std)
			check("p10", got.P10, tt.want.P10)
			check("p50", got.P50, tt.want.P50)
			check("p90", got.P90, tt.want.P90)
		})
	}
}

func TestComputeEnergyStatsDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeEnergyStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(time.Second, time.Second/60)
	if c.WindowDurationTicks() != 60 {
		t.Fatalf("window ticks: got %d, want 60", c.WindowDurationTicks())
	}

	c.RecordBirth(components.EaterOfPlants)
	c.RecordBirth(components.EaterOfPlants)
	c.RecordBirth(components.EaterOfBodies)
	c.RecordDeath(DeathEaten)
	c.RecordDeath(DeathOldAge)
	c.RecordPlantEaten()
	c.RecordPlantSpawn(true)
	c.RecordPlantSpawn(false)
	c.RecordInfections(2)

	if c.ShouldFlush(59) {
		t.Error("flush requested before the window ended")
	}
	if !c.ShouldFlush(60) {
		t.Error("flush not requested at the window end")
	}

	s := c.Flush(60, Snapshot{PlantEaters: 4, BodyEaters: 1, Plants: 9, Energies: []float64{1, 2, 3}, Weather: "rain"})
	if s.PlantEaterBirths != 2 || s.BodyEaterBirths != 1 {
		t.Errorf("births: %d/%d", s.PlantEaterBirths, s.BodyEaterBirths)
	}
	if s.DeathsEaten != 1 || s.DeathsOldAge != 1 || s.DeathsStarved != 0 {
		t.Errorf("deaths: %+v", s)
	}
	if s.PlantsSpawned != 1 || s.PlantSpawnsSkipped != 1 || s.PlantsEaten != 1 || s.Infections != 2 {
		t.Errorf("plant counters: %+v", s)
	}
	if s.EnergyMean != 2 || s.Weather != "rain" || s.Plants != 9 {
		t.Errorf("snapshot fields: %+v", s)
	}
	if math.Abs(s.SimTimeSec-1) > 1e-6 {
		t.Errorf("sim time: got %v, want 1", s.SimTimeSec)
	}

	// Counters reset, window restarts at the flush tick
	next := c.Flush(120, Snapshot{})
	if next.WindowStartTick != 60 || next.PlantEaterBirths != 0 || next.PlantsSpawned != 0 {
		t.Errorf("after reset: %+v", next)
	}
}

func TestPerfCollector(t *testing.T) {
	p := NewPerfCollector(4)
	clock := time.Unix(0, 0)
	p.Now = func() time.Time { return clock }
	advance := func(d time.Duration) { clock = clock.Add(d) }

	for range 2 {
		p.StartTick()
		p.StartPhase(PhasePlants)
		advance(2 * time.Millisecond)
		p.StartPhase(PhaseBodies)
		advance(6 * time.Millisecond)
		p.EndTick()
	}

	s := p.Stats()
	if s.AvgTickDuration != 8*time.Millisecond || s.MaxTickDuration != 8*time.Millisecond {
		t.Errorf("tick durations: avg %v max %v", s.AvgTickDuration, s.MaxTickDuration)
	}
	if s.PhaseAvg[PhasePlants] != 2*time.Millisecond || s.PhaseAvg[PhaseBodies] != 6*time.Millisecond {
		t.Errorf("phase averages: %v", s.PhaseAvg)
	}
	if math.Abs(s.TicksPerSecond-125) > 1e-9 {
		t.Errorf("ticks per second: got %v, want 125", s.TicksPerSecond)
	}
	if row := s.ToCSV(10); row.BodiesUS != 6000 || row.WindowEnd != 10 {
		t.Errorf("csv row: %+v", row)
	}
}

func TestOutputManager(t *testing.T) {
	if om, err := NewOutputManager(""); om != nil || err != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	// Methods on a disabled manager are no-ops
	var disabled *OutputManager
	if err := disabled.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil manager write: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	for i := range 3 {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i), Plants: 10 * i}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv: got %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,plant_eaters") {
		t.Errorf("header: %q", lines[0])
	}
	if strings.Count(string(data), "window_end") != 1 {
		t.Error("header written more than once")
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
}
