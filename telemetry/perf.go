package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step.
const (
	PhaseConditions = "conditions"
	PhasePlants     = "plants"
	PhaseBodies     = "bodies"
	PhaseBirths     = "births"
	PhaseCleanup    = "cleanup"
)

var phases = []string{PhaseConditions, PhasePlants, PhaseBodies, PhaseBirths, PhaseCleanup}

// PerfCollector tracks tick timing over a rolling window.
type PerfCollector struct {
	windowSize  int
	ticks       []time.Duration
	phaseTotals []map[string]time.Duration
	writeIndex  int
	sampleCount int

	current    map[string]time.Duration
	tickStart  time.Time
	phaseStart time.Time
	lastPhase  string

	// Now is the clock; tests replace it.
	Now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:  windowSize,
		ticks:       make([]time.Duration, windowSize),
		phaseTotals: make([]map[string]time.Duration, windowSize),
		Now:         time.Now,
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.Now()
	p.current = make(map[string]time.Duration, len(phases))
	p.lastPhase = ""
}

// StartPhase begins timing a phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.Now()
	if p.lastPhase != "" {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := p.Now()
	if p.lastPhase != "" {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.ticks[p.writeIndex] = now.Sub(p.tickStart)
	p.phaseTotals[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MaxTickDuration time.Duration
	PhaseAvg        map[string]time.Duration
	TicksPerSecond  float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{PhaseAvg: make(map[string]time.Duration, len(phases))}
	if p.sampleCount == 0 {
		return s
	}

	var total time.Duration
	for i := range p.sampleCount {
		d := p.ticks[i]
		total += d
		s.MaxTickDuration = max(s.MaxTickDuration, d)
		for name, pd := range p.phaseTotals[i] {
			s.PhaseAvg[name] += pd
		}
	}
	n := time.Duration(p.sampleCount)
	s.AvgTickDuration = total / n
	for name := range s.PhaseAvg {
		s.PhaseAvg[name] /= n
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// PerfStatsCSV is the flat CSV form of PerfStats.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSecond float64 `csv:"ticks_per_second"`
	ConditionsUS   int64   `csv:"conditions_us"`
	PlantsUS       int64   `csv:"plants_us"`
	BodiesUS       int64   `csv:"bodies_us"`
	BirthsUS       int64   `csv:"births_us"`
	CleanupUS      int64   `csv:"cleanup_us"`
}

// ToCSV flattens the stats for CSV output.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSecond: s.TicksPerSecond,
		ConditionsUS:   s.PhaseAvg[PhaseConditions].Microseconds(),
		PlantsUS:       s.PhaseAvg[PhasePlants].Microseconds(),
		BodiesUS:       s.PhaseAvg[PhaseBodies].Microseconds(),
		BirthsUS:       s.PhaseAvg[PhaseBirths].Microseconds(),
		CleanupUS:      s.PhaseAvg[PhaseCleanup].Microseconds(),
	}
}

// LogStats logs the perf stats using slog.
func (s PerfStats) LogStats() {
	args := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_second", s.TicksPerSecond,
	}
	for _, name := range phases {
		args = append(args, name+"_us", s.PhaseAvg[name].Microseconds())
	}
	slog.Info("perf", args...)
}
