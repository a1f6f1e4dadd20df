package systems

import (
	"math/rand"
	"time"

	"github.com/pthm-cable/eportal/config"
)

// WeatherKind identifies a weather condition.
type WeatherKind uint8

const (
	Drought WeatherKind = iota
	Rain
	numWeatherKinds
)

func (k WeatherKind) String() string {
	switch k {
	case Drought:
		return "drought"
	case Rain:
		return "rain"
	}
	return "unknown"
}

// ResourceKind identifies a resource condition.
type ResourceKind uint8

const (
	FewerPlants ResourceKind = iota
	MorePlants
	NumResourceKinds
)

func (k ResourceKind) String() string {
	switch k {
	case FewerPlants:
		return "fewer_plants"
	case MorePlants:
		return "more_plants"
	}
	return "unknown"
}

// Span is the lifetime of a condition in simulation time.
type Span struct {
	Start    time.Duration
	Duration time.Duration
}

// Expired reports whether the span is over at now.
func (s Span) Expired(now time.Duration) bool {
	return now-s.Start > s.Duration
}

// Weather holds at most one active weather condition.
type Weather struct {
	active bool
	kind   WeatherKind
	span   Span
}

// Active returns the current weather, if any.
func (w *Weather) Active() (WeatherKind, Span, bool) {
	return w.kind, w.span, w.active
}

// Update expires the current weather or, while none is active, rolls for a
// new one. Expiry and the next roll happen on separate calls. It reports
// whether a weather condition started this call.
func (w *Weather) Update(now time.Duration, rng *rand.Rand, cfg config.WeatherConfig) bool {
	if w.active {
		if w.span.Expired(now) {
			w.active = false
		}
		return false
	}

	if !roll(rng, cfg.Chance) {
		return false
	}
	w.active = true
	w.kind = WeatherKind(rng.Intn(int(numWeatherKinds)))
	w.span = Span{Start: now, Duration: lifetime(rng, cfg.LifetimeMin, cfg.LifetimeMax)}
	return true
}

// SpawnFactor returns the multiplier the active weather applies to plant spawning.
func (w *Weather) SpawnFactor(cfg config.WeatherConfig) float64 {
	if !w.active {
		return 1
	}
	if w.kind == Drought {
		return cfg.DroughtSpawnFactor
	}
	return cfg.RainSpawnFactor
}

// DeathFactor returns the multiplier the active weather applies to plant death.
func (w *Weather) DeathFactor(cfg config.WeatherConfig) float64 {
	if !w.active {
		return 1
	}
	if w.kind == Drought {
		return cfg.DroughtDeathFactor
	}
	return cfg.RainDeathFactor
}

// ResourceConditions holds the independent resource conditions; both kinds
// can be active at once.
type ResourceConditions struct {
	active [NumResourceKinds]bool
	spans  [NumResourceKinds]Span
}

// Active returns the span of kind if it is active.
func (rc *ResourceConditions) Active(kind ResourceKind) (Span, bool) {
	return rc.spans[kind], rc.active[kind]
}

// Update purges expired conditions, then lets every kind that was already
// inactive roll its own chance. It returns the kinds that started this call.
func (rc *ResourceConditions) Update(now time.Duration, rng *rand.Rand, cfg config.ConditionsConfig) []ResourceKind {
	var started []ResourceKind
	for k := range NumResourceKinds {
		if rc.active[k] {
			if rc.spans[k].Expired(now) {
				rc.active[k] = false
			}
			continue
		}
		kc := resourceConfig(cfg, k)
		if !roll(rng, kc.Chance) {
			continue
		}
		rc.active[k] = true
		rc.spans[k] = Span{Start: now, Duration: lifetime(rng, kc.LifetimeMin, kc.LifetimeMax)}
		started = append(started, k)
	}
	return started
}

// SpawnFactor returns the product of the active kinds' spawn multipliers.
func (rc *ResourceConditions) SpawnFactor(cfg config.ConditionsConfig) float64 {
	f := 1.0
	for k := range NumResourceKinds {
		if rc.active[k] {
			f *= resourceConfig(cfg, k).SpawnFactor
		}
	}
	return f
}

func resourceConfig(cfg config.ConditionsConfig, k ResourceKind) config.ResourceConfig {
	if k == FewerPlants {
		return cfg.FewerPlants
	}
	return cfg.MorePlants
}

// roll fires when chance > 0 and a uniform draw from [0,1) is <= chance.
// A chance of 1 or more always fires without consuming a draw.
func roll(rng *rand.Rand, chance float64) bool {
	if chance <= 0 {
		return false
	}
	return chance >= 1 || rng.Float64() <= chance
}

// lifetime draws a whole number of seconds from [lo, hi). An empty range
// yields lo.
func lifetime(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	los, his := int64(lo/time.Second), int64(hi/time.Second)
	if his <= los {
		return time.Duration(los) * time.Second
	}
	return time.Duration(los+rng.Int63n(his-los)) * time.Second
}
