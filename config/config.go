// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
// A loaded Config is treated as an immutable snapshot; reloads produce a new one.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Grid       GridConfig       `yaml:"grid"`
	Population PopulationConfig `yaml:"population"`
	Body       BodyConfig       `yaml:"body"`
	Energy     EnergyConfig     `yaml:"energy"`
	Plants     PlantsConfig     `yaml:"plants"`
	Conditions ConditionsConfig `yaml:"conditions"`
	Viruses    VirusesConfig    `yaml:"viruses"`
	Zoom       ZoomConfig       `yaml:"zoom"`
	Removal    RemovalConfig    `yaml:"removal"`
	UI         UIConfig         `yaml:"ui"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	TargetFPS    int           `yaml:"target_fps"`
	StartupDelay time.Duration `yaml:"startup_delay"` // Pause before the first windowed frame
}

// WorldConfig holds simulation area dimensions.
// The area is usually much larger than the screen; zoom handles the viewport.
type WorldConfig struct {
	Width  float64 `yaml:"width"`  // 0 = screen width * body radius
	Height float64 `yaml:"height"` // 0 = screen height * body radius
}

// GridConfig holds spatial grid parameters.
type GridConfig struct {
	Rows int `yaml:"rows"` // Columns are derived to keep cells roughly square
}

// PopulationConfig holds initial population sizes.
type PopulationConfig struct {
	PlantEaters int `yaml:"plant_eaters"`
	BodyEaters  int `yaml:"body_eaters"`
	Plants      int `yaml:"plants"`
}

// BodyConfig holds body creation and life-cycle parameters.
type BodyConfig struct {
	Radius   float64 `yaml:"radius"`
	MinGap   float64 `yaml:"min_gap"`
	ColorGap float64 `yaml:"color_gap"`

	AverageEnergy            float64 `yaml:"average_energy"`
	AverageSpeed             float64 `yaml:"average_speed"`           // World units per tick
	AverageVisionDistance    float64 `yaml:"average_vision_distance"` // World units
	AverageDivisionThreshold float64 `yaml:"average_division_threshold"`
	Deviation                float64 `yaml:"deviation"` // Relative spread for deviated attributes

	MaxEnergy float64       `yaml:"max_energy"`
	MinEnergy float64       `yaml:"min_energy"` // Below this a body starts dying
	Lifespan  time.Duration `yaml:"lifespan"`

	MaxIQ          int     `yaml:"max_iq"`
	IQChangeChance float64 `yaml:"iq_change_chance"` // Chance a child's iq drifts by one

	DyingGrace    time.Duration `yaml:"dying_grace"`    // How long a dead body stays on the field
	CrossLifespan time.Duration `yaml:"cross_lifespan"` // How long a death marker is kept

	SpawnAttempts int `yaml:"spawn_attempts"` // Position attempts before giving up
	ColorAttempts int `yaml:"color_attempts"` // Color attempts before keeping the best candidate
}

// EnergyConfig holds per-tick cost coefficients.
type EnergyConfig struct {
	Mass           float64 `yaml:"mass"`            // * energy
	IQ             float64 `yaml:"iq"`              // * iq
	VisionDistance float64 `yaml:"vision_distance"` // * vision^2
	Movement       float64 `yaml:"movement"`        // * speed^2 * energy, only when moving
	Lifespan       float64 `yaml:"lifespan"`        // Seconds of lifespan lost per speed^2 * energy when moving
	SpeedPrice     float64 `yaml:"speed_price"`     // Birth cost per unit of child speed
	VisionPrice    float64 `yaml:"vision_price"`    // Birth cost per unit of child vision
}

// PlantsConfig holds plant parameters.
type PlantsConfig struct {
	HP             float64       `yaml:"hp"`
	PerTick        float64       `yaml:"per_tick"`         // Expected spawns per tick before condition factors
	DeathRate      float64       `yaml:"death_rate"`       // Fraction of live plants removed per tick
	SpawnTimeLimit time.Duration `yaml:"spawn_time_limit"` // Wall-clock budget per spawn
	SpawnAttempts  int           `yaml:"spawn_attempts"`
}

// ConditionsConfig holds weather and resource condition parameters.
type ConditionsConfig struct {
	Weather     WeatherConfig  `yaml:"weather"`
	FewerPlants ResourceConfig `yaml:"fewer_plants"`
	MorePlants  ResourceConfig `yaml:"more_plants"`
}

// WeatherConfig holds weather parameters.
// Lifetimes are drawn in whole seconds from [LifetimeMin, LifetimeMax).
type WeatherConfig struct {
	Chance             float64       `yaml:"chance"` // Per tick while no weather is active
	LifetimeMin        time.Duration `yaml:"lifetime_min"`
	LifetimeMax        time.Duration `yaml:"lifetime_max"`
	DroughtSpawnFactor float64       `yaml:"drought_spawn_factor"`
	DroughtDeathFactor float64       `yaml:"drought_death_factor"`
	RainSpawnFactor    float64       `yaml:"rain_spawn_factor"`
	RainDeathFactor    float64       `yaml:"rain_death_factor"`
}

// ResourceConfig holds parameters for a single resource condition kind.
type ResourceConfig struct {
	Chance      float64       `yaml:"chance"` // Per tick while this kind is inactive
	LifetimeMin time.Duration `yaml:"lifetime_min"`
	LifetimeMax time.Duration `yaml:"lifetime_max"`
	SpawnFactor float64       `yaml:"spawn_factor"`
}

// VirusesConfig holds per-virus parameters.
type VirusesConfig struct {
	Speed  VirusConfig `yaml:"speed"`
	Vision VirusConfig `yaml:"vision"`
}

// VirusConfig describes one virus.
type VirusConfig struct {
	InfectionChance float64 `yaml:"infection_chance"` // First generation only
	Decrease        float64 `yaml:"decrease"`         // Relative attribute loss while infected
	HealingCost     float64 `yaml:"healing_cost"`     // Energy spent on healing per tick
	HealEnergy      float64 `yaml:"heal_energy"`      // Total healing energy needed to recover
}

// ZoomConfig holds viewport zoom limits.
type ZoomConfig struct {
	Max float64 `yaml:"max"`
	Min float64 `yaml:"min"`
}

// RemovalConfig holds batching parameters for entity removal.
type RemovalConfig struct {
	MinToRemove int `yaml:"min_to_remove"` // Pending removals are flushed once they exceed this
}

// UIConfig holds overlay toggles.
type UIConfig struct {
	ShowInfo              bool    `yaml:"show_info"`
	ShowEnergy            bool    `yaml:"show_energy"`
	ShowDivisionThreshold bool    `yaml:"show_division_threshold"`
	ShowBodyType          bool    `yaml:"show_body_type"`
	ShowLifespan          bool    `yaml:"show_lifespan"`
	ShowIQ                bool    `yaml:"show_iq"`
	ShowViruses           bool    `yaml:"show_viruses"`
	FontSize              float64 `yaml:"font_size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow     time.Duration `yaml:"stats_window"`
	BookmarkHistory int           `yaml:"bookmark_history"` // windows the bookmark detector compares against
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	DT        time.Duration // Simulation time per tick
	DTSeconds float64
	WorldW    float64
	WorldH    float64
	ZoomW     float64 // Visible world width when zoomed
	ZoomH     float64 // Visible world height when zoomed
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Prepare(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Prepare validates c and recomputes its derived values. Call it after
// changing a loaded config in code.
func (c *Config) Prepare() error {
	if err := c.validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// MustLoad is like Load but panics on error. Intended for tests and tools.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// Default returns the embedded defaults.
func Default() *Config {
	return MustLoad("")
}

func (c *Config) validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	case c.Screen.TargetFPS <= 0:
		return fmt.Errorf("screen.target_fps must be positive, got %d", c.Screen.TargetFPS)
	case c.Grid.Rows <= 0:
		return fmt.Errorf("grid.rows must be positive, got %d", c.Grid.Rows)
	case c.Body.Radius <= 0:
		return fmt.Errorf("body.radius must be positive, got %v", c.Body.Radius)
	case c.Body.MinGap < 0:
		return fmt.Errorf("body.min_gap must not be negative, got %v", c.Body.MinGap)
	case c.Body.SpawnAttempts <= 0:
		return fmt.Errorf("body.spawn_attempts must be positive, got %d", c.Body.SpawnAttempts)
	case c.Plants.SpawnAttempts <= 0:
		return fmt.Errorf("plants.spawn_attempts must be positive, got %d", c.Plants.SpawnAttempts)
	case c.Body.Deviation < 0 || c.Body.Deviation > 1:
		return fmt.Errorf("body.deviation must be in [0, 1], got %v", c.Body.Deviation)
	case c.Zoom.Max <= 0 || c.Zoom.Min <= 0 || c.Zoom.Min > c.Zoom.Max:
		return fmt.Errorf("zoom limits invalid: min=%v max=%v", c.Zoom.Min, c.Zoom.Max)
	case c.Conditions.Weather.LifetimeMax < c.Conditions.Weather.LifetimeMin:
		return fmt.Errorf("conditions.weather lifetime range is empty")
	case c.Conditions.FewerPlants.LifetimeMax < c.Conditions.FewerPlants.LifetimeMin,
		c.Conditions.MorePlants.LifetimeMax < c.Conditions.MorePlants.LifetimeMin:
		return fmt.Errorf("conditions resource lifetime range is empty")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT = time.Second / time.Duration(c.Screen.TargetFPS)
	c.Derived.DTSeconds = c.Derived.DT.Seconds()

	// Area defaults to the screen scaled by the body radius
	c.Derived.WorldW = c.World.Width
	if c.Derived.WorldW == 0 {
		c.Derived.WorldW = float64(c.Screen.Width) * c.Body.Radius
	}
	c.Derived.WorldH = c.World.Height
	if c.Derived.WorldH == 0 {
		c.Derived.WorldH = float64(c.Screen.Height) * c.Body.Radius
	}

	c.Derived.ZoomW = c.Derived.WorldW / c.Zoom.Max
	c.Derived.ZoomH = c.Derived.WorldH / c.Zoom.Max
}

// WithWorld returns a copy of c whose area and grid come from base.
// Reloads use it so the spatial index never has to be rebuilt mid-run.
func (c *Config) WithWorld(base *Config) *Config {
	out := *c
	out.Screen.Width, out.Screen.Height = base.Screen.Width, base.Screen.Height
	out.World = base.World
	out.Grid = base.Grid
	out.Body.Radius = base.Body.Radius
	out.computeDerived()
	return &out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
