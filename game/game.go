// Package game owns the simulation state and advances it one tick at a time.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/eportal/camera"
	"github.com/pthm-cable/eportal/components"
	"github.com/pthm-cable/eportal/config"
	"github.com/pthm-cable/eportal/systems"
	"github.com/pthm-cable/eportal/telemetry"
)

// Options configures a new game.
type Options struct {
	Seed      int64
	OutputDir string // empty = no CSV output
	LogStats  bool   // log window and perf stats via slog
	Populate  bool   // spawn the configured initial population

	// StatsCallback, if set, receives every closed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	world *ecs.World

	// Bodies: position, vitals, organism
	bodyMapper *ecs.Map3[components.Position, components.Vitals, components.Organism]
	bodyFilter *ecs.Filter3[components.Position, components.Vitals, components.Organism]

	// Plants: position, plant
	plantMapper *ecs.Map2[components.Position, components.Plant]

	// Live lookups by stable id. Pending removals are already gone from these.
	bodies map[uint32]ecs.Entity
	plants map[components.PlantID]ecs.Entity

	// Spatial index
	grid       systems.Grid
	bodyCells  *systems.CellIndex[uint32]
	plantCells *systems.CellIndex[components.PlantID]
	placer     *systems.Placer

	// Entities awaiting batched removal from the world
	pendingBodies []ecs.Entity
	pendingPlants []ecs.Entity

	crosses []components.Cross

	weather   systems.Weather
	resources systems.ResourceConditions

	zoom *camera.Zoom

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	bookmarks *telemetry.BookmarkDetector
	logStats  bool
	onStats   func(telemetry.WindowStats)

	// State
	tick        int32
	now         time.Duration
	nextBodyID  uint32
	nextBodyTy  uint32
	lastPlantID components.PlantID
	showInfo    bool
	drawing     bool

	// Scratch buffers reused across ticks
	births  []birth
	chasers []systems.Chaser
	claims  map[claim]int
}

// New creates a game from a config snapshot.
func New(cfg *config.Config, opts Options) (*Game, error) {
	world := ecs.NewWorld()
	grid := systems.NewGrid(cfg.Derived.WorldW, cfg.Derived.WorldH, cfg.Grid.Rows)

	g := &Game{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		world: world,

		bodyMapper:  ecs.NewMap3[components.Position, components.Vitals, components.Organism](world),
		bodyFilter:  ecs.NewFilter3[components.Position, components.Vitals, components.Organism](world),
		plantMapper: ecs.NewMap2[components.Position, components.Plant](world),

		bodies: make(map[uint32]ecs.Entity),
		plants: make(map[components.PlantID]ecs.Entity),

		grid:       grid,
		bodyCells:  systems.NewCellIndex[uint32](grid),
		plantCells: systems.NewCellIndex[components.PlantID](grid),
		placer:     systems.NewPlacer(cfg),

		zoom: camera.NewZoom(cfg),

		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT),
		perf:      telemetry.NewPerfCollector(cfg.Screen.TargetFPS),
		bookmarks: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory),
		logStats:  opts.LogStats,
		onStats:   opts.StatsCallback,

		nextBodyID: 1,
		nextBodyTy: 1,
		showInfo:   cfg.UI.ShowInfo,
		drawing:    true,
		claims:     make(map[claim]int),
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		g.output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if opts.Populate {
		g.spawnInitialPopulation()
	}

	slog.Info("game_created",
		"seed", opts.Seed,
		"area_w", cfg.Derived.WorldW,
		"area_h", cfg.Derived.WorldH,
		"grid_rows", grid.Rows,
		"grid_columns", grid.Columns,
		"bodies", len(g.bodies),
		"plants", len(g.plants),
		"output_dir", g.output.Dir(),
	)

	return g, nil
}

// Config returns the active config snapshot.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// ApplyConfig swaps in a new snapshot. The area and grid stay as they were.
func (g *Game) ApplyConfig(cfg *config.Config) {
	g.cfg = cfg.WithWorld(g.cfg)
	g.placer = systems.NewPlacer(g.cfg)
	slog.Info("config_applied", "tick", g.tick)
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Now returns the elapsed simulation time.
func (g *Game) Now() time.Duration {
	return g.now
}

// Zoom returns the viewport state.
func (g *Game) Zoom() *camera.Zoom {
	return g.zoom
}

// Counts holds population counts.
type Counts struct {
	PlantEaters int
	BodyEaters  int
	Dying       int
	Plants      int
	Crosses     int
}

// Counts returns the current population.
func (g *Game) Counts() Counts {
	var c Counts
	query := g.bodyFilter.Query()
	for query.Next() {
		_, _, org := query.Get()
		if !g.live(query.Entity(), org.ID) {
			continue
		}
		switch {
		case org.Dying:
			c.Dying++
		case org.Diet == components.EaterOfBodies:
			c.BodyEaters++
		default:
			c.PlantEaters++
		}
	}
	c.Plants = len(g.plants)
	for i := range g.crosses {
		if !g.crosses[i].Expired(g.now, g.cfg.Body.CrossLifespan) {
			c.Crosses++
		}
	}
	return c
}

// live reports whether e is the current, non-removed entity for body id.
func (g *Game) live(e ecs.Entity, id uint32) bool {
	le, ok := g.bodies[id]
	return ok && le == e
}

// bodyColors returns the colors of all live bodies.
func (g *Game) bodyColors() []colorful.Color {
	colors := make([]colorful.Color, 0, len(g.bodies))
	query := g.bodyFilter.Query()
	for query.Next() {
		_, _, org := query.Get()
		if g.live(query.Entity(), org.ID) {
			colors = append(colors, org.Color)
		}
	}
	return colors
}

// Close flushes telemetry output.
func (g *Game) Close() error {
	return g.output.Close()
}
