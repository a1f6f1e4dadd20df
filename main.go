package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/eportal/config"
	"github.com/pthm-cable/eportal/game"
	"github.com/pthm-cable/eportal/renderer"
	"github.com/pthm-cable/eportal/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	terminal := flag.Bool("terminal", false, "Render into the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// The terminal owns stdout while it draws
	var logOut io.Writer = os.Stdout
	if *terminal {
		logOut = io.Discard
		if *outputDir != "" {
			if err := os.MkdirAll(*outputDir, 0755); err == nil {
				if f, err := os.Create(filepath.Join(*outputDir, "eportal.log")); err == nil {
					defer f.Close()
					logOut = f
				}
			}
		}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	loader, err := config.NewLoader(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	cfg := loader.Current()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
		Populate:  true,
	}

	switch {
	case *headless:
		err = runHeadless(opts, cfg, *maxTicks)
	case *terminal:
		err = runTerminal(opts, loader, *maxTicks)
	default:
		err = runWindow(opts, loader, *maxTicks)
	}
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func reachedMax(g *game.Game, maxTicks int) bool {
	if maxTicks > 0 && int(g.Tick()) >= maxTicks {
		slog.Info("max ticks reached", "tick", g.Tick())
		return true
	}
	return false
}

// runHeadless steps the simulation as fast as possible.
func runHeadless(opts game.Options, cfg *config.Config, maxTicks int) error {
	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	slog.Info("starting headless simulation", "seed", opts.Seed, "max_ticks", maxTicks)
	for !reachedMax(g, maxTicks) {
		g.Step()
	}
	return nil
}

// runWindow drives the raylib window.
func runWindow(opts game.Options, loader *config.Loader, maxTicks int) error {
	cfg := loader.Current()

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "eportal")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	surface := renderer.NewRaylib()
	controls := ui.NewControls()

	time.Sleep(cfg.Screen.StartupDelay)

	for !rl.WindowShouldClose() {
		actions := ui.PollWindow(cfg.Screen.Width, cfg.Screen.Height, controls)

		g.Step()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		g.Draw(surface)
		actions = actions.Merge(controls.Draw(g.ShowInfo(), g.Drawing()))
		rl.EndDrawing()

		actions.Apply(g, loader)

		if reachedMax(g, maxTicks) {
			break
		}
	}
	return nil
}

// forwardEvents feeds polled events into events until poll returns nil or
// done is closed.
func forwardEvents(poll func() tcell.Event, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := poll()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// runTerminal drives a tcell screen at the configured frame rate.
func runTerminal(opts game.Options, loader *config.Loader, maxTicks int) error {
	cfg := loader.Current()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go forwardEvents(screen.PollEvent, events, done)

	surface := renderer.NewTerminal(screen)
	ticker := time.NewTicker(cfg.Derived.DT)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Sync()
				continue
			}
			cols, rows := screen.Size()
			actions := ui.TerminalActions(ev, cols, rows, cfg.Screen.Width, cfg.Screen.Height)
			if actions.Quit {
				return nil
			}
			actions.Apply(g, loader)
		case <-ticker.C:
			g.Step()
			screen.Clear()
			g.Draw(surface)
			screen.Show()
			if reachedMax(g, maxTicks) {
				return nil
			}
		}
	}
}
