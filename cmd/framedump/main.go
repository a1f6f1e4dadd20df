// Frame dump tool - runs the simulation headlessly and renders one frame to a
// PNG file for inspection.
//
// Usage: go run ./cmd/framedump -ticks 600 -out frame.png
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/config"
	"github.com/pthm-cable/eportal/game"
	"github.com/pthm-cable/eportal/renderer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "frame.png", "Output PNG path")
	ticks := flag.Int("ticks", 600, "Ticks to simulate before rendering")
	seed := flag.Int64("seed", 42, "RNG seed")
	zoomX := flag.Float64("zoom-x", -1, "Zoom into this screen x before rendering (-1 = no zoom)")
	zoomY := flag.Float64("zoom-y", -1, "Zoom into this screen y before rendering")
	info := flag.Bool("info", false, "Draw vision circles and body details")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	g, err := game.New(cfg, game.Options{Seed: *seed, Populate: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create game: %v\n", err)
		os.Exit(1)
	}
	defer g.Close()

	for int(g.Tick()) < *ticks {
		g.Step()
	}
	if *zoomX >= 0 && *zoomY >= 0 {
		g.ToggleZoom(r2.Vec{X: *zoomX, Y: *zoomY})
	}
	if *info {
		g.ToggleInfo()
	}

	width, height := int32(cfg.Screen.Width), int32(cfg.Screen.Height)

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(width, height, "Frame Dump")
	defer rl.CloseWindow()

	target := rl.LoadRenderTexture(width, height)
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	g.Draw(renderer.NewRaylib())
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if success {
		fmt.Printf("Tick %d rendered to: %s (%dx%d)\n", g.Tick(), *outPath, width, height)
	} else {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
}
