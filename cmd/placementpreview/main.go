// Placement preview tool - interactive view of initial population spacing.
//
// Usage: go run ./cmd/placementpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/config"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// slider draws a labelled slider row and returns the new value.
func slider(x float32, y *float32, label, lo, hi string, value, minV, maxV float32, format string) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		lo, hi, value, minV, maxV,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rl.InitWindow(windowWidth, windowHeight, "Placement Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	defaults := paramsFrom(cfg)
	params := defaults
	result := place(cfg, params)

	scale := previewSize / max(cfg.Derived.WorldW, cfg.Derived.WorldH)
	toScreen := func(p r2.Vec) rl.Vector2 {
		return rl.NewVector2(float32(10+p.X*scale), float32(10+p.Y*scale))
	}
	toColor := func(c colorful.Color) rl.Color {
		r, g, b := c.RGB255()
		return rl.NewColor(r, g, b, 255)
	}

	for !rl.WindowShouldClose() {
		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Preview
		rl.DrawRectangle(10, 10, previewSize, previewSize, rl.Black)
		dot := float32(max(params.Radius*float32(scale), 1))
		for _, p := range result.plants {
			rl.DrawCircleV(toScreen(p), dot, rl.Green)
		}
		for _, b := range result.bodies {
			rl.DrawCircleV(toScreen(b.pos), dot, toColor(b.color))
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Bodies: %d placed, %d failed", len(result.bodies), result.failedBodies), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Plants: %d placed, %d failed", len(result.plants), result.failedPlants), 15, statsY+20, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Closest colors: %.3f", result.closestColor), 15, statsY+40, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Placement Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		next := params
		next.Radius = slider(panelX, &panelY, "Body radius", "1", "20", params.Radius, 1, 20, "%.1f")
		next.MinGap = slider(panelX, &panelY, "Minimum gap between entities", "0", "40", params.MinGap, 0, 40, "%.1f")
		next.ColorGap = slider(panelX, &panelY, "Color gap (RGB distance scale)", "0", "3", params.ColorGap, 0, 3, "%.2f")
		next.Bodies = int(slider(panelX, &panelY, "Bodies", "0", "1000", float32(params.Bodies), 0, 1000, "%.0f"))
		next.Plants = int(slider(panelX, &panelY, "Plants", "0", "2000", float32(params.Plants), 0, 2000, "%.0f"))
		next.Seed = int64(slider(panelX, &panelY, "Seed", "0", "99999", float32(params.Seed), 0, 99999, "%.0f"))
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			next.Seed = int64(rl.GetRandomValue(0, 99999))
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			next = defaults
		}
		panelY += 55

		if next != params {
			params = next
			result = place(cfg, params)
		}

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := fmt.Sprintf("body:\n  radius: %.1f\n  min_gap: %.1f\n  color_gap: %.2f", params.Radius, params.MinGap, params.ColorGap)
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}
