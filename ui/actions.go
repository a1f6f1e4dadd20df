// Package ui turns keyboard, mouse and button input into game actions for
// both the raylib window and the terminal front end.
package ui

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/config"
	"github.com/pthm-cable/eportal/game"
)

// Actions is the input collected during one frame.
type Actions struct {
	ToggleZoom    bool
	Mouse         r2.Vec // screen position for ToggleZoom
	ResetZoom     bool
	ToggleInfo    bool
	ToggleDrawing bool
	Reload        bool
	Quit          bool
}

// Merge combines input from several sources.
func (a Actions) Merge(b Actions) Actions {
	if b.ToggleZoom {
		a.ToggleZoom = true
		a.Mouse = b.Mouse
	}
	a.ResetZoom = a.ResetZoom || b.ResetZoom
	a.ToggleInfo = a.ToggleInfo || b.ToggleInfo
	a.ToggleDrawing = a.ToggleDrawing || b.ToggleDrawing
	a.Reload = a.Reload || b.Reload
	a.Quit = a.Quit || b.Quit
	return a
}

// Apply performs the actions on g. A failed reload keeps the running config.
func (a Actions) Apply(g *game.Game, loader *config.Loader) {
	switch {
	case a.ResetZoom:
		g.ResetZoom()
	case a.ToggleZoom:
		g.ToggleZoom(a.Mouse)
	}
	if a.ToggleInfo {
		g.ToggleInfo()
	}
	if a.ToggleDrawing {
		g.ToggleDrawing()
	}
	if a.Reload && loader != nil {
		cfg, err := loader.Reload()
		if err != nil {
			slog.Warn("config_reload_failed", "path", loader.Path(), "error", err)
			return
		}
		g.ApplyConfig(cfg)
		slog.Info("config_reloaded", "path", loader.Path())
	}
}
