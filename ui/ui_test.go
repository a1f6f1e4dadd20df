package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/config"
	"github.com/pthm-cable/eportal/game"
)

func TestTerminalActions(t *testing.T) {
	tests := []struct {
		name string
		ev   tcell.Event
		want Actions
	}{
		{"escape quits", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), Actions{Quit: true}},
		{"ctrl-c quits", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone), Actions{Quit: true}},
		{"1 toggles info", tcell.NewEventKey(tcell.KeyRune, '1', tcell.ModNone), Actions{ToggleInfo: true}},
		{"space toggles drawing", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), Actions{ToggleDrawing: true}},
		{"r reloads", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), Actions{Reload: true}},
		{"z resets zoom", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), Actions{ResetZoom: true}},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), Actions{}},
		{"click zooms", tcell.NewEventMouse(39, 11, tcell.Button1, tcell.ModNone), Actions{
			ToggleZoom: true,
			Mouse:      r2.Vec{X: 39.5 * 10, Y: 11.5 * 10},
		}},
		{"mouse move", tcell.NewEventMouse(5, 5, tcell.ButtonNone, tcell.ModNone), Actions{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TerminalActions(tt.ev, 80, 24, 800, 240)
			if got != tt.want {
				t.Errorf("TerminalActions = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	a := Actions{ToggleInfo: true}
	b := Actions{ToggleZoom: true, Mouse: r2.Vec{X: 3, Y: 4}, Reload: true}

	got := a.Merge(b)
	want := Actions{ToggleInfo: true, ToggleZoom: true, Mouse: r2.Vec{X: 3, Y: 4}, Reload: true}
	if got != want {
		t.Errorf("Merge = %+v, want %+v", got, want)
	}
}

func TestApplyToggles(t *testing.T) {
	g, err := game.New(config.Default(), game.Options{})
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	defer g.Close()

	info, drawing := g.ShowInfo(), g.Drawing()
	Actions{ToggleInfo: true, ToggleDrawing: true}.Apply(g, nil)
	if g.ShowInfo() == info || g.Drawing() == drawing {
		t.Error("toggles were not applied")
	}

	Actions{ToggleZoom: true, Mouse: r2.Vec{X: 640, Y: 400}}.Apply(g, nil)
	if !g.Zoom().Zoomed {
		t.Error("zoom toggle did not zoom in")
	}
	Actions{ResetZoom: true}.Apply(g, nil)
	if g.Zoom().Zoomed {
		t.Error("reset did not zoom out")
	}
}

func TestApplyReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	write := func(s string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(s), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("plants:\n  hp: 30\n")

	loader, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	g, err := game.New(loader.Current(), game.Options{})
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	defer g.Close()

	write("plants: [not, a, mapping\n")
	Actions{Reload: true}.Apply(g, loader)
	if got := g.Config().Plants.HP; got != 30 {
		t.Errorf("hp after failed reload = %v, want 30", got)
	}

	write("plants:\n  hp: 40\nworld:\n  width: 500\n")
	Actions{Reload: true}.Apply(g, loader)
	cfg := g.Config()
	if cfg.Plants.HP != 40 {
		t.Errorf("hp after reload = %v, want 40", cfg.Plants.HP)
	}
	if cfg.Derived.WorldW == 500 {
		t.Error("reload changed the area")
	}
}
