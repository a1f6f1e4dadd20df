package ui

import (
	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"
)

// TerminalActions translates one tcell event. cols and rows are the terminal
// size; screenW and screenH the configured window size mouse positions are
// mapped onto.
func TerminalActions(ev tcell.Event, cols, rows, screenW, screenH int) Actions {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return Actions{Quit: true}
		case tcell.KeyRune:
			return runeActions(ev.Rune())
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			return Actions{}
		}
		x, y := ev.Position()
		return Actions{
			ToggleZoom: true,
			Mouse:      scaleMouse(float64(x)+0.5, float64(y)+0.5, float64(cols), float64(rows), screenW, screenH),
		}
	}
	return Actions{}
}

func runeActions(r rune) Actions {
	switch r {
	case '1':
		return Actions{ToggleInfo: true}
	case ' ':
		return Actions{ToggleDrawing: true}
	case 'r', 'R':
		return Actions{Reload: true}
	case 'z', 'Z':
		return Actions{ResetZoom: true}
	case 'q', 'Q':
		return Actions{Quit: true}
	}
	return Actions{}
}

// scaleMouse maps a position on a surface of size w x h onto the configured
// screen size.
func scaleMouse(x, y, w, h float64, screenW, screenH int) r2.Vec {
	if w <= 0 || h <= 0 {
		return r2.Vec{}
	}
	return r2.Vec{X: x * float64(screenW) / w, Y: y * float64(screenH) / h}
}
