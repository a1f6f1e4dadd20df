package game

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/components"
	"github.com/pthm-cable/eportal/renderer"
	"github.com/pthm-cable/eportal/systems"
)

// Draw renders the current state onto s. With drawing disabled only the HUD
// is drawn.
func (g *Game) Draw(s renderer.Surface) {
	if g.drawing {
		w, h := s.Size()
		view := g.zoom.View(w, h)
		s.BeginWorld(view)
		g.drawPlants(s)
		g.drawCrosses(s)
		g.drawBodies(s, view.Scale())
		s.EndWorld()
	}
	g.drawHUD(s)
}

func (g *Game) drawPlants(s renderer.Surface) {
	r := g.cfg.Body.Radius
	g.plantCells.QueryRect(g.zoom.ExtendedRect, func(_ components.PlantID, p r2.Vec) {
		s.Triangle(
			r2.Vec{X: p.X, Y: p.Y - r},
			r2.Vec{X: p.X - r, Y: p.Y + r},
			r2.Vec{X: p.X + r, Y: p.Y + r},
			renderer.Green,
		)
	})
}

func (g *Game) drawCrosses(s renderer.Surface) {
	r := g.cfg.Body.Radius
	for i := range g.crosses {
		c := &g.crosses[i]
		if c.Expired(g.now, g.cfg.Body.CrossLifespan) || !g.zoom.CircleVisible(c.Pos, r) {
			continue
		}
		drawCross(s, c.Pos, r, renderer.RGBA(c.Color))
		if c.Infected() {
			s.Circle(c.Pos, r/3, renderer.Red)
		}
	}
}

func drawCross(s renderer.Surface, p r2.Vec, r float64, col color.RGBA) {
	s.Line(r2.Vec{X: p.X - r, Y: p.Y - r}, r2.Vec{X: p.X + r, Y: p.Y + r}, 2, col)
	s.Line(r2.Vec{X: p.X - r, Y: p.Y + r}, r2.Vec{X: p.X + r, Y: p.Y - r}, 2, col)
}

func (g *Game) drawBodies(s renderer.Surface, scale float64) {
	r := g.cfg.Body.Radius
	info := g.showInfo && g.zoom.Zoomed

	query := g.bodyFilter.Query()
	for query.Next() {
		pos, v, org := query.Get()
		if !g.live(query.Entity(), org.ID) || !g.zoom.CircleVisible(pos.Vec, r) {
			continue
		}
		col := renderer.RGBA(org.Color)

		switch org.Shape() {
		case components.ShapeCross:
			drawCross(s, pos.Vec, r, col)
		case components.ShapeSquare:
			s.Square(pos.Vec, 2*r, col)
		default:
			s.Circle(pos.Vec, r, col)
		}
		if org.Infected() {
			s.Circle(pos.Vec, r/3, renderer.Red)
		}

		if !info || org.Dying {
			continue
		}
		s.CircleLines(pos.Vec, v.VisionDistance, 1, renderer.WithAlpha(col, 120))
		if target, ok := g.targetPos(org.Status); ok && g.zoom.SegmentVisible(pos.Vec, target) {
			s.Line(pos.Vec, target, 1, renderer.WithAlpha(col, 160))
		}
		if text := g.bodyInfo(v, org); text != "" {
			size := g.cfg.UI.FontSize / scale
			s.Text(text, r2.Vec{X: pos.X + r, Y: pos.Y - r}, size, renderer.White)
		}
	}
}

// bodyInfo formats the overlay lines enabled in the ui config.
func (g *Game) bodyInfo(v *components.Vitals, org *components.Organism) string {
	ui := g.cfg.UI
	var lines []string
	if ui.ShowEnergy {
		lines = append(lines, fmt.Sprintf("E %.1f", v.Energy))
	}
	if ui.ShowDivisionThreshold {
		lines = append(lines, fmt.Sprintf("D %.1f", v.DivisionThreshold))
	}
	if ui.ShowBodyType {
		lines = append(lines, fmt.Sprintf("T %d", org.BodyType))
	}
	if ui.ShowLifespan {
		left := v.Lifespan - (g.now - org.Born).Seconds()
		lines = append(lines, fmt.Sprintf("L %.0fs", max(left, 0)))
	}
	if ui.ShowIQ {
		lines = append(lines, fmt.Sprintf("IQ %d", org.IQ))
	}
	if ui.ShowViruses && org.Infected() {
		var names []string
		for virus, inf := range org.Viruses {
			if inf.Infected {
				names = append(names, components.Virus(virus).String())
			}
		}
		lines = append(lines, "V "+strings.Join(names, ","))
	}
	return strings.Join(lines, "\n")
}

func (g *Game) drawHUD(s renderer.Surface) {
	size := g.cfg.UI.FontSize
	c := g.Counts()

	weather := "clear"
	if kind, _, ok := g.weather.Active(); ok {
		weather = kind.String()
	}
	var resources []string
	for k := range systems.NumResourceKinds {
		if _, ok := g.resources.Active(k); ok {
			resources = append(resources, k.String())
		}
	}

	lines := []string{
		fmt.Sprintf("time %.0fs  tick %d", g.now.Seconds(), g.tick),
		fmt.Sprintf("plant eaters %d  body eaters %d  dying %d", c.PlantEaters, c.BodyEaters, c.Dying),
		fmt.Sprintf("plants %d  crosses %d", c.Plants, c.Crosses),
		"weather " + weather,
	}
	if len(resources) > 0 {
		lines = append(lines, "resources "+strings.Join(resources, ", "))
	}
	if g.zoom.Zoomed {
		lines = append(lines, "zoomed")
	}
	if !g.drawing {
		lines = append(lines, "drawing off")
	}

	for i, line := range lines {
		s.ScreenText(line, 10, 10+float64(i)*(size+4), size, renderer.LightGray)
	}
}
