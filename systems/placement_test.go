package systems

import (
	"math"
	"math/rand"
	"testing"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/geom"
)

func testPlacer(w, h float64) *Placer {
	return &Placer{
		Width: w, Height: h,
		Radius: 10, Gap: 3, ColorGap: 0.7,
		BodyAttempts: 500, ColorAttempts: 200, PlantAttempts: 500,
		PlantBudget: time.Second,
		Now:         time.Now,
	}
}

func TestSpawnBodySpacing(t *testing.T) {
	p := testPlacer(2000, 2000)
	bodies := NewCellIndex[int](NewGrid(2000, 2000, 20))
	rng := rand.New(rand.NewSource(21))

	var placed []r2.Vec
	var colors []colorful.Color
	for i := range 200 {
		pos, c, ok := p.SpawnBody(rng, colors, 200, bodies)
		if !ok {
			continue
		}
		bodies.Insert(i, pos)
		placed = append(placed, pos)
		colors = append(colors, c)
	}
	if len(placed) < 150 {
		t.Fatalf("only %d bodies placed in a sparse area", len(placed))
	}

	margin := p.Radius + p.Gap
	for i, a := range placed {
		if a.X <= margin || a.X >= p.Width-margin || a.Y <= margin || a.Y >= p.Height-margin {
			t.Errorf("body %d at %v violates border margin %v", i, a, margin)
		}
		for j := i + 1; j < len(placed); j++ {
			if d := geom.Distance(a, placed[j]); d <= 2*p.Radius+p.Gap {
				t.Errorf("bodies %d and %d only %v apart", i, j, d)
			}
		}
	}
}

func TestSpawnBodyColorsAvoidReserved(t *testing.T) {
	p := testPlacer(2000, 2000)
	rng := rand.New(rand.NewSource(8))
	threshold := p.ColorThreshold(10)

	var taken []colorful.Color
	for range 10 {
		c := p.SampleColor(rng, taken, 10)
		if c.DistanceRgb(PlantGreen) < threshold || c.DistanceRgb(MarkerRed) < threshold {
			t.Errorf("color %v too close to a reserved color", c)
		}
		for _, o := range taken {
			if c.DistanceRgb(o) < threshold {
				t.Errorf("color %v too close to %v", c, o)
			}
		}
		taken = append(taken, c)
	}
}

func TestColorThreshold(t *testing.T) {
	p := testPlacer(100, 100)
	// 0.7 / cbrt(5 + 3) = 0.35
	if got := p.ColorThreshold(5); math.Abs(got-0.35) > 1e-12 {
		t.Errorf("ColorThreshold(5): got %v, want 0.35", got)
	}
}

func TestSampleColorKeepsBestWhenSaturated(t *testing.T) {
	p := testPlacer(100, 100)
	p.ColorGap = 100 // unreachable separation
	p.ColorAttempts = 20
	rng := rand.New(rand.NewSource(1))

	c := p.SampleColor(rng, nil, 0)
	if c.R < 0 || c.R > 1 || c.G < 0 || c.G > 1 || c.B < 0 || c.B > 1 {
		t.Errorf("fallback color out of range: %v", c)
	}
}

func TestSpawnBodyGivesUpWhenFull(t *testing.T) {
	// Too small for any position to clear the border margin
	p := testPlacer(20, 20)
	p.BodyAttempts = 50
	if _, _, ok := p.SpawnBody(rand.New(rand.NewSource(1)), nil, 1); ok {
		t.Error("spawn succeeded in an area without free positions")
	}
}

func TestSpawnPlantTerminatesWhenSaturated(t *testing.T) {
	p := testPlacer(400, 400)
	p.PlantAttempts = math.MaxInt32
	p.PlantBudget = 5 * time.Millisecond
	plants := NewCellIndex[int](NewGrid(400, 400, 4))
	rng := rand.New(rand.NewSource(2))

	// Fill until placement starts failing
	spawned := 0
	for i := 0; ; i++ {
		pos, ok := p.SpawnPlant(rng, plants)
		if !ok {
			break
		}
		plants.Insert(i, pos)
		spawned++
		if spawned > 10000 {
			t.Fatal("area never saturated")
		}
	}

	start := time.Now()
	if _, ok := p.SpawnPlant(rng, plants); ok {
		// A lucky sample can still find a hole; that is fine
		return
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("saturated spawn took %v, budget was %v", elapsed, p.PlantBudget)
	}
}

func TestSpawnPlantAttemptCap(t *testing.T) {
	p := testPlacer(20, 20) // no free positions at all
	p.PlantAttempts = 10
	p.PlantBudget = time.Hour
	calls := 0
	p.Now = func() time.Time {
		calls++
		return time.Unix(0, 0)
	}
	if _, ok := p.SpawnPlant(rand.New(rand.NewSource(1))); ok {
		t.Error("spawn succeeded without free positions")
	}
	if calls > 11 {
		t.Errorf("clock read %d times for 10 attempts", calls)
	}
}

func TestSpawnPlantRespectsBodies(t *testing.T) {
	p := testPlacer(300, 300)
	bodies := NewCellIndex[int](NewGrid(300, 300, 3))
	plants := NewCellIndex[int](NewGrid(300, 300, 3))
	bodies.Insert(1, r2.Vec{X: 150, Y: 150})
	rng := rand.New(rand.NewSource(6))

	for i := range 30 {
		pos, ok := p.SpawnPlant(rng, bodies, plants)
		if !ok {
			continue
		}
		if d := geom.Distance(pos, r2.Vec{X: 150, Y: 150}); d <= 2*p.Radius+p.Gap {
			t.Errorf("plant at %v only %v from a body", pos, d)
		}
		plants.Insert(i, pos)
	}
}

func TestDeviate(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	if got := Deviate(rng, 42, 0); got != 42 {
		t.Errorf("zero deviation: got %v, want 42", got)
	}

	const v, d, n = 100.0, 0.2, 20000
	var sum, sumSq float64
	for range n {
		x := Deviate(rng, v, d)
		if x < v*(1-d) || x > v*(1+d) {
			t.Fatalf("sample %v outside [%v, %v]", x, v*(1-d), v*(1+d))
		}
		sum += x
		sumSq += x * x
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	wantVar := d * d * v * v / 3 // uniform over a 2dv-wide interval
	if math.Abs(mean-v) > 0.5 {
		t.Errorf("mean: got %v, want ~%v", mean, v)
	}
	if math.Abs(variance-wantVar)/wantVar > 0.05 {
		t.Errorf("variance: got %v, want ~%v", variance, wantVar)
	}
}
