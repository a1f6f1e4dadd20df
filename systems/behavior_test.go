package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/components"
	"github.com/pthm-cable/eportal/config"
)

func TestPickChaser(t *testing.T) {
	chasers := []Chaser{
		{ID: 1, Speed: 1, Dist: 10},
		{ID: 2, Speed: 3, Dist: 40},
		{ID: 3, Speed: 2.5, Dist: 25},
	}

	tests := []struct {
		name string
		iq   int
		own  float64
		want uint32
	}{
		{"closest by default", 0, 2, 1},
		{"iq 2 still closest", 2, 2, 1},
		{"iq 3 prefers faster", 3, 2, 3},
		{"iq 3 nobody faster", 3, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickChaser(chasers, tt.iq, tt.own)
			if !ok || got.ID != tt.want {
				t.Errorf("got %v (%v), want id %d", got.ID, ok, tt.want)
			}
		})
	}

	if _, ok := PickChaser(nil, 3, 1); ok {
		t.Error("no chasers should report false")
	}
}

func TestForagerAccepts(t *testing.T) {
	claimed := FoodCandidate{Dist: 10, Value: 5, ClaimedByKin: true}
	far := FoodCandidate{Dist: 1000, Value: 5}

	tests := []struct {
		name string
		f    Forager
		c    FoodCandidate
		want bool
	}{
		{"iq 0 competes with kin", Forager{IQ: 0, Energy: 50, Speed: 1, CostPerTick: 0.1}, claimed, true},
		{"iq 1 leaves food to kin", Forager{IQ: 1, Energy: 50, Speed: 1, CostPerTick: 0.1}, claimed, false},
		{"iq 1 ignores arrival energy", Forager{IQ: 1, Energy: 50, Speed: 1, CostPerTick: 0.1, MinEnergy: 5}, far, true},
		// 1000 ticks at 0.1 per tick costs 100 energy, leaving -50
		{"iq 2 skips unreachable", Forager{IQ: 2, Energy: 50, Speed: 1, CostPerTick: 0.1, MinEnergy: 5}, far, false},
		{"iq 2 reachable", Forager{IQ: 2, Energy: 500, Speed: 1, CostPerTick: 0.1, MinEnergy: 5}, far, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Accepts(tt.c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClosest(t *testing.T) {
	var c Closest[int]
	c.Offer(1, r2.Vec{X: 5}, 5)
	c.Offer(2, r2.Vec{X: 2}, 2)
	c.Offer(3, r2.Vec{X: 9}, 9)
	if !c.Found || c.ID != 2 || c.Dist != 2 {
		t.Errorf("closest: got %+v", c)
	}
}

func TestTickCost(t *testing.T) {
	cfg := config.EnergyConfig{Mass: 0.01, IQ: 0.5, VisionDistance: 0.001, Movement: 0.1}
	v := &components.Vitals{Energy: 100, Speed: 2, VisionDistance: 10}

	idle := TickCost(v, 2, false, cfg)
	// 0.01*100 + 0.5*2 + 0.001*100
	if math.Abs(idle-2.1) > 1e-12 {
		t.Errorf("idle cost: got %v, want 2.1", idle)
	}
	moving := TickCost(v, 2, true, cfg)
	// plus 0.1 * 4 * 100
	if math.Abs(moving-42.1) > 1e-12 {
		t.Errorf("moving cost: got %v, want 42.1", moving)
	}
	if LifespanCost(v, false, config.EnergyConfig{Lifespan: 1}) != 0 {
		t.Error("sleeping bodies should not age faster")
	}
}

func TestEatGain(t *testing.T) {
	tests := []struct {
		energy, value, max, want float64
	}{
		{10, 15, 100, 15},
		{95, 15, 100, 5},
		{100, 15, 100, 0},
		{120, 15, 100, 0},
	}
	for _, tt := range tests {
		if got := EatGain(tt.energy, tt.value, tt.max); got != tt.want {
			t.Errorf("EatGain(%v, %v, %v): got %v, want %v", tt.energy, tt.value, tt.max, got, tt.want)
		}
	}
}

func TestInfectionAndHealing(t *testing.T) {
	cfg := config.VirusesConfig{
		Speed:  config.VirusConfig{Decrease: 0.5, HealingCost: 2, HealEnergy: 5},
		Vision: config.VirusConfig{Decrease: 0.25, HealingCost: 1, HealEnergy: 100},
	}
	org := &components.Organism{}
	v := &components.Vitals{Energy: 50, BaseSpeed: 4, BaseVision: 100}
	RefreshAttributes(org, v, cfg)

	if !Infect(org, v, components.SpeedVirus, 0, cfg) {
		t.Fatal("first infection reported as existing")
	}
	if Infect(org, v, components.SpeedVirus, 0, cfg) {
		t.Error("second infection with the same virus reported as new")
	}
	if v.Speed != 2 {
		t.Errorf("infected speed: got %v, want 2", v.Speed)
	}

	src := [components.NumViruses]components.Infection{components.VisionVirus: {Infected: true}}
	if n := InfectFrom(org, v, src, cfg); n != 1 || v.VisionDistance != 75 {
		t.Errorf("InfectFrom: n=%d vision=%v", n, v.VisionDistance)
	}

	// Speed heals after three ticks of 2 energy (6 >= 5); vision keeps going
	for tick := 1; tick <= 3; tick++ {
		Heal(org, v, cfg)
	}
	if org.Viruses[components.SpeedVirus].Infected {
		t.Error("speed virus should be cured")
	}
	if v.Speed != 4 {
		t.Errorf("speed after recovery: got %v, want 4", v.Speed)
	}
	if !org.Viruses[components.VisionVirus].Infected {
		t.Error("vision virus cured too early")
	}
	// 3 ticks * (2 + 1)
	if v.Energy != 41 {
		t.Errorf("energy after healing: got %v, want 41", v.Energy)
	}
}

func TestBirthCost(t *testing.T) {
	cfg := config.EnergyConfig{SpeedPrice: 10, VisionPrice: 0.1}
	child := &components.Vitals{Energy: 50, Speed: 1.5, VisionDistance: 150}
	if got := BirthCost(child, cfg); math.Abs(got-80) > 1e-12 {
		t.Errorf("BirthCost: got %v, want 80", got)
	}
}
