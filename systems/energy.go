package systems

import (
	"github.com/pthm-cable/eportal/components"
	"github.com/pthm-cable/eportal/config"
)

// TickCost returns the energy a body spends in one tick. Movement is only
// paid while the body is not sleeping.
func TickCost(v *components.Vitals, iq int, moving bool, cfg config.EnergyConfig) float64 {
	cost := cfg.Mass*v.Energy +
		cfg.IQ*float64(iq) +
		cfg.VisionDistance*v.VisionDistance*v.VisionDistance
	if moving {
		cost += cfg.Movement * v.Speed * v.Speed * v.Energy
	}
	return cost
}

// LifespanCost returns the seconds of lifespan a moving body loses in one tick.
func LifespanCost(v *components.Vitals, moving bool, cfg config.EnergyConfig) float64 {
	if !moving {
		return 0
	}
	return cfg.Lifespan * v.Speed * v.Speed * v.Energy
}

// BirthCost returns what a parent pays for a child: the child's energy plus
// a price for its speed and vision.
func BirthCost(child *components.Vitals, cfg config.EnergyConfig) float64 {
	return child.Energy + cfg.SpeedPrice*child.Speed + cfg.VisionPrice*child.VisionDistance
}

// ArrivalEnergy estimates the energy left after travelling dist at speed
// while paying costPerTick.
func ArrivalEnergy(energy, dist, speed, costPerTick float64) float64 {
	if speed <= 0 {
		return energy
	}
	return energy - dist/speed*costPerTick
}

// EatGain returns the energy credited for eating food worth value, capped
// so the eater never exceeds maxEnergy.
func EatGain(energy, value, maxEnergy float64) float64 {
	return max(0, min(value, maxEnergy-energy))
}

func virusConfig(cfg config.VirusesConfig, v components.Virus) config.VirusConfig {
	if v == components.VisionVirus {
		return cfg.Vision
	}
	return cfg.Speed
}

// RefreshAttributes recomputes speed and vision from the base values and the
// current infections.
func RefreshAttributes(org *components.Organism, v *components.Vitals, cfg config.VirusesConfig) {
	v.Speed = v.BaseSpeed
	if org.Viruses[components.SpeedVirus].Infected {
		v.Speed *= 1 - cfg.Speed.Decrease
	}
	v.VisionDistance = v.BaseVision
	if org.Viruses[components.VisionVirus].Infected {
		v.VisionDistance *= 1 - cfg.Vision.Decrease
	}
}

// Infect gives the organism virus, starting its recovery at healed.
// It reports whether this was a new infection.
func Infect(org *components.Organism, v *components.Vitals, virus components.Virus, healed float64, cfg config.VirusesConfig) bool {
	if org.Viruses[virus].Infected {
		return false
	}
	org.Viruses[virus] = components.Infection{Infected: true, Healed: healed}
	RefreshAttributes(org, v, cfg)
	return true
}

// InfectFrom copies every virus src carries into org.
func InfectFrom(org *components.Organism, v *components.Vitals, src [components.NumViruses]components.Infection, cfg config.VirusesConfig) int {
	n := 0
	for virus := range components.NumViruses {
		if src[virus].Infected && Infect(org, v, virus, 0, cfg) {
			n++
		}
	}
	return n
}

// Heal spends this tick's healing energy on every infection and cures those
// that reached their heal energy. It returns the number of cured viruses.
func Heal(org *components.Organism, v *components.Vitals, cfg config.VirusesConfig) int {
	cured := 0
	for virus := range components.NumViruses {
		inf := &org.Viruses[virus]
		if !inf.Infected {
			continue
		}
		vc := virusConfig(cfg, virus)
		spent := min(vc.HealingCost, v.Energy)
		v.Energy -= spent
		inf.Healed += spent
		if inf.Healed >= vc.HealEnergy {
			*inf = components.Infection{}
			cured++
		}
	}
	if cured > 0 {
		RefreshAttributes(org, v, cfg)
	}
	return cured
}
