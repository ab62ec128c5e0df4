/*
Package game
File: defense.go
Description:
    Passive garrison regeneration for planets the player owns: defenders
    and shields climb back toward their capped maximum over elapsed time,
    gated on the shared store's last_defense_regen_time so regen never
    double-counts across sessions touching the same planet.
*/
package game

import (
	"math"

	"github.com/everforgeworks/sector-commander/internal/model"
)

func minI(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ProcessConqueredPlanetDefenseRegen regenerates defenders and shields
// on every planet the player owns, at 2% of that planet's capacity per
// elapsed hour (scaled by RepairMultiplier, if set), and returns the
// total combat units regenerated across all owned planets.
func (g *Game) ProcessConqueredPlanetDefenseRegen() int {
	regenerated := 0
	for name := range g.Player.OwnedPlanets {
		p := g.planets[name]
		if p == nil {
			continue
		}
		if p.Defenders >= p.MaxDefenders && p.Shields >= p.MaxShields {
			continue
		}
		elapsedHours := (nowUnix() - p.LastDefenseRegenTime) / 3600
		if elapsedHours < 1 {
			continue
		}
		mult := p.RepairMultiplier
		if mult <= 0 {
			mult = 1.0
		}
		defGain := int(math.Floor(elapsedHours * mult * maxF(1, float64(p.MaxDefenders)*0.02)))
		shGain := int(math.Floor(elapsedHours * mult * maxF(1, float64(p.MaxShields)*0.02)))
		newDefenders := minI(p.MaxDefenders, p.Defenders+defGain)
		newShields := minI(p.MaxShields, p.Shields+shGain)
		gained := (newDefenders - p.Defenders) + (newShields - p.Shields)
		if gained <= 0 {
			continue
		}

		err := g.mutatePlanetStore(name, func(pl *model.Planet) {
			pl.Defenders = newDefenders
			pl.Shields = newShields
			pl.LastDefenseRegenTime = nowUnix()
		})
		if err != nil {
			continue
		}
		p.Defenders = newDefenders
		p.Shields = newShields
		p.LastDefenseRegenTime = nowUnix()
		regenerated += gained
	}
	return regenerated
}
