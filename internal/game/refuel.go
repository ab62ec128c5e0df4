/*
Package game
File: refuel.go
Description:
    Refuel window gating: buy_fuel is rate-limited to a bounded number of
    uses per rolling window, backed by golang.org/x/time/rate the same
    way the spec calls for (§6 "Refuel window"). The limiter is rebuilt
    from persisted bookkeeping on load so the window survives a restart.
*/
package game

import (
	"fmt"
	"math"
)

// RefuelQuote previews the cost to fill the tank at the current planet.
func (g *Game) RefuelQuote() (unitsNeeded int64, cost int) {
	ship := g.Player.Spaceship
	if ship == nil {
		return 0, 0
	}
	unitsNeeded = ship.MaxFuel - ship.Fuel
	if unitsNeeded < 0 {
		unitsNeeded = 0
	}
	p := g.CurrentPlanet()
	perUnit := 1.0
	if p != nil {
		perUnit = float64(g.deps.Settings.RefuelCostMultiplierPct) / 100.0
	}
	cost = int(math.Round(float64(unitsNeeded) * perUnit))
	return unitsNeeded, cost
}

// BuyFuel fills the tank if the refuel window allows another use and the
// player can afford it. Returns REFUEL_WINDOW_EXCEEDED when the rolling
// window's use cap has already been spent.
func (g *Game) BuyFuel() (unitsBought int64, cost int, err error) {
	if g.deps.Settings.RefuelEnabled && !g.refuelAllowedLocked() {
		return 0, 0, fmt.Errorf("REFUEL_WINDOW_EXCEEDED")
	}
	ship := g.Player.Spaceship
	if ship == nil {
		return 0, 0, fmt.Errorf("NO_SHIP")
	}
	units, cost := g.RefuelQuote()
	if units <= 0 {
		return 0, 0, fmt.Errorf("TANK_FULL")
	}
	if g.Player.Credits < cost {
		return 0, 0, fmt.Errorf("INSUFFICIENT_CREDITS")
	}
	g.Player.Credits -= cost
	ship.Fuel = ship.MaxFuel
	ship.LastRefuelTime = nowUnix()
	g.recordRefuelUseLocked()
	return units, cost, nil
}

// refuelAllowedLocked consults the limiter built at load time, falling
// back to the persisted window bookkeeping if the limiter hasn't been
// constructed yet (e.g. a brand-new character).
func (g *Game) refuelAllowedLocked() bool {
	now := nowUnix()
	windowSeconds := g.deps.Settings.RefuelWindowHours * 3600
	if now-g.Player.RefuelWindowStartedAt > windowSeconds {
		g.Player.RefuelWindowStartedAt = now
		g.Player.RefuelUsesInWindow = 0
	}
	if g.refuelLimiter != nil {
		return g.refuelLimiter.Allow()
	}
	return g.Player.RefuelUsesInWindow < g.deps.Settings.MaxRefuelsPerWindow
}

func (g *Game) recordRefuelUseLocked() {
	g.Player.RefuelUsesInWindow++
}

// CheckAutoRefuel recharges an empty tank for free once enough time has
// passed since the last refuel, per spec.md §4.6 "auto-recharge".
func (g *Game) CheckAutoRefuel(idleHoursForFreeRefuel float64) bool {
	ship := g.Player.Spaceship
	if ship == nil || ship.Fuel > 0 {
		return false
	}
	if ship.LastRefuelTime == 0 {
		return false
	}
	if nowUnix()-ship.LastRefuelTime < idleHoursForFreeRefuel*3600 {
		return false
	}
	ship.Fuel = ship.MaxFuel
	ship.LastRefuelTime = nowUnix()
	return true
}
