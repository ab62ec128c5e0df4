/*
Package game
File: banking.go
Description:
    Personal and planet banking: deposit/withdraw, interest payout, and
    owned-planet treasury management (spec.md §4.7 "Banking").
*/
package game

import (
	"fmt"
	"math"

	"github.com/everforgeworks/sector-commander/internal/model"
)

const bankInterestRatePerDay = 0.01

// BankDeposit moves credits from the player's pocket into their bank
// balance. Requires the current planet to offer banking services.
func (g *Game) BankDeposit(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("INVALID_AMOUNT")
	}
	p := g.CurrentPlanet()
	if p == nil || !p.Bank {
		return fmt.Errorf("NO_BANK_HERE")
	}
	if g.Player.Credits < amount {
		return fmt.Errorf("INSUFFICIENT_CREDITS")
	}
	g.Player.Credits -= amount
	g.Player.BankBalance += amount
	return nil
}

func (g *Game) BankWithdraw(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("INVALID_AMOUNT")
	}
	p := g.CurrentPlanet()
	if p == nil || !p.Bank {
		return fmt.Errorf("NO_BANK_HERE")
	}
	if g.Player.BankBalance < amount {
		return fmt.Errorf("INSUFFICIENT_BANK_BALANCE")
	}
	g.Player.BankBalance -= amount
	g.Player.Credits += amount
	return nil
}

// PayoutInterest credits the player's bank balance with daily compound
// interest for every elapsed full day since the commander stipend was
// last paid.
func (g *Game) PayoutInterest() int {
	if g.Player.BankBalance <= 0 {
		g.Player.LastCommanderStipendTime = nowUnix()
		return 0
	}
	elapsedDays := (nowUnix() - g.Player.LastCommanderStipendTime) / 86400
	if elapsedDays < 1 {
		return 0
	}
	days := math.Floor(elapsedDays)
	grown := float64(g.Player.BankBalance) * math.Pow(1+bankInterestRatePerDay, days)
	interest := int(math.Round(grown)) - g.Player.BankBalance
	g.Player.BankBalance += interest
	g.Player.LastCommanderStipendTime = nowUnix()
	return interest
}

// PlanetDeposit/PlanetWithdraw move credits into or out of an owned
// planet's treasury; only the owner may withdraw.
func (g *Game) PlanetDeposit(planetName string, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("INVALID_AMOUNT")
	}
	if g.Player.Credits < amount {
		return fmt.Errorf("INSUFFICIENT_CREDITS")
	}
	if g.planets[planetName] == nil {
		return fmt.Errorf("UNKNOWN_PLANET")
	}
	g.Player.Credits -= amount
	return g.mutatePlanetStore(planetName, func(p *model.Planet) {
		p.CreditBalance += amount
		p.CreditsInitialized = true
	})
}

func (g *Game) PlanetWithdraw(planetName string, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("INVALID_AMOUNT")
	}
	p := g.planets[planetName]
	if p == nil {
		return fmt.Errorf("UNKNOWN_PLANET")
	}
	if p.Owner != g.Player.Name {
		return fmt.Errorf("NOT_PLANET_OWNER")
	}
	if p.CreditBalance < amount {
		return fmt.Errorf("INSUFFICIENT_TREASURY")
	}
	if err := g.mutatePlanetStore(planetName, func(p *model.Planet) {
		p.CreditBalance -= amount
	}); err != nil {
		return err
	}
	g.Player.Credits += amount
	return nil
}

// TransferFighters moves defender fighters between the player's ship and
// an owned planet's garrison, in either direction, clamped by the ship's
// current defenders (or the planet's garrison) and the destination's
// capacity. Only the planet's owner may garrison or draw down fighters.
func (g *Game) TransferFighters(planetName string, amount int, toPlanet bool) (int, error) {
	return g.transferCombatUnits(planetName, amount, toPlanet, true)
}

// TransferShields moves shield capacity between the player's ship and an
// owned planet's shield banks, mirroring TransferFighters.
func (g *Game) TransferShields(planetName string, amount int, toPlanet bool) (int, error) {
	return g.transferCombatUnits(planetName, amount, toPlanet, false)
}

func (g *Game) transferCombatUnits(planetName string, amount int, toPlanet, fighters bool) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("INVALID_AMOUNT")
	}
	ship := g.Player.Spaceship
	if ship == nil {
		return 0, fmt.Errorf("NO_SHIP")
	}
	p := g.planets[planetName]
	if p == nil {
		return 0, fmt.Errorf("UNKNOWN_PLANET")
	}
	if p.Owner != g.Player.Name {
		return 0, fmt.Errorf("NOT_PLANET_OWNER")
	}

	shipCurrent, shipMax := &ship.CurrentDefenders, ship.MaxDefenders
	planetCurrent, planetMax := &p.Defenders, p.MaxDefenders
	if !fighters {
		shipCurrent, shipMax = &ship.CurrentShields, ship.MaxShields
		planetCurrent, planetMax = &p.Shields, p.MaxShields
	}

	moved := amount
	if toPlanet {
		if moved > *shipCurrent {
			moved = *shipCurrent
		}
		if moved > planetMax-*planetCurrent {
			moved = planetMax - *planetCurrent
		}
	} else {
		if moved > *planetCurrent {
			moved = *planetCurrent
		}
		if moved > shipMax-*shipCurrent {
			moved = shipMax - *shipCurrent
		}
	}
	if moved <= 0 {
		return 0, nil
	}

	if toPlanet {
		*shipCurrent -= moved
	} else {
		*shipCurrent += moved
	}
	delta := moved
	if !toPlanet {
		delta = -moved
	}
	err := g.mutatePlanetStore(planetName, func(pl *model.Planet) {
		if fighters {
			pl.Defenders += delta
		} else {
			pl.Shields += delta
		}
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

// PayoutPlanetInterest applies daily treasury interest to every planet
// the player owns, returning the total credited.
func (g *Game) PayoutPlanetInterest() int {
	total := 0
	for name, lastPayout := range g.Player.OwnedPlanets {
		p := g.planets[name]
		if p == nil || p.CreditBalance <= 0 {
			continue
		}
		elapsedDays := math.Floor((nowUnix() - p.LastCreditInterestTime) / 86400)
		if elapsedDays < 1 {
			continue
		}
		grown := float64(p.CreditBalance) * math.Pow(1+bankInterestRatePerDay*0.5, elapsedDays)
		interest := int(math.Round(grown)) - p.CreditBalance
		g.mutatePlanetStore(name, func(pl *model.Planet) {
			pl.CreditBalance += interest
			pl.LastCreditInterestTime = nowUnix()
		})
		total += interest
		g.Player.OwnedPlanets[name] = nowUnix()
		_ = lastPayout
	}
	return total
}
