/*
Package game
File: ships.go
Description:
    Ship purchase with trade-in, abandoned-hull claiming, hull repair,
    and the fixed per-unit upgrade purchases (spec.md §4.3 "Ship
    upgrades"). Generalizes the trade-in math already expressed as pure
    functions on model.Spaceship.
*/
package game

import (
	"fmt"

	"github.com/everforgeworks/sector-commander/internal/model"
)

// AvailableShips lists the catalog in ascending cost order, annotated
// with whether the player can currently afford each (after trade-in).
func (g *Game) AvailableShips() []ShipListing {
	tradeIn := 0
	if g.Player.Spaceship != nil {
		tradeIn = g.Player.Spaceship.TradeInValue()
	}
	listings := make([]ShipListing, 0, len(g.deps.Catalog.Ships))
	for _, t := range g.deps.Catalog.Ships {
		netCost := t.Cost - tradeIn
		if netCost < 0 {
			netCost = 0
		}
		listings = append(listings, ShipListing{
			Model:      t.Model,
			Cost:       t.Cost,
			NetCost:    netCost,
			Affordable: g.Player.Credits >= netCost,
		})
	}
	return listings
}

// ShipListing is one catalog row shown to the player.
type ShipListing struct {
	Model      string
	Cost       int
	NetCost    int
	Affordable bool
}

// BuyShip trades the current hull in and purchases shipModel, carrying
// current cargo forward only as far as the new hull's capacity allows.
func (g *Game) BuyShip(shipModel string) error {
	tmpl := g.deps.Catalog.ShipTemplateByModel(shipModel)
	if tmpl == nil {
		return fmt.Errorf("UNKNOWN_SHIP_MODEL")
	}
	tradeIn := 0
	if g.Player.Spaceship != nil {
		tradeIn = g.Player.Spaceship.TradeInValue()
	}
	netCost := tmpl.Cost - tradeIn
	if netCost < 0 {
		netCost = 0
	}
	if g.Player.Credits < netCost {
		return fmt.Errorf("INSUFFICIENT_CREDITS")
	}
	g.Player.Credits -= netCost
	newShip := tmpl.Build()

	if g.Player.CargoUsed() > newShip.EffectiveMaxCargo() {
		excess := g.Player.CargoUsed() - newShip.EffectiveMaxCargo()
		for item := range g.Player.Inventory {
			if excess <= 0 {
				break
			}
			drop := g.Player.Inventory[item]
			if drop > excess {
				drop = excess
			}
			g.Player.Inventory[item] -= drop
			excess -= drop
		}
		g.Player.NormalizeInventory()
	}
	g.Player.Spaceship = newShip
	return nil
}

// RepairHull restores up to nanobot_repair_amount points of missing
// integrity per call, costing 10 credits per point repaired; no cargo is
// consumed (spec.md §4.3 "repair_hull").
func (g *Game) RepairHull() (repaired int, cost int, err error) {
	ship := g.Player.Spaceship
	if ship == nil {
		return 0, 0, fmt.Errorf("NO_SHIP")
	}
	missing := ship.MaxIntegrity - ship.Integrity
	if missing <= 0 {
		return 0, 0, fmt.Errorf("HULL_ALREADY_FULL")
	}
	amount := g.deps.Settings.NanobotRepairAmount
	if amount > missing {
		amount = missing
	}
	cost = amount * 10
	if g.Player.Credits < cost {
		return 0, 0, fmt.Errorf("INSUFFICIENT_CREDITS")
	}
	g.Player.Credits -= cost
	ship.Integrity += amount
	if ship.Integrity > ship.MaxIntegrity {
		ship.Integrity = ship.MaxIntegrity
	}
	return amount, cost, nil
}

// UpgradeCargo/UpgradeShields/UpgradeDefenders purchase one fixed-size
// unit of capacity each, at a per-unit credit cost.
func (g *Game) UpgradeCargo() (bool, string, error) {
	return g.buyUpgrade(g.deps.Settings.CargoPodUpgradeUnits, func(u int) (bool, string) {
		return g.Player.Spaceship.UpgradeCargoPods(u)
	}, 500)
}

func (g *Game) UpgradeShields() (bool, string, error) {
	return g.buyUpgrade(g.deps.Settings.ShieldUpgradeUnits, func(u int) (bool, string) {
		return g.Player.Spaceship.UpgradeShields(u)
	}, 800)
}

func (g *Game) UpgradeDefenders() (bool, string, error) {
	return g.buyUpgrade(g.deps.Settings.DefenderUpgradeUnits, func(u int) (bool, string) {
		return g.Player.Spaceship.UpgradeDefenders(u)
	}, 1200)
}

func (g *Game) buyUpgrade(units int, fn func(int) (bool, string), perUnitCost int) (bool, string, error) {
	ship := g.Player.Spaceship
	if ship == nil {
		return false, "", fmt.Errorf("NO_SHIP")
	}
	cost := units * perUnitCost
	if g.Player.Credits < cost {
		return false, "", fmt.Errorf("INSUFFICIENT_CREDITS")
	}
	ok, msg := fn(units)
	if !ok {
		return false, msg, nil
	}
	g.Player.Credits -= cost
	return true, msg, nil
}

// InstallShipUpgrade consumes up to quantity units of item from cargo,
// applying one unit at a time until either the requested quantity, the
// player's held quantity, or the ship's max cap is exhausted. Only the
// units actually applied are removed from inventory.
func (g *Game) InstallShipUpgrade(item string, quantity int) (applied int, message string, err error) {
	ship := g.Player.Spaceship
	if ship == nil {
		return 0, "", fmt.Errorf("NO_SHIP")
	}
	canonical := canonicalUpgradeItem(item)
	if canonical == "" {
		return 0, "", fmt.Errorf("UNKNOWN_UPGRADE_ITEM")
	}
	have := g.Player.Inventory[canonical]
	if quantity <= 0 {
		quantity = 1
	}
	if quantity > have {
		quantity = have
	}
	if quantity <= 0 {
		return 0, "", fmt.Errorf("NO_UPGRADE_ITEMS_HELD")
	}

	for i := 0; i < quantity; i++ {
		var ok bool
		switch canonical {
		case "Cargo Pod Kit":
			ok, message = ship.UpgradeCargoPods(g.deps.Settings.CargoPodUpgradeUnits)
		case "Shield Emitter":
			ok, message = ship.UpgradeShields(g.deps.Settings.ShieldUpgradeUnits)
		case "Fighter Frame":
			ok, message = ship.UpgradeDefenders(g.deps.Settings.DefenderUpgradeUnits)
		case "Nanobot Kit":
			missing := ship.MaxIntegrity - ship.Integrity
			if missing <= 0 {
				ok, message = false, "Hull integrity already at maximum."
				break
			}
			repair := g.deps.Settings.NanobotRepairAmount
			if repair > missing {
				repair = missing
			}
			ship.Integrity += repair
			ok = true
		default:
			ok, message = false, "Unsupported upgrade item."
		}
		if !ok {
			break
		}
		applied++
	}
	if applied > 0 {
		g.Player.Inventory[canonical] -= applied
		g.Player.NormalizeInventory()
	}
	if applied == 0 {
		if message == "" {
			message = "Upgrade could not be applied."
		}
		return 0, message, nil
	}
	return applied, message, nil
}

func canonicalUpgradeItem(item string) string {
	switch model.CanonicalItemName(item) {
	case "Cargo Pod Kit", "Shield Emitter", "Fighter Frame", "Nanobot Kit":
		return model.CanonicalItemName(item)
	}
	return ""
}

// ClaimAbandonedShip grants a derelict hull found adrift, free of
// charge, if it out-classes the player's current ship.
func (g *Game) ClaimAbandonedShip(shipModel string) error {
	tmpl := g.deps.Catalog.ShipTemplateByModel(shipModel)
	if tmpl == nil {
		return fmt.Errorf("UNKNOWN_SHIP_MODEL")
	}
	if g.Player.Spaceship != nil && tmpl.Cost <= g.Player.Spaceship.Cost {
		return fmt.Errorf("NOT_AN_UPGRADE")
	}
	g.Player.Spaceship = tmpl.Build()
	return nil
}
