/*
Package game
File: trade.go
Description:
    The commodity and contraband trade operations: buying and selling at
    a planet's market, salvaging cargo the local market won't list, and
    jettisoning cargo outright. Generalizes the teacher's single Market
    buy/sell handlers to the per-planet priced overlay computed in
    economy.go, adding the contraband gating/detection path spec.md §4.4
    requires that the teacher's legal-only economy never had to.
*/
package game

import (
	"fmt"
	"math"

	"github.com/everforgeworks/sector-commander/internal/model"
)

// TradeResult is the outcome of one buy/sell/salvage operation.
type TradeResult struct {
	Item      string `json:"item"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"`
	Total     int    `json:"total"`
	Detected  bool   `json:"detected,omitempty"`
	Message   string `json:"message,omitempty"`
}

// BuyItem purchases quantity units of item at the player's current
// planet, gating contraband by bribe level and stock, and legal goods by
// market listing.
func (g *Game) BuyItem(item string, quantity int) (*TradeResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("INVALID_QUANTITY")
	}
	planetName := g.Player.CurrentPlanet
	p := g.planets[planetName]
	if p == nil {
		return nil, fmt.Errorf("UNKNOWN_PLANET")
	}
	item = model.CanonicalItemName(item)

	sm, isContraband := p.SmugglingInventory[item]
	if isContraband {
		if !g.CanBuyContraband(planetName, item) {
			return nil, fmt.Errorf("CONTRABAND_LOCKED")
		}
		if quantity > sm.Quantity {
			return nil, fmt.Errorf("INSUFFICIENT_STOCK")
		}
	} else if _, onMarket := p.ItemModifiers[item]; !onMarket {
		return nil, fmt.Errorf("ITEM_NOT_AVAILABLE")
	}

	ship := g.Player.Spaceship
	if ship == nil {
		return nil, fmt.Errorf("NO_SHIP")
	}
	if g.Player.CargoUsed()+quantity > ship.EffectiveMaxCargo() {
		return nil, fmt.Errorf("CARGO_FULL")
	}

	unitPrice := g.BuyPrice(planetName, item)
	total := unitPrice * quantity
	if g.Player.Credits < total {
		return nil, fmt.Errorf("INSUFFICIENT_CREDITS")
	}

	g.Player.Credits -= total
	g.Player.Inventory[item] += quantity
	g.advanceMomentum(planetName, item, tradeBuy, quantity)
	if isContraband {
		sm.Quantity -= quantity
	}

	return &TradeResult{Item: item, Quantity: quantity, UnitPrice: unitPrice, Total: total}, nil
}

// SellItem sells quantity units of item held in cargo at the current
// planet. Selling contraband always raises law heat and standing via
// RecordContrabandPenalty, regardless of whether the sale is detected;
// a detected sale additionally forfeits the goods instead of paying out.
func (g *Game) SellItem(item string, quantity int) (*TradeResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("INVALID_QUANTITY")
	}
	planetName := g.Player.CurrentPlanet
	p := g.planets[planetName]
	if p == nil {
		return nil, fmt.Errorf("UNKNOWN_PLANET")
	}
	item = model.CanonicalItemName(item)
	if g.Player.Inventory[item] < quantity {
		return nil, fmt.Errorf("INSUFFICIENT_CARGO")
	}

	unitPrice := g.SellPrice(planetName, item)
	result := &TradeResult{Item: item, Quantity: quantity, UnitPrice: unitPrice}

	if sm, ok := p.SmugglingInventory[item]; ok {
		g.RecordContrabandPenalty(planetName, sm, quantity)
		if detected, msg := g.RollDetection(planetName, item, quantity); detected {
			g.Player.Inventory[item] -= quantity
			g.Player.NormalizeInventory()
			result.Detected = true
			result.Message = msg + " Your contraband is confiscated."
			return result, nil
		}
	}

	g.Player.Inventory[item] -= quantity
	g.Player.NormalizeInventory()
	total := unitPrice * quantity
	g.Player.Credits += total
	g.advanceMomentum(planetName, item, tradeSell, quantity)
	result.Total = total
	return result, nil
}

// SellNonMarketCargo salvages cargo that the current planet's market
// does not list at all (neither legal nor contraband), at
// base_value*salvage_multiplier, per spec.md §4.4 "Salvage sale".
func (g *Game) SellNonMarketCargo(item string) (*TradeResult, error) {
	item = model.CanonicalItemName(item)
	planetName := g.Player.CurrentPlanet
	p := g.planets[planetName]
	if p == nil {
		return nil, fmt.Errorf("UNKNOWN_PLANET")
	}
	qty := g.Player.Inventory[item]
	if qty <= 0 {
		return nil, fmt.Errorf("NO_CARGO")
	}
	if _, onMarket := p.ItemModifiers[item]; onMarket {
		return nil, fmt.Errorf("ITEM_ON_MARKET")
	}
	if _, contraband := p.SmugglingInventory[item]; contraband {
		return nil, fmt.Errorf("ITEM_ON_MARKET")
	}
	comm, ok := g.commodityBase(item)
	if !ok {
		return nil, fmt.Errorf("UNKNOWN_ITEM")
	}

	unitPrice := int(math.Round(float64(comm.BaseValue) * g.deps.Settings.SalvageMultiplier))
	total := unitPrice * qty
	g.Player.Inventory[item] = 0
	g.Player.NormalizeInventory()
	g.Player.Credits += total
	return &TradeResult{Item: item, Quantity: qty, UnitPrice: unitPrice, Total: total}, nil
}

// JettisonCargo dumps up to quantity units of item overboard for no
// payout, clamped to however much is actually held. A non-positive or
// oversized quantity jettisons the whole stack.
func (g *Game) JettisonCargo(item string, quantity int) (int, error) {
	item = model.CanonicalItemName(item)
	have := g.Player.Inventory[item]
	if have <= 0 {
		return 0, fmt.Errorf("NO_CARGO")
	}
	if quantity <= 0 || quantity > have {
		quantity = have
	}
	g.Player.Inventory[item] -= quantity
	g.Player.NormalizeInventory()
	return quantity, nil
}
