/*
Package game
File: contracts.go
Description:
    Trade contract generation, delivery, and arc chaining (spec.md §4.5).
    One active contract per character; route type is derived from the
    player's standings at generation time, and completing a contract may
    chain a follow-on step sharing the same arc_id.
*/
package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/everforgeworks/sector-commander/internal/model"
)

// deriveRouteType picks SMUGGLING when the player's frontier standing
// outpaces their authority standing by more than 8, LEGAL otherwise.
func (g *Game) deriveRouteType() string {
	if g.Player.FrontierStanding > g.Player.AuthorityStanding+8 {
		return model.RouteSmuggling
	}
	return model.RouteLegal
}

// GenerateContract rolls a fresh contract from the current planet to a
// random other planet, optionally continuing an existing arc.
func (g *Game) GenerateContract(continuingArc string, arcStep, arcTotal int) (*model.Contract, error) {
	source := g.Player.CurrentPlanet
	var destOptions []string
	for name := range g.planets {
		if name != source {
			destOptions = append(destOptions, name)
		}
	}
	if len(destOptions) == 0 {
		return nil, fmt.Errorf("NO_DESTINATIONS")
	}
	dest := destOptions[g.rng.Intn(len(destOptions))]

	route := g.deriveRouteType()
	var item string
	if route == model.RouteSmuggling && len(g.deps.Catalog.SmugglingItems) > 0 {
		keys := make([]string, 0, len(g.deps.Catalog.SmugglingItems))
		for k := range g.deps.Catalog.SmugglingItems {
			keys = append(keys, k)
		}
		item = keys[g.rng.Intn(len(keys))]
	} else if len(g.deps.Catalog.CommodityOrder) > 0 {
		item = g.deps.Catalog.CommodityOrder[g.rng.Intn(len(g.deps.Catalog.CommodityOrder))]
	}
	if item == "" {
		return nil, fmt.Errorf("NO_CATALOG_ITEMS")
	}

	qty := 5 + g.rng.Intn(20)
	comm, _ := g.commodityBase(item)
	base := comm.BaseValue
	if base == 0 {
		base = 50
	}
	reward := int(float64(qty*base) * g.deps.Settings.ContractRewardMult)
	if reward < g.deps.Settings.ContractMinReward {
		reward = g.deps.Settings.ContractMinReward
	}

	arcID := continuingArc
	totalSteps := arcTotal
	step := arcStep
	if arcID == "" {
		arcID = strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
		totalSteps = g.deps.Settings.ContractArcMinSteps + g.rng.Intn(maxI(1, g.deps.Settings.ContractArcMaxSteps-g.deps.Settings.ContractArcMinSteps+1))
		step = 1
	}

	contract := &model.Contract{
		Item:              item,
		SourcePlanet:      source,
		DestinationPlanet: dest,
		Quantity:          qty,
		Reward:            reward,
		ChainBonusPct:     g.deps.Settings.ContractArcMilestoneBonusPct,
		CreatedAt:         nowUnix(),
		ExpiresAt:         nowUnix() + 6*3600,
		RouteType:         route,
		ArcID:             arcID,
		ArcStep:           step,
		ArcTotalSteps:     totalSteps,
	}
	g.Contract = contract
	return contract, nil
}

// DeliverContract applies delivered units toward the active contract,
// paying out and chaining the arc on full delivery.
func (g *Game) DeliverContract(quantity int) (reward int, arcComplete bool, err error) {
	c := g.Contract
	if c == nil || c.Expired(nowUnix()) {
		return 0, false, fmt.Errorf("NO_ACTIVE_CONTRACT")
	}
	if g.Player.CurrentPlanet != c.DestinationPlanet {
		return 0, false, fmt.Errorf("WRONG_PLANET")
	}
	canonical := model.CanonicalItemName(c.Item)
	have := g.Player.Inventory[canonical]
	deliver := quantity
	remaining := c.Quantity - c.Delivered
	if deliver > remaining {
		deliver = remaining
	}
	if deliver > have {
		deliver = have
	}
	if deliver <= 0 {
		return 0, false, fmt.Errorf("NO_CARGO_TO_DELIVER")
	}
	g.Player.Inventory[canonical] -= deliver
	g.Player.NormalizeInventory()
	c.Delivered += deliver

	if c.Delivered < c.Quantity {
		return 0, false, nil
	}

	reward = c.Reward
	arcComplete = c.ArcStep >= c.ArcTotalSteps
	if arcComplete {
		reward += int(float64(reward) * c.ChainBonusPct)
	}
	g.Player.Credits += reward

	if c.RouteType == model.RouteLegal {
		g.AdjustAuthorityStanding(g.deps.Settings.ContractLegalAuthorityGain)
		g.AdjustFrontierStanding(g.deps.Settings.ContractLegalFrontierGain)
	} else {
		g.AdjustFrontierStanding(g.deps.Settings.ContractSmugglingFrontierGain)
		g.AdjustAuthorityStanding(-g.deps.Settings.ContractSmugglingAuthorityLoss)
	}
	g.Player.ContractChainStreak++

	if !arcComplete {
		g.GenerateContract(c.ArcID, c.ArcStep+1, c.ArcTotalSteps)
	} else {
		g.Contract = nil
	}
	return reward, arcComplete, nil
}

// DropContract discards the active contract without penalty beyond the
// chain streak resetting.
func (g *Game) DropContract() error {
	if g.Contract == nil {
		return fmt.Errorf("NO_ACTIVE_CONTRACT")
	}
	g.Contract = nil
	g.Player.ContractChainStreak = 0
	return nil
}
