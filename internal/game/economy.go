/*
Package game
File: economy.go
Description:
    The price model, economy momentum, contraband gating/detection, and
    law-heat decay described in spec.md §4.4. Generalizes the teacher's
    heat-map economy (internal/game/economy.go in the original teacher
    copy: SourceHeat/DestHeat maps that dampen toward 1.0 over time) from
    a single global Market to momentum tracked per (planet,item) inside
    one character's Game.
*/
package game

import (
	"math"

	"github.com/everforgeworks/sector-commander/internal/model"
)

const (
	tradeBuy  = "BUY"
	tradeSell = "SELL"
)

// rollInitialModifiersLocked seeds a freshly-overlaid planet's item
// modifiers to neutral (100) and smuggling inventory from the catalog's
// contraband tier table, the first time this session sees that planet.
func (g *Game) rollInitialModifiersLocked(p *model.Planet) {
	for name := range g.deps.Catalog.Commodities {
		p.ItemModifiers[name] = 100
	}
	for key, tmpl := range g.deps.Catalog.SmugglingItems {
		item := commodityNameForKey(g.deps.Catalog, key)
		comm, ok := g.deps.Catalog.Commodities[item]
		base := comm.BaseValue
		if !ok || base == 0 {
			base = 100
		}
		p.SmugglingInventory[item] = &model.SmugglingItem{
			Item:               item,
			Modifier:           100,
			Quantity:           g.rng.Intn(20) + 10,
			Tier:               tmpl.Tier,
			BasePrice:          base,
			RequiredBribeLevel: tmpl.RequiredBribeLevel,
		}
	}
}

func commodityNameForKey(cat *Catalog, key string) string {
	for name, c := range cat.Commodities {
		if c.Key == key {
			return name
		}
	}
	return key
}

// FluctuatePrices drifts every planet's legal item modifiers by a
// multiplicative 85%-115% variance factor and every planet's smuggling
// modifiers by a 50%-150% variance factor, with a 5% chance per jump to
// add 1-2 stock units, per spec.md §3 "Planet". This is a random walk,
// not a mean-reversion toward a fresh draw each jump.
func (g *Game) FluctuatePrices() {
	for _, p := range g.planets {
		for name, mod := range p.ItemModifiers {
			next := int(float64(mod) * (0.85 + g.rng.Float64()*0.30))
			if next < 50 {
				next = 50
			}
			p.ItemModifiers[name] = next
		}
		for _, item := range p.SmugglingInventory {
			next := int(float64(item.Modifier) * (0.5 + g.rng.Float64()*1.0))
			if next < 100 {
				next = 100
			}
			item.Modifier = next
			if g.rng.Float64() < 0.05 {
				item.Quantity += 1 + g.rng.Intn(2)
			}
		}
	}
}

func (g *Game) commodityBase(item string) (model.Commodity, bool) {
	c, ok := g.deps.Catalog.Commodities[item]
	return c, ok
}

func (g *Game) momentumEntry(planet, item string) *MomentumEntry {
	if g.Momentum[planet] == nil {
		g.Momentum[planet] = map[string]*MomentumEntry{}
	}
	e, ok := g.Momentum[planet][item]
	if !ok {
		e = &MomentumEntry{LastUpdate: nowUnix()}
		g.Momentum[planet][item] = e
	}
	return e
}

// advanceMomentum decays momentum/volume toward neutral by
// exp(-decay_per_hour*Δhours) and, for a BUY/SELL of qty units, nudges
// momentum by ±step*sqrt(qty), clamped to momentum_clamp. Volume always
// accumulates unsigned. Per spec.md §4.4 "Economy momentum and
// dampening".
func (g *Game) advanceMomentum(planet, item, side string, qty int) *MomentumEntry {
	e := g.momentumEntry(planet, item)
	now := nowUnix()
	deltaHours := (now - e.LastUpdate) / 3600.0
	if deltaHours > 0 {
		decay := math.Exp(-g.deps.Settings.MomentumDecayPerHour * deltaHours)
		e.Momentum *= decay
		e.Volume *= decay
	}
	e.LastUpdate = now

	step := g.deps.Settings.MomentumStep * math.Sqrt(float64(maxI(1, qty)))
	switch side {
	case tradeBuy:
		e.Momentum += step
	case tradeSell:
		e.Momentum -= step
	}
	clamp := g.deps.Settings.MomentumClamp
	e.Momentum = model.ClampFloat(e.Momentum, -clamp, clamp)
	e.Volume += float64(qty)
	return e
}

// BuyPrice computes buy_price(p,i) per spec.md §4.4: base*modifier/100,
// then hostile-market surcharge, port-spotlight discount, planet-event
// buy multiplier, and economy momentum, in that fixed order (§9 open
// question disposition #2). Result floored at 1.
func (g *Game) BuyPrice(planetName, item string) int {
	p := g.planets[planetName]
	if p == nil {
		return 0
	}
	comm, ok := g.commodityBase(item)
	if !ok {
		return 0
	}
	price := float64(p.BasePrice(comm.BaseValue, item))

	if g.IsHostileMarket(p) {
		price *= g.deps.Settings.PlanetPricePenaltyMultiplier
	}
	if p.Spotlight != nil && p.Spotlight.Item == item && p.Spotlight.ExpiresAt > nowUnix() && p.Spotlight.Quantity > 0 {
		price *= 1.0 - float64(p.Spotlight.DiscountPct)/100.0
	}
	if p.Event != nil && p.Event.ExpiresAt > nowUnix() {
		price *= p.Event.BuyMult
	}
	mom := g.momentumEntry(planetName, item)
	price *= 1.0 + mom.Momentum

	if price < 1 {
		price = 1
	}
	return int(math.Round(price))
}

// SellPrice computes sell_price(p,i): starts from buy_price, applies the
// opposite economy multiplier, and for contraband additionally applies
// a tier bonus, a value-ratio bonus, and the bribe-level sell bonus. For
// items absent from the market, sells at round(base*salvage_multiplier).
func (g *Game) SellPrice(planetName, item string) int {
	p := g.planets[planetName]
	if p == nil {
		return 0
	}
	comm, ok := g.commodityBase(item)
	if !ok {
		return 0
	}
	if _, onMarket := p.ItemModifiers[item]; !onMarket {
		return int(math.Round(float64(comm.BaseValue) * g.deps.Settings.SalvageMultiplier))
	}

	buy := g.BuyPrice(planetName, item)
	mom := g.momentumEntry(planetName, item)
	// Opposite-direction momentum multiplier, then the unsigned-volume
	// dampening floor-capped below 1.0.
	price := float64(buy) * (1.0 - mom.Momentum)
	dampen := 1.0 - math.Min(g.deps.Settings.VolumeFloorCap, mom.Volume/500.0)
	price *= dampen

	if sm, ok := p.SmugglingInventory[item]; ok {
		price *= 1.0 + float64(sm.Tier-1)*g.deps.Settings.TierStep*0.55
		valueRatio := float64(sm.BasePrice) / math.Max(1, float64(comm.BaseValue))
		price *= 1.0 + 0.10*valueRatio
		bribe := g.BribeLevel(planetName)
		price *= 1.0 + float64(bribe)*g.deps.Settings.BribeSellBonus
	}
	if price < 1 {
		price = 1
	}
	return int(math.Round(price))
}

// IsHostileMarket reports whether the player attacked this planet within
// the hostile-market window and does not own it.
func (g *Game) IsHostileMarket(p *model.Planet) bool {
	if p.Owner == g.Player.Name {
		return false
	}
	last, ok := g.Player.AttackedPlanets[p.Name]
	if !ok {
		return false
	}
	return nowUnix()-last <= g.deps.Settings.HostileMarketWindowSeconds
}

func (g *Game) HostilePenaltySecondsRemaining(planetName string) float64 {
	p := g.planets[planetName]
	if p == nil || !g.IsHostileMarket(p) {
		return 0
	}
	last := g.Player.AttackedPlanets[planetName]
	remaining := g.deps.Settings.HostileMarketWindowSeconds - (nowUnix() - last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// BribeLevel returns the player's current contact level at a planet, 0
// if absent or expired.
func (g *Game) BribeLevel(planetName string) int {
	e, ok := g.Bribes[planetName]
	if !ok {
		return 0
	}
	if e.ExpiresAt != 0 && e.ExpiresAt < nowUnix() {
		return 0
	}
	return e.Level
}

// CanBuyContraband reports whether the planet permits buying item given
// the player's current bribe level there, per spec.md §4.4 "Contraband
// gating".
func (g *Game) CanBuyContraband(planetName, item string) bool {
	p := g.planets[planetName]
	if p == nil {
		return false
	}
	sm, ok := p.SmugglingInventory[item]
	if !ok {
		return true
	}
	level := g.BribeLevel(planetName)
	if level >= sm.RequiredBribeLevel {
		return true
	}
	return sm.RequiredBribeLevel == 0 && p.IsSmugglerHub
}

// RecordContrabandPenalty raises heat and applies authority/frontier
// standing shifts proportional to tier, value ratio, and quantity, per
// spec.md §4.4 "Selling contraband anywhere raises heat...".
func (g *Game) RecordContrabandPenalty(planetName string, sm *model.SmugglingItem, qty int) {
	valueRatio := float64(sm.BasePrice) / 100.0
	magnitude := float64(sm.Tier) * valueRatio * math.Sqrt(float64(maxI(1, qty)))
	g.LawHeat[planetName] += int(math.Round(magnitude))
	if g.LawHeat[planetName] > 100 {
		g.LawHeat[planetName] = 100
	}
	g.AdjustAuthorityStanding(-magnitude * 0.05)
	g.AdjustFrontierStanding(magnitude * 0.08)
}

// DetectionProbability computes the contraband detection chance per
// spec.md §4.4 "Detection": security base, tier multiplier, sqrt(qty),
// heat scalar, frontier/bribe discounts, ship level, and scan evasion.
// Clamped to [0.01, 0.95].
func (g *Game) DetectionProbability(planetName, item string, qty int) float64 {
	p := g.planets[planetName]
	if p == nil {
		return 0.01
	}
	sm, ok := p.SmugglingInventory[item]
	if !ok {
		return 0.01
	}
	secLevel := p.SecurityLevel
	if secLevel < 0 {
		secLevel = 0
	}
	if secLevel > 2 {
		secLevel = 2
	}
	base := []float64{0.05, 0.12, 0.22}[secLevel]
	prob := base * (1.0 + float64(sm.Tier-1)*0.20)
	prob *= 1.0 + math.Sqrt(float64(maxI(1, qty)))*0.05
	heat := float64(g.LawHeat[planetName]) / 100.0
	prob *= 1.0 + heat*0.6

	frontierDiscount := 1.0 - model.ClampFloat(g.Player.FrontierStanding, -100, 100)/250.0
	prob *= frontierDiscount
	bribeDiscount := 1.0 - float64(g.BribeLevel(planetName))*0.08
	if bribeDiscount < 0.2 {
		bribeDiscount = 0.2
	}
	prob *= bribeDiscount

	shipLevel := g.ShipLevel()
	prob *= 1.0 + float64(shipLevel-1)*g.deps.Settings.DetectionShipLevelStep
	if g.Player.Spaceship != nil {
		prob *= g.Player.Spaceship.EffectiveScanEvasionMultiplier()
	}
	return model.ClampFloat(prob, 0.01, 0.95)
}

// RollDetection rolls the detection probability; on hit, raises planet
// heat and returns a blocking message keyed by security level.
func (g *Game) RollDetection(planetName, item string, qty int) (detected bool, message string) {
	prob := g.DetectionProbability(planetName, item, qty)
	if g.rng.Float64() >= prob {
		return false, ""
	}
	shipLevel := g.ShipLevel()
	gain := int(math.Round(float64(g.deps.Settings.LawHeatGainDetected) * (1.0 + float64(shipLevel-1)*g.deps.Settings.DetectionShipLevelStep)))
	g.LawHeat[planetName] += gain
	if g.LawHeat[planetName] > 100 {
		g.LawHeat[planetName] = 100
	}
	p := g.planets[planetName]
	labels := map[int]string{0: "Local patrols spot your cargo.", 1: "Authority scanners flag your hold.", 2: "Authority gunships lock onto your hull."}
	msg := labels[2]
	if p != nil {
		if l, ok := labels[p.SecurityLevel]; ok {
			msg = l
		}
	}
	return true, msg
}

// DecayLawHeat applies hourly integer decay to every tracked planet's
// heat, clearing it at 0.
func (g *Game) DecayLawHeat(elapsedHours float64) {
	if elapsedHours <= 0 {
		return
	}
	decay := int(elapsedHours * float64(g.deps.Settings.LawHeatDecayPerHour))
	if decay <= 0 {
		return
	}
	for name, h := range g.LawHeat {
		h -= decay
		if h <= 0 {
			delete(g.LawHeat, name)
		} else {
			g.LawHeat[name] = h
		}
	}
}

// AdjustAuthorityStanding/AdjustFrontierStanding clamp to [-100,100], per
// spec.md §3 "Player".
func (g *Game) AdjustAuthorityStanding(delta float64) {
	g.Player.AuthorityStanding = model.ClampFloat(g.Player.AuthorityStanding+delta, -100, 100)
}

func (g *Game) AdjustFrontierStanding(delta float64) {
	g.Player.FrontierStanding = model.ClampFloat(g.Player.FrontierStanding+delta, -100, 100)
}

func (g *Game) AuthorityStandingLabel() string {
	return standingLabel(g.Player.AuthorityStanding, []string{"Wanted", "Distrusted", "Neutral", "Respected", "Exalted"})
}

func (g *Game) FrontierStandingLabel() string {
	return standingLabel(g.Player.FrontierStanding, []string{"Outcast", "Unwelcome", "Neutral", "Trusted", "Legendary"})
}

func standingLabel(v float64, labels []string) string {
	switch {
	case v <= -60:
		return labels[0]
	case v <= -20:
		return labels[1]
	case v < 20:
		return labels[2]
	case v < 60:
		return labels[3]
	default:
		return labels[4]
	}
}

// RollPortSpotlight assigns a time-limited single-item discount on
// arrival, per spec.md §4.4 "Port spotlight".
func (g *Game) RollPortSpotlight(planetName string) {
	p := g.planets[planetName]
	if p == nil || len(g.deps.Catalog.CommodityOrder) == 0 {
		return
	}
	item := g.deps.Catalog.CommodityOrder[g.rng.Intn(len(g.deps.Catalog.CommodityOrder))]
	pct := g.deps.Settings.SpotlightMinPct + g.rng.Intn(maxI(1, g.deps.Settings.SpotlightMaxPct-g.deps.Settings.SpotlightMinPct+1))
	p.Spotlight = &model.PortSpotlight{
		Item:        item,
		DiscountPct: pct,
		Quantity:    2 + g.rng.Intn(4),
		ExpiresAt:   nowUnix() + g.deps.Settings.SpotlightDurationHours*3600,
	}
}

var planetEventTable = map[string]struct {
	buyMult, dockingMult, contractMult float64
}{
	"FESTIVAL": {0.85, 0.5, 1.2},
	"EMBARGO":  {1.4, 1.5, 0.6},
	"SHORTAGE": {1.25, 1.0, 1.1},
	"STRIKE":   {1.1, 1.0, 0.7},
}

// RollPlanetEvent assigns a 2-6 hour event with planet_event_chance
// probability, per spec.md §4.4 "Planet events".
func (g *Game) RollPlanetEvent(planetName string) {
	p := g.planets[planetName]
	if p == nil || g.rng.Float64() >= g.deps.Settings.PlanetEventChance {
		return
	}
	types := []string{"FESTIVAL", "EMBARGO", "SHORTAGE", "STRIKE"}
	t := types[g.rng.Intn(len(types))]
	spec := planetEventTable[t]
	hours := g.deps.Settings.PlanetEventMinHours + g.rng.Float64()*(g.deps.Settings.PlanetEventMaxHours-g.deps.Settings.PlanetEventMinHours)
	p.Event = &model.PlanetEvent{
		Type:         t,
		BuyMult:      spec.buyMult,
		DockingMult:  spec.dockingMult,
		ContractMult: spec.contractMult,
		ExpiresAt:    nowUnix() + hours*3600,
	}
}

func (g *Game) PlanetEvent(planetName string) *model.PlanetEvent {
	p := g.planets[planetName]
	if p == nil || p.Event == nil || p.Event.ExpiresAt < nowUnix() {
		return nil
	}
	return p.Event
}

// BribeNPC raises (or refreshes) the player's contact level at a planet
// for a credit cost scaling with the planet's base bribe_cost.
func (g *Game) BribeNPC(planetName string) (ok bool, cost int, message string) {
	p := g.planets[planetName]
	if p == nil {
		return false, 0, "Unknown planet."
	}
	level := g.BribeLevel(planetName)
	cost = p.BribeCost * (level + 1)
	if g.Player.Credits < cost {
		return false, cost, "Not enough credits to bribe this contact."
	}
	g.Player.Credits -= cost
	newLevel := level + 1
	if newLevel > 4 {
		newLevel = 4
	}
	g.Bribes[planetName] = &BribeEntry{Level: newLevel, ExpiresAt: nowUnix() + 72*3600}
	return true, cost, "Contact level increased."
}
