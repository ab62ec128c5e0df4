/*
Package game
File: navigation.go
Description:
    Travel between planets: cost/fuel computation, docking fees, arrival
    side effects (price rolls, events, spotlight), and the two-phase
    travel-event protocol. Generalizes the teacher's mechanics.go
    distance/fuel helpers (internal/game/mechanics.go in the original
    teacher copy) from a single global universe to the per-character
    planet mirror.
*/
package game

import (
	"fmt"
	"math"

	"github.com/everforgeworks/sector-commander/internal/model"
)

// Distance returns the straight-line distance between two planets.
func (g *Game) Distance(a, b string) float64 {
	pa, pb := g.planets[a], g.planets[b]
	if pa == nil || pb == nil {
		return 0
	}
	dx := float64(pa.X - pb.X)
	dy := float64(pa.Y - pb.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// FuelCost computes the fuel units a jump from the current planet to
// destination will burn: (distance / 10) * ship burn rate * the engineer
// crew discount * the global fuel usage multiplier * 0.90, ceiled to at
// least 1.
func (g *Game) FuelCost(destination string) int64 {
	ship := g.Player.Spaceship
	if ship == nil {
		return 0
	}
	dist := g.Distance(g.Player.CurrentPlanet, destination)
	burn := ship.EffectiveFuelBurnRate()
	engineerDiscount := 1.0
	for _, c := range g.Player.Crew {
		if c.Specialty == "engineer" {
			engineerDiscount -= c.Bonus()
		}
	}
	if engineerDiscount < 0.5 {
		engineerDiscount = 0.5
	}
	cost := (dist / 10) * burn * engineerDiscount * g.deps.Settings.FuelUsageMultiplier * 0.90
	units := int64(math.Ceil(cost))
	if units < 1 {
		units = 1
	}
	return units
}

// DockingFee returns the credits due on arrival at a planet, scaled by any
// active planet event and discounted 10% once the player's port visits
// (counted across all planets) reach 5.
func (g *Game) DockingFee(planetName string) int {
	p := g.planets[planetName]
	if p == nil {
		return 0
	}
	fee := float64(p.DockingFee)
	if ev := g.PlanetEvent(planetName); ev != nil {
		fee *= ev.DockingMult
	}
	if g.Player.PortVisits >= g.deps.Settings.DockingFeeDiscountVisit {
		fee *= 1.0 - g.deps.Settings.DockingFeeDiscountPct
	}
	return int(math.Round(fee))
}

// TravelResult is returned to the dispatch handler for travel_to_planet.
type TravelResult struct {
	FuelUsed     int64
	DockingFee   int
	IntegrityHit int
	Arrived      string
	Remarks      []string
	Event        *TravelEventPayload
}

// Travel moves the player to destination, burning fuel, charging the
// docking fee, applying minor transit wear, and rolling arrival effects.
// Returns an INSUFFICIENT_FUEL error if the ship can't make the jump.
func (g *Game) Travel(destination string) (*TravelResult, error) {
	dest := g.planets[destination]
	if dest == nil {
		return nil, fmt.Errorf("UNKNOWN_PLANET")
	}
	ship := g.Player.Spaceship
	if ship == nil {
		return nil, fmt.Errorf("NO_SHIP")
	}
	fuelNeeded := g.FuelCost(destination)
	if ship.Fuel < fuelNeeded {
		return nil, fmt.Errorf("INSUFFICIENT_FUEL")
	}
	ship.Fuel -= fuelNeeded

	dist := g.Distance(g.Player.CurrentPlanet, destination)
	pct := g.uniform(1, 5) * (dist / 1400)
	if pct > 5 {
		pct = 5
	}
	integrityHit := int(math.Ceil(float64(ship.MaxIntegrity) * pct / 100))
	if integrityHit < 1 {
		integrityHit = 1
	}
	ship.TakeDamage(float64(integrityHit))

	fee := g.DockingFee(destination)
	if fee > 0 {
		if g.Player.Credits >= fee {
			g.Player.Credits -= fee
		} else {
			fee = g.Player.Credits
			g.Player.Credits = 0
		}
	}

	g.Player.CurrentPlanet = destination
	g.Player.PortVisits++

	var remarks []string
	for _, c := range g.Player.Crew {
		c.ApplyActivity("travel")
		if c.Specialty == "engineer" {
			remarks = append(remarks, c.Remark("travel", g.rng))
		}
	}

	g.RollPlanetEvent(destination)
	g.RollPortSpotlight(destination)
	g.FluctuatePrices()

	if ship.Fuel == 0 {
		ship.LastRefuelTime = 0
	}

	result := &TravelResult{
		FuelUsed:     fuelNeeded,
		DockingFee:   fee,
		IntegrityHit: integrityHit,
		Arrived:      destination,
		Remarks:      remarks,
	}

	if payload := g.rollTravelEventLocked(dist); payload != nil {
		result.Event = payload
	}
	return result, nil
}

// TravelQuote previews a jump's fuel and fee cost without committing it.
func (g *Game) TravelQuote(destination string) (fuel int64, fee int, reachable bool) {
	if g.planets[destination] == nil {
		return 0, 0, false
	}
	fuel = g.FuelCost(destination)
	fee = g.DockingFee(destination)
	ship := g.Player.Spaceship
	reachable = ship != nil && ship.Fuel >= fuel
	return fuel, fee, reachable
}

// Travel event payload types, per spec.md §4.6 "Travel events".
const (
	EventCache   = "CACHE"
	EventPirates = "PIRATES"
	EventDrift   = "DRIFT"
	EventLeak    = "LEAK"
)

// TravelEventPayload describes an in-flight event awaiting the player's
// resolution choice. Fields are populated per type: CacheReward for
// CACHE, PayLoss for PIRATES, DriftItem for DRIFT, LeakLoss for LEAK.
type TravelEventPayload struct {
	Type        string   `json:"type"`
	Choices     []string `json:"choices"`
	CacheReward int      `json:"cache_reward,omitempty"`
	PayLoss     int      `json:"pay_loss,omitempty"`
	DriftItem   string   `json:"drift_item,omitempty"`
	LeakLoss    float64  `json:"leak_loss,omitempty"`
}

var travelEventChoices = map[string][]string{
	EventCache:   {"SECURE", "SKIP"},
	EventPirates: {"FIGHT", "PAY"},
	EventDrift:   {"SALVAGE", "IGNORE"},
	EventLeak:    {"PATCH", "PUSH"},
}

var driftSalvageItems = []string{"Titanium", "Fuel Cells", "Nanobot Repair Kits"}

// rollTravelEventLocked has a flat 18% chance per arrival of surfacing a
// travel event; the type is chosen uniformly among the four kinds. Ported
// from original_source's roll_travel_event_payload
// (game_manager_modules/navigation.py:46-111).
func (g *Game) rollTravelEventLocked(dist float64) *TravelEventPayload {
	if g.rng.Float64() >= 0.18 {
		return nil
	}
	ship := g.Player.Spaceship
	types := []string{EventCache, EventPirates, EventDrift, EventLeak}
	t := types[g.rng.Intn(len(types))]
	payload := &TravelEventPayload{Type: t, Choices: travelEventChoices[t]}
	switch t {
	case EventCache:
		payload.CacheReward = 120 + g.rng.Intn(781)
	case EventPirates:
		loss := 60 + g.rng.Intn(491)
		if loss > g.Player.Credits {
			loss = g.Player.Credits
		}
		payload.PayLoss = loss
	case EventDrift:
		payload.DriftItem = driftSalvageItems[g.rng.Intn(len(driftSalvageItems))]
	case EventLeak:
		leak := math.Max(1.0, dist/600.0)
		if ship != nil {
			leak = math.Min(leak, math.Max(1.0, float64(ship.Fuel)*0.25))
		}
		payload.LeakLoss = leak
	}
	return payload
}

// RollTravelEvent exposes rollTravelEventLocked as a standalone action
// for roll_travel_event_payload, letting a client re-roll for an event
// outside the travel call itself (e.g. idling in open space, with no
// particular jump distance to weight the leak severity against).
func (g *Game) RollTravelEvent() *TravelEventPayload {
	return g.rollTravelEventLocked(0)
}

// scaleFuelUsage mirrors _scale_and_round_fuel_usage: scale by the global
// fuel multiplier, round to a whole unit, and never round a positive
// amount down to zero.
func (g *Game) scaleFuelUsage(amount, minimum float64) float64 {
	scaled := math.Max(0, amount) * g.deps.Settings.FuelUsageMultiplier * 0.90
	rounded := math.Round(scaled)
	if scaled > 0 {
		rounded = math.Max(1, rounded)
	}
	if minimum > 0 {
		rounded = math.Max(minimum, rounded)
	}
	return rounded
}

var driftFlavor = []string{
	"Mag-claws bite into the debris stream and pull it aboard.",
	"A quick EVA drone pass secures the drifting container.",
	"Recovered cargo thumps into bay storage as alarms clear.",
}

var leakPatchFlavor = []string{
	"Nanobots weave a silver lattice over the ruptured seam.",
	"Pressure stabilizes as repair foam flashes into a hard seal.",
	"Flow meters settle back into nominal bands.",
}

// ResolveTravelEvent applies the player's chosen resolution for a travel
// event payload rolled during the preceding travel call, always
// returning a single narrative line per spec.md §4.6. Ported from
// original_source's resolve_travel_event_payload
// (game_manager_modules/navigation.py:113-224).
func (g *Game) ResolveTravelEvent(payload *TravelEventPayload, choice string) (message string, err error) {
	if payload == nil {
		return "", fmt.Errorf("NO_EVENT")
	}
	ship := g.Player.Spaceship
	switch payload.Type {
	case EventCache:
		if choice == "" {
			choice = "SECURE"
		}
		if choice == "SECURE" {
			g.Player.Credits += payload.CacheReward
			return fmt.Sprintf("Derelict cache secured: +%d credits.", payload.CacheReward), nil
		}
		return "You hold formation and leave the cache behind.", nil

	case EventDrift:
		if choice == "" {
			choice = "SALVAGE"
		}
		item := model.CanonicalItemName(payload.DriftItem)
		if item == "" {
			item = "Titanium"
		}
		if choice == "SALVAGE" {
			g.Player.Inventory[item]++
			g.AdjustFrontierStanding(1)
			flavor := driftFlavor[g.rng.Intn(len(driftFlavor))]
			return fmt.Sprintf("Salvage drift captured: +1 %s. %s", item, flavor), nil
		}
		return "The drift field passes astern as you hold your vector.", nil

	case EventLeak:
		if choice == "" {
			choice = "PATCH"
		}
		fullLoss := g.scaleFuelUsage(payload.LeakLoss, 1.0)
		if choice == "PATCH" {
			kits := g.Player.Inventory["Nanobot Repair Kits"]
			if kits > 0 {
				g.Player.Inventory["Nanobot Repair Kits"]--
				if g.Player.Inventory["Nanobot Repair Kits"] <= 0 {
					delete(g.Player.Inventory, "Nanobot Repair Kits")
				}
				actual := g.scaleFuelUsage(math.Max(0.2, payload.LeakLoss*0.35), 1.0)
				ship.Fuel -= int64(actual)
				if ship.Fuel < 0 {
					ship.Fuel = 0
				}
				g.AdjustAuthorityStanding(1)
				flavor := leakPatchFlavor[g.rng.Intn(len(leakPatchFlavor))]
				return fmt.Sprintf("Leak patched with nanobots: -%.1f fuel (avoided %.1f). %s",
					actual, math.Max(0, fullLoss-actual), flavor), nil
			}
			improvised := g.scaleFuelUsage(math.Max(0.4, payload.LeakLoss*0.65), 1.0)
			ship.Fuel -= int64(improvised)
			if ship.Fuel < 0 {
				ship.Fuel = 0
			}
			return fmt.Sprintf("Field patch applied: -%.1f fuel (no nanobot kit on hand).", improvised), nil
		}
		ship.Fuel -= int64(fullLoss)
		if ship.Fuel < 0 {
			ship.Fuel = 0
		}
		return fmt.Sprintf("Micro-leak persisted: -%.1f fuel.", fullLoss), nil

	case EventPirates:
		if choice == "" {
			choice = "PAY"
		}
		if choice == "FIGHT" {
			return "You ready your weapons for a fight.", fmt.Errorf("START_COMBAT")
		}
		loss := payload.PayLoss
		if loss > g.Player.Credits {
			loss = g.Player.Credits
		}
		g.Player.Credits -= loss
		return fmt.Sprintf("The pirate captain takes %d credits and clears your lane.", loss), nil
	}
	return "", fmt.Errorf("UNKNOWN_EVENT")
}
