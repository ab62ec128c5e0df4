/*
Package game
File: crew.go
Description:
    Crew hiring and pay processing. Crew slots are fixed per hull
    (Spaceship.CrewSlots); pay accrues every crew_pay_interval_hours and
    an unpaid crew member departs after crew_unpaid_depart_cycles misses
    (spec.md §4.3 "Crew").
*/
package game

import (
	"fmt"

	"github.com/everforgeworks/sector-commander/internal/model"
)

// CrewOffer is a hireable candidate surfaced at a planet with crew
// services.
type CrewOffer struct {
	Name      string
	Specialty string
	Level     int
	HireCost  int
}

// CrewOffers generates a small, deterministic-per-call slate of hireable
// crew at the current planet. Requires the planet to offer crew services.
func (g *Game) CrewOffers() ([]CrewOffer, error) {
	p := g.CurrentPlanet()
	if p == nil || !p.CrewServices {
		return nil, fmt.Errorf("NO_CREW_SERVICES_HERE")
	}
	specialties := []string{"weapons", "engineer"}
	offers := make([]CrewOffer, 0, 2)
	names := []string{"Vance", "Reyes", "Korr", "Piet", "Osei", "Lund"}
	for i := 0; i < 2; i++ {
		spec := specialties[i%len(specialties)]
		level := 1 + g.rng.Intn(3)
		name := names[g.rng.Intn(len(names))]
		offers = append(offers, CrewOffer{
			Name:      name,
			Specialty: spec,
			Level:     level,
			HireCost:  level * 5000,
		})
	}
	return offers, nil
}

// HireCrew adds a crew member to an open slot for the hire cost,
// respecting the ship's fixed per-specialty slot count.
func (g *Game) HireCrew(offer CrewOffer) (*model.CrewMember, error) {
	ship := g.Player.Spaceship
	if ship == nil {
		return nil, fmt.Errorf("NO_SHIP")
	}
	slots, ok := ship.CrewSlots[offer.Specialty]
	if !ok || slots <= 0 {
		return nil, fmt.Errorf("NO_CREW_SLOTS")
	}
	occupied := 0
	for _, c := range g.Player.Crew {
		if c.Specialty == offer.Specialty {
			occupied++
		}
	}
	if occupied >= slots {
		return nil, fmt.Errorf("CREW_SLOTS_FULL")
	}
	if g.Player.Credits < offer.HireCost {
		return nil, fmt.Errorf("INSUFFICIENT_CREDITS")
	}
	g.Player.Credits -= offer.HireCost
	member := model.NewCrewMember(offer.Name, offer.Specialty, offer.Level)
	member.UnpaidCycles = 0
	g.Player.Crew[member.Name] = member
	return member, nil
}

// DismissCrew releases a crew member with no refund.
func (g *Game) DismissCrew(name string) error {
	if _, ok := g.Player.Crew[name]; !ok {
		return fmt.Errorf("CREW_NOT_FOUND")
	}
	delete(g.Player.Crew, name)
	return nil
}

// ProcessCrewPay charges accrued daily pay for every crew member once
// per crew_pay_interval_hours elapsed; a member unpaid for
// crew_unpaid_depart_cycles consecutive intervals departs.
func (g *Game) ProcessCrewPay() (paid int, departed []string) {
	intervalSeconds := g.deps.Settings.CrewPayIntervalHours * 3600
	if nowUnix()-g.Player.LastCrewPayTime < intervalSeconds {
		return 0, nil
	}
	g.Player.LastCrewPayTime = nowUnix()

	total := 0
	for _, c := range g.Player.Crew {
		total += c.DailyPay
	}
	if total == 0 {
		return 0, nil
	}
	if g.Player.Credits >= total {
		g.Player.Credits -= total
		paid = total
		for _, c := range g.Player.Crew {
			c.UnpaidCycles = 0
		}
		return paid, nil
	}

	for name, c := range g.Player.Crew {
		c.UnpaidCycles++
		if c.UnpaidCycles >= g.deps.Settings.CrewUnpaidDepartCycles {
			delete(g.Player.Crew, name)
			departed = append(departed, name)
		}
	}
	return 0, departed
}
