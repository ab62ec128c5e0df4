/*
Package game
File: orbit.go
Description:
    Orbit targets: the NPCs and ships present at a planet, generated
    on the fly per visit, plus the multiplayer presence roster backing
    get_all_commander_statuses (spec.md §4.3 "Orbit", §7 "Presence").
*/
package game

import (
	"fmt"

	"github.com/everforgeworks/sector-commander/internal/model"
)

var npcNameBank = []string{"Drask", "Maren", "Tollan", "Vix", "Corbel", "Syne"}
var npcPersonalities = []string{
	model.PersonalityHostile, model.PersonalityFriendly,
	model.PersonalityBribable, model.PersonalityDismissive,
}

// OrbitTargets lists the NPC ships currently orbiting the player's
// planet. A fresh random slate is generated on every call; it is not
// remembered between calls.
func (g *Game) OrbitTargets() ([]*model.NPCShip, error) {
	p := g.CurrentPlanet()
	if p == nil {
		return nil, fmt.Errorf("UNKNOWN_PLANET")
	}
	count := 1 + g.rng.Intn(3)
	npcs := make([]*model.NPCShip, 0, count)
	tmpl := g.deps.Catalog.Ships[g.rng.Intn(len(g.deps.Catalog.Ships))]
	for i := 0; i < count; i++ {
		ship := tmpl.Build()
		personality := npcPersonalities[g.rng.Intn(len(npcPersonalities))]
		if p.NPCPersonality != "" && i == 0 {
			personality = p.NPCPersonality
		}
		name := p.NPCName
		if name == "" || i > 0 {
			name = npcNameBank[g.rng.Intn(len(npcNameBank))]
		}
		npcs = append(npcs, &model.NPCShip{
			Name:           name,
			Spaceship:      ship,
			Personality:    personality,
			Credits:        100 + g.rng.Intn(900),
			OrbitingPlanet: p.Name,
		})
	}
	return npcs, nil
}

// ShouldAutoEngage reports whether a hostile NPC initiates combat
// automatically on arrival, scaled down by the player's frontier
// standing (smugglers are left alone more often once trusted).
func (g *Game) ShouldAutoEngage(npc *model.NPCShip) bool {
	if npc.Personality != model.PersonalityHostile {
		return false
	}
	chance := 0.35 - g.Player.FrontierStanding/500.0
	if chance < 0.05 {
		chance = 0.05
	}
	return g.rng.Float64() < chance
}

// ShouldAutoEngagePlanet reports whether a hostile-owned planet's
// garrison fires on arrival, mirroring ShouldAutoEngage's frontier-
// standing scaling but gated on the planet being owned by someone else
// and carrying an active garrison.
func (g *Game) ShouldAutoEngagePlanet(p *model.Planet) bool {
	if p == nil || p.Owner == "" || p.Owner == g.Player.Name {
		return false
	}
	if p.Defenders <= 0 && p.Shields <= 0 {
		return false
	}
	chance := 0.25 - g.Player.FrontierStanding/500.0
	if chance < 0.05 {
		chance = 0.05
	}
	return g.rng.Float64() < chance
}

// CommanderStatus is one row of the multiplayer presence roster.
type CommanderStatus struct {
	Name          string
	CurrentPlanet string
	ShipModel     string
	Online        bool
}

// CommanderStatus reports one row per requested player name, via the
// OnlineLookup hook wired at boot: names with a live session carry their
// current planet and ship model with Online set; any other name is
// returned with Online false and no planet or ship. Character saves are
// not read.
func (g *Game) CommanderStatus(names []string) []CommanderStatus {
	out := make([]CommanderStatus, 0, len(names))
	for _, name := range names {
		status := CommanderStatus{Name: name}
		if g.deps.Online != nil {
			if other := g.deps.Online(name); other != nil {
				other.Lock()
				status.CurrentPlanet = other.Player.CurrentPlanet
				if other.Player.Spaceship != nil {
					status.ShipModel = other.Player.Spaceship.Model
				}
				status.Online = true
				other.Unlock()
			}
		}
		out = append(out, status)
	}
	return out
}
