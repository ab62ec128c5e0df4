/*
Package game
File: factions.go
Description:
    Standing-adjacent bookkeeping that doesn't belong in economy.go: the
    barred-planet registry a hostile flee stamps, the port-spotlight
    accessor, and the per-player galactic news watermark.
*/
package game

import (
	"github.com/everforgeworks/sector-commander/internal/model"
	"github.com/everforgeworks/sector-commander/internal/news"
)

// CheckBarred reports whether the player is currently barred from a
// planet, clearing the entry once its expiry has passed.
func (g *Game) CheckBarred(planetName string) bool {
	expiry, ok := g.Player.BarredPlanets[planetName]
	if !ok {
		return false
	}
	if expiry < nowUnix() {
		delete(g.Player.BarredPlanets, planetName)
		return false
	}
	return true
}

// BarPlayer bars the player from a planet for the given number of hours.
func (g *Game) BarPlayer(planetName string, hours float64) {
	g.Player.BarredPlanets[planetName] = nowUnix() + hours*3600
}

// CurrentPortSpotlight returns the planet's active spotlight deal, or nil
// if none is active or its quantity has run out.
func (g *Game) CurrentPortSpotlight(planetName string) *model.PortSpotlight {
	p := g.planets[planetName]
	if p == nil || p.Spotlight == nil {
		return nil
	}
	if p.Spotlight.ExpiresAt < nowUnix() || p.Spotlight.Quantity <= 0 {
		return nil
	}
	return p.Spotlight
}

// UnseenNews returns galactic news entries the player hasn't seen yet,
// within lookbackDays of now.
func (g *Game) UnseenNews(lookbackDays float64) ([]*model.NewsEntry, error) {
	entries, err := g.deps.News.Load()
	if err != nil {
		return nil, err
	}
	return news.UnseenFor(entries, g.Player.Name, g.Player.LastSeenNewsTimestamp, nowUnix(), lookbackDays), nil
}

// HasUnseenNews is UnseenNews reduced to a boolean, for a cheap poll.
func (g *Game) HasUnseenNews(lookbackDays float64) (bool, error) {
	entries, err := g.UnseenNews(lookbackDays)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// MarkNewsSeen advances the player's news watermark to now.
func (g *Game) MarkNewsSeen() {
	g.Player.LastSeenNewsTimestamp = nowUnix()
}
