/*
Package game
File: game.go
Description:
    The per-character mutable Game aggregate: the single in-memory owner
    of one loaded Player for the duration of a session. Generalizes the
    teacher's single global DataLock-guarded state (internal/game/state.go
    in the original teacher copy) to one instance per loaded character,
    each with its own mutex, while the shared universe/news/campaign/
    analytics stores remain process-wide singletons reached through Deps.
*/
package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/everforgeworks/sector-commander/internal/accounts"
	"github.com/everforgeworks/sector-commander/internal/analytics"
	"github.com/everforgeworks/sector-commander/internal/campaign"
	"github.com/everforgeworks/sector-commander/internal/config"
	"github.com/everforgeworks/sector-commander/internal/jsonstore"
	"github.com/everforgeworks/sector-commander/internal/model"
	"github.com/everforgeworks/sector-commander/internal/news"
	"github.com/everforgeworks/sector-commander/internal/universe"
)

// OnlineLookup resolves a display player name to that player's live Game,
// if a session currently has it loaded. Wired by internal/transport at
// boot so mail delivery and the presence roster can prefer in-memory
// hand-off over a second writer to a save file the recipient owns (§9
// design note).
type OnlineLookup func(playerName string) *Game

// MailSend delivers a notice from sender to recipient through whichever
// mailbox path applies (in-memory hand-off when the recipient is online,
// otherwise a file-based write). Declared here rather than imported from
// internal/mail because that package already imports internal/game for
// OnlineLookup/Game; main.go closes over internal/mail.Send to satisfy
// this shape at boot.
type MailSend func(sender, recipient, subject, body string) error

// Deps bundles every shared, process-wide collaborator a Game instance
// needs. One Deps is constructed at boot and shared by every Game.
type Deps struct {
	Settings  config.Settings
	Catalog   *Catalog
	Accounts  *accounts.Store
	Universe  *universe.Store
	News      *news.Store
	Campaign  *campaign.Store
	Analytics *analytics.Store
	Online    OnlineLookup
	Mail      MailSend
}

// BribeEntry is one planet's contact progress: a level that unlocks
// contraband tiers and a sell bonus, decaying to 0 on expiry.
type BribeEntry struct {
	Level     int     `json:"level"`
	ExpiresAt float64 `json:"expires_at"`
}

// MomentumEntry is one (planet,item) pair's economy momentum state.
type MomentumEntry struct {
	Momentum   float64 `json:"momentum"`
	Volume     float64 `json:"volume"`
	LastUpdate float64 `json:"last_update"`
}

// Game is the per-character aggregate. Exactly one Game exists per
// loaded character for the lifetime of the session that loaded it.
type Game struct {
	mu sync.Mutex

	deps Deps

	AccountSafe   string
	CharacterSafe string
	SavePath      string

	Player *model.Player

	Bribes   map[string]*BribeEntry
	LawHeat  map[string]int
	Momentum map[string]map[string]*MomentumEntry

	Contract *model.Contract

	CombatSession *model.CombatSession

	// planets is the per-session mirror: static template + shared-store
	// overlay, refreshed at every touch-point named in spec.md §5.
	planets map[string]*model.Planet

	refuelLimiter *rate.Limiter

	rng *rand.Rand

	LastSaveTimestamp float64
}

// gameSave is the on-disk shape of saves/<account>/<character>.json.
type gameSave struct {
	AccountName       string                             `json:"account_name"`
	CharacterName     string                             `json:"character_name"`
	LastSaveTimestamp float64                             `json:"last_save_timestamp"`
	Player            *model.Player                       `json:"player"`
	Bribes            map[string]*BribeEntry              `json:"bribes"`
	LawHeat           map[string]int                       `json:"law_heat"`
	Momentum          map[string]map[string]*MomentumEntry `json:"momentum"`
	Contract          *model.Contract                      `json:"contract,omitempty"`
}

// NewRNG returns the default time-seeded random source. Tests construct
// their own deterministic *rand.Rand and pass it to NewGame so combat,
// travel-event, and loot rolls are reproducible (§9 "Randomness").
func NewRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func nowUnix() float64 {
	return float64(time.Now().Unix())
}

// NewGame constructs a brand-new character: a fresh ship from the named
// template, the starting credit grant, and neutral economy/heat/bribe
// state. Used by the new_game handler.
func NewGame(deps Deps, accountSafe, characterSafe, playerName, shipModel string, rng *rand.Rand) (*Game, error) {
	tmpl := deps.Catalog.ShipTemplateByModel(shipModel)
	if tmpl == nil && len(deps.Catalog.Ships) > 0 {
		tmpl = &deps.Catalog.Ships[0]
	}
	if tmpl == nil {
		return nil, fmt.Errorf("game: no ship templates loaded")
	}
	ship := tmpl.Build()

	g := &Game{
		deps:          deps,
		AccountSafe:   accountSafe,
		CharacterSafe: characterSafe,
		SavePath:      deps.Accounts.CharPath(accountSafe, characterSafe),
		Player:        model.NewPlayer(playerName, ship, deps.Settings.NewGameStartingCredits, nowUnix()),
		Bribes:        map[string]*BribeEntry{},
		LawHeat:       map[string]int{},
		Momentum:      map[string]map[string]*MomentumEntry{},
		planets:       map[string]*model.Planet{},
		rng:           rng,
	}
	if rng == nil {
		g.rng = NewRNG()
	}
	if err := g.refreshPlanetsLocked(); err != nil {
		return nil, err
	}
	if len(deps.Catalog.PlanetOrder) > 0 {
		g.Player.CurrentPlanet = deps.Catalog.PlanetOrder[0]
	}
	g.checkCampaignResetLocked()
	return g, nil
}

// LoadGame reads a character save from disk and rebuilds a Game around
// it, overlaying the shared universe store and checking for a due
// campaign reset (every Game construction checks, per spec.md §4.8).
func LoadGame(deps Deps, accountSafe, characterSafe string, rng *rand.Rand) (*Game, error) {
	path := deps.Accounts.CharPath(accountSafe, characterSafe)
	save := &gameSave{}
	if err := jsonstore.New(path).Load(save); err != nil {
		return nil, fmt.Errorf("CORRUPT_SAVE")
	}
	if save.Player == nil {
		return nil, fmt.Errorf("CORRUPT_SAVE")
	}
	g := &Game{
		deps:              deps,
		AccountSafe:       accountSafe,
		CharacterSafe:     characterSafe,
		SavePath:          path,
		Player:            save.Player,
		Bribes:            save.Bribes,
		LawHeat:           save.LawHeat,
		Momentum:          save.Momentum,
		Contract:          save.Contract,
		planets:           map[string]*model.Planet{},
		rng:               rng,
		LastSaveTimestamp: save.LastSaveTimestamp,
	}
	if g.rng == nil {
		g.rng = NewRNG()
	}
	if g.Bribes == nil {
		g.Bribes = map[string]*BribeEntry{}
	}
	if g.LawHeat == nil {
		g.LawHeat = map[string]int{}
	}
	if g.Momentum == nil {
		g.Momentum = map[string]map[string]*MomentumEntry{}
	}
	g.Player.NormalizeInventory()
	if err := g.refreshPlanetsLocked(); err != nil {
		return nil, err
	}
	g.refuelLimiter = rate.NewLimiter(
		rate.Every(time.Duration(deps.Settings.RefuelWindowHours*float64(time.Hour))/time.Duration(maxI(1, deps.Settings.MaxRefuelsPerWindow))),
		deps.Settings.MaxRefuelsPerWindow,
	)
	if used := minI(g.Player.RefuelUsesInWindow, deps.Settings.MaxRefuelsPerWindow); used > 0 &&
		nowUnix()-g.Player.RefuelWindowStartedAt <= deps.Settings.RefuelWindowHours*3600 {
		g.refuelLimiter.AllowN(time.Now(), used)
	}
	g.checkCampaignResetLocked()
	return g, nil
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Save persists the character to disk atomically and re-evaluates the
// campaign victory condition, per spec.md §4.8 ("on every save_game").
// It locks the Game itself, so callers must not already hold the lock;
// dispatch handlers (which run with the Game already locked) call
// SaveLocked instead.
func (g *Game) Save() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.SaveLocked()
}

// SaveLocked is Save's body without its own locking, for callers that
// already hold the Game's mutex — namely the save_game dispatch handler,
// which runs inside dispatch.Handle's pre-locked call.
func (g *Game) SaveLocked() error {
	g.Player.NormalizeInventory()
	g.LastSaveTimestamp = nowUnix()
	save := &gameSave{
		AccountName:       g.AccountSafe,
		CharacterName:     g.CharacterSafe,
		LastSaveTimestamp: g.LastSaveTimestamp,
		Player:            g.Player,
		Bribes:            g.Bribes,
		LawHeat:           g.LawHeat,
		Momentum:          g.Momentum,
		Contract:          g.Contract,
	}
	if err := jsonstore.New(g.SavePath).Save(save); err != nil {
		return err
	}
	g.evaluateVictoryLocked()
	return nil
}

// Lock/Unlock let dispatch handlers hold the Game's mutex for the
// duration of one handler call, matching "a session never has two
// in-flight actions" (§5) while still protecting the Game from the rare
// cross-session writer (mail delivery, combat write-back).
func (g *Game) Lock()   { g.mu.Lock() }
func (g *Game) Unlock() { g.mu.Unlock() }

func (g *Game) RNG() *rand.Rand { return g.rng }

func (g *Game) Deps() Deps { return g.deps }

// refreshPlanetsLocked rebuilds the planet mirror from the catalog
// template plus the shared universe store's overlay. Called on Game
// init and before every touch-point that reads planet state (§5).
func (g *Game) refreshPlanetsLocked() error {
	overlay, err := g.deps.Universe.Load()
	if err != nil {
		return err
	}
	next := make(map[string]*model.Planet, len(g.deps.Catalog.PlanetOrder))
	for _, name := range g.deps.Catalog.PlanetOrder {
		tmpl := g.deps.Catalog.PlanetTemplates[name]
		p := model.NewPlanetFromTemplate(tmpl)
		if prev, ok := g.planets[name]; ok {
			// Preserve session-local, non-persisted overlays (event,
			// spotlight, item modifiers) across a refresh.
			p.ItemModifiers = prev.ItemModifiers
			p.SmugglingInventory = prev.SmugglingInventory
			p.Event = prev.Event
			p.Spotlight = prev.Spotlight
		}
		universe.Apply(p, overlay[name])
		if len(p.ItemModifiers) == 0 {
			g.rollInitialModifiersLocked(p)
		}
		next[name] = p
	}
	g.planets = next
	return nil
}

// RefreshPlanets re-reads the shared universe store, used by travel and
// by combat before touching planet state (§5).
func (g *Game) RefreshPlanets() error {
	return g.refreshPlanetsLocked()
}

func (g *Game) Planet(name string) *model.Planet {
	return g.planets[name]
}

func (g *Game) CurrentPlanet() *model.Planet {
	return g.planets[g.Player.CurrentPlanet]
}

func (g *Game) AllPlanets() map[string]*model.Planet {
	return g.planets
}

// mutatePlanetStore writes the named planet's runtime fields back to the
// shared universe store, then refreshes the local mirror so the caller
// observes its own write (never a stale intermediate value, per §5/§8
// "Shared universe linearizability").
func (g *Game) mutatePlanetStore(name string, fn func(*model.Planet)) error {
	p := g.planets[name]
	if p == nil {
		return fmt.Errorf("unknown planet %q", name)
	}
	fn(p)
	st := universe.StateFromPlanet(p)
	if err := g.deps.Universe.MutatePlanet(name, nowUnix(), func(s *universe.PlanetState) {
		*s = *st
	}); err != nil {
		return err
	}
	return g.refreshPlanetsLocked()
}

func (g *Game) ShipLevel() int {
	ship := g.Player.Spaceship
	if ship == nil {
		return 1
	}
	for i, t := range g.deps.Catalog.Ships {
		if t.Model == ship.Model {
			return i + 1
		}
	}
	return 1
}
