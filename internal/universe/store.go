/*
Package universe
File: store.go
Description:
    The shared universe store: the single source of truth for planet
    ownership, garrison strength, shields, and treasury. Every Game
    instance overlays this onto the static planet template on init and
    before touching planet state in combat/travel; writes go through
    jsonstore so concurrent sessions never observe a torn file and
    ownership changes linearize across every connected session.
*/
package universe

import (
	"github.com/everforgeworks/sector-commander/internal/jsonstore"
	"github.com/everforgeworks/sector-commander/internal/model"
)

type PlanetState struct {
	Owner                  string  `json:"owner,omitempty"`
	Defenders              int     `json:"defenders"`
	Shields                int     `json:"shields"`
	MaxDefenders           int     `json:"max_defenders"`
	MaxShields             int     `json:"max_shields"`
	CreditBalance          int     `json:"credit_balance"`
	CreditsInitialized     bool    `json:"credits_initialized"`
	LastCreditInterestTime float64 `json:"last_credit_interest_time"`
	LastDefenseRegenTime   float64 `json:"last_defense_regen_time"`
}

type fileShape struct {
	UpdatedAt    float64                 `json:"updated_at"`
	PlanetStates map[string]*PlanetState `json:"planet_states"`
}

type Store struct {
	store *jsonstore.Store
}

func New(path string) *Store {
	return &Store{store: jsonstore.New(path)}
}

// Load returns the current overlay map (a deep-copy-by-decode snapshot,
// per the "reads return a deep copy" design note).
func (s *Store) Load() (map[string]*PlanetState, error) {
	shape := fileShape{PlanetStates: map[string]*PlanetState{}}
	if err := s.store.Load(&shape); err != nil {
		return nil, err
	}
	if shape.PlanetStates == nil {
		shape.PlanetStates = map[string]*PlanetState{}
	}
	return shape.PlanetStates, nil
}

// Apply overlays the stored state onto a freshly built Planet template,
// for planets that have an entry; planets with no entry stay at base
// values (never initialized).
func Apply(p *model.Planet, st *PlanetState) {
	if st == nil {
		return
	}
	p.Owner = st.Owner
	p.Defenders = st.Defenders
	p.Shields = st.Shields
	if st.MaxDefenders > 0 {
		p.MaxDefenders = st.MaxDefenders
	}
	if st.MaxShields > 0 {
		p.MaxShields = st.MaxShields
	}
	p.CreditBalance = st.CreditBalance
	p.CreditsInitialized = st.CreditsInitialized
	p.LastCreditInterestTime = st.LastCreditInterestTime
	p.LastDefenseRegenTime = st.LastDefenseRegenTime
}

func StateFromPlanet(p *model.Planet) *PlanetState {
	return &PlanetState{
		Owner:                  p.Owner,
		Defenders:              p.Defenders,
		Shields:                p.Shields,
		MaxDefenders:           p.MaxDefenders,
		MaxShields:             p.MaxShields,
		CreditBalance:          p.CreditBalance,
		CreditsInitialized:     p.CreditsInitialized,
		LastCreditInterestTime: p.LastCreditInterestTime,
		LastDefenseRegenTime:   p.LastDefenseRegenTime,
	}
}

// MutatePlanet loads the store, lets fn mutate the named planet's state
// (creating a zero-value entry if absent), and atomically saves it back.
// now is the unix timestamp to stamp updated_at with.
func (s *Store) MutatePlanet(name string, now float64, fn func(*PlanetState)) error {
	shape := fileShape{PlanetStates: map[string]*PlanetState{}}
	return s.store.Mutate(&shape, func() error {
		if shape.PlanetStates == nil {
			shape.PlanetStates = map[string]*PlanetState{}
		}
		st, ok := shape.PlanetStates[name]
		if !ok {
			st = &PlanetState{}
			shape.PlanetStates[name] = st
		}
		fn(st)
		shape.UpdatedAt = now
		return nil
	})
}

// ResetAll restores every known planet to base garrison values and clears
// ownership, used when a campaign concludes and a new one begins.
func (s *Store) ResetAll(now float64, bases map[string]struct{ Defenders, Shields int }) error {
	shape := fileShape{PlanetStates: map[string]*PlanetState{}}
	return s.store.Mutate(&shape, func() error {
		for name, base := range bases {
			shape.PlanetStates[name] = &PlanetState{
				Defenders:          base.Defenders,
				Shields:            base.Shields,
				CreditsInitialized: false,
			}
		}
		shape.UpdatedAt = now
		return nil
	})
}
