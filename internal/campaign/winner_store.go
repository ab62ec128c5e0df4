/*
Package campaign
File: winner_store.go
Description:
    WinnerBoard persistence and victory evaluation. The reset itself is
    executed by the game package (which owns the universe and account
    stores); this package computes whether a win has occurred and
    whether a scheduled reset is due.
*/
package campaign

import (
	"time"

	"github.com/everforgeworks/sector-commander/internal/jsonstore"
	"github.com/everforgeworks/sector-commander/internal/model"
)

type Store struct {
	store *jsonstore.Store
}

func New(path string) *Store {
	return &Store{store: jsonstore.New(path)}
}

func (s *Store) Load() (*model.WinnerBoard, error) {
	wb := &model.WinnerBoard{}
	if err := s.store.Load(wb); err != nil {
		return nil, err
	}
	return wb, nil
}

func (s *Store) Mutate(fn func(*model.WinnerBoard)) (*model.WinnerBoard, error) {
	wb := &model.WinnerBoard{}
	err := s.store.Mutate(wb, func() error {
		fn(wb)
		return nil
	})
	return wb, err
}

// CommanderStanding is one row of the leaderboard the campaign evaluates
// victory against.
type CommanderStanding struct {
	Name                string
	PlanetOwnershipPct  float64
	Authority           float64
	Frontier            float64
}

// Qualifies reports whether a standing meets every victory threshold.
func Qualifies(c CommanderStanding, ownershipPct, authMin, authMax, frontMin, frontMax float64) bool {
	if c.PlanetOwnershipPct < ownershipPct {
		return false
	}
	if c.Authority < authMin || c.Authority > authMax {
		return false
	}
	if c.Frontier < frontMin || c.Frontier > frontMax {
		return false
	}
	return true
}

// TopQualifier returns the best-ranked qualifying standing (by planet
// ownership percentage, ties broken by name) or nil if none qualify.
func TopQualifier(standings []CommanderStanding, ownershipPct, authMin, authMax, frontMin, frontMax float64) *CommanderStanding {
	var best *CommanderStanding
	for i := range standings {
		c := standings[i]
		if !Qualifies(c, ownershipPct, authMin, authMax, frontMin, frontMax) {
			continue
		}
		if best == nil || c.PlanetOwnershipPct > best.PlanetOwnershipPct ||
			(c.PlanetOwnershipPct == best.PlanetOwnershipPct && c.Name < best.Name) {
			cc := c
			best = &cc
		}
	}
	return best
}

// ScheduleResetAt computes the unix timestamp for 00:01 local time,
// resetDays days from now.
func ScheduleResetAt(now time.Time, resetDays int) float64 {
	target := now.AddDate(0, 0, resetDays)
	local := time.Date(target.Year(), target.Month(), target.Day(), 0, 1, 0, 0, target.Location())
	return float64(local.Unix())
}

// ResetDue reports whether a scheduled reset timestamp is set and past.
func ResetDue(wb *model.WinnerBoard, now float64) bool {
	return wb.ScheduledResetTS > 0 && now >= wb.ScheduledResetTS
}
