/*
Package game
File: campaign.go
Description:
    Campaign lifecycle: victory evaluation against the shared winner
    board and the scheduled-reset sweep that restores every planet and
    purges commander saves. Every Game construction checks for a due
    reset (spec.md §4.8); saves do not. evaluateVictoryLocked runs after
    every successful save.
*/
package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/everforgeworks/sector-commander/internal/campaign"
	"github.com/everforgeworks/sector-commander/internal/model"
)

// standingLocked computes this character's current leaderboard row:
// planet ownership percentage across the whole galaxy plus standing.
func (g *Game) standingLocked() campaign.CommanderStanding {
	owned, total := 0, 0
	for _, p := range g.planets {
		total++
		if p.Owner == g.Player.Name {
			owned++
		}
	}
	pct := 0.0
	if total > 0 {
		pct = float64(owned) / float64(total)
	}
	return campaign.CommanderStanding{
		Name:               g.Player.Name,
		PlanetOwnershipPct: pct,
		Authority:          g.Player.AuthorityStanding,
		Frontier:           g.Player.FrontierStanding,
	}
}

// evaluateVictoryLocked checks this character's standing against the
// victory thresholds and, if it qualifies and no winner is currently
// seated, declares one and schedules the reset. Safe to call from every
// session concurrently: the winner board mutation is the single
// serialization point, so only the first qualifying mutate wins.
func (g *Game) evaluateVictoryLocked() {
	s := g.deps.Settings
	standing := g.standingLocked()
	if !campaign.Qualifies(standing, s.VictoryPlanetOwnershipPct, s.VictoryAuthorityMin, s.VictoryAuthorityMax, s.VictoryFrontierMin, s.VictoryFrontierMax) {
		return
	}

	var declared bool
	_, err := g.deps.Campaign.Mutate(func(wb *model.WinnerBoard) {
		if wb.CurrentWinner != "" {
			return
		}
		wb.CurrentWinner = standing.Name
		wb.ScheduledResetTS = campaign.ScheduleResetAt(time.Now(), s.VictoryResetDays)
		wb.History = append(wb.History, model.WinnerEntry{Name: standing.Name, Timestamp: nowUnix()})
		if len(wb.History) > s.WinnerHistoryCap {
			wb.History = wb.History[len(wb.History)-s.WinnerHistoryCap:]
		}
		declared = true
	})
	if err != nil || !declared {
		return
	}

	g.deps.News.Append(&model.NewsEntry{
		Timestamp: nowUnix(),
		EventType: "CAMPAIGN_VICTORY",
		Title:     fmt.Sprintf("%s claims the sector", standing.Name),
		Body:      fmt.Sprintf("%s has secured dominance over the galaxy. The campaign resets at the next cycle boundary.", standing.Name),
		Audience:  model.AudienceGlobal,
	}, nowUnix(), s.NewsRetentionDays)
}

// checkCampaignResetLocked runs the scheduled reset if it's due. Called
// on every Game construction so an idle server still resets promptly
// once a session touches it.
func (g *Game) checkCampaignResetLocked() {
	wb, err := g.deps.Campaign.Load()
	if err != nil || wb == nil {
		return
	}
	if !campaign.ResetDue(wb, nowUnix()) {
		return
	}
	g.executeCampaignResetLocked()
}

// executeCampaignResetLocked restores every planet to its base garrison,
// purges every account's character saves (leaving ACCOUNT.json and the
// legacy auth shadow intact), and clears the winner board. Idempotent:
// every step either overwrites to a fixed target state or is a no-op
// when already applied, so two sessions racing to execute it cause no
// corruption, only redundant I/O.
func (g *Game) executeCampaignResetLocked() {
	now := nowUnix()

	bases := make(map[string]struct{ Defenders, Shields int }, len(g.deps.Catalog.PlanetTemplates))
	for name, t := range g.deps.Catalog.PlanetTemplates {
		bases[name] = struct{ Defenders, Shields int }{Defenders: t.BaseDefenders, Shields: t.BaseShields}
	}
	_ = g.deps.Universe.ResetAll(now, bases)

	g.purgeCommanderSavesLocked()

	g.deps.Campaign.Mutate(func(wb *model.WinnerBoard) {
		wb.CurrentWinner = ""
		wb.ScheduledResetTS = 0
		wb.LastResetTS = now
	})

	g.deps.News.Append(&model.NewsEntry{
		Timestamp: now,
		EventType: "CAMPAIGN_RESET",
		Title:     "A new campaign begins",
		Body:      "The sector has been reclaimed by the frontier. Every commander starts fresh.",
		Audience:  model.AudienceGlobal,
	}, now, g.deps.Settings.NewsRetentionDays)

	g.refreshPlanetsLocked()
}

// purgeCommanderSavesLocked deletes every per-character save file under
// every account directory, keeping ACCOUNT.json (and its root-level
// legacy auth shadow) so accounts and passwords survive the reset.
func (g *Game) purgeCommanderSavesLocked() {
	names, err := g.deps.Accounts.AllAccountSafeNames()
	if err != nil {
		return
	}
	for _, accountSafe := range names {
		dir := g.deps.Accounts.AccountDir(accountSafe)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			if strings.EqualFold(name, "ACCOUNT.json") {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(name), ".json") {
				continue
			}
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}
