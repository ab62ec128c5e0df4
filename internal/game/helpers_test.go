package game_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/sector-commander/internal/accounts"
	"github.com/everforgeworks/sector-commander/internal/analytics"
	"github.com/everforgeworks/sector-commander/internal/campaign"
	"github.com/everforgeworks/sector-commander/internal/config"
	"github.com/everforgeworks/sector-commander/internal/game"
	"github.com/everforgeworks/sector-commander/internal/news"
	"github.com/everforgeworks/sector-commander/internal/universe"
)

const testUniverseYAML = `
commodities:
  - key: fuel_cells
    name: Fuel Cells
    base_value: 10
    contraband: false
  - key: water
    name: Water
    base_value: 6
    contraband: false
  - key: spice
    name: Spice
    base_value: 100
    contraband: true

ships:
  - model: Runabout
    cost: 5000
    starting_cargo_pods: 20
    starting_shields: 20
    starting_defenders: 5
    max_cargo_pods: 40
    max_shields: 40
    max_defenders: 10
    special_weapon: "Ion Lance"
    integrity: 100
    role_tags: []
    module_slots: 2
    installed_modules: []

planets:
  - name: Haven
    population: 100000
    description: A quiet trade hub.
    vendor: true
    bank: true
    crew_services: true
    is_smuggler_hub: true
    npc_name: Gorrin
    npc_personality: gruff
    docking_fee: 5
    bribe_cost: 100
    security_level: 1
    base_defenders: 5
    base_shields: 5
    max_defenders: 20
    max_shields: 20
  - name: Outpost
    population: 5000
    description: A frontier outpost.
    vendor: true
    bank: false
    crew_services: false
    is_smuggler_hub: false
    npc_name: Drask
    npc_personality: wary
    docking_fee: 2
    bribe_cost: 50
    security_level: 2
    base_defenders: 8
    base_shields: 8
    max_defenders: 25
    max_shields: 25

smuggling_items:
  - item: Spice
    tier: 2
    required_bribe_level: 1
`

// newTestDeps builds a full game.Deps rooted at a fresh temp directory,
// loading the fixture universe above the same way main.go loads
// data/universe.yaml, so every store a Game touches behaves exactly as
// in production, just scoped to one test's disposable directory.
func newTestDeps(t *testing.T) game.Deps {
	t.Helper()
	dir := t.TempDir()

	catalogPath := filepath.Join(dir, "universe.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testUniverseYAML), 0o644))
	catalog, err := game.LoadCatalog(catalogPath)
	require.NoError(t, err)

	saveRoot := filepath.Join(dir, "saves")
	settings := config.Defaults()
	settings.SaveRoot = saveRoot

	accountsStore := accounts.New(saveRoot, []string{
		"universe_planets.json",
		"galactic_news.json",
		"winner_board.json",
		"analytics_metrics.json",
	})

	return game.Deps{
		Settings: settings,
		Catalog:  catalog,
		Accounts: accountsStore,
		Universe: universe.New(filepath.Join(saveRoot, "universe_planets.json")),
		News:     news.New(filepath.Join(saveRoot, "galactic_news.json")),
		Campaign: campaign.New(filepath.Join(saveRoot, "winner_board.json")),
		Analytics: analytics.New(filepath.Join(saveRoot, "analytics_metrics.json"),
			settings.AnalyticsMaxEvents, settings.AnalyticsRetentionDays, settings.AnalyticsFlushIntervalSeconds),
	}
}
