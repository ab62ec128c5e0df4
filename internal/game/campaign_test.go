package game_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/sector-commander/internal/game"
	"github.com/everforgeworks/sector-commander/internal/model"
	"github.com/everforgeworks/sector-commander/internal/universe"
)

// Property 8: campaign reset is idempotent. A qualifying commander's
// save triggers exactly one scheduled reset; once that reset fires, a
// later Game construction observes a clean board and does not re-fire.
func TestCampaignResetIsIdempotentAcrossConstructions(t *testing.T) {
	deps := newTestDeps(t)

	g, err := game.NewGame(deps, "nova_acct", "nova", "Nova", "Runabout", rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	require.NoError(t, deps.Universe.MutatePlanet("Haven", 1000, func(st *universe.PlanetState) {
		st.Owner = g.Player.Name
	}))
	require.NoError(t, g.RefreshPlanets())

	haven := g.Planet("Haven")
	require.NotNil(t, haven)
	require.Equal(t, g.Player.Name, haven.Owner)

	require.NoError(t, g.Save())

	wb, err := deps.Campaign.Load()
	require.NoError(t, err)
	assert.Equal(t, "Nova", wb.CurrentWinner)
	assert.Greater(t, wb.ScheduledResetTS, 0.0)

	// Force the scheduled reset into the past.
	_, err = deps.Campaign.Mutate(func(w *model.WinnerBoard) {
		w.ScheduledResetTS = 1
	})
	require.NoError(t, err)

	g2, err := game.NewGame(deps, "rival_acct", "rival", "Rival", "Runabout", rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	wb2, err := deps.Campaign.Load()
	require.NoError(t, err)
	assert.Equal(t, "", wb2.CurrentWinner)
	assert.Equal(t, 0.0, wb2.ScheduledResetTS)
	firstResetTS := wb2.LastResetTS
	assert.Greater(t, firstResetTS, 0.0)

	haven2 := g2.Planet("Haven")
	require.NotNil(t, haven2)
	assert.NotEqual(t, "Nova", haven2.Owner, "reset must restore the planet to neutral ownership")

	g3, err := game.NewGame(deps, "third_acct", "third", "Third", "Runabout", rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	_ = g3

	wb3, err := deps.Campaign.Load()
	require.NoError(t, err)
	assert.Equal(t, firstResetTS, wb3.LastResetTS, "a second construction must not re-fire an already-cleared reset")
	assert.Equal(t, "", wb3.CurrentWinner)
}
