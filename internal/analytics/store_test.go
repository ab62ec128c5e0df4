package analytics_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/sector-commander/internal/analytics"
	"github.com/everforgeworks/sector-commander/internal/model"
)

// Property 10: the in-memory event ring is bounded by maxEvents even as
// retention pruning and further recording continue, while the lifetime
// counters stay monotonically non-decreasing regardless of ring
// truncation or pruning.
func TestEventRingBoundedCountersMonotonic(t *testing.T) {
	store := analytics.New(filepath.Join(t.TempDir(), "analytics_metrics.json"), 5, 14, 30)

	for i := 0; i < 12; i++ {
		store.Record(model.AnalyticsEvent{
			Timestamp: float64(i), Category: "economy", Name: "buy_item", Success: i%3 != 0,
		})
	}

	assert.Len(t, store.Events(), 5, "ring must be capped at maxEvents")
	counters := store.Counters()
	assert.Equal(t, 12, counters.TotalEvents)
	assert.Equal(t, 12, counters.EventsByCategory["economy"])
	assert.Equal(t, 12, counters.EventsByName["buy_item"])

	store.Prune(14*86400 + 1000)
	assert.Empty(t, store.Events(), "pruning past retention drops every ring entry")

	counters2 := store.Counters()
	assert.Equal(t, counters.TotalEvents, counters2.TotalEvents, "pruning must never roll back lifetime counters")
}

func TestFlushOnlyWritesWhenDirtyOrForced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics_metrics.json")
	store := analytics.New(path, 100, 14, 30)

	require.NoError(t, store.Flush(0, false))

	store.Record(model.AnalyticsEvent{Timestamp: 0, Category: "misc", Name: "noop", Success: true})
	require.NoError(t, store.Flush(0, true))

	reloaded := analytics.New(path, 100, 14, 30)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 1, reloaded.Counters().TotalEvents)
}

func TestSummaryWindowsAndRecommendations(t *testing.T) {
	store := analytics.New(filepath.Join(t.TempDir(), "analytics_metrics.json"), 100, 14, 30)
	store.Record(model.AnalyticsEvent{Timestamp: 100, Category: "economy", Name: "buy_item", Success: false})
	store.Record(model.AnalyticsEvent{Timestamp: 200, Category: "economy", Name: "buy_item", Success: false})
	store.Record(model.AnalyticsEvent{Timestamp: 300, Category: "combat", Name: "start_combat_session", Success: true})

	sum := store.Summary(300, 1)
	assert.Equal(t, 3, sum.TotalEvents)
	assert.Equal(t, 1, sum.SuccessCount)
	assert.Equal(t, 2, sum.FailureCount)
	assert.Less(t, sum.SuccessRate, 0.5)

	recs := analytics.Recommendations(sum)
	assert.Contains(t, recs, "Success rate below 50%: review recent failures.")
}
