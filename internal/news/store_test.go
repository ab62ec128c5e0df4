package news_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/sector-commander/internal/model"
	"github.com/everforgeworks/sector-commander/internal/news"
)

// Property 9: news audience filtering. A global entry reaches every
// player; a player-addressed entry reaches only its named recipient.
// Entries at or before a caller's watermark are never returned again.
func TestUnseenForFiltersByAudienceAndWatermark(t *testing.T) {
	store := news.New(filepath.Join(t.TempDir(), "galactic_news.json"))

	require.NoError(t, store.Append(&model.NewsEntry{
		Timestamp: 1000, EventType: "CAMPAIGN_VICTORY", Title: "Global event", Audience: model.AudienceGlobal,
	}, 1000, 14))
	require.NoError(t, store.Append(&model.NewsEntry{
		Timestamp: 1100, EventType: "MAIL", Title: "For Nova only", Audience: model.AudiencePlayer, Player: "Nova",
	}, 1100, 14))
	require.NoError(t, store.Append(&model.NewsEntry{
		Timestamp: 1200, EventType: "MAIL", Title: "For Rival only", Audience: model.AudiencePlayer, Player: "Rival",
	}, 1200, 14))

	entries, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	novaUnseen := news.UnseenFor(entries, "Nova", 0, 1200, 30)
	titles := titlesOf(novaUnseen)
	assert.Contains(t, titles, "Global event")
	assert.Contains(t, titles, "For Nova only")
	assert.NotContains(t, titles, "For Rival only")

	// Advance Nova's watermark past the global event: it must not
	// reappear, but the still-unseen player-addressed item does.
	novaUnseenAfterWatermark := news.UnseenFor(entries, "Nova", 1000, 1200, 30)
	titles2 := titlesOf(novaUnseenAfterWatermark)
	assert.NotContains(t, titles2, "Global event")
	assert.Contains(t, titles2, "For Nova only")
}

// Property 10 (news half): retention pruning drops entries older than
// the configured window on every append, regardless of who reads them.
func TestAppendPrunesEntriesOlderThanRetention(t *testing.T) {
	store := news.New(filepath.Join(t.TempDir(), "galactic_news.json"))

	const day = 86400.0
	require.NoError(t, store.Append(&model.NewsEntry{
		Timestamp: 0, EventType: "OLD", Title: "ancient", Audience: model.AudienceGlobal,
	}, 0, 1))

	// Appending 2 days later with a 1-day retention window prunes the
	// first entry away.
	require.NoError(t, store.Append(&model.NewsEntry{
		Timestamp: 2 * day, EventType: "NEW", Title: "fresh", Audience: model.AudienceGlobal,
	}, 2*day, 1))

	entries, err := store.Load()
	require.NoError(t, err)
	titles := titlesOf(entries)
	assert.NotContains(t, titles, "ancient")
	assert.Contains(t, titles, "fresh")
}

func titlesOf(entries []*model.NewsEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Title)
	}
	return out
}
