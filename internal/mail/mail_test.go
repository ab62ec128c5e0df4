package mail_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/sector-commander/internal/accounts"
	"github.com/everforgeworks/sector-commander/internal/mail"
)

func writeRecipientSave(t *testing.T, path, accountSafe, charSafe, playerName string) {
	t.Helper()
	payload := map[string]any{
		"account_name":   accountSafe,
		"character_name": charSafe,
		"player": map[string]any{
			"name":     playerName,
			"messages": []any{},
		},
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// S6: mail delivered to an offline recipient is patched directly onto
// their character save rather than requiring them to be connected.
func TestSendDeliversToOfflineRecipientSave(t *testing.T) {
	root := t.TempDir()
	store := accounts.New(root, []string{
		"universe_planets.json", "galactic_news.json", "winner_board.json", "analytics_metrics.json",
	})

	recipientPath := store.CharPath("wanderer", "rival")
	writeRecipientSave(t, recipientPath, "wanderer", "rival", "Rival")

	deps := mail.Deps{Accounts: store, Online: nil}
	delivered, err := mail.Send(deps, "Nova", "Rival", "Hello", "Meet me at Haven", 1000, 20)
	require.NoError(t, err)
	assert.False(t, delivered, "recipient is offline, so delivery must be the on-disk path")

	raw, err := os.ReadFile(recipientPath)
	require.NoError(t, err)
	var shape map[string]any
	require.NoError(t, json.Unmarshal(raw, &shape))
	player := shape["player"].(map[string]any)
	messages := player["messages"].([]any)
	require.Len(t, messages, 1)
	entry := messages[0].(map[string]any)
	assert.Equal(t, "Hello", entry["subject"])
	assert.Equal(t, "Nova", entry["sender"])
}

func TestSendFailsWhenRecipientUnknown(t *testing.T) {
	root := t.TempDir()
	store := accounts.New(root, []string{
		"universe_planets.json", "galactic_news.json", "winner_board.json", "analytics_metrics.json",
	})
	deps := mail.Deps{Accounts: store}

	_, err := mail.Send(deps, "Nova", "Ghost", "Hi", "body", 1000, 20)
	require.Error(t, err)
	assert.Equal(t, "RECIPIENT_NOT_FOUND", err.Error())
}

// Inbox eviction on the file-patch delivery path: once the recipient's
// non-saved inbox is at cap, the oldest non-saved entry is dropped to
// make room, mirroring model.Player.AddMessage's in-memory eviction.
func TestSendEvictsOldestNonSavedOnFilePatchPath(t *testing.T) {
	root := t.TempDir()
	store := accounts.New(root, []string{
		"universe_planets.json", "galactic_news.json", "winner_board.json", "analytics_metrics.json",
	})
	recipientPath := store.CharPath("wanderer", "rival")
	writeRecipientSave(t, recipientPath, "wanderer", "rival", "Rival")
	deps := mail.Deps{Accounts: store}

	const cap = 3
	for i := 0; i < cap; i++ {
		_, err := mail.Send(deps, "Nova", "Rival", "subj", "body", float64(i), cap)
		require.NoError(t, err)
	}
	_, err := mail.Send(deps, "Nova", "Rival", "overflow", "body", 99, cap)
	require.NoError(t, err)

	raw, err := os.ReadFile(recipientPath)
	require.NoError(t, err)
	var shape map[string]any
	require.NoError(t, json.Unmarshal(raw, &shape))
	messages := shape["player"].(map[string]any)["messages"].([]any)
	assert.Len(t, messages, cap)
	last := messages[len(messages)-1].(map[string]any)
	assert.Equal(t, "overflow", last["subject"])
}
