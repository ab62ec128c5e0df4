package accounts_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/sector-commander/internal/accounts"
)

const testBcryptCost = 4

func writeCharacterJSON(path, accountName, charName, displayName string) error {
	payload := map[string]any{
		"account_name":   accountName,
		"character_name": charName,
		"player": map[string]any{
			"name": displayName,
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func newStore(t *testing.T) *accounts.Store {
	t.Helper()
	root := t.TempDir()
	return accounts.New(root, []string{
		"universe_planets.json",
		"galactic_news.json",
		"winner_board.json",
		"analytics_metrics.json",
	})
}

// S1 from spec.md §8: check_account/create_account/authenticate happy path.
func TestCreateAndAuthenticate(t *testing.T) {
	store := newStore(t)

	res := store.CreateAccount("zara", "Secret-1234", "Zara", testBcryptCost, func(path, accountSafe, charSafe string) error {
		return writeCharacterJSON(path, accountSafe, charSafe, "Zara")
	})
	require.True(t, res.Success, res.Message)

	auth := store.Authenticate("zara", "Secret-1234")
	assert.True(t, auth.Success)

	characters, err := store.ListCharacters("zara")
	require.NoError(t, err)
	require.Len(t, characters, 1)
	assert.Equal(t, "Zara", characters[0].DisplayName)
	assert.False(t, accounts.RequiresCharacterSelect(characters, false))
}

// Property 2: password round-trip — any password p' != p fails, p succeeds.
func TestPasswordRoundTrip(t *testing.T) {
	store := newStore(t)
	res := store.CreateAccount("pilot", "correct-horse", "Pilot", testBcryptCost, func(path, accountSafe, charSafe string) error {
		return writeCharacterJSON(path, accountSafe, charSafe, "Pilot")
	})
	require.True(t, res.Success)

	ok := store.Authenticate("pilot", "correct-horse")
	assert.True(t, ok.Success)

	wrong := store.Authenticate("pilot", "wrong-password")
	assert.False(t, wrong.Success)
	assert.Equal(t, "WRONG_PASSWORD", wrong.ErrorCode)

	unknown := store.Authenticate("ghost", "anything")
	assert.False(t, unknown.Success)
	assert.Equal(t, "NO_ACCOUNT", unknown.ErrorCode)
}

// Property 1: account isolation — linking a character to a new account
// removes it from the old account's listing and rewrites its account_name.
func TestAccountIsolationOnLink(t *testing.T) {
	store := newStore(t)

	resA := store.CreateAccount("alice", "pw-alice-1", "Alice", testBcryptCost, func(path, accountSafe, charSafe string) error {
		return writeCharacterJSON(path, accountSafe, charSafe, "Alice")
	})
	require.True(t, resA.Success)
	resB := store.CreateAccount("bob", "pw-bob-1", "Bob", testBcryptCost, func(path, accountSafe, charSafe string) error {
		return writeCharacterJSON(path, accountSafe, charSafe, "Bob")
	})
	require.True(t, resB.Success)

	// An orphan legacy save for "charlie" with no account_name yet.
	legacyPath := filepath.Join(store.Root(), "charlie.json")
	require.NoError(t, writeCharacterJSON(legacyPath, "", "charlie", "Charlie"))

	linked, err := store.LinkCharacter("alice", "charlie")
	require.NoError(t, err)
	require.True(t, linked)

	listA, err := store.ListCharacters("alice")
	require.NoError(t, err)
	names := characterNames(listA)
	assert.Contains(t, names, "charlie")

	listB, err := store.ListCharacters("bob")
	require.NoError(t, err)
	assert.NotContains(t, characterNames(listB), "charlie")

	// Re-link charlie to bob: must vanish from alice and appear under bob,
	// and the file's account_name field must be rewritten.
	relinked, err := store.LinkCharacter("bob", "charlie")
	require.NoError(t, err)
	require.True(t, relinked)

	listA2, err := store.ListCharacters("alice")
	require.NoError(t, err)
	assert.NotContains(t, characterNames(listA2), "charlie")

	listB2, err := store.ListCharacters("bob")
	require.NoError(t, err)
	assert.Contains(t, characterNames(listB2), "charlie")

	charPath := store.CharPath("bob", "charlie")
	data, err := os.ReadFile(charPath)
	require.NoError(t, err)
	var shape map[string]any
	require.NoError(t, json.Unmarshal(data, &shape))
	assert.Equal(t, "bob", shape["account_name"])
}

func characterNames(listing []accounts.CharacterListing) []string {
	out := make([]string, 0, len(listing))
	for _, c := range listing {
		out = append(out, c.CharacterName)
	}
	return out
}

func TestCreateAccountRejectsDuplicateAndReservedName(t *testing.T) {
	store := newStore(t)
	res := store.CreateAccount("dup", "pw-dup-123", "Dup", testBcryptCost, func(path, accountSafe, charSafe string) error {
		return writeCharacterJSON(path, accountSafe, charSafe, "Dup")
	})
	require.True(t, res.Success)

	again := store.CreateAccount("dup", "pw-dup-123", "Dup", testBcryptCost, func(path, accountSafe, charSafe string) error {
		return writeCharacterJSON(path, accountSafe, charSafe, "Dup")
	})
	assert.False(t, again.Success)
	assert.Equal(t, "ACCOUNT_EXISTS", again.ErrorCode)

	reserved := store.CreateAccount("reserved", "pw-reserved-1", "ACCOUNT", testBcryptCost, func(path, accountSafe, charSafe string) error {
		return writeCharacterJSON(path, accountSafe, charSafe, "ACCOUNT")
	})
	assert.False(t, reserved.Success)
	assert.Equal(t, "INVALID_CHARACTER_NAME", reserved.ErrorCode)
}
