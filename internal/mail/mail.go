/*
Package mail
File: mail.go
Description:
    Player-to-player messaging. Delivery prefers an in-memory hand-off
    to the recipient's live *game.Game when they're online (via the
    OnlineLookup hook wired at boot); otherwise it patches the
    recipient's character save file directly through a generic JSON map
    so it never needs to know the save's full shape, the same way
    internal/accounts treats arbitrary character saves as opaque.
*/
package mail

import (
	"fmt"

	"github.com/everforgeworks/sector-commander/internal/accounts"
	"github.com/everforgeworks/sector-commander/internal/game"
	"github.com/everforgeworks/sector-commander/internal/jsonstore"
	"github.com/everforgeworks/sector-commander/internal/model"
)

// Deps bundles the collaborators mail delivery needs: the accounts store
// to locate an offline recipient's save, and the online lookup to prefer
// live hand-off.
type Deps struct {
	Accounts *accounts.Store
	Online   game.OnlineLookup
}

// Send delivers a message from sender to recipient (a player display
// name), returning whether it reached a live session or was written to
// disk. Fails with RECIPIENT_NOT_FOUND if no character save matches.
func Send(deps Deps, sender, recipient, subject, body string, now float64, inboxCap int) (deliveredLive bool, err error) {
	msg := model.NewMessage(sender, recipient, subject, body, now)

	if deps.Online != nil {
		if target := deps.Online(recipient); target != nil {
			target.Lock()
			target.Player.AddMessage(msg, inboxCap)
			target.Unlock()
			return true, nil
		}
	}

	path, _, ok := deps.Accounts.FindCharacterSaveByPlayerName(recipient)
	if !ok {
		return false, fmt.Errorf("RECIPIENT_NOT_FOUND")
	}
	if err := appendMessageToSave(path, msg, inboxCap); err != nil {
		return false, err
	}
	return false, nil
}

// appendMessageToSave patches just the player.messages array of an
// arbitrary character save, preserving every other field verbatim.
func appendMessageToSave(path string, msg *model.Message, inboxCap int) error {
	store := jsonstore.New(path)
	shape := map[string]any{}
	return store.Mutate(&shape, func() error {
		playerRaw, ok := shape["player"].(map[string]any)
		if !ok {
			return fmt.Errorf("CORRUPT_SAVE")
		}
		var messages []any
		if existing, ok := playerRaw["messages"].([]any); ok {
			messages = existing
		}

		inboxCount := 0
		for _, m := range messages {
			if entry, ok := m.(map[string]any); ok {
				if saved, _ := entry["is_saved"].(bool); !saved {
					inboxCount++
				}
			}
		}
		if inboxCount >= inboxCap {
			for i, m := range messages {
				if entry, ok := m.(map[string]any); ok {
					if saved, _ := entry["is_saved"].(bool); !saved {
						messages = append(messages[:i], messages[i+1:]...)
						break
					}
				}
			}
		}

		messages = append(messages, map[string]any{
			"id":        msg.ID,
			"sender":    msg.Sender,
			"recipient": msg.Recipient,
			"subject":   msg.Subject,
			"body":      msg.Body,
			"timestamp": msg.Timestamp,
			"is_read":   false,
			"is_saved":  false,
		})
		playerRaw["messages"] = messages
		shape["player"] = playerRaw
		return nil
	})
}

// OtherPlayers lists every known commander display name besides
// excludeName, scanning every account's character saves.
func OtherPlayers(deps Deps, excludeName string) ([]string, error) {
	names, err := deps.Accounts.AllAccountSafeNames()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, accSafe := range names {
		listing, err := deps.Accounts.ListCharacters(accSafe)
		if err != nil {
			continue
		}
		for _, c := range listing {
			if c.DisplayName != "" && c.DisplayName != excludeName {
				out = append(out, c.DisplayName)
			}
		}
	}
	return out, nil
}

// MarkRead flags a message read in the player's own live inbox. Callers
// outside a dispatch handler (which already holds the Game's lock) must
// lock it themselves first.
func MarkRead(g *game.Game, messageID string) error {
	for _, m := range g.Player.Messages {
		if m.ID == messageID {
			m.IsRead = true
			return nil
		}
	}
	return fmt.Errorf("MESSAGE_NOT_FOUND")
}

// Delete removes a message from the player's own live inbox. See MarkRead
// on locking.
func Delete(g *game.Game, messageID string) error {
	if !g.Player.DeleteMessage(messageID) {
		return fmt.Errorf("MESSAGE_NOT_FOUND")
	}
	return nil
}

// Save pins a message into the archive, respecting the archive cap. See
// MarkRead on locking.
func Save(g *game.Game, messageID string, archiveCap int) (bool, string) {
	return g.Player.SaveMessage(messageID, archiveCap)
}
