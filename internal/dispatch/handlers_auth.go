/*
Package dispatch
File: handlers_auth.go
Description:
    Account/character lifecycle actions reachable before a Game is
    loaded (spec.md §4.1 "Accounts and characters", §4.2 "Session
    lifecycle"): check_account through load_game, plus save_game and the
    asset-sync manifest diff.
*/
package dispatch

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/everforgeworks/sector-commander/internal/accounts"
	"github.com/everforgeworks/sector-commander/internal/game"
)

func init() {
	register("check_account", handleCheckAccount)
	register("create_account", handleCreateAccount)
	register("authenticate", handleAuthenticate)
	register("list_characters", handleListCharacters)
	register("list_saves", handleListCharacters)
	register("select_character", handleSelectCharacter)
	register("logout_commander", handleLogoutCommander)
	register("new_game", handleNewGame)
	register("load_game", handleLoadGame)
	register("save_game", handleSaveGame)
	register("sync_assets", handleSyncAssets)
}

func handleCheckAccount(srv *Server, sess *Session, params map[string]any) Response {
	accountName := paramString(params, "account_name")
	exists := srv.Deps.Accounts.Exists(accounts.SafeName(accountName))
	return ok(map[string]any{"exists": exists})
}

func handleCreateAccount(srv *Server, sess *Session, params map[string]any) Response {
	accountName := paramString(params, "account_name")
	password := paramString(params, "password")
	characterName := paramString(params, "character_name")
	shipModel := paramString(params, "ship_model")

	writeInitial := func(path, accountSafe, charSafe string) error {
		g, err := game.NewGame(srv.Deps, accountSafe, charSafe, characterName, shipModel, nil)
		if err != nil {
			return err
		}
		return g.SaveLocked()
	}

	res := srv.Deps.Accounts.CreateAccount(accountName, password, characterName, srv.Deps.Settings.BcryptCost, writeInitial)
	if !res.Success {
		return fail(res.ErrorCode, res.Message)
	}
	sess.AccountSafe = accounts.SafeName(accountName)
	sess.CharacterSafe = res.SelectedCharacter
	return ok(map[string]any{"selected_character": res.SelectedCharacter})
}

func handleAuthenticate(srv *Server, sess *Session, params map[string]any) Response {
	accountName := paramString(params, "account_name")
	password := paramString(params, "password")
	res := srv.Deps.Accounts.Authenticate(accountName, password)
	if !res.Success {
		return fail(res.ErrorCode, res.Message)
	}
	sess.AccountSafe = accounts.SafeName(accountName)

	characters, err := srv.Deps.Accounts.ListCharacters(sess.AccountSafe)
	if err != nil {
		return fail("CORRUPT_SAVE", "could not list characters")
	}
	needsSelect := accounts.RequiresCharacterSelect(characters, srv.Deps.Settings.AllowMultipleGames)
	needsCreate := accounts.RequiresCharacterCreate(characters)
	data := map[string]any{
		"requires_character_select": needsSelect,
		"requires_character_create": needsCreate,
		"characters":                toAny(characters),
	}
	if !needsSelect && !needsCreate && len(characters) == 1 {
		data["auto_character"] = characters[0].CharacterName
	}
	return ok(data)
}

func handleListCharacters(srv *Server, sess *Session, params map[string]any) Response {
	characters, err := srv.Deps.Accounts.ListCharacters(sess.AccountSafe)
	if err != nil {
		return fail("CORRUPT_SAVE", "could not list characters")
	}
	return ok(map[string]any{"characters": toAny(characters)})
}

func handleSelectCharacter(srv *Server, sess *Session, params map[string]any) Response {
	characterName := paramString(params, "character_name")
	charSafe := accounts.SafeName(characterName)
	g, err := game.LoadGame(srv.Deps, sess.AccountSafe, charSafe, nil)
	if err != nil {
		return fail(err.Error(), "could not load character")
	}
	sess.CharacterSafe = charSafe
	sess.PlayerName = g.Player.Name
	sess.Game = g
	return ok(map[string]any{"player": toAny(g.Player)})
}

func handleLogoutCommander(srv *Server, sess *Session, params map[string]any) Response {
	if sess.Game != nil {
		sess.Game.Save()
	}
	sess.Game = nil
	sess.CharacterSafe = ""
	sess.PlayerName = ""
	return ok(nil)
}

func handleNewGame(srv *Server, sess *Session, params map[string]any) Response {
	characterName := paramString(params, "character_name")
	shipModel := paramString(params, "ship_model")
	charSafe := accounts.SafeName(characterName)

	g, err := game.NewGame(srv.Deps, sess.AccountSafe, charSafe, characterName, shipModel, nil)
	if err != nil {
		return fail("NEW_GAME_FAILED", err.Error())
	}
	if err := g.SaveLocked(); err != nil {
		return fail("SAVE_FAILED", err.Error())
	}
	srv.Deps.Accounts.LinkCharacter(sess.AccountSafe, charSafe)
	sess.CharacterSafe = charSafe
	sess.PlayerName = g.Player.Name
	sess.Game = g
	return ok(map[string]any{"player": toAny(g.Player)})
}

func handleLoadGame(srv *Server, sess *Session, params map[string]any) Response {
	characterName := paramString(params, "character_name")
	charSafe := accounts.SafeName(characterName)
	if charSafe == "" {
		charSafe = sess.CharacterSafe
	}
	g, err := game.LoadGame(srv.Deps, sess.AccountSafe, charSafe, nil)
	if err != nil {
		return fail(err.Error(), "could not load game")
	}
	sess.CharacterSafe = charSafe
	sess.PlayerName = g.Player.Name
	sess.Game = g
	return ok(map[string]any{"player": toAny(g.Player)})
}

func handleSaveGame(srv *Server, sess *Session, params map[string]any) Response {
	if err := sess.Game.SaveLocked(); err != nil {
		return fail("SAVE_FAILED", err.Error())
	}
	return ok(nil)
}

// handleSyncAssets diffs a client-reported asset manifest (path -> sha256
// hex digest) against the server's own data/ directory tree, returning
// which paths the client is missing or holds stale, so the client only
// re-downloads what changed. Uses stdlib crypto/sha256 rather than an
// ecosystem hashing library: this is a one-shot directory walk, not a
// streaming/incremental hash pipeline any pack dependency targets.
func handleSyncAssets(srv *Server, sess *Session, params map[string]any) Response {
	clientManifest := map[string]string{}
	if raw, ok := params["manifest"].(map[string]any); ok {
		for k, v := range raw {
			if s, ok := v.(string); ok {
				clientManifest[k] = s
			}
		}
	}

	assetRoot := "data"
	serverManifest := map[string]string{}
	_ = os.WriteFile // keep os imported even if walk below finds nothing
	entries, err := os.ReadDir(assetRoot)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			data, err := os.ReadFile(assetRoot + "/" + e.Name())
			if err != nil {
				continue
			}
			sum := sha256.Sum256(data)
			serverManifest[e.Name()] = hex.EncodeToString(sum[:])
		}
	}

	var stale []string
	for name, hash := range serverManifest {
		if clientManifest[name] != hash {
			stale = append(stale, name)
		}
	}

	manifestJSON, _ := json.Marshal(serverManifest)
	var echoedManifest map[string]any
	json.Unmarshal(manifestJSON, &echoedManifest)

	return ok(map[string]any{"stale": stale, "manifest": echoedManifest})
}
