package accounts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/everforgeworks/sector-commander/internal/jsonstore"
)

// AuthRecord is the ACCOUNT.json auth payload: password hash, status
// flags, and the character-link list. It never carries game state.
type AuthRecord struct {
	AccountName  string         `json:"account_name"`
	PlayerName   string         `json:"player_name,omitempty"`
	PasswordHash string         `json:"password_hash"`
	Characters   []CharacterRef `json:"characters"`
	Blacklisted  bool           `json:"blacklisted,omitempty"`
	Disabled     bool           `json:"account_disabled,omitempty"`
	CreatedAt    string         `json:"created_at"`
	LastLogin    string         `json:"last_login"`
}

type CharacterRef struct {
	CharacterName string `json:"character_name"`
	DisplayName   string `json:"display_name,omitempty"`
}

// characterProbe reads just enough of an arbitrary character save to
// classify it during enumeration, without the accounts package needing
// to know the shape of game state.
type characterProbe struct {
	PasswordHash  string `json:"password_hash"`
	AccountName   string `json:"account_name"`
	CharacterName string `json:"character_name"`
	Player        struct {
		Name string `json:"name"`
	} `json:"player"`
}

type CharacterListing struct {
	CharacterName string
	DisplayName   string
	Path          string
}

// Store is the directory-backed account/character store rooted at a
// save directory shared with the other shared-file stores.
type Store struct {
	root            string
	reservedRootFiles map[string]struct{}

	mu    sync.Mutex
	files map[string]*jsonstore.Store
}

func New(root string, reservedRootFiles []string) *Store {
	reserved := make(map[string]struct{}, len(reservedRootFiles))
	for _, f := range reservedRootFiles {
		reserved[strings.ToLower(f)] = struct{}{}
	}
	return &Store{
		root:              root,
		reservedRootFiles: reserved,
		files:             map[string]*jsonstore.Store{},
	}
}

func (s *Store) fileStore(path string) *jsonstore.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if js, ok := s.files[path]; ok {
		return js
	}
	js := jsonstore.New(path)
	s.files[path] = js
	return js
}

func (s *Store) AccountDir(accountSafe string) string {
	return filepath.Join(s.root, accountSafe)
}

func (s *Store) AccountAuthPath(accountSafe string) string {
	return filepath.Join(s.AccountDir(accountSafe), "ACCOUNT.json")
}

func (s *Store) legacyAuthPath(accountSafe string) string {
	return filepath.Join(s.root, accountSafe+".json")
}

func (s *Store) CharPath(accountSafe, charSafe string) string {
	return filepath.Join(s.AccountDir(accountSafe), charSafe+".json")
}

// Root exposes the save root so other packages can walk it for
// maintenance tasks (campaign reset purges commander saves in place).
func (s *Store) Root() string {
	return s.root
}

// AllAccountSafeNames lists every account directory under the save root.
func (s *Store) AllAccountSafeNames() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// FindCharacterSaveByPlayerName scans every account directory for a
// character save whose player name matches exactly, returning its path.
// Used by mail delivery's file-fallback path when the recipient isn't
// currently online.
func (s *Store) FindCharacterSaveByPlayerName(playerName string) (path string, accountSafe string, ok bool) {
	names, err := s.AllAccountSafeNames()
	if err != nil {
		return "", "", false
	}
	for _, accSafe := range names {
		dir := s.AccountDir(accSafe)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			lower := strings.ToLower(e.Name())
			if !strings.HasSuffix(lower, ".json") || lower == "account.json" {
				continue
			}
			p := filepath.Join(dir, e.Name())
			data, err := os.ReadFile(p)
			if err != nil {
				continue
			}
			var probe characterProbe
			if json.Unmarshal(data, &probe) != nil {
				continue
			}
			if probe.Player.Name == playerName {
				return p, accSafe, true
			}
		}
	}
	return "", "", false
}

func loadJSONMap(path string) (map[string]any, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	return m, true
}

func writeJSONMap(path string, m map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func boolField(m map[string]any, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// EnsureAccountStructure creates the account directory if missing and
// migrates a legacy <root>/<account>.json auth file into
// <root>/<account>/ACCOUNT.json, leaving character saves in place. It
// returns the (possibly just-created) path to ACCOUNT.json.
func (s *Store) EnsureAccountStructure(accountSafe string) (string, error) {
	authPath := s.AccountAuthPath(accountSafe)
	if _, err := os.Stat(authPath); err == nil {
		return authPath, nil
	}
	if err := os.MkdirAll(s.AccountDir(accountSafe), 0o755); err != nil {
		return "", err
	}
	legacy := s.legacyAuthPath(accountSafe)
	if m, ok := loadJSONMap(legacy); ok {
		if strings.TrimSpace(stringField(m, "password_hash")) != "" {
			if err := os.Rename(legacy, authPath); err != nil {
				return "", err
			}
		}
	}
	return authPath, nil
}

func (s *Store) Exists(accountSafe string) bool {
	authPath, err := s.EnsureAccountStructure(accountSafe)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(authPath)
	return statErr == nil
}

func (s *Store) loadAuth(accountSafe string) (*AuthRecord, error) {
	authPath, err := s.EnsureAccountStructure(accountSafe)
	if err != nil {
		return nil, err
	}
	rec := &AuthRecord{}
	if err := s.fileStore(authPath).Load(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) saveAuth(accountSafe string, rec *AuthRecord) error {
	authPath := s.AccountAuthPath(accountSafe)
	if err := s.fileStore(authPath).Save(rec); err != nil {
		return err
	}
	// Backward-compatibility shadow containing only auth fields.
	return writeJSONMap(s.legacyAuthPath(accountSafe), map[string]any{
		"account_name":  rec.AccountName,
		"password_hash": rec.PasswordHash,
		"characters":    rec.Characters,
		"blacklisted":   rec.Blacklisted,
		"account_disabled": rec.Disabled,
		"created_at":   rec.CreatedAt,
		"last_login":   rec.LastLogin,
	})
}

// CreateResult mirrors the create_account response shape.
type CreateResult struct {
	Success           bool
	ErrorCode         string
	Message           string
	SelectedCharacter string
}

// CreateAccount registers a new account and its first character.
// writeInitialCharacter is handed the character save path plus the
// account/character safe names and must create that file; it is called
// before the auth record is written so a failed character save never
// leaves behind an auth record with no character.
func (s *Store) CreateAccount(accountName, password, characterName string, bcryptCost int, writeInitialCharacter func(path, accountSafe, charSafe string) error) CreateResult {
	accountSafe := SafeName(accountName)
	if s.Exists(accountSafe) {
		return CreateResult{ErrorCode: "ACCOUNT_EXISTS", Message: "Account already exists"}
	}

	firstCharacter := strings.TrimSpace(characterName)
	if firstCharacter == "" {
		firstCharacter = strings.TrimSpace(accountName)
	}
	firstCharSafe := SafeName(firstCharacter)
	if firstCharSafe == "" {
		return CreateResult{ErrorCode: "INVALID_CHARACTER_NAME", Message: "Character name is required"}
	}
	if firstCharSafe == "account" {
		return CreateResult{ErrorCode: "INVALID_CHARACTER_NAME", Message: "Name 'ACCOUNT' is reserved."}
	}

	charPath := s.CharPath(accountSafe, firstCharSafe)
	if err := writeInitialCharacter(charPath, accountSafe, firstCharSafe); err != nil {
		return CreateResult{ErrorCode: "SAVE_FAILED", Message: err.Error()}
	}
	if _, err := os.Stat(charPath); err != nil {
		return CreateResult{ErrorCode: "SAVE_FAILED", Message: "Failed to create initial character save"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return CreateResult{ErrorCode: "SAVE_FAILED", Message: err.Error()}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	rec := &AuthRecord{
		AccountName:  accountSafe,
		PlayerName:   strings.TrimSpace(accountName),
		PasswordHash: string(hash),
		Characters: []CharacterRef{
			{CharacterName: firstCharSafe, DisplayName: firstCharacter},
		},
		CreatedAt: now,
		LastLogin: now,
	}
	if err := s.saveAuth(accountSafe, rec); err != nil {
		return CreateResult{ErrorCode: "SAVE_FAILED", Message: err.Error()}
	}
	return CreateResult{Success: true, Message: "Account created successfully", SelectedCharacter: firstCharSafe}
}

// AuthResult mirrors the authenticate response shape.
type AuthResult struct {
	Success    bool
	ErrorCode  string
	Message    string
	NewAccount bool
}

// Authenticate verifies a password against the stored bcrypt hash,
// constant-time by construction (bcrypt.CompareHashAndPassword), and
// stamps last_login on success.
func (s *Store) Authenticate(accountName, password string) AuthResult {
	accountSafe := SafeName(accountName)
	if !s.Exists(accountSafe) {
		return AuthResult{ErrorCode: "NO_ACCOUNT", Message: "Account does not exist"}
	}
	rec, err := s.loadAuth(accountSafe)
	if err != nil {
		return AuthResult{ErrorCode: "CORRUPT_SAVE", Message: "Save file is corrupted"}
	}
	if rec.Blacklisted {
		return AuthResult{ErrorCode: "BLACKLISTED", Message: "Account is blacklisted"}
	}
	if rec.Disabled {
		return AuthResult{ErrorCode: "ACCOUNT_DISABLED", Message: "Account is disabled"}
	}
	if strings.TrimSpace(rec.PasswordHash) == "" {
		return AuthResult{ErrorCode: "CORRUPT_ACCOUNT", Message: "Account data is corrupted"}
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return AuthResult{ErrorCode: "WRONG_PASSWORD", Message: "Incorrect password"}
	}
	rec.LastLogin = time.Now().UTC().Format(time.RFC3339)
	if err := s.saveAuth(accountSafe, rec); err != nil {
		return AuthResult{ErrorCode: "SAVE_FAILED", Message: err.Error()}
	}
	return AuthResult{Success: true, Message: "Authentication successful"}
}

// reservedRootFile reports whether filename (lowercased) is one of the
// shared-store files that must never be treated as a player save.
func (s *Store) reservedRootFile(filename string) bool {
	_, ok := s.reservedRootFiles[strings.ToLower(filename)]
	return ok
}

func (s *Store) iterRootSaves() []string {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			continue
		}
		if s.reservedRootFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(s.root, e.Name()))
	}
	return paths
}

// ListCharacters enumerates every character linked to an account via the
// four-priority union described by the directory layout: the account's
// own save directory, the auth record's character list, root saves
// claimed via account_name, then (only for accounts with ≤1 characters
// so far and a password hash) unclaimed single-segment root saves.
func (s *Store) ListCharacters(accountName string) ([]CharacterListing, error) {
	accountSafe := SafeName(accountName)
	if _, err := s.EnsureAccountStructure(accountSafe); err != nil {
		return nil, err
	}

	rec, _ := s.loadAuth(accountSafe)

	var linked []CharacterListing
	seen := map[string]struct{}{}

	add := func(charSafe, display, path string) {
		charSafe = SafeName(charSafe)
		if charSafe == "" {
			return
		}
		if _, ok := seen[charSafe]; ok {
			return
		}
		if charSafe == "account" {
			return
		}
		display = strings.TrimSpace(display)
		if display == "" {
			if path == "" {
				path = s.CharPath(accountSafe, charSafe)
			}
			if m, ok := loadJSONMap(path); ok {
				if p, ok := m["player"].(map[string]any); ok {
					display = strings.TrimSpace(stringField(p, "name"))
				}
			}
			if display == "" {
				display = charSafe
			}
		}
		linked = append(linked, CharacterListing{CharacterName: charSafe, DisplayName: display, Path: path})
		seen[charSafe] = struct{}{}
	}

	// Priority 1: saves/<account>/*.json, excluding ACCOUNT.json.
	charDir := s.AccountDir(accountSafe)
	if entries, err := os.ReadDir(charDir); err == nil {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			lower := strings.ToLower(name)
			if !strings.HasSuffix(lower, ".json") || lower == "account.json" {
				continue
			}
			path := filepath.Join(charDir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			var probe characterProbe
			if json.Unmarshal(data, &probe) != nil {
				continue
			}
			if strings.TrimSpace(probe.PasswordHash) != "" {
				continue
			}
			charSafe := strings.TrimSuffix(lower, ".json")
			display := probe.Player.Name
			add(charSafe, display, path)
		}
	}

	// Priority 2: ACCOUNT.json#characters.
	if rec != nil {
		for _, c := range rec.Characters {
			add(c.CharacterName, c.DisplayName, "")
		}
	}

	// Priority 3: root saves whose account_name already matches.
	for _, path := range s.iterRootSaves() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var probe characterProbe
		if json.Unmarshal(data, &probe) != nil {
			continue
		}
		if strings.TrimSpace(probe.PasswordHash) != "" {
			continue
		}
		if SafeName(probe.AccountName) != accountSafe {
			continue
		}
		charSafe := SafeName(probe.Player.Name)
		if charSafe == "" {
			base := filepath.Base(path)
			charSafe = strings.TrimSuffix(strings.ToLower(base), ".json")
		}
		add(charSafe, probe.Player.Name, path)
	}

	// Priority 4: orphan root saves, only while the account has ≤1
	// characters so far and a password hash (i.e. it is real).
	hasPassword := rec != nil && strings.TrimSpace(rec.PasswordHash) != ""
	if len(linked) <= 1 && hasPassword {
		for _, path := range s.iterRootSaves() {
			base := filepath.Base(path)
			stem := strings.TrimSuffix(strings.ToLower(base), ".json")
			if hasInternalPrefix(stem) || strings.Contains(stem, "_") {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			var probe characterProbe
			if json.Unmarshal(data, &probe) != nil {
				continue
			}
			if strings.TrimSpace(probe.PasswordHash) != "" {
				continue
			}
			if strings.TrimSpace(probe.AccountName) != "" {
				continue
			}
			display := strings.TrimSpace(probe.Player.Name)
			if display == "" {
				continue
			}
			add(stem, display, path)
		}
	}

	sort.SliceStable(linked, func(i, j int) bool {
		iFirst := linked[i].CharacterName == accountSafe
		jFirst := linked[j].CharacterName == accountSafe
		if iFirst != jFirst {
			return iFirst
		}
		return strings.ToLower(linked[i].DisplayName) < strings.ToLower(linked[j].DisplayName)
	})
	return linked, nil
}

// LinkCharacter moves a character save (if it is only present at a
// legacy root path) into the account directory, stamps its
// account_name/character_name fields, and appends it to
// ACCOUNT.json#characters if absent.
func (s *Store) LinkCharacter(accountName, characterName string) (bool, error) {
	accountSafe := SafeName(accountName)
	charSafe := SafeName(characterName)
	if accountSafe == "" || charSafe == "" || charSafe == "account" {
		return false, nil
	}

	subdirPath := s.CharPath(accountSafe, charSafe)
	charPath := subdirPath
	if _, err := os.Stat(subdirPath); err != nil {
		legacy := filepath.Join(s.root, charSafe+".json")
		if _, err := os.Stat(legacy); err != nil {
			return false, nil
		}
		if err := os.MkdirAll(s.AccountDir(accountSafe), 0o755); err != nil {
			return false, err
		}
		if err := os.Rename(legacy, subdirPath); err != nil {
			charPath = legacy
		}
	}

	m, ok := loadJSONMap(charPath)
	if !ok {
		return false, nil
	}
	if strings.TrimSpace(stringField(m, "password_hash")) != "" {
		return false, nil
	}
	display := strings.TrimSpace(charSafe)
	if p, ok := m["player"].(map[string]any); ok {
		if n := strings.TrimSpace(stringField(p, "name")); n != "" {
			display = n
		}
	}
	m["account_name"] = accountSafe
	m["character_name"] = charSafe
	if err := writeJSONMap(charPath, m); err != nil {
		return false, err
	}

	if _, err := s.EnsureAccountStructure(accountSafe); err != nil {
		return false, err
	}
	rec, err := s.loadAuth(accountSafe)
	if err != nil {
		return false, err
	}
	for _, c := range rec.Characters {
		if SafeName(c.CharacterName) == charSafe {
			return true, nil
		}
	}
	rec.Characters = append(rec.Characters, CharacterRef{CharacterName: charSafe, DisplayName: display})
	if err := s.saveAuth(accountSafe, rec); err != nil {
		return false, err
	}
	return true, nil
}

// RequiresCharacterSelect reports whether authentication should stop at
// a character-selection step rather than auto-loading one character.
func RequiresCharacterSelect(characters []CharacterListing, allowMultipleGames bool) bool {
	if allowMultipleGames {
		return len(characters) > 0
	}
	return len(characters) > 1
}

func RequiresCharacterCreate(characters []CharacterListing) bool {
	return len(characters) == 0
}
