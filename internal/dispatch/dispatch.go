/*
Package dispatch
File: dispatch.go
Description:
    The static action-dispatch table: every inbound request names an
    action, looked up in a map built once at boot, never a reflection-
    based router. Generalizes the teacher's single-purpose REST mux
    (internal/api/handlers.go in the original teacher copy, one handler
    function per HTTP route) into one big keyed table serving the
    request/response protocol over a single websocket connection.
*/
package dispatch

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/everforgeworks/sector-commander/internal/game"
	"github.com/everforgeworks/sector-commander/internal/mail"
	"github.com/everforgeworks/sector-commander/internal/model"
)

// Session is the per-connection state dispatch handlers read and
// mutate: which account (if any) authenticated this connection, and
// which character's Game is currently loaded. internal/transport owns
// the websocket plumbing and constructs one Session per connection.
type Session struct {
	AccountSafe   string
	CharacterSafe string
	PlayerName    string
	Game          *game.Game
}

// Server bundles every shared, process-wide collaborator a handler may
// need: the same Deps every Game already carries, plus mail's deps
// (which additionally needs the accounts store for its offline-delivery
// fallback, already present in Deps.Accounts).
type Server struct {
	Deps game.Deps
	Mail mail.Deps
}

// Response is the uniform envelope returned to the client for every
// action, success or failure.
type Response struct {
	Success bool           `json:"success"`
	Action  string         `json:"action,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
}

func ok(data map[string]any) Response {
	if data == nil {
		data = map[string]any{}
	}
	return Response{Success: true, Data: data}
}

func fail(code, message string) Response {
	return Response{Success: false, Error: code, Message: message}
}

// HandlerFunc is the signature every registered action implements.
// Handle holds the session's Game locked for the duration of the call
// whenever a Game is loaded, so handlers never need to lock it.
type HandlerFunc func(srv *Server, sess *Session, params map[string]any) Response

var registry = map[string]HandlerFunc{}

func register(action string, fn HandlerFunc) {
	if _, exists := registry[action]; exists {
		panic(fmt.Sprintf("dispatch: action %q registered twice", action))
	}
	registry[action] = fn
}

// Handle looks up and invokes the named action, recovering from any
// panic inside a handler so one bad request never takes the connection
// down, and logging the failure the way the teacher's server logs
// unexpected errors.
func Handle(srv *Server, sess *Session, action string, params map[string]any) (resp Response) {
	fn, known := registry[action]
	if !known {
		return fail("UNKNOWN_ACTION", fmt.Sprintf("no such action %q", action))
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: dispatch: action %q panicked: %v", action, r)
			resp = fail("ACTION_FAILED", "internal error handling request")
		}
	}()

	if !preAuth[action] {
		if sess.AccountSafe == "" {
			return fail("NOT_AUTHENTICATED", "authenticate first")
		}
		if !accountOnly[action] && sess.Game == nil {
			return fail("SESSION_NOT_READY", "load or create a character first")
		}
	}
	if sess.Game != nil {
		sess.Game.Lock()
		defer sess.Game.Unlock()
	}

	resp = fn(srv, sess, params)
	resp.Action = action
	recordAnalytics(srv, sess, action, resp)
	return resp
}

// preAuth actions are reachable before an account context exists at all,
// per spec.md §4.1.
var preAuth = map[string]bool{
	"check_account":   true,
	"create_account":  true,
	"authenticate":    true,
}

// accountOnly actions need an authenticated account but not yet a loaded
// character.
var accountOnly = map[string]bool{
	"list_characters":  true,
	"select_character": true,
	"logout_commander": true,
	"new_game":         true,
	"load_game":        true,
}

func nowFloat() float64 {
	return float64(time.Now().Unix())
}

func recordAnalytics(srv *Server, sess *Session, action string, resp Response) {
	if srv.Deps.Analytics == nil {
		return
	}
	player := ""
	if sess != nil {
		player = sess.PlayerName
	}
	srv.Deps.Analytics.Record(model.AnalyticsEvent{
		Timestamp: nowFloat(),
		Category:  categoryForAction(action),
		Name:      action,
		Success:   resp.Success,
		Player:    player,
	})
}

func categoryForAction(action string) string {
	switch {
	case action == "login" || action == "create_account" || action == "list_characters":
		return "account"
	case action == "new_game" || action == "load_game" || action == "save_game":
		return "lifecycle"
	case action == "travel_to_planet" || action == "get_travel_quote" || action == "resolve_travel_event":
		return "navigation"
	case action == "buy_item" || action == "sell_item":
		return "economy"
	case action == "start_combat_session" || action == "resolve_combat_round" || action == "flee_combat_session" || action == "fire_special_weapon":
		return "combat"
	case action == "send_message" || action == "mark_message_read" || action == "delete_message" || action == "save_message":
		return "mail"
	default:
		return "misc"
	}
}

func paramString(params map[string]any, key string) string {
	v, _ := params[key].(string)
	return v
}

func paramInt(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func paramFloat(params map[string]any, key string) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func paramBool(params map[string]any, key string) bool {
	v, _ := params[key].(bool)
	return v
}

func paramStringSlice(params map[string]any, key string) []string {
	raw, ok := params[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// paramIntMap reads a {item: qty, ...} object param, the shape a
// target's inventory snapshot arrives in.
func paramIntMap(params map[string]any, key string) map[string]int {
	raw, ok := params[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]int, len(raw))
	for k, v := range raw {
		switch n := v.(type) {
		case float64:
			out[k] = int(n)
		case int:
			out[k] = n
		}
	}
	return out
}

// toMap JSON-round-trips v into a map[string]any, the shape Response.Data
// expects, so handlers can hand back any struct without hand-building a
// field-by-field map literal.
func toMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// toAny JSON-round-trips v into a plain any (map/slice/scalar), for
// embedding one struct as a single key inside a larger Data map.
func toAny(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
