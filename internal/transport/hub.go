/*
Package transport
File: hub.go
Description:
    The WebSocket transport layer. Adapted from the teacher's broadcast
    Hub (internal/api/hub.go): this game has no server-initiated
    pushes (spec.md §5 "a session never has two in-flight actions"), so
    the Hub's job shrinks from fan-out broadcast to a simple registry
    of online commanders — mail hand-off and get_all_commander_statuses
    both need to find another session's live *game.Game by player name.

    Architecture:
    - Hub: the online-commander registry, one entry per selected
      character.
    - ServeWs: the HTTP handler that upgrades the connection and runs
      its synchronous read-dispatch-write loop.
*/
package transport

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/everforgeworks/sector-commander/internal/dispatch"
	"github.com/everforgeworks/sector-commander/internal/game"
)

// Hub tracks which commanders are currently online, keyed by player
// display name, so mail delivery and status queries can reach a live
// *game.Game instead of falling back to disk.
type Hub struct {
	mu     sync.Mutex
	online map[string]*game.Game
	Server *dispatch.Server
}

// NewHub constructs an empty registry bound to the shared dispatch
// server (handlers, Deps, Mail deps).
func NewHub(srv *dispatch.Server) *Hub {
	return &Hub{
		online: make(map[string]*game.Game),
		Server: srv,
	}
}

// Lookup implements game.OnlineLookup: it is wired into game.Deps.Online
// so any Game can find another player's live session without the Hub
// needing to know about games at all beyond this map.
func (h *Hub) Lookup(playerName string) *game.Game {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.online[playerName]
}

func (h *Hub) register(playerName string, g *game.Game) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.online[playerName] = g
}

func (h *Hub) unregister(playerName string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.online, playerName)
}

// OnlineNames returns every currently online player's display name.
func (h *Hub) OnlineNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.online))
	for name := range h.online {
		names = append(names, name)
	}
	return names
}

// upgrader configures the WebSocket handshake. CORS permissive, same as
// the teacher's development posture.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// request is the inbound frame shape: one action, one params object.
type request struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// ServeWs upgrades the HTTP request and runs the connection's
// synchronous request/response loop until the client disconnects or
// sends a frame the loop can't parse.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WS upgrade error:", err)
		return
	}
	defer conn.Close()

	sess := &dispatch.Session{}
	defer finalizeDisconnect(hub, sess)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS error: %v", err)
			}
			return
		}

		var req request
		if jsonErr := json.Unmarshal(raw, &req); jsonErr != nil {
			writeResponse(conn, dispatch.Response{Success: false, Error: "INVALID_JSON"})
			continue
		}

		resp := dispatch.Handle(hub.Server, sess, req.Action, req.Params)
		if sess.Game != nil && sess.PlayerName != "" {
			hub.register(sess.PlayerName, sess.Game)
		}
		writeResponse(conn, resp)
	}
}

func writeResponse(conn *websocket.Conn, resp dispatch.Response) {
	payload, err := json.Marshal(resp)
	if err != nil {
		log.Println("WS marshal error:", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Println("WS write error:", err)
	}
}

// finalizeDisconnect saves the session's in-progress game (best effort)
// and drops it from the online registry so mail/status queries fall
// back to disk.
func finalizeDisconnect(hub *Hub, sess *dispatch.Session) {
	if sess.Game == nil {
		return
	}
	sess.Game.Save()
	if sess.PlayerName != "" {
		hub.unregister(sess.PlayerName)
	}
}
