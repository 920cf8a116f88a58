/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST API.
    These functions process incoming JSON intents, validate them, forward
    them to the game session (internal/game), and return JSON responses.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Does the upgrade exist?)
    - Intent Forwarding (click, purchase, switch, acknowledge, settings)
    - Thread Safety (Server.mu serialises every call into the session)
*/

package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/everforgeworks/healing-clicker/internal/game"
)

// Request DTOs (Data Transfer Objects)
// These structs define exactly what we expect the client to send us.

type ClickRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type BuyUpgradeRequest struct {
	UpgradeID string `json:"upgrade_id"`
}

type SwitchRequest struct {
	CharacterID string `json:"character_id"`
}

type SettingsRequest struct {
	BGMVolume float64 `json:"bgm_volume"`
	SFXVolume float64 `json:"sfx_volume"`
}

// Response DTOs

type ClickResponse struct {
	game.ClickResult
	Points float64 `json:"points"`
}

type ActionResponse struct {
	OK     bool    `json:"ok"`
	Points float64 `json:"points"`
}

// Server owns the single game session and the hub that mirrors it.
type Server struct {
	mu      sync.Mutex
	session *game.Session
	hub     *Hub
}

// NewServer wires a session to a hub. The hub's inbound messages are
// dispatched to the same intents the HTTP endpoints use.
func NewServer(session *game.Session, hub *Hub) *Server {
	s := &Server{session: session, hub: hub}
	if hub != nil {
		hub.OnMessage = s.handleMessage
	}
	return s
}

// Routes registers every endpoint on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Information Endpoints
	mux.HandleFunc("/api/state", s.HandleGetState)
	mux.HandleFunc("/api/upgrades", s.HandleGetUpgrades)

	// Action Endpoints
	mux.HandleFunc("/api/click", s.HandleClick)
	mux.HandleFunc("/api/upgrades/buy", s.HandleBuyUpgrade)
	mux.HandleFunc("/api/characters/switch", s.HandleSwitchCharacter)
	mux.HandleFunc("/api/event/ack", s.HandleAcknowledgeEvent)
	mux.HandleFunc("/api/settings", s.HandleSettings)

	// Real-Time WebSocket Endpoint
	if s.hub != nil {
		mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(s.hub, w, r)
		})
	}
	return mux
}

// HandleGetState returns the full snapshot.
func (s *Server) HandleGetState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.session.Snapshot()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, snap)
}

// HandleGetUpgrades returns the shop rows only.
func (s *Server) HandleGetUpgrades(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rows := s.session.Snapshot().Upgrades
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, rows)
}

// HandleClick forwards a click at the given position.
func (s *Server) HandleClick(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	res := s.session.OnClick(game.Point{X: req.X, Y: req.Y})
	points := s.session.Player.Points
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, ClickResponse{ClickResult: res, Points: points})
}

// HandleBuyUpgrade buys one level of an upgrade.
// 404 for unknown ids, 409 when the purchase is refused.
func (s *Server) HandleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req BuyUpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Validate the upgrade exists
	if _, ok := s.session.Player.Upgrade(req.UpgradeID); !ok {
		http.Error(w, "Upgrade not found", http.StatusNotFound)
		return
	}

	// 2. Attempt the purchase (affordability, cap, active event)
	if !s.session.OnPurchaseAttempt(req.UpgradeID) {
		http.Error(w, "Purchase refused", http.StatusConflict)
		return
	}

	writeJSON(w, http.StatusOK, ActionResponse{OK: true, Points: s.session.Player.Points})
	s.publishStateLocked()
}

// HandleSwitchCharacter selects an unlocked character.
func (s *Server) HandleSwitchCharacter(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req SwitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.OnCharacterSwitch(req.CharacterID) {
		http.Error(w, "Character locked or unknown", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{OK: true, Points: s.session.Player.Points})
	s.publishStateLocked()
}

// HandleAcknowledgeEvent starts an announced event.
func (s *Server) HandleAcknowledgeEvent(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.OnEventAcknowledge() {
		http.Error(w, "No event waiting", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{OK: true, Points: s.session.Player.Points})
	s.publishStateLocked()
}

// HandleSettings stores the audio volumes and returns the clamped values.
func (s *Server) HandleSettings(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	settings := s.session.OnSettingsChange(req.BGMVolume, req.SFXVolume)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, settings)
}

// ----------------------------------------------------------------------------
// Loop integration
// ----------------------------------------------------------------------------

// Tick advances the session and pushes notable results to every client.
func (s *Server) Tick(dt float64) game.TickResult {
	s.mu.Lock()
	res := s.session.Tick(dt)
	s.mu.Unlock()

	if res.Notable() {
		s.publish("tick", res)
	}
	return res
}

// WithSession runs fn while holding the session lock.
func (s *Server) WithSession(fn func(*game.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.session)
}

// handleMessage dispatches inbound WebSocket intents.
func (s *Server) handleMessage(c *Client, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reply interface{}
	switch msg.Type {
	case "click":
		var req ClickRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			log.Printf("WS: bad click payload from %s: %v", c.ID, err)
			return
		}
		res := s.session.OnClick(game.Point{X: req.X, Y: req.Y})
		reply = ClickResponse{ClickResult: res, Points: s.session.Player.Points}
	case "purchase":
		var req BuyUpgradeRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			log.Printf("WS: bad purchase payload from %s: %v", c.ID, err)
			return
		}
		reply = ActionResponse{OK: s.session.OnPurchaseAttempt(req.UpgradeID), Points: s.session.Player.Points}
	case "switch":
		var req SwitchRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			log.Printf("WS: bad switch payload from %s: %v", c.ID, err)
			return
		}
		reply = ActionResponse{OK: s.session.OnCharacterSwitch(req.CharacterID), Points: s.session.Player.Points}
	case "ack":
		reply = ActionResponse{OK: s.session.OnEventAcknowledge(), Points: s.session.Player.Points}
	default:
		log.Printf("WS: unknown message type %q from %s", msg.Type, c.ID)
		return
	}

	if data, err := NewMessage(msg.Type, "system", reply); err == nil {
		c.Send(data)
	}
	s.publishStateLocked()
}

// publishStateLocked broadcasts the snapshot. The caller holds s.mu.
func (s *Server) publishStateLocked() {
	s.publish("state", s.session.Snapshot())
}

func (s *Server) publish(kind string, payload interface{}) {
	if s.hub == nil {
		return
	}
	data, err := NewMessage(kind, "system", payload)
	if err != nil {
		log.Printf("WS: error marshaling %s: %v", kind, err)
		return
	}
	s.hub.Publish(data)
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// CORSMiddleware lets a renderer served from another origin reach the API.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
