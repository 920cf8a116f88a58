package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/everforgeworks/healing-clicker/internal/game"
	"github.com/everforgeworks/healing-clicker/internal/save"
)

func newTestServer(hub *Hub) *Server {
	session := game.NewSession(game.DefaultBalance(), game.NewRand(1), nil)
	return NewServer(session, hub)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetState(t *testing.T) {
	srv := newTestServer(nil)
	rec := do(t, srv.Routes(), http.MethodGet, "/api/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var snap game.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.ClickPower != 1 || snap.CurrentCharacter != "hana" || len(snap.Upgrades) != 5 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestClickEndpoint(t *testing.T) {
	srv := newTestServer(nil)
	mux := srv.Routes()

	if rec := do(t, mux, http.MethodGet, "/api/click", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET click status = %d", rec.Code)
	}
	if rec := do(t, mux, http.MethodPost, "/api/click", "{"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d", rec.Code)
	}

	rec := do(t, mux, http.MethodPost, "/api/click", `{"x": 10, "y": 10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res ClickResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	// 1 point plus the first_click reward
	if res.PointsAwarded != 1 || res.Points != 11 {
		t.Errorf("click = %+v", res)
	}
}

func TestBuyUpgradeEndpoint(t *testing.T) {
	srv := newTestServer(nil)
	mux := srv.Routes()

	if rec := do(t, mux, http.MethodPost, "/api/upgrades/buy", `{"upgrade_id": "warp"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown upgrade status = %d", rec.Code)
	}
	if rec := do(t, mux, http.MethodPost, "/api/upgrades/buy", `{"upgrade_id": "click_power"}`); rec.Code != http.StatusConflict {
		t.Errorf("unaffordable status = %d", rec.Code)
	}

	srv.WithSession(func(s *game.Session) { s.Player.AddPoints(10) })
	rec := do(t, mux, http.MethodPost, "/api/upgrades/buy", `{"upgrade_id": "click_power"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	rec = do(t, mux, http.MethodGet, "/api/upgrades", "")
	var rows []game.UpgradeView
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if rows[0].Level != 1 || rows[0].Cost != 11 {
		t.Errorf("click_power row = %+v", rows[0])
	}
}

func TestSwitchAndAckRefused(t *testing.T) {
	mux := newTestServer(nil).Routes()
	if rec := do(t, mux, http.MethodPost, "/api/characters/switch", `{"character_id": "sora"}`); rec.Code != http.StatusConflict {
		t.Errorf("locked switch status = %d", rec.Code)
	}
	if rec := do(t, mux, http.MethodPost, "/api/characters/switch", `{"character_id": "hana"}`); rec.Code != http.StatusOK {
		t.Errorf("starter switch status = %d", rec.Code)
	}
	if rec := do(t, mux, http.MethodPost, "/api/event/ack", ""); rec.Code != http.StatusConflict {
		t.Errorf("ack without alert status = %d", rec.Code)
	}
}

func TestSettingsEndpoint(t *testing.T) {
	mux := newTestServer(nil).Routes()
	rec := do(t, mux, http.MethodPost, "/api/settings", `{"bgm_volume": 2, "sfx_volume": 0.4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got save.Settings
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.BGMVolume != 1 || got.SFXVolume != 0.4 {
		t.Errorf("settings = %+v", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORSMiddleware(newTestServer(nil).Routes())
	rec := do(t, h, http.MethodOptions, "/api/click", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight = %d %v", rec.Code, rec.Header())
	}
}

func TestWebSocketClick(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	srv := newTestServer(hub)

	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msg, err := NewMessage("click", "", ClickRequest{X: 1, Y: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		t.Fatal(err)
	}

	// The reply and a state broadcast arrive in either order.
	seen := map[string]json.RawMessage{}
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for len(seen) < 2 {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v (seen %v)", err, seen)
		}
		var env Message
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatal(err)
		}
		if env.Sender != "system" {
			t.Errorf("sender = %q", env.Sender)
		}
		seen[env.Type] = env.Payload
	}

	var res ClickResponse
	if err := json.Unmarshal(seen["click"], &res); err != nil {
		t.Fatal(err)
	}
	if res.PointsAwarded != 1 {
		t.Errorf("ws click = %+v", res)
	}
	if _, ok := seen["state"]; !ok {
		t.Errorf("no state broadcast, got %v", seen)
	}
}

func TestTickPublishesNotableResults(t *testing.T) {
	hub := NewHub()
	srv := newTestServer(hub)

	srv.WithSession(func(s *game.Session) { s.OnClick(game.Point{}) })
	res := srv.Tick(0.1)
	if len(res.Achievements) != 1 {
		t.Fatalf("tick = %+v", res)
	}

	select {
	case data := <-hub.Broadcast:
		if !bytes.Contains(data, []byte(`"type":"tick"`)) {
			t.Errorf("broadcast = %s", data)
		}
	default:
		t.Fatal("notable tick was not published")
	}

	srv.Tick(0.1)
	select {
	case data := <-hub.Broadcast:
		t.Errorf("quiet tick published %s", data)
	default:
	}
}
