package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/eyalet/internal/console"
	"github.com/talgya/eyalet/internal/engine"
	"github.com/talgya/eyalet/internal/persistence"
	"github.com/talgya/eyalet/internal/save"
)

const testKey = "sır"

func newTestServer(t *testing.T, key string) (*Server, *httptest.Server) {
	t.Helper()
	g, err := engine.NewGame(engine.Options{Seed: 8})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	db, err := persistence.Open(filepath.Join(dir, "eyalet.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	sess := console.NewSession(g, save.NewStore(filepath.Join(dir, "saves")), engine.Options{})
	sess.OnTurn(db.Observe)
	s := New(sess, db, nil, 0, key)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.Hub.Run(ctx)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, ts *httptest.Server, path, key, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestStatus(t *testing.T) {
	_, ts := newTestServer(t, testKey)
	resp, err := http.Get(ts.URL + "/api/v1/status")
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Version string        `json:"version"`
		Status  engine.Status `json:"status"`
	}
	decode(t, resp, &body)
	if body.Version != engine.Version || body.Status.Province != "Rum Eyaleti" || body.Status.Turn != 0 {
		t.Errorf("status = %+v", body)
	}
}

func TestControlRequiresToken(t *testing.T) {
	_, ts := newTestServer(t, testKey)

	if resp := post(t, ts, "/api/v1/turn", "", `{}`); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: %d", resp.StatusCode)
	}
	if resp := post(t, ts, "/api/v1/turn", "yanlış", `{}`); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong token: %d", resp.StatusCode)
	}
	resp, err := http.Get(ts.URL + "/api/v1/turn")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET turn: %d", resp.StatusCode)
	}

	_, open := newTestServer(t, "")
	if resp := post(t, open, "/api/v1/turn", "x", `{}`); resp.StatusCode != http.StatusForbidden {
		t.Errorf("disabled control plane: %d", resp.StatusCode)
	}
}

func TestTurnAndChronicle(t *testing.T) {
	_, ts := newTestServer(t, testKey)

	resp := post(t, ts, "/api/v1/turn", testKey, `{"turns": 3}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("turn: %d", resp.StatusCode)
	}
	var reports []struct {
		Turn int `json:"turn"`
	}
	decode(t, resp, &reports)
	if len(reports) != 3 || reports[2].Turn != 3 {
		t.Fatalf("reports = %+v", reports)
	}

	if resp := post(t, ts, "/api/v1/turn", testKey, `{"turns": 31}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("too many turns: %d", resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/api/v1/chronicle")
	if err != nil {
		t.Fatal(err)
	}
	var rows []persistence.TurnRow
	decode(t, resp, &rows)
	if len(rows) != 3 {
		t.Errorf("chronicle rows = %d", len(rows))
	}
}

func TestCommandEndpoint(t *testing.T) {
	s, ts := newTestServer(t, testKey)

	resp := post(t, ts, "/api/v1/command", testKey, `{"line": "vergi 25"}`)
	var ok struct {
		OK bool `json:"ok"`
	}
	decode(t, resp, &ok)
	if !ok.OK {
		t.Fatal("command rejected")
	}
	s.Session.View(func(g *engine.Game) {
		if g.Economy.TaxRate != 0.25 {
			t.Errorf("tax rate = %v", g.Economy.TaxRate)
		}
	})

	resp = post(t, ts, "/api/v1/command", testKey, `{"line": "uçur"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("unknown command: %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSaveLoadEndpoints(t *testing.T) {
	_, ts := newTestServer(t, testKey)

	if resp := post(t, ts, "/api/v1/save", testKey, `{"slot": 1}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("save: %d", resp.StatusCode)
	}
	if resp := post(t, ts, "/api/v1/save", testKey, `{"slot": 4}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad slot: %d", resp.StatusCode)
	}
	if resp := post(t, ts, "/api/v1/load", testKey, `{"slot": 3}`); resp.StatusCode != http.StatusNotFound {
		t.Errorf("empty slot: %d", resp.StatusCode)
	}

	post(t, ts, "/api/v1/turn", testKey, `{}`).Body.Close()
	resp := post(t, ts, "/api/v1/load", testKey, `{"slot": 1}`)
	var st engine.Status
	decode(t, resp, &st)
	if st.Turn != 0 {
		t.Errorf("loaded turn = %d", st.Turn)
	}

	resp, err := http.Get(ts.URL + "/api/v1/slots")
	if err != nil {
		t.Fatal(err)
	}
	var slots []save.Info
	decode(t, resp, &slots)
	if len(slots) != save.Slots || !slots[0].Exists || slots[1].Exists {
		t.Errorf("slots = %+v", slots)
	}
}

func TestWebSocketReceivesTurns(t *testing.T) {
	s, ts := newTestServer(t, testKey)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.Hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("observer never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	post(t, ts, "/api/v1/turn", testKey, `{}`).Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m struct {
		Type string `json:"type"`
		Turn int    `json:"turn"`
	}
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatal(err)
	}
	if m.Type != "turn" || m.Turn != 1 {
		t.Errorf("message = %+v", m)
	}
}
