// Package api serves a running game over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (the control plane).
// /api/v1/ws pushes every played turn to WebSocket observers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/eyalet/internal/achievements"
	"github.com/talgya/eyalet/internal/console"
	"github.com/talgya/eyalet/internal/engine"
	"github.com/talgya/eyalet/internal/history"
	"github.com/talgya/eyalet/internal/persistence"
	"github.com/talgya/eyalet/internal/save"
)

// Server serves one session over HTTP.
type Server struct {
	Session  *console.Session
	DB       *persistence.DB // Optional; /chronicle answers 404 without it.
	Runner   *engine.Runner  // Optional; /speed answers 404 without it.
	Hub      *Hub
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	commandLimiter *RateLimiter
}

// New builds a server and subscribes its hub to the session's turns.
func New(sess *console.Session, db *persistence.DB, runner *engine.Runner, port int, adminKey string) *Server {
	s := &Server{
		Session:        sess,
		DB:             db,
		Runner:         runner,
		Hub:            NewHub(),
		Port:           port,
		AdminKey:       adminKey,
		commandLimiter: NewRateLimiter(120, time.Minute),
	}
	sess.OnTurn(s.Hub.ObserveTurn)
	return s
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/province", s.handleProvince)
	mux.HandleFunc("/api/v1/history", s.handleHistory)
	mux.HandleFunc("/api/v1/divan", s.handleDivan)
	mux.HandleFunc("/api/v1/achievements", s.handleAchievements)
	mux.HandleFunc("/api/v1/slots", s.handleSlots)
	mux.HandleFunc("/api/v1/chronicle", s.handleChronicle)
	mux.HandleFunc("/api/v1/event", s.handleEvent)
	mux.HandleFunc("/api/v1/ws", s.Hub.ServeWS)

	// Control endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/turn", s.postOnly(s.handleTurn))
	mux.HandleFunc("/api/v1/command", s.postOnly(RateLimitMiddleware(s.commandLimiter, s.handleCommand)))
	mux.HandleFunc("/api/v1/choice", s.postOnly(s.handleChoice))
	mux.HandleFunc("/api/v1/save", s.postOnly(s.handleSave))
	mux.HandleFunc("/api/v1/load", s.postOnly(s.handleLoad))
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))

	return corsMiddleware(mux)
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	go s.Hub.Run(ctx)

	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			slog.Warn("HTTP shutdown", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of extra origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through (for endpoints that support both GET and POST).
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "control endpoints disabled (no admin key set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) postOnly(next http.HandlerFunc) http.HandlerFunc {
	guarded := s.adminOnly(next)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		guarded(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var st engine.Status
	s.Session.View(func(g *engine.Game) { st = g.Status() })
	speed := 0.0
	if s.Runner != nil {
		speed = s.Runner.Speed()
	}
	writeJSON(w, map[string]any{
		"name":      "Eyalet",
		"version":   engine.Version,
		"status":    st,
		"speed":     speed,
		"observers": s.Hub.Clients(),
	})
}

// handleProvince returns the whole persisted state of the running game.
func (s *Server) handleProvince(w http.ResponseWriter, r *http.Request) {
	var st *engine.State
	s.Session.View(func(g *engine.Game) { st = g.State() })
	writeJSON(w, st)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	since, err := queryInt(q.Get("since"), 0)
	if err != nil {
		http.Error(w, "since must be an integer", http.StatusBadRequest)
		return
	}
	category := q.Get("category")
	var entries []history.Entry
	s.Session.View(func(g *engine.Game) {
		for _, e := range g.History.Since(since) {
			if category == "" || e.Category == category {
				entries = append(entries, e)
			}
		}
	})
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, entries)
}

func (s *Server) handleDivan(w http.ResponseWriter, r *http.Request) {
	var out any
	s.Session.View(func(g *engine.Game) {
		reports := g.Divan.Latest()
		if reports == nil {
			out = []any{}
			return
		}
		out = reports
	})
	writeJSON(w, out)
}

type achievementView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	var t *achievements.Tracker
	s.Session.View(func(g *engine.Game) { t = g.Achievements() })
	if t == nil {
		http.Error(w, "achievements not tracked", http.StatusNotFound)
		return
	}
	unlocked := []achievementView{}
	var points int
	var completion float64
	s.Session.View(func(*engine.Game) {
		for _, a := range t.Unlocked() {
			unlocked = append(unlocked, achievementView{ID: a.ID, Name: a.Name, Description: a.Description, Points: a.Points})
		}
		points, completion = t.Points(), t.Completion()
	})
	writeJSON(w, map[string]any{
		"unlocked":   unlocked,
		"points":     points,
		"completion": completion,
	})
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := s.Session.Slots()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, slots)
}

// handleChronicle lists recorded turns, or one turn's announcements with
// ?turn=N.
func (s *Server) handleChronicle(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "chronicle disabled", http.StatusNotFound)
		return
	}
	var gameID string
	s.Session.View(func(g *engine.Game) { gameID = g.ID })
	q := r.URL.Query()
	if t := q.Get("turn"); t != "" {
		turn, err := strconv.Atoi(t)
		if err != nil {
			http.Error(w, "turn must be an integer", http.StatusBadRequest)
			return
		}
		rows, err := s.DB.Announcements(gameID, turn)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, rows)
		return
	}
	limit, err := queryInt(q.Get("limit"), 50)
	if err != nil || limit <= 0 {
		http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
		return
	}
	rows, err := s.DB.Turns(gameID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rows)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var (
		p  engine.PendingEvent
		ok bool
	)
	s.Session.View(func(g *engine.Game) { p, ok = g.PendingEvent() })
	if !ok {
		writeJSON(w, map[string]any{"pending": false})
		return
	}
	writeJSON(w, map[string]any{"pending": true, "event": p})
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Turns int `json:"turns"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
	}
	if req.Turns <= 0 {
		req.Turns = 1
	}
	if req.Turns > console.MaxTurnsPerCommand {
		http.Error(w, fmt.Sprintf("turns must be 1-%d", console.MaxTurnsPerCommand), http.StatusBadRequest)
		return
	}
	reports := s.Session.Advance(req.Turns)
	slog.Info("turns played via API", "turns", len(reports))
	writeJSON(w, reports)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Line string `json:"line"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Line) == "" {
		http.Error(w, "body must be {\"line\": \"...\"}", http.StatusBadRequest)
		return
	}
	out, err := s.Session.Execute(req.Line)
	if err != nil {
		writeJSON(w, map[string]any{"ok": false, "error": err.Error()}, http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "output": out})
}

func (s *Server) handleChoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		http.Error(w, "body must be {\"index\": n}", http.StatusBadRequest)
		return
	}
	ann, err := s.Session.Resolve(*req.Index)
	if err != nil {
		writeJSON(w, map[string]any{"ok": false, "error": err.Error()}, http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "announcements": ann})
}

type slotRequest struct {
	Slot int `json:"slot"`
}

func decodeSlot(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "body must be {\"slot\": n}", http.StatusBadRequest)
		return 0, false
	}
	return req.Slot, true
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	slot, ok := decodeSlot(w, r)
	if !ok {
		return
	}
	if err := s.Session.Save(slot); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("game saved via API", "slot", slot)
	writeJSON(w, map[string]any{"ok": true, "slot": slot})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	slot, ok := decodeSlot(w, r)
	if !ok {
		return
	}
	if err := s.Session.Load(slot); err != nil {
		writeError(w, err)
		return
	}
	var st engine.Status
	s.Session.View(func(g *engine.Game) { st = g.Status() })
	slog.Info("game loaded via API", "slot", slot, "game_id", st.GameID)
	writeJSON(w, st)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if s.Runner == nil {
		http.Error(w, "no turn runner", http.StatusNotFound)
		return
	}
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 100 {
			http.Error(w, "speed must be 0-100", http.StatusBadRequest)
			return
		}
		s.Runner.SetSpeed(req.Speed)
		slog.Info("speed changed", "speed", req.Speed)
	}
	writeJSON(w, map[string]float64{"speed": s.Runner.Speed()})
}

func queryInt(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// writeError maps save errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, save.ErrInvalidSlot), errors.Is(err, save.ErrMalformed), errors.Is(err, save.ErrMigration):
		code = http.StatusBadRequest
	case errors.Is(err, save.ErrSlotEmpty):
		code = http.StatusNotFound
	}
	writeJSON(w, map[string]any{"ok": false, "error": err.Error()}, code)
}

func writeJSON(w http.ResponseWriter, data any, status ...int) {
	w.Header().Set("Content-Type", "application/json")
	if len(status) > 0 {
		w.WriteHeader(status[0])
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
