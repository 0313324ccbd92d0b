// Package api provides the HTTP Query Facade: public read-only
// observation endpoints plus the registration endpoint and a
// bearer-gated operator intervention lever (design doc Section 6).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tobyjaguar/thecity/internal/auth"
	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/economy"
	"github.com/tobyjaguar/thecity/internal/persistence"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// Server serves World State over HTTP and accepts new registrations.
type Server struct {
	World    *worldstate.World
	Config   config.Config
	Auth     *auth.Authority
	DB       *persistence.DB
	Port     int
	AdminKey string // bearer token for POST /api/v1/intervention; empty disables it

	// OnRegister is invoked with the newly created resident so the caller
	// (cmd/city) can enqueue it on the train without the facade importing
	// the engine package.
	OnRegister func(r *worldstate.Resident)

	// Connect serves the websocket session attach endpoint (/connect),
	// set by cmd/city to a *session.Attacher. Left nil in tests that only
	// exercise the HTTP facade.
	Connect http.Handler
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	registerLimiter := NewRateLimiter(20, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/passport", RateLimitMiddleware(registerLimiter, s.handleRegister))
	mux.HandleFunc("/map", s.handleMap)
	mux.HandleFunc("/resident/", s.handleResident)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/feed", s.handleFeed)
	mux.HandleFunc("/buildings", s.handleBuildings)
	mux.HandleFunc("/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/stats/history", s.handleStatsHistory)
	mux.HandleFunc("/api/v1/intervention", s.adminOnly(s.handleIntervention))
	if s.Connect != nil {
		mux.Handle("/connect", s.Connect)
	}

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP query facade starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, corsMiddleware(mux)); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	hdr := r.Header.Get("Authorization")
	return strings.HasPrefix(hdr, "Bearer ") && strings.TrimPrefix(hdr, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require the operator bearer token on POST.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "intervention endpoint disabled (no admin key configured)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// registerRequest is the decoded body of POST /passport.
type registerRequest struct {
	FullName       string `json:"full_name"`
	PreferredName  string `json:"preferred_name"`
	Origin         string `json:"origin"`
	Type           string `json:"type"` // "agent" | "human"
	GithubUsername string `json:"github_username"`
	ReferredBy     string `json:"referred_by"`
}

// handleRegister validates and creates a new resident, queues it for the
// next train, and returns {passport, token} (design doc Section 6
// "Registration").
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	rtype := worldstate.ResidentAgent
	if req.Type == "human" {
		rtype = worldstate.ResidentHuman
	}

	authReq := auth.RegistrationRequest{
		FullName: req.FullName, PreferredName: req.PreferredName, Origin: req.Origin,
		Type: rtype, GithubUsername: req.GithubUsername, ReferredBy: req.ReferredBy,
	}
	if err := auth.Validate(authReq, s.Config.AllowHumanRegistration); err != nil {
		http.Error(w, "validation failed", http.StatusBadRequest)
		return
	}

	passportNo, err := s.Auth.NewPassportNumber()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	preferred := req.PreferredName
	if preferred == "" {
		preferred = req.FullName
	}

	resident := &worldstate.Resident{
		PassportNo:    passportNo,
		FullName:      req.FullName,
		PreferredName: preferred,
		Origin:        req.Origin,
		Type:          rtype,
		Status:        worldstate.StatusAlive,
		Unspawned:     true,
		Needs:         worldstate.Needs{Hunger: 100, Thirst: 100, Energy: 100, Bladder: 0, Health: 100, Social: 100},
	}

	if s.OnRegister != nil {
		s.OnRegister(resident)
	}

	token, err := s.Auth.IssueToken(resident.ID, resident.PassportNo, resident.Type)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if s.DB != nil {
		now := s.World.Clock.Now()
		if req.GithubUsername != "" {
			s.DB.SaveGithubLink(resident.ID, req.GithubUsername, now)
		}
		if req.ReferredBy != "" {
			s.DB.SaveReferral(resident.ID, req.ReferredBy, now)
		}
	}

	writeJSON(w, map[string]any{"passport": resident.PassportNo, "token": token})
}

// handleMap returns the static tile map and building layout.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	m := s.World.Map
	buildings := make([]map[string]any, 0, len(m.Buildings))
	for _, b := range m.Buildings {
		buildings = append(buildings, map[string]any{
			"id": b.ID, "type": b.Type, "bbox": b.BBox,
		})
	}
	writeJSON(w, map[string]any{
		"width": m.Width, "height": m.Height, "tile_size": m.TileSize,
		"spawn_x": m.SpawnX, "spawn_y": m.SpawnY,
		"buildings": buildings,
	})
}

// handleResident returns the public record for a resident, looked up by
// internal id or passport number (design doc Section 6).
func (s *Server) handleResident(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/resident/")
	if key == "" {
		http.Error(w, "missing resident id or passport", http.StatusBadRequest)
		return
	}

	var res *worldstate.Resident
	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		res = s.World.Resident(worldstate.ResidentID(id))
	} else {
		res = s.World.ResidentByPassport(key)
	}
	if res == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, publicRecord(res))
}

func publicRecord(r *worldstate.Resident) map[string]any {
	return map[string]any{
		"id":             r.ID,
		"passport_no":    r.PassportNo,
		"preferred_name": r.PreferredName,
		"origin":         r.Origin,
		"status":         r.Status.String(),
		"x":              r.X,
		"y":              r.Y,
		"wallet":         r.Wallet,
		"needs":          r.Needs,
	}
}

// handleStatus returns coarse world counts.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	all := s.World.AllResidents()
	alive, deceased, departed := 0, 0, 0
	for _, res := range all {
		switch res.Status {
		case worldstate.StatusAlive:
			alive++
		case worldstate.StatusDeceased:
			deceased++
		case worldstate.StatusDeparted:
			departed++
		}
	}
	writeJSON(w, map[string]any{
		"name":              "The City",
		"game_seconds":      s.World.Clock.Now(),
		"game_seconds_human": humanize.Comma(int64(s.World.Clock.Now())),
		"residents_alive":   alive,
		"deceased":          deceased,
		"departed":          departed,
		"train_queue":       s.World.Train.Len(),
	})
}

// handleFeed returns the most recent narrative events.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	events := s.World.RecentEvents(limit)
	w.Header().Set("X-Event-Count-Human", humanize.Comma(int64(len(events))))
	writeJSON(w, events)
}

// handleBuildings returns per-building info payloads.
func (s *Server) handleBuildings(w http.ResponseWriter, r *http.Request) {
	m := s.World.Map
	out := make([]map[string]any, 0, len(m.Buildings))
	for _, b := range m.Buildings {
		verbs := make([]string, 0, len(b.Interactions))
		for _, iz := range b.Interactions {
			verbs = append(verbs, iz.Verb)
		}
		out = append(out, map[string]any{
			"id": b.ID, "type": b.Type, "bbox": b.BBox, "interactions": verbs,
		})
	}
	writeJSON(w, out)
}

// handleLeaderboard ranks living residents by wallet balance.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	living := s.World.LivingResidents()
	sort.Slice(living, func(i, j int) bool { return living[i].Wallet > living[j].Wallet })

	limit := 20
	if len(living) < limit {
		limit = len(living)
	}
	out := make([]map[string]any, 0, limit)
	for _, res := range living[:limit] {
		out = append(out, map[string]any{
			"passport_no": res.PassportNo, "preferred_name": res.PreferredName, "wallet": res.Wallet,
		})
	}
	writeJSON(w, out)
}

// handleStatsHistory serves the aggregate snapshot rows stored through
// DB.SaveStatsSnapshot (SPEC_FULL.md "Daily statistics snapshots"). The
// checkpoint worker does not write snapshots, so the list is empty unless
// another caller has saved some.
func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeJSON(w, []any{})
		return
	}
	limit := 30
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	rows, err := s.DB.LoadStatsHistory(limit)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

// interventionRequest is the decoded body of POST /api/v1/intervention.
type interventionRequest struct {
	Action string `json:"action"` // "force_train" | "adjust_stock"; any other action is rejected with 400
	Item   int    `json:"item"`
	Qty    int    `json:"qty"`
}

// handleIntervention is the operator lever independent of the simulated
// residents (SPEC_FULL.md "Admin intervention endpoint").
func (s *Server) handleIntervention(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req interventionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	switch req.Action {
	case "force_train":
		spawned := economy.SpawnArrivals(s.World, s.World.Clock.Now())
		slog.Info("admin forced train arrival", "residents", len(spawned))
	case "adjust_stock":
		s.World.Shop.SetQuantity(worldstate.ItemType(req.Item), req.Qty)
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
