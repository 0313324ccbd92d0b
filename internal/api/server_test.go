package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tobyjaguar/thecity/internal/auth"
	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	m := tilemap.NewMap(10, 10, 32)
	w := worldstate.NewWorld(m, 60)
	a, err := auth.New("test-secret", 30*24*time.Hour, "TC")
	if err != nil {
		t.Fatalf("auth.New: %v", err)
	}
	cfg := config.Default()
	return &Server{
		World: w, Config: cfg, Auth: a,
		OnRegister: func(r *worldstate.Resident) {
			r.ID = w.NewResidentID()
			w.AddResident(r)
			w.Train.Enqueue(r.ID)
		},
	}
}

func TestHandleRegisterIssuesPassportAndToken(t *testing.T) {
	s := newTestServer(t)
	body := `{"full_name":"Ada Lovelace","origin":"London","type":"agent"}`
	req := httptest.NewRequest(http.MethodPost, "/passport", strings.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleRegister(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["passport"] == "" || resp["token"] == "" {
		t.Fatalf("expected passport and token, got %+v", resp)
	}
	if s.World.Train.Len() != 1 {
		t.Fatal("registered resident should be queued for the next train")
	}
}

func TestHandleRegisterRejectsShortName(t *testing.T) {
	s := newTestServer(t)
	body := `{"full_name":"A","origin":"London","type":"agent"}`
	req := httptest.NewRequest(http.MethodPost, "/passport", strings.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleRegister(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleResidentLooksUpByPassport(t *testing.T) {
	s := newTestServer(t)
	r := &worldstate.Resident{PassportNo: "TC-XYZ", PreferredName: "Ada", Status: worldstate.StatusAlive}
	r.ID = s.World.NewResidentID()
	s.World.AddResident(r)

	req := httptest.NewRequest(http.MethodGet, "/resident/TC-XYZ", nil)
	rec := httptest.NewRecorder()
	s.handleResident(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandleResidentUnknownReturns404(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/resident/TC-NOPE", nil)
	rec := httptest.NewRecorder()
	s.handleResident(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestInterventionRequiresAdminKey(t *testing.T) {
	s := newTestServer(t)
	s.AdminKey = "" // disabled
	handler := s.adminOnly(s.handleIntervention)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/intervention", strings.NewReader(`{"action":"force_train"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when admin key unset, got %d", rec.Code)
	}
}

func TestInterventionAdjustsStockWithValidBearer(t *testing.T) {
	s := newTestServer(t)
	s.AdminKey = "secret-op-key"
	handler := s.adminOnly(s.handleIntervention)

	body := `{"action":"adjust_stock","item":0,"qty":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/intervention", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret-op-key")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if s.World.Shop.Quantity(worldstate.ItemBread) != 5 {
		t.Fatalf("expected stock adjusted to 5, got %d", s.World.Shop.Quantity(worldstate.ItemBread))
	}
}
