package persistence

import (
	"path/filepath"
	"testing"

	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "city.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCheckpointAndRestoreRoundTripsResidents(t *testing.T) {
	db := openTestDB(t)

	m := tilemap.NewMap(10, 10, 32)
	w := worldstate.NewWorld(m, 60)
	r := &worldstate.Resident{
		PassportNo: "TC-00001", FullName: "Ada Lovelace", PreferredName: "Ada",
		Status: worldstate.StatusAlive, Wallet: 40,
		Needs: worldstate.Needs{Hunger: 80, Thirst: 80, Energy: 80, Health: 100},
	}
	r.ID = w.NewResidentID()
	r.AddItem(worldstate.ItemBread, 2, -1)
	w.AddResident(r)

	w.AddJob(&worldstate.Job{ID: 1, Title: "Groundskeeper", Wage: 5, MaxPositions: 3})
	w.AssignJob(r.ID, 1)

	if err := db.Checkpoint(w); err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}

	restored, err := Restore(db, m, 60)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	got := restored.Resident(r.ID)
	if got == nil {
		t.Fatal("resident did not round-trip")
	}
	if got.PassportNo != r.PassportNo || got.Wallet != r.Wallet {
		t.Fatalf("resident fields did not round-trip: got %+v", got)
	}
	if !got.HasItem(worldstate.ItemBread) {
		t.Fatal("inventory did not round-trip")
	}
	jobID, ok := restored.ResidentJob(r.ID)
	if !ok || jobID != 1 {
		t.Fatal("job assignment did not round-trip")
	}
}

func TestHasResidentsReportsEmptyDatabase(t *testing.T) {
	db := openTestDB(t)
	if db.HasResidents() {
		t.Fatal("a fresh database should report no residents")
	}
}

func TestSaveAndTrimEvents(t *testing.T) {
	db := openTestDB(t)

	events := []worldstate.Event{
		{GameS: 10, Type: worldstate.EventArrival},
		{GameS: 20000, Type: worldstate.EventDepart},
	}
	if err := db.SaveEvents(events); err != nil {
		t.Fatalf("SaveEvents: %v", err)
	}

	recent, err := db.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 events, got %d", len(recent))
	}

	n, err := db.TrimOldEvents(15000)
	if err != nil {
		t.Fatalf("TrimOldEvents: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected to trim 1 event, trimmed %d", n)
	}
}
