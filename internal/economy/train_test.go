package economy

import (
	"testing"

	"github.com/tobyjaguar/thecity/internal/worldstate"
)

func TestSpawnArrivalsPlacesQueuedResidentsAtStation(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Map.SpawnX, w.Map.SpawnY = 99, 77

	r := &worldstate.Resident{ID: 1, Status: worldstate.StatusAlive, Unspawned: true}
	w.AddResident(r)
	w.Train.Enqueue(r.ID)

	if got := w.LivingResidents(); len(got) != 0 {
		t.Fatalf("unspawned resident should be excluded from LivingResidents, got %d", len(got))
	}

	spawned := SpawnArrivals(w, 123)
	if len(spawned) != 1 || spawned[0] != r.ID {
		t.Fatalf("expected resident 1 spawned, got %+v", spawned)
	}
	if r.Unspawned {
		t.Fatal("resident should no longer be Unspawned after arrival")
	}
	if r.X != 99 || r.Y != 77 {
		t.Fatalf("expected resident placed at spawn point, got (%v,%v)", r.X, r.Y)
	}
	if len(w.LivingResidents()) != 1 {
		t.Fatal("spawned resident should now appear in LivingResidents")
	}
	if w.Train.Len() != 0 {
		t.Fatal("train queue should be drained")
	}
}

func TestSpawnArrivalsNoopsOnEmptyQueue(t *testing.T) {
	w, _ := newTestWorld(t)
	if spawned := SpawnArrivals(w, 0); len(spawned) != 0 {
		t.Fatalf("expected no spawns, got %d", len(spawned))
	}
}
