package perception

import (
	"testing"

	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

func newWorld() *worldstate.World {
	m := tilemap.NewMap(40, 40, 32)
	cfg := config.Default()
	return worldstate.NewWorld(m, cfg.TimeScale)
}

func TestShoutRangeBoundary(t *testing.T) {
	w := newWorld()
	cfg := config.Default()

	speaker := &worldstate.Resident{ID: 1, X: 100, Y: 100, Status: worldstate.StatusAlive}
	inRange := &worldstate.Resident{ID: 2, X: 100, Y: 900, Status: worldstate.StatusAlive}
	outOfRange := &worldstate.Resident{ID: 3, X: 100, Y: 1001, Status: worldstate.StatusAlive}
	w.AddResident(speaker)
	w.AddResident(inRange)
	w.AddResident(outOfRange)

	speeches := []worldstate.PendingSpeech{{SpeakerID: 1, Text: "hi", Volume: "shout", X: 100, Y: 100}}

	uA := Build(w, cfg, inRange, speeches)
	if len(uA.Audible) != 1 {
		t.Fatalf("listener at distance 800 should hear the shout, got %d audible", len(uA.Audible))
	}

	uB := Build(w, cfg, outOfRange, speeches)
	if len(uB.Audible) != 0 {
		t.Fatalf("listener at distance 901 should not hear the shout, got %d audible", len(uB.Audible))
	}
}

func TestDeceasedRendersAsBody(t *testing.T) {
	w := newWorld()
	cfg := config.Default()

	viewer := &worldstate.Resident{ID: 1, X: 0, Y: 0, Status: worldstate.StatusAlive}
	deceased := &worldstate.Resident{ID: 2, X: 10, Y: 10, Status: worldstate.StatusDeceased}
	w.AddResident(viewer)
	w.AddResident(deceased)
	w.PlaceBody(&worldstate.Body{ResidentID: 2, X: 10, Y: 10, Name: "Casper"})

	u := Build(w, cfg, viewer, nil)
	if len(u.VisibleResidents) != 0 {
		t.Fatal("a deceased resident must not appear in VisibleResidents")
	}
	if len(u.VisibleBodies) != 1 || u.VisibleBodies[0].ResidentID != 2 {
		t.Fatal("the body should appear in VisibleBodies")
	}
}

func TestNotificationsFlushOnce(t *testing.T) {
	w := newWorld()
	cfg := config.Default()
	r := &worldstate.Resident{ID: 1, Status: worldstate.StatusAlive}
	r.PendingNotifications = []worldstate.Notification{{Kind: "welcome"}}
	w.AddResident(r)

	first := Build(w, cfg, r, nil)
	if len(first.Notifications) != 1 {
		t.Fatal("first perception should carry the pending notification")
	}
	second := Build(w, cfg, r, nil)
	if len(second.Notifications) != 0 {
		t.Fatal("notifications must be cleared after being flushed once")
	}
}
