package action

import (
	"testing"

	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

func newDispatcher(t *testing.T) (*Dispatcher, *worldstate.World) {
	t.Helper()
	m := tilemap.NewMap(20, 20, 32)
	m.Buildings = append(m.Buildings, &tilemap.BuildingPlacement{
		ID: 1, Type: tilemap.RoleShop, BBox: tilemap.TileRect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2},
	})
	cfg := config.Default()
	w := worldstate.NewWorld(m, cfg.TimeScale)
	var events []worldstate.Event
	d := NewDispatcher(w, cfg, func(e worldstate.Event) { events = append(events, e) })
	return d, w
}

func TestDispatchUnknownCommandIsValidationFailed(t *testing.T) {
	d, w := newDispatcher(t)
	r := &worldstate.Resident{ID: 1, Status: worldstate.StatusAlive, Needs: worldstate.Needs{Energy: 100}}
	w.AddResident(r)

	res := d.Dispatch(r, Command{Type: "bogus", RequestID: "req-1"})
	if res.Status != StatusError || res.Reason != "ValidationFailed" {
		t.Fatalf("got %+v, want ValidationFailed", res)
	}
}

func TestDispatchOnDeceasedIsAlreadyDead(t *testing.T) {
	d, w := newDispatcher(t)
	r := &worldstate.Resident{ID: 1, Status: worldstate.StatusDeceased}
	w.AddResident(r)

	res := d.Dispatch(r, Command{Type: CmdMove, RequestID: "req-2"})
	if res.Status != StatusError || res.Reason != "AlreadyDead" {
		t.Fatalf("got %+v, want AlreadyDead", res)
	}
}

func TestMoveSetsNormalizedIntent(t *testing.T) {
	d, w := newDispatcher(t)
	r := &worldstate.Resident{ID: 1, Status: worldstate.StatusAlive, Needs: worldstate.Needs{Energy: 100}}
	w.AddResident(r)

	res := d.Dispatch(r, Command{Type: CmdMove, DX: 3, DY: 4, Speed: worldstate.SpeedWalk})
	if res.Status != StatusOK {
		t.Fatalf("move failed: %+v", res)
	}
	if r.IntentDX != 0.6 || r.IntentDY != 0.8 {
		t.Fatalf("intent = (%v,%v), want (0.6,0.8)", r.IntentDX, r.IntentDY)
	}
}

func TestSpeakRejectsEmptyText(t *testing.T) {
	d, w := newDispatcher(t)
	r := &worldstate.Resident{ID: 1, Status: worldstate.StatusAlive, Needs: worldstate.Needs{Energy: 100}}
	w.AddResident(r)

	res := d.Dispatch(r, Command{Type: CmdSpeak, Text: ""})
	if res.Status != StatusError || res.Reason != "ValidationFailed" {
		t.Fatalf("got %+v, want ValidationFailed", res)
	}
}

func TestBuyAllOrNothingOnInsufficientWallet(t *testing.T) {
	d, w := newDispatcher(t)
	buildingID := uint64(1)
	r := &worldstate.Resident{ID: 1, Status: worldstate.StatusAlive, BuildingID: &buildingID, Wallet: 0,
		Needs: worldstate.Needs{Energy: 100}}
	w.AddResident(r)

	res := d.Dispatch(r, Command{Type: CmdBuy, Item: worldstate.ItemBread, Qty: 1})
	if res.Status != StatusError || res.Reason != "InsufficientWallet" {
		t.Fatalf("got %+v, want InsufficientWallet", res)
	}
	if r.HasItem(worldstate.ItemBread) {
		t.Fatal("resident should not receive bread on a failed purchase")
	}
}
