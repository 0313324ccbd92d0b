package economy

import (
	"testing"

	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

func newTestWorld(t *testing.T) (*worldstate.World, config.Config) {
	t.Helper()
	m := tilemap.NewMap(20, 20, 32)
	m.Buildings = append(m.Buildings,
		&tilemap.BuildingPlacement{ID: 1, Type: tilemap.RoleShop, BBox: tilemap.TileRect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}},
		&tilemap.BuildingPlacement{ID: 2, Type: tilemap.RoleBank, BBox: tilemap.TileRect{MinX: 4, MinY: 0, MaxX: 6, MaxY: 2}},
		&tilemap.BuildingPlacement{ID: 3, Type: tilemap.RoleHall, BBox: tilemap.TileRect{MinX: 8, MinY: 0, MaxX: 10, MaxY: 2}},
		&tilemap.BuildingPlacement{ID: 4, Type: tilemap.RoleMortuary, BBox: tilemap.TileRect{MinX: 12, MinY: 0, MaxX: 14, MaxY: 2}},
		&tilemap.BuildingPlacement{ID: 5, Type: tilemap.RolePolice, BBox: tilemap.TileRect{MinX: 16, MinY: 0, MaxX: 18, MaxY: 2}},
	)
	cfg := config.Default()
	return worldstate.NewWorld(m, cfg.TimeScale), cfg
}

func newResident(id worldstate.ResidentID, buildingID *uint64) *worldstate.Resident {
	return &worldstate.Resident{
		ID:         id,
		PassportNo: "CTZ-TEST",
		Status:     worldstate.StatusAlive,
		BuildingID: buildingID,
		Needs:      worldstate.Needs{Hunger: 50, Thirst: 50, Energy: 50, Health: 100},
	}
}

func u64(v uint64) *uint64 { return &v }

func TestBuySuccess(t *testing.T) {
	w, cfg := newTestWorld(t)
	r := newResident(1, u64(1))
	r.Wallet = 100

	if err := Buy(w, cfg, r, worldstate.ItemBread, 2); err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}
	if !r.HasItem(worldstate.ItemBread) {
		t.Fatal("resident should carry bread after purchase")
	}
	if w.Shop.Quantity(worldstate.ItemBread) != 48 {
		t.Fatalf("shop stock = %d, want 48", w.Shop.Quantity(worldstate.ItemBread))
	}
}

func TestBuyInsufficientWalletLeavesStateUnchanged(t *testing.T) {
	w, cfg := newTestWorld(t)
	r := newResident(1, u64(1))
	r.Wallet = 1

	err := Buy(w, cfg, r, worldstate.ItemSleepingBag, 1)
	if err != ErrInsufficientWallet {
		t.Fatalf("err = %v, want ErrInsufficientWallet", err)
	}
	if r.HasItem(worldstate.ItemSleepingBag) {
		t.Fatal("resident should not receive goods on a failed purchase")
	}
	if w.Shop.Quantity(worldstate.ItemSleepingBag) != 10 {
		t.Fatal("shop stock must not change on a failed purchase")
	}
}

func TestBuyWrongBuilding(t *testing.T) {
	w, cfg := newTestWorld(t)
	r := newResident(1, u64(2)) // standing in the bank, not the shop
	r.Wallet = 100

	if err := Buy(w, cfg, r, worldstate.ItemBread, 1); err != ErrWrongBuilding {
		t.Fatalf("err = %v, want ErrWrongBuilding", err)
	}
}

func TestCollectUBICooldown(t *testing.T) {
	w, cfg := newTestWorld(t)
	r := newResident(1, u64(2))

	if err := CollectUBI(w, cfg, r, 0); err != nil {
		t.Fatalf("first collection: %v", err)
	}
	if r.Wallet != cfg.UBIAmount {
		t.Fatalf("wallet = %d, want %d", r.Wallet, cfg.UBIAmount)
	}
	if err := CollectUBI(w, cfg, r, 10); err != ErrCooldown {
		t.Fatalf("err = %v, want ErrCooldown", err)
	}
	if err := CollectUBI(w, cfg, r, cfg.UBICooldown.Seconds()+1); err != nil {
		t.Fatalf("collection after cooldown elapses: %v", err)
	}
}

func TestForageDepletionAndRegrowth(t *testing.T) {
	w, _ := newTestWorld(t)
	r := newResident(1, nil)
	r.X, r.Y = 100, 100
	node := w.NewForageNode(worldstate.ForageBerryBush, 100, 100, 1, 60)

	if err := Forage(r, node, 0); err != nil {
		t.Fatalf("first forage: %v", err)
	}
	if !r.HasItem(worldstate.ItemBerry) {
		t.Fatal("resident should hold a berry after foraging")
	}
	if err := Forage(r, node, 1); err != ErrDepleted {
		t.Fatalf("err = %v, want ErrDepleted", err)
	}
	if !node.TryRegrow(61) {
		t.Fatal("node should regrow once the regrowth interval elapses")
	}
	if err := Forage(r, node, 61); err != nil {
		t.Fatalf("forage after regrowth: %v", err)
	}
}

func TestVotePetitionOncePerResident(t *testing.T) {
	w, _ := newTestWorld(t)
	author := newResident(1, u64(3))
	voter := newResident(2, u64(3))

	p, err := WritePetition(w, author, "infrastructure", "pave the plaza", 0)
	if err != nil {
		t.Fatalf("WritePetition: %v", err)
	}
	if err := VotePetition(w, voter, p.ID, true); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if err := VotePetition(w, voter, p.ID, false); err != ErrAlreadyVoted {
		t.Fatalf("err = %v, want ErrAlreadyVoted", err)
	}
	if p.VotesFor != 1 || p.VotesAgainst != 0 {
		t.Fatalf("votes = (%d,%d), want (1,0)", p.VotesFor, p.VotesAgainst)
	}
}

func TestApplyNeedsDecayDeathOnHealthZero(t *testing.T) {
	cfg := config.Default()
	r := newResident(1, nil)
	r.Needs = worldstate.Needs{Hunger: 0, Thirst: 0, Energy: 50, Health: 0.01}

	ApplyNeedsDecay(r, cfg, 3600)

	if !r.IsDead() {
		t.Fatal("resident should die once health reaches zero")
	}
}

func TestArrestRequiresWantedSuspect(t *testing.T) {
	w, cfg := newTestWorld(t)
	officer := newResident(1, nil)
	suspect := newResident(2, nil)

	if err := Arrest(w, cfg, officer, suspect); err != ErrNoSuchItem {
		t.Fatalf("err = %v, want ErrNoSuchItem (not wanted)", err)
	}
	suspect.Law.Wanted = true
	if err := Arrest(w, cfg, officer, suspect); err != nil {
		t.Fatalf("Arrest: %v", err)
	}
	if officer.Law.CarryingSuspect == nil || *officer.Law.CarryingSuspect != suspect.ID {
		t.Fatal("officer should be carrying the suspect")
	}
}
