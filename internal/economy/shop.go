package economy

import (
	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// itemPrice is the fixed per-unit cost of every good sold at the shop.
var itemPrice = map[worldstate.ItemType]int{
	worldstate.ItemBread:       4,
	worldstate.ItemWater:       3,
	worldstate.ItemSleepingBag: 40,
	worldstate.ItemTool:        25,
}

// useLimitFor returns the RemainingUses to stamp on a freshly purchased
// stack of t, or -1 for goods consumed whole rather than charge-limited.
func useLimitFor(t worldstate.ItemType) int {
	switch t {
	case worldstate.ItemSleepingBag:
		return 20
	case worldstate.ItemTool:
		return 50
	default:
		return -1
	}
}

// Buy executes an all-or-nothing shop purchase: stock and wallet are
// checked together before either is mutated, so a failed purchase leaves
// the shop and the resident untouched (spec §7 "no partial application").
func Buy(w *worldstate.World, cfg config.Config, r *worldstate.Resident, item worldstate.ItemType, qty int) error {
	if r.IsDead() {
		return ErrDead
	}
	if qty <= 0 {
		qty = 1
	}
	if qty > cfg.ShopMaxBuyQty {
		qty = cfg.ShopMaxBuyQty
	}
	if r.BuildingID == nil {
		return ErrNotInBuilding
	}
	if !inBuildingWithRole(w, *r.BuildingID, tilemap.RoleShop) {
		return ErrWrongBuilding
	}

	price, known := itemPrice[item]
	if !known {
		return ErrNoSuchItem
	}
	total := price * qty
	if r.Wallet < total {
		return ErrInsufficientWallet
	}
	if w.Shop.Quantity(item) < qty {
		return ErrOutOfStock
	}
	if !w.Shop.TryDecrement(item, qty) {
		return ErrOutOfStock
	}
	r.Wallet -= total
	r.AddItem(item, qty, useLimitFor(item))
	return nil
}

func inBuildingWithRole(w *worldstate.World, id uint64, role tilemap.BuildingRole) bool {
	b := w.Map.Building(id)
	return b != nil && b.Type == role
}
