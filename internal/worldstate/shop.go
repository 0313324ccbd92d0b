package worldstate

// ShopStock maps item type to integer stock, decremented on purchase.
// Restock refills it to the default levels when called; no world timer
// calls it, so stock only rises again through Restock or SetQuantity.
type ShopStock struct {
	stock map[ItemType]int
}

// NewShopStock seeds a shop with a default stock level for every good
// sold at the shop building.
func NewShopStock() *ShopStock {
	s := &ShopStock{stock: make(map[ItemType]int)}
	s.stock[ItemBread] = 50
	s.stock[ItemWater] = 50
	s.stock[ItemSleepingBag] = 10
	s.stock[ItemTool] = 10
	return s
}

// Quantity returns the current stock for an item type.
func (s *ShopStock) Quantity(t ItemType) int {
	return s.stock[t]
}

// TryDecrement atomically checks and decrements stock by qty, returning
// false (no mutation) if insufficient stock is available.
func (s *ShopStock) TryDecrement(t ItemType, qty int) bool {
	if s.stock[t] < qty {
		return false
	}
	s.stock[t] -= qty
	return true
}

// Restock sets every tracked item type back to its full default level.
func (s *ShopStock) Restock() {
	for t, full := range map[ItemType]int{
		ItemBread:       50,
		ItemWater:       50,
		ItemSleepingBag: 10,
		ItemTool:        10,
	} {
		if s.stock[t] < full {
			s.stock[t] = full
		}
	}
}

// Snapshot returns a copy of the current stock map, safe for read-only
// external consumers (spec §5 — HTTP facade reads between ticks).
func (s *ShopStock) Snapshot() map[ItemType]int {
	out := make(map[ItemType]int, len(s.stock))
	for k, v := range s.stock {
		out[k] = v
	}
	return out
}

// SetQuantity overwrites the stock level for an item type, used by the
// repository to restore shop state at startup.
func (s *ShopStock) SetQuantity(t ItemType, qty int) {
	if s.stock == nil {
		s.stock = make(map[ItemType]int)
	}
	s.stock[t] = qty
}
