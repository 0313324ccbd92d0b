package worldstate

// ForageKind enumerates forageable node kinds (spec §3).
type ForageKind uint8

const (
	ForageBerryBush ForageKind = iota
	ForageFreshSpring
)

// ForageableNode lives in the world, not the map: it has a position,
// finite uses, and regrows over game-time.
type ForageableNode struct {
	ID                uint64
	Kind              ForageKind
	X, Y              float64
	UsesRemaining     int
	MaxUses           int
	RegrowGameSeconds float64
	LastUseWorldTime  float64
}

// IsDepleted reports whether the node currently has no uses left.
// Depleted nodes are invisible as forageables but still render as scenery
// (spec §4.3/§4.4).
func (n *ForageableNode) IsDepleted() bool {
	return n.UsesRemaining <= 0
}

// TryRegrow restores one use if enough game-time has passed since the
// last use. Returns true if the node regrew.
func (n *ForageableNode) TryRegrow(nowGameS float64) bool {
	if n.UsesRemaining >= n.MaxUses {
		return false
	}
	if nowGameS-n.LastUseWorldTime >= n.RegrowGameSeconds {
		n.UsesRemaining++
		n.LastUseWorldTime = nowGameS
		return true
	}
	return false
}

// ItemForForageKind maps a forage node kind to the inventory item it yields.
func ItemForForageKind(k ForageKind) ItemType {
	switch k {
	case ForageFreshSpring:
		return ItemWater
	default:
		return ItemBerry
	}
}
