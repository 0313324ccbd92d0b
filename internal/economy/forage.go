package economy

import (
	"math"

	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// ForageRange is the maximum distance, in pixels, between a resident and a
// forageable node for a forage action to succeed.
const ForageRange = 40

// InteractionRange is the default maximum distance, in pixels, for
// resident-to-resident interactions such as trade and give.
const InteractionRange = 48

// Forage harvests one use from a nearby forageable node, granting the
// resident the matching item (spec §4.3 "forage").
func Forage(r *worldstate.Resident, node *worldstate.ForageableNode, nowGameS float64) error {
	if r.IsDead() {
		return ErrDead
	}
	if node == nil {
		return ErrNoSuchItem
	}
	dx, dy := node.X-r.X, node.Y-r.Y
	if math.Hypot(dx, dy) > ForageRange {
		return ErrRangeExceeded
	}
	if node.IsDepleted() {
		return ErrDepleted
	}
	node.UsesRemaining--
	node.LastUseWorldTime = nowGameS
	r.AddItem(worldstate.ItemForForageKind(node.Kind), 1, -1)
	return nil
}

// RegrowForageNodes re-stocks any depleted node whose regrowth timer has
// elapsed. Called once per simulation tick.
func RegrowForageNodes(w *worldstate.World, nowGameS float64) {
	for _, n := range w.AllForageNodes() {
		n.TryRegrow(nowGameS)
	}
}
