package economy

import (
	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// CollectUBI pays the universal basic income to a resident inside a bank
// building, gated by a per-resident cooldown (spec §4.3,
// §6 UBI_COOLDOWN).
func CollectUBI(w *worldstate.World, cfg config.Config, r *worldstate.Resident, nowGameS float64) error {
	if r.IsDead() {
		return ErrDead
	}
	if r.BuildingID == nil || !inBuildingWithRole(w, *r.BuildingID, tilemap.RoleBank) {
		return ErrWrongBuilding
	}
	if r.UBILastCollectedGameS != nil {
		elapsedGameS := nowGameS - *r.UBILastCollectedGameS
		if elapsedGameS < cfg.UBICooldown.Seconds() {
			return ErrCooldown
		}
	}
	r.Wallet += cfg.UBIAmount
	t := nowGameS
	r.UBILastCollectedGameS = &t
	return nil
}
