package economy

import (
	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// ApplyNeedsDecay advances one resident's physiology by dtGameS game-seconds.
// Hunger, thirst, and bladder always drift toward their extreme; energy only
// drains while awake and recovers while asleep, at the sleeping-bag-boosted
// rate when the resident carries a sleeping bag (design doc Section 4.3).
func ApplyNeedsDecay(r *worldstate.Resident, cfg config.Config, dtGameS float64) {
	if r.IsDead() {
		return
	}
	n := &r.Needs

	n.Hunger -= cfg.HungerDecayPerGameSecond * dtGameS
	n.Thirst -= cfg.ThirstDecayPerGameSecond * dtGameS
	n.Bladder += cfg.BladderFillPerGameSecond * dtGameS

	if r.IsSleeping {
		rate := cfg.SleepEnergyRecoverPerSec
		if r.HasItem(worldstate.ItemSleepingBag) {
			rate = cfg.SleepBagEnergyRecoverRate
		}
		n.Energy += rate * dtGameS
	} else {
		n.Energy -= cfg.EnergyDecayPerGameSecond * dtGameS
	}

	if n.Hunger <= 0 {
		n.Health -= cfg.HealthDrainHungerPerSec * dtGameS
	}
	if n.Thirst <= 0 {
		n.Health -= cfg.HealthDrainThirstPerSec * dtGameS
	}
	if n.Hunger > 30 && n.Thirst > 30 && n.Energy > 30 && n.Social > 30 && n.Bladder < 70 && n.Health < 100 {
		n.Health += cfg.HealthRecoverPerSec * dtGameS
	}

	n.Clamp()

	if n.Health <= 0 {
		r.Status = worldstate.StatusDeceased
	}
}

// BladderAccidentThreshold is the bladder level at which an unattended
// resident suffers an involuntary accident (design doc Section 4.5).
const BladderAccidentThreshold = 100

// ShouldTriggerBladderAccident reports whether a full bladder should force
// an accident this tick. Callers are expected to apply the social/health
// penalty and emit a bladder_accident event exactly once per crossing.
func ShouldTriggerBladderAccident(r *worldstate.Resident) bool {
	return r.Needs.Bladder >= BladderAccidentThreshold
}

// NeedCriticalThreshold and NeedRecoveredThreshold bound the hysteresis band
// the event detector uses to avoid flapping need_critical/need_recovered
// notifications every tick (design doc Section 4.6).
const (
	NeedCriticalThreshold  = 10
	NeedRecoveredThreshold = 30
)
