// Package events implements the Event Detector / Pain Channel: it
// compares per-tick before/after need values and derives need_critical,
// need_recovered, death, and pain notifications without mutating World
// State (design doc Section 4.6).
package events

import (
	"github.com/tobyjaguar/thecity/internal/economy"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// NeedSnapshot is the subset of Needs the detector tracks crossings for.
type NeedSnapshot struct {
	Hunger, Thirst, Energy, Social, Health float64
}

func snapshot(n worldstate.Needs) NeedSnapshot {
	return NeedSnapshot{Hunger: n.Hunger, Thirst: n.Thirst, Energy: n.Energy, Social: n.Social, Health: n.Health}
}

// Detector holds the previous tick's need snapshot per resident so it
// can detect threshold crossings; it is itself stateless with respect to
// World State (design doc Section 4.6 — "without mutating world state").
type Detector struct {
	prev map[worldstate.ResidentID]NeedSnapshot
}

// NewDetector constructs an empty Detector.
func NewDetector() *Detector {
	return &Detector{prev: make(map[worldstate.ResidentID]NeedSnapshot)}
}

// Notification is one derived narrative signal queued for delivery in
// the resident's next perception tick.
type Notification struct {
	Kind string // need_critical | need_recovered | death
	Need string
	Value float64
	Cause string
}

// Observe compares resident r's current needs against the last observed
// snapshot, appends any derived notifications and pain messages directly
// onto r's pending queues, and records the new snapshot. Call once per
// resident per simulation tick, after Needs & Economy has mutated Needs.
func (d *Detector) Observe(r *worldstate.Resident, nowGameS float64) {
	cur := snapshot(r.Needs)
	prev, seen := d.prev[r.ID]
	d.prev[r.ID] = cur

	checkPain(r, "hunger", cur.Hunger, nowGameS)
	checkPain(r, "thirst", cur.Thirst, nowGameS)
	checkPain(r, "social", cur.Social, nowGameS)
	checkPain(r, "health", cur.Health, nowGameS)

	if !seen {
		return
	}

	checkCrossing(r, "hunger", prev.Hunger, cur.Hunger)
	checkCrossing(r, "thirst", prev.Thirst, cur.Thirst)
	checkCrossing(r, "energy", prev.Energy, cur.Energy)
	checkCrossing(r, "social", prev.Social, cur.Social)
	checkCrossing(r, "health", prev.Health, cur.Health)

	if prev.Health > 0 && cur.Health <= 0 {
		r.PendingNotifications = append(r.PendingNotifications, worldstate.Notification{
			Kind: "death", Data: map[string]any{"cause": deathCause(prev)},
		})
	}
}

// checkCrossing appends need_critical/need_recovered notifications on a
// threshold crossing (design doc Section 4.6: critical below 10 from
// above, recovered above 30).
func checkCrossing(r *worldstate.Resident, need string, before, after float64) {
	if before >= economy.NeedCriticalThreshold && after < economy.NeedCriticalThreshold {
		r.PendingNotifications = append(r.PendingNotifications, worldstate.Notification{
			Kind: "need_critical", Data: map[string]any{"need": need, "value": after},
		})
	}
	if before <= economy.NeedRecoveredThreshold && after > economy.NeedRecoveredThreshold {
		r.PendingNotifications = append(r.PendingNotifications, worldstate.Notification{
			Kind: "need_recovered", Data: map[string]any{"need": need, "value": after},
		})
	}
}

// painMinGapGameS is the minimum game-time gap between two pain messages
// from the same source (design doc Section 4.6).
const painMinGapGameS = 30

// checkPain selects a narrative pain string once a need's value crosses
// one of the mild/severe/agony thresholds, subject to a per-source
// cooldown.
func checkPain(r *worldstate.Resident, source string, value, nowGameS float64) {
	intensity := painIntensity(value)
	if intensity == "" {
		return
	}
	if r.LastPainAtGameS == nil {
		r.LastPainAtGameS = make(map[string]float64)
	}
	if last, ok := r.LastPainAtGameS[source]; ok && nowGameS-last < painMinGapGameS {
		return
	}
	r.LastPainAtGameS[source] = nowGameS
	text := painLibrary[painKey{source, intensity}]
	r.PendingPain = append(r.PendingPain, worldstate.PainMessage{Source: source, Intensity: intensity, Text: text})
}

func painIntensity(value float64) string {
	switch {
	case value < 5:
		return "agony"
	case value < 20:
		return "severe"
	case value < 40:
		return "mild"
	default:
		return ""
	}
}

// deathCause names the dominant deficiency at the moment of death, for
// the death(cause) event (design doc Section 4.6, Section 8 scenario 1).
func deathCause(prev NeedSnapshot) string {
	switch {
	case prev.Hunger <= 0 && prev.Thirst <= 0:
		return "starvation_and_dehydration"
	case prev.Hunger <= 0:
		return "starvation"
	case prev.Thirst <= 0:
		return "dehydration"
	default:
		return "unknown"
	}
}
