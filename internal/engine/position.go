package engine

import (
	"math"

	"github.com/tobyjaguar/thecity/internal/action"
	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/economy"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// advancePosition consumes a resident's movement intent (direct or
// path-following) for one position sub-step, resolving collisions via
// the tile map's three-step slide (design doc Section 4.2).
func advancePosition(w *worldstate.World, cfg config.Config, r *worldstate.Resident, dtSeconds float64) {
	if r.IsSleeping {
		return
	}

	dx, dy := intentDelta(r)
	if dx == 0 && dy == 0 {
		return
	}

	speed := cfg.WalkSpeed
	if r.DesiredSpeed == worldstate.SpeedRun {
		speed = cfg.RunSpeed
	}
	dist := speed * dtSeconds
	if len(r.PathWaypoints) > 0 && r.PathIndex < len(r.PathWaypoints) {
		wp := r.PathWaypoints[r.PathIndex]
		if rem := math.Hypot(wp.X-r.X, wp.Y-r.Y); rem < dist {
			dist = rem
		}
	}

	fromX, fromY := r.X, r.Y
	toX := r.X + dx*dist
	toY := r.Y + dy*dist

	resX, resY, blocked := w.Map.ResolveMovement(fromX, fromY, toX, toY, cfg.ResidentHitbox/2)
	r.X, r.Y = resX, resY
	if dx != 0 || dy != 0 {
		r.FacingDegrees = math.Atan2(dy, dx) * 180 / math.Pi
	}

	if !blocked && (resX != fromX || resY != fromY) {
		tilesTravelled := math.Hypot(resX-fromX, resY-fromY) / float64(cfg.TileSize)
		r.Needs.Energy -= tilesTravelled * action.WalkEnergyPerTile
		r.Needs.Clamp()
	}

	advancePathProgress(r, resX, resY)
}

// intentDelta returns the unit direction a resident should move this
// sub-step, following its waypoint queue if one is set (move_to) or its
// raw direction intent otherwise (move).
func intentDelta(r *worldstate.Resident) (float64, float64) {
	if len(r.PathWaypoints) > 0 && r.PathIndex < len(r.PathWaypoints) {
		wp := r.PathWaypoints[r.PathIndex]
		dx, dy := wp.X-r.X, wp.Y-r.Y
		norm := math.Hypot(dx, dy)
		if norm < 1e-6 {
			return 0, 0
		}
		return dx / norm, dy / norm
	}
	return r.IntentDX, r.IntentDY
}

// advancePathProgress advances to the next waypoint once the resident
// has arrived at the current one, and clears the path once exhausted.
func advancePathProgress(r *worldstate.Resident, x, y float64) {
	if len(r.PathWaypoints) == 0 || r.PathIndex >= len(r.PathWaypoints) {
		return
	}
	wp := r.PathWaypoints[r.PathIndex]
	if math.Hypot(wp.X-x, wp.Y-y) < 2 {
		r.PathIndex++
		if r.PathIndex >= len(r.PathWaypoints) {
			r.PathWaypoints = nil
			r.PathIndex = 0
			r.DesiredSpeed = worldstate.SpeedStop
		}
	}
}

// socialProximityRadius is the "short radius" within which another
// living resident reduces hunger/thirst decay (design doc Section 4.3).
const socialProximityRadius = 5 * 32

// conversationWindowGameS is how recently a directed speech exchange
// must have occurred for the stronger conversation bonus to apply.
const conversationWindowGameS = 30

// applySocialProximityAndDecay applies the social proximity and live-
// conversation need-decay discounts before running the baseline decay
// math (design doc Section 4.3).
func applySocialProximityAndDecay(w *worldstate.World, cfg config.Config, r *worldstate.Resident, dtGameS float64) {
	discount := 1.0
	if hasNearbyResident(w, r) {
		discount = 0.85
		nowGameS := w.Clock.Now()
		if nowGameS-r.LastConversationGameS <= conversationWindowGameS {
			discount *= 0.70
			r.Needs.Energy += 1.0 / 3600 * dtGameS
		}
	}

	scaled := cfg
	scaled.HungerDecayPerGameSecond *= discount
	scaled.ThirstDecayPerGameSecond *= discount

	economy.ApplyNeedsDecay(r, scaled, dtGameS)
}

func hasNearbyResident(w *worldstate.World, r *worldstate.Resident) bool {
	for _, other := range w.AllResidents() {
		if other.ID == r.ID || other.Status != worldstate.StatusAlive {
			continue
		}
		if math.Hypot(other.X-r.X, other.Y-r.Y) <= socialProximityRadius {
			return true
		}
	}
	return false
}
