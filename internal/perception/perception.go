// Package perception builds the bounded, per-resident view of the world
// sent at the perception broadcast rate: visible entities, audible
// speech, legal interactions, flushed notifications, and a map-knowledge
// delta (design doc Section 4.4).
package perception

import (
	"math"
	"strconv"

	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// VisibleResident is one other resident rendered in R's perception.
type VisibleResident struct {
	ID            worldstate.ResidentID
	Name          string
	X, Y          float64
	FacingDegrees float64
	IsDead        bool
	IsSleeping    bool
	BuildingID    *uint64
}

// VisibleBody is a dead resident's body, visible as an object rather
// than a resident (spec §4.4 "report is_dead=true").
type VisibleBody struct {
	ResidentID worldstate.ResidentID
	Name       string
	X, Y       float64
	CarriedBy  *worldstate.ResidentID
}

// AudibleSpeech is a speech act audible to R during the perception
// window.
type AudibleSpeech struct {
	SpeakerID worldstate.ResidentID
	Text      string
	Volume    string
	Directed  bool
}

// ForageDelta reports a forageable node whose uses_remaining changed
// since this resident's previous perception tick.
type ForageDelta struct {
	NodeID        uint64
	UsesRemaining int
}

// Update is the complete structured perception delivered to one resident
// for one perception tick.
type Update struct {
	GameS float64

	Self worldstate.Resident

	VisibleResidents []VisibleResident
	VisibleBodies    []VisibleBody
	Audible          []AudibleSpeech
	Interactions     []string

	Notifications []worldstate.Notification
	PendingPain   []worldstate.PainMessage

	ForageDeltas []ForageDelta
}

// Build computes one perception Update for resident r. speeches is the
// set of speech acts emitted during the window just closed, drained by
// the caller from the World's speech queue via World.DrainSpeech (design doc
// Section 4.4/§5 — speech in tick N is audible no earlier than N+1).
func Build(w *worldstate.World, cfg config.Config, r *worldstate.Resident, speeches []worldstate.PendingSpeech) Update {
	u := Update{
		GameS: w.Clock.Now(),
		Self:  *r,
	}

	for _, other := range w.AllResidents() {
		if other.ID == r.ID {
			continue
		}
		switch other.Status {
		case worldstate.StatusAlive:
			if isVisible(cfg, r, other.X, other.Y, other.FacingDegrees) {
				u.VisibleResidents = append(u.VisibleResidents, VisibleResident{
					ID:            other.ID,
					Name:          other.PreferredName,
					X:             other.X,
					Y:             other.Y,
					FacingDegrees: other.FacingDegrees,
					IsSleeping:    other.IsSleeping,
					BuildingID:    other.BuildingID,
				})
			}
		case worldstate.StatusDeceased:
			if body := w.Body(other.ID); body != nil && isVisible(cfg, r, body.X, body.Y, 0) {
				u.VisibleBodies = append(u.VisibleBodies, VisibleBody{
					ResidentID: body.ResidentID,
					Name:       body.Name,
					X:          body.X,
					Y:          body.Y,
					CarriedBy:  body.CarriedBy,
				})
			}
		}
	}

	for _, sp := range speeches {
		if sp.SpeakerID == r.ID {
			continue
		}
		if !isAudible(w.Map, cfg, r, sp) {
			continue
		}
		u.Audible = append(u.Audible, AudibleSpeech{
			SpeakerID: sp.SpeakerID,
			Text:      sp.Text,
			Volume:    sp.Volume,
			Directed:  sp.To != nil && *sp.To == r.ID,
		})
	}

	u.Interactions = legalInteractions(w, r)

	u.Notifications = r.PendingNotifications
	r.PendingNotifications = nil
	u.PendingPain = r.PendingPain
	r.PendingPain = nil

	u.ForageDeltas = forageDeltas(w, r)
	r.LastPerceptionGameS = u.GameS

	return u
}

// isVisible implements the ambient-range-or-FOV-cone rule. Walls never
// block visibility (design doc: "2D top-down").
func isVisible(cfg config.Config, r *worldstate.Resident, x, y, _facing float64) bool {
	dist := math.Hypot(x-r.X, y-r.Y)
	if dist <= cfg.AmbientRange {
		return true
	}
	if dist > cfg.FOVRange {
		return false
	}
	angleToTarget := math.Atan2(y-r.Y, x-r.X) * 180 / math.Pi
	facing := normalizeDegrees(r.FacingDegrees)
	delta := math.Abs(normalizeDegrees(angleToTarget) - facing)
	if delta > 180 {
		delta = 360 - delta
	}
	return delta <= cfg.FOVAngleDegrees/2
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// isAudible implements the volume-range envelope, scaled by
// cfg.WallSoundFactor across a wall crossing unless the speech is directed at r, which bypasses only the
// wall penalty and still must fall within the base range (design doc
// Section 4.4).
func isAudible(m *tilemap.Map, cfg config.Config, r *worldstate.Resident, sp worldstate.PendingSpeech) bool {
	rng := cfg.NormalRange
	switch sp.Volume {
	case "whisper":
		rng = cfg.WhisperRange
	case "shout":
		rng = cfg.ShoutRange
	}
	directed := sp.To != nil && *sp.To == r.ID
	if !directed && crossesWall(m, sp.X, sp.Y, r.X, r.Y) {
		rng *= cfg.WallSoundFactor
	}
	return math.Hypot(sp.X-r.X, sp.Y-r.Y) <= rng
}

// crossesWall performs a coarse tile-stepped raycast between two pixel
// points to approximate whether a wall lies on the line of travel.
func crossesWall(m *tilemap.Map, x0, y0, x1, y1 float64) bool {
	steps := int(math.Hypot(x1-x0, y1-y0) / float64(m.TileSize))
	if steps < 1 {
		return false
	}
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + (x1-x0)*t
		y := y0 + (y1-y0)*t
		tx, ty := m.TileAt(x, y)
		if m.IsTileBlocked(tx, ty) {
			return true
		}
	}
	return false
}

// legalInteractions enumerates the verbs currently available to r given
// its position, inventory, and surroundings (design doc Section 4.4).
func legalInteractions(w *worldstate.World, r *worldstate.Resident) []string {
	var out []string

	tx, ty := w.Map.TileAt(r.X, r.Y)

	if r.BuildingID == nil {
		if b := w.Map.BuildingAt(tx, ty); b != nil {
			for _, door := range b.Doors {
				if math.Hypot(float64(door.TX-tx), float64(door.TY-ty)) <= 1.5 {
					out = append(out, interactionTag("enter_building", b.ID))
					break
				}
			}
		}
	} else {
		out = append(out, "exit_building")
		if b := w.Map.Building(*r.BuildingID); b != nil {
			for _, zone := range b.Interactions {
				if zone.Zone.Contains(tx, ty) {
					out = append(out, zone.Verb)
				}
			}
		}
	}

	for _, node := range w.AllForageNodes() {
		if node.IsDepleted() {
			continue
		}
		if math.Hypot(node.X-r.X, node.Y-r.Y) <= 40 {
			out = append(out, interactionTag("forage", node.ID))
		}
	}

	if r.HasItem(worldstate.ItemBread) || r.HasItem(worldstate.ItemBerry) {
		out = append(out, "eat")
	}
	if r.HasItem(worldstate.ItemWater) {
		out = append(out, "drink")
	}

	return out
}

func interactionTag(verb string, id uint64) string {
	return verb + ":" + strconv.FormatUint(id, 10)
}

// forageDeltas reports nodes whose uses_remaining changed since the
// resident's previous perception (design doc Section 4.4 "map knowledge
// delta").
func forageDeltas(w *worldstate.World, r *worldstate.Resident) []ForageDelta {
	if r.KnownForageUses == nil {
		r.KnownForageUses = make(map[uint64]int)
	}
	var deltas []ForageDelta
	for _, n := range w.AllForageNodes() {
		known, seen := r.KnownForageUses[n.ID]
		if !seen || known != n.UsesRemaining {
			deltas = append(deltas, ForageDelta{NodeID: n.ID, UsesRemaining: n.UsesRemaining})
			r.KnownForageUses[n.ID] = n.UsesRemaining
		}
	}
	return deltas
}
