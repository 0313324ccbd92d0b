package economy

import (
	"math"

	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// LoiterRadius bounds how far a resident may drift from its loiter anchor
// and still count as "not moving on" for loitering purposes.
const LoiterRadius = 48

// UpdateLoiterTimer tracks how long a resident has stood near one spot.
// Called once per simulation tick for every living resident; sets Wanted
// once the loiter threshold elapses uninterrupted (spec §4.3/§6
// LOITER_THRESHOLD).
func UpdateLoiterTimer(w *worldstate.World, cfg config.Config, r *worldstate.Resident, nowGameS float64) {
	if r.IsDead() {
		return
	}
	anchor := r.Law.LoiterStartGameS
	if anchor == nil {
		t := nowGameS
		r.Law.LoiterStartGameS = &t
		r.Law.LoiterAnchorX, r.Law.LoiterAnchorY = r.X, r.Y
		return
	}
	if math.Hypot(r.X-r.Law.LoiterAnchorX, r.Y-r.Law.LoiterAnchorY) > LoiterRadius {
		t := nowGameS
		r.Law.LoiterStartGameS = &t
		r.Law.LoiterAnchorX, r.Law.LoiterAnchorY = r.X, r.Y
		return
	}
	thresholdGameS := cfg.LoiterThresholdGameHours * 3600
	if nowGameS-*anchor >= thresholdGameS && !r.Law.Wanted {
		r.Law.Wanted = true
		r.Law.Violations = append(r.Law.Violations, "loitering")
	}
}

// Arrest has an officer take a wanted resident into custody, carrying them
// toward the station (spec §4.3 "arrest", §6 ARREST_RANGE).
func Arrest(w *worldstate.World, cfg config.Config, officer, suspect *worldstate.Resident) error {
	if officer.IsDead() || suspect.IsDead() {
		return ErrDead
	}
	if !suspect.Law.Wanted {
		return ErrNoSuchItem
	}
	if officer.Law.CarryingSuspect != nil {
		return ErrAlreadyCarrying
	}
	if math.Hypot(suspect.X-officer.X, suspect.Y-officer.Y) > cfg.ArrestRange {
		return ErrRangeExceeded
	}
	id := suspect.ID
	officer.Law.CarryingSuspect = &id
	return nil
}

// BookSuspect processes a carried suspect at the station, clearing the
// wanted flag and imposing the sentence for the worst outstanding
// violation (spec §4.3 "book_suspect").
func BookSuspect(w *worldstate.World, officer *worldstate.Resident, nowGameS float64) error {
	if officer.Law.CarryingSuspect == nil {
		return ErrNotCarrying
	}
	if officer.BuildingID == nil || !inBuildingWithRole(w, *officer.BuildingID, tilemap.RolePolice) {
		return ErrWrongBuilding
	}
	suspect := w.Resident(*officer.Law.CarryingSuspect)
	if suspect == nil {
		officer.Law.CarryingSuspect = nil
		return ErrNoSuchItem
	}
	sentenceHours := worstSentence(w, suspect.Law.Violations)
	until := nowGameS + sentenceHours*3600
	suspect.Law.ImprisonedUntil = &until
	suspect.Law.Wanted = false
	suspect.Law.Violations = nil
	officer.Law.CarryingSuspect = nil
	return nil
}

func worstSentence(w *worldstate.World, violations []string) float64 {
	worst := 1.0
	for _, v := range violations {
		for _, law := range w.AllLaws() {
			if law.Name == v && law.SentenceHours > worst {
				worst = law.SentenceHours
			}
		}
	}
	return worst
}

// ReleaseExpiredPrisoners frees every resident whose sentence has elapsed.
// Called once per simulation tick.
func ReleaseExpiredPrisoners(w *worldstate.World, nowGameS float64) {
	for _, r := range w.AllResidents() {
		if r.Law.ImprisonedUntil != nil && nowGameS >= *r.Law.ImprisonedUntil {
			r.Law.ImprisonedUntil = nil
		}
	}
}

// CollectBody has a resident pick up a nearby body for transport to the
// mortuary (spec §4.3 "collect_body").
func CollectBody(w *worldstate.World, r *worldstate.Resident, body *worldstate.Body) error {
	if r.IsDead() {
		return ErrDead
	}
	if body == nil {
		return ErrNoSuchItem
	}
	if body.CarriedBy != nil {
		return ErrAlreadyCarrying
	}
	if r.Law.CarryingSuspect != nil {
		return ErrAlreadyCarrying
	}
	if math.Hypot(body.X-r.X, body.Y-r.Y) > LoiterRadius {
		return ErrRangeExceeded
	}
	id := r.ID
	body.CarriedBy = &id
	return nil
}

// BodyBounty is the wallet reward for delivering a body to the mortuary.
const BodyBounty = 30

// ProcessBody delivers a carried body to the mortuary for the bounty
// (spec §4.3 "process_body").
func ProcessBody(w *worldstate.World, r *worldstate.Resident, body *worldstate.Body) error {
	if body == nil || body.CarriedBy == nil || *body.CarriedBy != r.ID {
		return ErrNotCarrying
	}
	if r.BuildingID == nil || !inBuildingWithRole(w, *r.BuildingID, tilemap.RoleMortuary) {
		return ErrWrongBuilding
	}
	body.Processed = true
	r.Wallet += BodyBounty
	w.RemoveBody(body.ResidentID)
	return nil
}
