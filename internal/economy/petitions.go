package economy

import (
	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// WritePetition files a new petition from the town hall (spec §4.3).
func WritePetition(w *worldstate.World, r *worldstate.Resident, category, description string, nowGameS float64) (*worldstate.Petition, error) {
	if r.IsDead() {
		return nil, ErrDead
	}
	if r.BuildingID == nil || !inBuildingWithRole(w, *r.BuildingID, tilemap.RoleHall) {
		return nil, ErrWrongBuilding
	}
	p := &worldstate.Petition{
		Author:        r.ID,
		Category:      category,
		Description:   description,
		Status:        worldstate.PetitionOpen,
		OpenedAtGameS: nowGameS,
	}
	return w.NewPetition(p), nil
}

// VotePetition casts a resident's ballot on an open petition. A resident
// may vote exactly once per petition (spec §8 uniqueness invariant).
func VotePetition(w *worldstate.World, r *worldstate.Resident, petitionID uint64, inFavor bool) error {
	if r.IsDead() {
		return ErrDead
	}
	if r.BuildingID == nil || !inBuildingWithRole(w, *r.BuildingID, tilemap.RoleHall) {
		return ErrWrongBuilding
	}
	p := w.Petition(petitionID)
	if p == nil {
		return ErrNoSuchItem
	}
	if p.Status != worldstate.PetitionOpen {
		return ErrPetitionClosed
	}
	if w.HasVoted(petitionID, r.ID) {
		return ErrAlreadyVoted
	}
	w.RecordVote(worldstate.Vote{PetitionID: petitionID, Voter: r.ID, InFavor: inFavor})
	if inFavor {
		p.VotesFor++
	} else {
		p.VotesAgainst++
	}
	return nil
}

// CloseExpiredPetitions closes every open petition older than
// PetitionMaxAgeGameHours, converted to game-seconds (spec §6
// PETITION_MAX_AGE). Called once per simulation tick.
func CloseExpiredPetitions(w *worldstate.World, cfg config.Config, nowGameS float64) {
	maxAgeGameS := cfg.PetitionMaxAgeGameHours * 3600
	for _, p := range w.AllPetitions() {
		if p.Status == worldstate.PetitionOpen && nowGameS-p.OpenedAtGameS >= maxAgeGameS {
			p.Status = worldstate.PetitionClosed
		}
	}
}
