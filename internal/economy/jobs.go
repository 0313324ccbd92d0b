package economy

import (
	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// ApplyForJob assigns a resident to an open job at the town hall. A
// resident that already holds a job is refused with ErrAlreadyEmployed
// (spec §4.3's "one job at a time" employment model).
func ApplyForJob(w *worldstate.World, r *worldstate.Resident, jobID uint64) error {
	if r.IsDead() {
		return ErrDead
	}
	if r.BuildingID == nil || !inBuildingWithRole(w, *r.BuildingID, tilemap.RoleHall) {
		return ErrWrongBuilding
	}
	if _, already := w.ResidentJob(r.ID); already {
		return ErrAlreadyEmployed
	}
	job := w.Job(jobID)
	if job == nil {
		return ErrNoSuchItem
	}
	if w.JobOpenings(jobID) <= 0 {
		return ErrNoOpenings
	}
	w.AssignJob(r.ID, jobID)
	r.Employment = &worldstate.Employment{JobID: jobID}
	return nil
}

// QuitJob releases a resident's current job assignment.
func QuitJob(w *worldstate.World, r *worldstate.Resident) error {
	jobID, ok := w.ResidentJob(r.ID)
	if !ok {
		return ErrNotEmployed
	}
	_ = jobID
	w.UnassignJob(r.ID)
	r.Employment = nil
	return nil
}

// AccrueShift advances a working resident's shift clock by dtGameS and pays
// the wage once a full shift completes, looping the shift timer rather than
// resetting employment (spec §4.3 "shift_complete").
func AccrueShift(w *worldstate.World, cfg config.Config, r *worldstate.Resident, dtGameS float64) (completed bool) {
	if r.Employment == nil {
		return false
	}
	job := w.Job(r.Employment.JobID)
	if job == nil {
		return false
	}
	if job.BuildingID == nil {
		r.Employment.OnShift = r.BuildingID == nil
	} else {
		r.Employment.OnShift = r.BuildingID != nil && *r.BuildingID == *job.BuildingID
	}
	if !r.Employment.OnShift {
		return false
	}
	r.Employment.ShiftElapsedGameS += dtGameS
	shiftLengthGameS := job.ShiftHours * 3600
	if r.Employment.ShiftElapsedGameS < shiftLengthGameS {
		return false
	}
	r.Employment.ShiftElapsedGameS -= shiftLengthGameS
	r.Wallet += job.Wage
	return true
}
