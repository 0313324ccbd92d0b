package persistence

import (
	"fmt"
	"strconv"

	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// Restore reconstructs a World from every durable table, per the
// ownership rule "On startup, World State is reconstituted from the
// repository" (design doc Section 3). Callers should check HasResidents
// first and fall through to fresh generation when it reports false.
func Restore(db *DB, m *tilemap.Map, timeScale float64) (*worldstate.World, error) {
	w := worldstate.NewWorld(m, timeScale)

	residents, err := db.LoadResidents()
	if err != nil {
		return nil, fmt.Errorf("restore residents: %w", err)
	}
	var maxID worldstate.ResidentID
	for _, r := range residents {
		w.AddResident(r)
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	w.SetNextResidentID(maxID)

	stock, err := db.LoadShopStock()
	if err != nil {
		return nil, fmt.Errorf("restore shop stock: %w", err)
	}
	for t, qty := range stock {
		w.Shop.SetQuantity(t, qty)
	}

	jobs, err := db.LoadJobs()
	if err != nil {
		return nil, fmt.Errorf("restore jobs: %w", err)
	}
	for _, j := range jobs {
		w.AddJob(j)
	}

	assignments, err := db.LoadJobAssignments()
	if err != nil {
		return nil, fmt.Errorf("restore job assignments: %w", err)
	}
	for _, a := range assignments {
		w.AssignJob(a.ResidentID, a.JobID)
	}

	laws, err := db.LoadLaws()
	if err != nil {
		return nil, fmt.Errorf("restore laws: %w", err)
	}
	for _, l := range laws {
		w.AddLaw(l)
	}

	petitions, votes, err := db.LoadPetitions()
	if err != nil {
		return nil, fmt.Errorf("restore petitions: %w", err)
	}
	w.RestorePetitionState(petitions, votes)

	if raw, err := db.GetMeta("game_seconds"); err == nil {
		if seconds, parseErr := strconv.ParseFloat(raw, 64); parseErr == nil {
			w.Clock.GameSeconds = seconds
		}
	}

	return w, nil
}
