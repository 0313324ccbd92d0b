package economy

import "github.com/tobyjaguar/thecity/internal/worldstate"

// SpawnArrivals drains the train queue, placing every waiting resident
// at the station platform and emitting an arrival event for each (spec
// §3 "TrainQueue ... drained on each train arrival event"; §4.5
// lifecycle "added to train queue; spawned at the station platform on
// the next train").
func SpawnArrivals(w *worldstate.World, nowGameS float64) []worldstate.ResidentID {
	ids := w.Train.DrainAll()
	spawned := make([]worldstate.ResidentID, 0, len(ids))
	for _, id := range ids {
		r := w.Resident(id)
		if r == nil {
			continue
		}
		r.X = float64(w.Map.SpawnX)
		r.Y = float64(w.Map.SpawnY)
		r.Unspawned = false
		w.AppendEvent(worldstate.Event{GameS: nowGameS, Type: worldstate.EventArrival, ResidentID: &r.ID})
		spawned = append(spawned, id)
	}
	return spawned
}
