package worldstate

import "github.com/tobyjaguar/thecity/internal/tilemap"

// SeedCivicCatalog populates the job and law tables a fresh City starts
// with. The catalog itself isn't normative (spec §9 leaves it open); the
// shape — jobs tied to a building role, laws carrying a sentence in
// hours — follows the Job/Law structs in civic.go.
func (w *World) SeedCivicCatalog() {
	buildingID := func(role tilemap.BuildingRole) *uint64 {
		placements := w.Map.BuildingsByRole(role)
		if len(placements) == 0 {
			return nil
		}
		id := placements[0].ID
		return &id
	}

	w.AddJob(&Job{ID: 1, Title: "Shopkeeper", BuildingID: buildingID(tilemap.RoleShop), Wage: 15, ShiftHours: 4, MaxPositions: 2, Description: "Tend the shop counter."})
	w.AddJob(&Job{ID: 2, Title: "Bank Teller", BuildingID: buildingID(tilemap.RoleBank), Wage: 15, ShiftHours: 4, MaxPositions: 2, Description: "Process UBI disbursements."})
	w.AddJob(&Job{ID: 3, Title: "Clerk", BuildingID: buildingID(tilemap.RoleHall), Wage: 12, ShiftHours: 4, MaxPositions: 3, Description: "Record petitions at the hall."})
	w.AddJob(&Job{ID: 4, Title: "Officer", BuildingID: buildingID(tilemap.RolePolice), Wage: 20, ShiftHours: 6, MaxPositions: 4, Description: "Patrol and book suspects."})
	w.AddJob(&Job{ID: 5, Title: "Groundskeeper", BuildingID: nil, Wage: 10, ShiftHours: 4, MaxPositions: 4, Description: "Tend the grounds outside."})

	w.AddLaw(&Law{ID: 1, Name: "Loitering", Description: "Remaining in one place past the loiter threshold.", SentenceHours: 1})
	w.AddLaw(&Law{ID: 2, Name: "Theft", Description: "Taking a forageable resource without right.", SentenceHours: 4})
	w.AddLaw(&Law{ID: 3, Name: "Assault", Description: "Unlawful force against another resident.", SentenceHours: 12})
}

// SeedForageNodes scatters berry bushes and fresh springs across the map,
// away from building footprints (spec §3 "ForageableNode").
func (w *World) SeedForageNodes() {
	spots := []struct {
		kind ForageKind
		tx, ty int
	}{
		{ForageBerryBush, 10, 40}, {ForageBerryBush, 50, 10}, {ForageBerryBush, 45, 45},
		{ForageFreshSpring, 15, 15}, {ForageFreshSpring, 55, 40},
	}
	ts := float64(w.Map.TileSize)
	for _, s := range spots {
		x := float64(s.tx)*ts + ts/2
		y := float64(s.ty)*ts + ts/2
		w.NewForageNode(s.kind, x, y, 3, 600)
	}
}
