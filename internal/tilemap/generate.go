// Default/dev map generation. The static map-data producer is an external
// collaborator (spec §1/§6); this generator exists so the engine can boot
// a plausible City without one, and so tests don't need a fixture file.
// See design doc Section 3.2 for the teacher's layered-noise approach,
// adapted from a hex grid to a square grid.
package tilemap

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds square-grid generation parameters.
type GenConfig struct {
	Width, Height int
	TileSize      int
	Seed          int64
	TreeThreshold float64 // noise value above which a grass tile becomes a tree obstacle
}

// DefaultGenConfig returns a reasonable starting configuration for local
// development and tests.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:         64,
		Height:        64,
		TileSize:      32,
		Seed:          42,
		TreeThreshold: 0.74,
	}
}

// Generate creates a complete square-tile map with scattered obstacles
// and a fixed set of building placements (station, shop, bank, hall,
// toilet, mortuary, police, info — one of each, per spec §3's enum of
// roles) wired with doors and interaction zones.
func Generate(cfg GenConfig) *Map {
	noise := opensimplex.NewNormalized(cfg.Seed)
	m := NewMap(cfg.Width, cfg.Height, cfg.TileSize)

	for tx := 0; tx < cfg.Width; tx++ {
		for ty := 0; ty < cfg.Height; ty++ {
			n := noise.Eval2(float64(tx)*0.12, float64(ty)*0.12)
			m.SetGround(tx, ty, TileGrass)
			if n > cfg.TreeThreshold {
				m.SetObstacle(tx, ty, ObstacleTree)
			}
		}
	}

	// Border walls keep residents inside the playable area.
	for tx := 0; tx < cfg.Width; tx++ {
		m.SetObstacle(tx, 0, ObstacleWall)
		m.SetObstacle(tx, cfg.Height-1, ObstacleWall)
	}
	for ty := 0; ty < cfg.Height; ty++ {
		m.SetObstacle(0, ty, ObstacleWall)
		m.SetObstacle(cfg.Width-1, ty, ObstacleWall)
	}

	placeBuilding := func(id uint64, role BuildingRole, cx, cy, w, h int) *BuildingPlacement {
		bbox := TileRect{MinX: cx, MinY: cy, MaxX: cx + w - 1, MaxY: cy + h - 1}
		for tx := bbox.MinX; tx <= bbox.MaxX; tx++ {
			for ty := bbox.MinY; ty <= bbox.MaxY; ty++ {
				m.SetGround(tx, ty, TileFloor)
				m.SetObstacle(tx, ty, ObstacleNone)
			}
		}
		doorX := cx + w/2
		doorY := cy + h
		b := &BuildingPlacement{
			ID:            id,
			Type:          role,
			BBox:          bbox,
			Doors:         []Door{{TX: doorX, TY: doorY, Facing: FacingSouth}},
			InteriorTiles: []TileRect{bbox},
		}
		m.Buildings = append(m.Buildings, b)
		return b
	}

	station := placeBuilding(1, RoleStation, 4, 4, 6, 4)
	m.SpawnX = (station.BBox.MinX + 3) * cfg.TileSize
	m.SpawnY = (station.BBox.MinY + 2) * cfg.TileSize

	shop := placeBuilding(2, RoleShop, 20, 4, 4, 4)
	shop.Interactions = append(shop.Interactions, InteractionZone{Verb: "buy", Zone: shop.BBox})

	bank := placeBuilding(3, RoleBank, 30, 4, 4, 4)
	bank.Interactions = append(bank.Interactions, InteractionZone{Verb: "collect_ubi", Zone: bank.BBox})

	hall := placeBuilding(4, RoleHall, 4, 20, 6, 5)
	hall.Interactions = append(hall.Interactions,
		InteractionZone{Verb: "write_petition", Zone: hall.BBox},
		InteractionZone{Verb: "vote_petition", Zone: hall.BBox},
	)

	toilet := placeBuilding(5, RoleToilet, 20, 20, 3, 3)
	toilet.Interactions = append(toilet.Interactions, InteractionZone{Verb: "use_toilet", Zone: toilet.BBox})

	mortuary := placeBuilding(6, RoleMortuary, 30, 20, 4, 4)
	mortuary.Interactions = append(mortuary.Interactions, InteractionZone{Verb: "process_body", Zone: mortuary.BBox})

	police := placeBuilding(7, RolePolice, 40, 20, 4, 4)
	police.Interactions = append(police.Interactions, InteractionZone{Verb: "book_suspect", Zone: police.BBox})

	placeBuilding(8, RoleInfo, 40, 4, 3, 3)

	return m
}
