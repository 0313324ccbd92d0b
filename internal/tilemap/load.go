package tilemap

import (
	"encoding/json"
	"fmt"
	"io"
)

// mapFile is the on-disk JSON shape produced by the external static
// map-data producer (spec §1 — out of scope for this engine, treated as
// a collaborator whose output we only consume).
type mapFile struct {
	Width, Height int
	TileSize      int
	Ground        []TileType
	Obstacle      []ObstacleType
	SpawnX, SpawnY int
	Buildings     []*BuildingPlacement
}

// LoadJSON decodes a map produced by the external map-data producer.
func LoadJSON(r io.Reader) (*Map, error) {
	var mf mapFile
	if err := json.NewDecoder(r).Decode(&mf); err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}
	if len(mf.Ground) != mf.Width*mf.Height || len(mf.Obstacle) != mf.Width*mf.Height {
		return nil, fmt.Errorf("decode map: grid size mismatch (want %d cells)", mf.Width*mf.Height)
	}
	return &Map{
		Width:     mf.Width,
		Height:    mf.Height,
		TileSize:  mf.TileSize,
		Ground:    mf.Ground,
		Obstacle:  mf.Obstacle,
		SpawnX:    mf.SpawnX,
		SpawnY:    mf.SpawnY,
		Buildings: mf.Buildings,
	}, nil
}
