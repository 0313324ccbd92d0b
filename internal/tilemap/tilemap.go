// Package tilemap provides the static square-tile grid, building
// placements, and collision geometry for the City. See design doc
// Section 3 ("TileMap") and Section 4.2 ("Tile Map & Collision").
package tilemap

import "fmt"

// TileType enumerates ground and obstacle tile kinds. Zero is always
// passable ground for the obstacle grid (spec: "0 = passable").
type TileType uint8

const (
	TileEmpty TileType = iota
	TileGrass
	TilePath
	TileSand
	TileWater
	TileFloor
)

// ObstacleType enumerates blocking tile kinds on the obstacle grid.
type ObstacleType uint8

const (
	ObstacleNone ObstacleType = iota
	ObstacleWall
	ObstacleTree
	ObstacleRock
	ObstacleFence
)

// BuildingRole is the fixed enum of building roles named in spec §3.
type BuildingRole uint8

const (
	RoleStation BuildingRole = iota
	RoleShop
	RoleBank
	RoleHall
	RoleToilet
	RoleMortuary
	RolePolice
	RoleInfo
)

func (r BuildingRole) String() string {
	switch r {
	case RoleStation:
		return "station"
	case RoleShop:
		return "shop"
	case RoleBank:
		return "bank"
	case RoleHall:
		return "hall"
	case RoleToilet:
		return "toilet"
	case RoleMortuary:
		return "mortuary"
	case RolePolice:
		return "police"
	case RoleInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Facing is a coarse cardinal direction for a door.
type Facing uint8

const (
	FacingNorth Facing = iota
	FacingSouth
	FacingEast
	FacingWest
)

// Door is an entry point into a building, expressed in tile coordinates.
type Door struct {
	TX, TY int
	Facing Facing
}

// TileRect is an inclusive tile-space bounding box.
type TileRect struct {
	MinX, MinY, MaxX, MaxY int
}

// Contains reports whether the tile coordinate falls inside the rect.
func (r TileRect) Contains(tx, ty int) bool {
	return tx >= r.MinX && tx <= r.MaxX && ty >= r.MinY && ty <= r.MaxY
}

// InteractionZone maps an action verb (e.g. "buy", "use_toilet") to the
// tile area in which that verb becomes a legal interaction.
type InteractionZone struct {
	Verb string
	Zone TileRect
}

// BuildingPlacement is one instance of a building on the map.
type BuildingPlacement struct {
	ID            uint64
	Type          BuildingRole
	BBox          TileRect
	Doors         []Door
	InteriorTiles []TileRect
	Interactions  []InteractionZone
}

// InInterior reports whether the tile position is inside this building.
func (b *BuildingPlacement) InInterior(tx, ty int) bool {
	if len(b.InteriorTiles) == 0 {
		return b.BBox.Contains(tx, ty)
	}
	for _, z := range b.InteriorTiles {
		if z.Contains(tx, ty) {
			return true
		}
	}
	return false
}

// Map is the immutable static world grid plus building placements.
type Map struct {
	Width, Height int // in tiles
	TileSize      int // pixels per tile

	Ground   []TileType    // width*height, ground tile type
	Obstacle []ObstacleType // width*height, 0 = passable

	Buildings []*BuildingPlacement
	SpawnX, SpawnY int // pixel spawn point (station platform)
}

// NewMap allocates an empty map of the given tile dimensions.
func NewMap(width, height, tileSize int) *Map {
	return &Map{
		Width:    width,
		Height:   height,
		TileSize: tileSize,
		Ground:   make([]TileType, width*height),
		Obstacle: make([]ObstacleType, width*height),
	}
}

func (m *Map) idx(tx, ty int) int { return ty*m.Width + tx }

// InBounds reports whether the tile coordinate lies within the grid.
func (m *Map) InBounds(tx, ty int) bool {
	return tx >= 0 && ty >= 0 && tx < m.Width && ty < m.Height
}

// GroundAt returns the ground tile type, or TileEmpty if out of bounds.
func (m *Map) GroundAt(tx, ty int) TileType {
	if !m.InBounds(tx, ty) {
		return TileEmpty
	}
	return m.Ground[m.idx(tx, ty)]
}

// SetGround sets the ground tile type at a coordinate.
func (m *Map) SetGround(tx, ty int, t TileType) {
	if m.InBounds(tx, ty) {
		m.Ground[m.idx(tx, ty)] = t
	}
}

// SetObstacle sets the obstacle tile type at a coordinate.
func (m *Map) SetObstacle(tx, ty int, t ObstacleType) {
	if m.InBounds(tx, ty) {
		m.Obstacle[m.idx(tx, ty)] = t
	}
}

// ObstacleAt returns the obstacle tile type, or ObstacleWall (blocked) if
// out of bounds — the map edge is an implicit wall.
func (m *Map) ObstacleAt(tx, ty int) ObstacleType {
	if !m.InBounds(tx, ty) {
		return ObstacleWall
	}
	return m.Obstacle[m.idx(tx, ty)]
}

// IsTileBlocked reports whether a tile obstructs movement.
func (m *Map) IsTileBlocked(tx, ty int) bool {
	return m.ObstacleAt(tx, ty) != ObstacleNone
}

// TileAt converts a pixel position to tile coordinates.
func (m *Map) TileAt(x, y float64) (int, int) {
	ts := float64(m.TileSize)
	return int(x / ts), int(y / ts)
}

// BuildingAt returns the building whose bbox contains the given tile
// coordinate, or nil.
func (m *Map) BuildingAt(tx, ty int) *BuildingPlacement {
	for _, b := range m.Buildings {
		if b.BBox.Contains(tx, ty) {
			return b
		}
	}
	return nil
}

// Building returns the building with the given id, or nil.
func (m *Map) Building(id uint64) *BuildingPlacement {
	for _, b := range m.Buildings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// BuildingsByRole returns every building placement with the given role.
func (m *Map) BuildingsByRole(role BuildingRole) []*BuildingPlacement {
	var out []*BuildingPlacement
	for _, b := range m.Buildings {
		if b.Type == role {
			out = append(out, b)
		}
	}
	return out
}

func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d tiles, %dpx, %d buildings)", m.Width, m.Height, m.TileSize, len(m.Buildings))
}
