package tilemap

import "testing"

func TestNewMapAllTilesPassableByDefault(t *testing.T) {
	m := NewMap(5, 5, 32)
	if m.IsTileBlocked(2, 2) {
		t.Fatal("freshly allocated map should have no obstacles")
	}
	if !m.InBounds(4, 4) || m.InBounds(5, 5) {
		t.Fatal("InBounds should match the tile grid exactly")
	}
}

func TestSetObstacleBlocksTile(t *testing.T) {
	m := NewMap(5, 5, 32)
	m.SetObstacle(1, 1, ObstacleWall)
	if !m.IsTileBlocked(1, 1) {
		t.Fatal("expected wall tile to report blocked")
	}
	if m.ObstacleAt(1, 1) != ObstacleWall {
		t.Fatalf("expected ObstacleWall, got %v", m.ObstacleAt(1, 1))
	}
}

func TestBuildingAtAndBuildingsByRole(t *testing.T) {
	m := NewMap(20, 20, 32)
	b := &BuildingPlacement{ID: 1, Type: RoleShop, BBox: TileRect{MinX: 2, MinY: 2, MaxX: 4, MaxY: 4}}
	m.Buildings = append(m.Buildings, b)

	if got := m.BuildingAt(3, 3); got == nil || got.ID != 1 {
		t.Fatalf("expected to find building at (3,3), got %+v", got)
	}
	if m.BuildingAt(10, 10) != nil {
		t.Fatal("expected no building outside any footprint")
	}
	byRole := m.BuildingsByRole(RoleShop)
	if len(byRole) != 1 || byRole[0].ID != 1 {
		t.Fatalf("expected one shop building, got %+v", byRole)
	}
}

func TestGenerateProducesAllRoles(t *testing.T) {
	cfg := DefaultGenConfig()
	m := Generate(cfg)

	roles := []BuildingRole{RoleStation, RoleShop, RoleBank, RoleHall, RoleToilet, RoleMortuary, RolePolice, RoleInfo}
	for _, role := range roles {
		if len(m.BuildingsByRole(role)) == 0 {
			t.Fatalf("expected at least one building with role %v", role)
		}
	}
	if m.SpawnX == 0 && m.SpawnY == 0 {
		t.Fatal("expected a non-zero spawn point at the station platform")
	}
}
