package engine

import (
	"testing"

	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

func TestAdvancePositionBlockedByWallPreservesUnblockedAxis(t *testing.T) {
	m := tilemap.NewMap(10, 10, 32)
	m.SetObstacle(4, 2, tilemap.ObstacleWall) // directly east of the resident's target tile
	cfg := config.Default()
	w := worldstate.NewWorld(m, cfg.TimeScale)

	r := &worldstate.Resident{ID: 1, X: 64, Y: 64, Status: worldstate.StatusAlive,
		IntentDX: 1, IntentDY: 0, DesiredSpeed: worldstate.SpeedWalk}
	w.AddResident(r)

	advancePosition(w, cfg, r, 1.0)

	if r.X != 64 {
		t.Fatalf("x should stay put when blocked on the x-axis with no y movement, got %v", r.X)
	}
}

func TestAdvancePositionSkipsWhileSleeping(t *testing.T) {
	m := tilemap.NewMap(10, 10, 32)
	cfg := config.Default()
	w := worldstate.NewWorld(m, cfg.TimeScale)
	r := &worldstate.Resident{ID: 1, X: 64, Y: 64, Status: worldstate.StatusAlive,
		IntentDX: 1, IsSleeping: true, DesiredSpeed: worldstate.SpeedWalk}
	w.AddResident(r)

	advancePosition(w, cfg, r, 1.0)

	if r.X != 64 || r.Y != 64 {
		t.Fatal("a sleeping resident must not move")
	}
}

func TestPathFollowingAdvancesWaypointIndex(t *testing.T) {
	m := tilemap.NewMap(10, 10, 32)
	cfg := config.Default()
	w := worldstate.NewWorld(m, cfg.TimeScale)
	r := &worldstate.Resident{ID: 1, X: 64, Y: 64, Status: worldstate.StatusAlive,
		DesiredSpeed: worldstate.SpeedRun,
		PathWaypoints: []tilemap.Waypoint{{X: 65, Y: 64}, {X: 200, Y: 64}},
	}
	w.AddResident(r)

	advancePosition(w, cfg, r, 1.0)

	if r.PathIndex == 0 {
		t.Fatal("resident should have advanced past the first waypoint it was already on top of")
	}
}
