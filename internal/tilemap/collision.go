package tilemap

import "math"

// IsPositionBlocked reports whether a circular hitbox of the given radius
// centered at (x,y) overlaps a blocked tile. Checks the tile under the
// center plus the four cardinal offsets at the hitbox radius, which is
// sufficient for the tile sizes this grid uses (hitbox < tile size).
func (m *Map) IsPositionBlocked(x, y, hitboxHalf float64) bool {
	points := [][2]float64{
		{x, y},
		{x - hitboxHalf, y},
		{x + hitboxHalf, y},
		{x, y - hitboxHalf},
		{x, y + hitboxHalf},
	}
	for _, p := range points {
		tx, ty := m.TileAt(p[0], p[1])
		if m.IsTileBlocked(tx, ty) {
			return true
		}
	}
	return false
}

// ResolveMovement performs the classic three-step slide used by the
// position phase (spec §4.2): try the full move, then x-only, then
// y-only, otherwise stay put. Returns the resolved position and whether
// any axis was blocked.
func (m *Map) ResolveMovement(fromX, fromY, toX, toY, hitboxHalf float64) (x, y float64, blocked bool) {
	if !m.IsPositionBlocked(toX, toY, hitboxHalf) {
		return toX, toY, false
	}

	xOnly := !m.IsPositionBlocked(toX, fromY, hitboxHalf)
	yOnly := !m.IsPositionBlocked(fromX, toY, hitboxHalf)

	switch {
	case xOnly:
		return toX, fromY, true
	case yOnly:
		return fromX, toY, true
	default:
		return fromX, fromY, true
	}
}

// Distance returns the straight-line pixel distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Hypot(dx, dy)
}
