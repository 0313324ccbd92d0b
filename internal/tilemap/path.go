package tilemap

import "container/heap"

// ErrNoPath is returned when no route exists between two tiles within
// budget, or the target is fully enclosed by obstacles (spec §4.2).
type ErrNoPath struct{ Reason string }

func (e *ErrNoPath) Error() string { return "no path: " + e.Reason }

// Waypoint is one stop along a planned route. Intermediate waypoints sit
// at tile centers; the final waypoint is the literal target pixel.
type Waypoint struct {
	X, Y float64
}

// maxExpandedTiles bounds A* search effort so a single pathfinding call
// never stalls the tick worker (spec §5 — "bounded by a step budget").
const maxExpandedTiles = 4000

type tileCoord struct{ X, Y int }

type pqItem struct {
	coord    tileCoord
	priority int
	index    int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

func manhattan(a, b tileCoord) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

var fourDirections = [4]tileCoord{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// FindPath runs 4-directional A* with a Manhattan heuristic from fromXY to
// toXY (both in pixels). If the exact goal tile is blocked, it degrades to
// the first passable tile adjacent to the goal. Returns ErrNoPath if the
// goal tile and all its neighbors are blocked, if no route reaches the
// target tile, or if the search exhausts its expansion budget.
func (m *Map) FindPath(fromX, fromY, toX, toY float64) ([]Waypoint, error) {
	startTX, startTY := m.TileAt(fromX, fromY)
	goalTX, goalTY := m.TileAt(toX, toY)
	start := tileCoord{startTX, startTY}
	goal := tileCoord{goalTX, goalTY}

	if start == goal {
		return []Waypoint{{X: toX, Y: toY}}, nil
	}

	target := goal
	if m.IsTileBlocked(goal.X, goal.Y) {
		adj, ok := m.nearestPassableNeighbor(goal)
		if !ok {
			return nil, &ErrNoPath{Reason: "goal fully enclosed"}
		}
		target = adj
	}

	cameFrom := map[tileCoord]tileCoord{}
	gScore := map[tileCoord]int{start: 0}

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{coord: start, priority: manhattan(start, target)})

	expanded := 0
	found := false

	for pq.Len() > 0 {
		expanded++
		if expanded > maxExpandedTiles {
			return nil, &ErrNoPath{Reason: "expansion budget exhausted"}
		}

		current := heap.Pop(pq).(*pqItem).coord
		if current == target {
			found = true
			break
		}

		for _, d := range fourDirections {
			next := tileCoord{current.X + d.X, current.Y + d.Y}
			if !m.InBounds(next.X, next.Y) || m.IsTileBlocked(next.X, next.Y) {
				continue
			}
			tentative := gScore[current] + 1
			if existing, ok := gScore[next]; !ok || tentative < existing {
				gScore[next] = tentative
				cameFrom[next] = current
				heap.Push(pq, &pqItem{coord: next, priority: tentative + manhattan(next, target)})
			}
		}
	}

	if !found {
		return nil, &ErrNoPath{Reason: "unreachable"}
	}

	var tiles []tileCoord
	cur := target
	for cur != start {
		tiles = append([]tileCoord{cur}, tiles...)
		cur = cameFrom[cur]
	}

	ts := float64(m.TileSize)
	waypoints := make([]Waypoint, 0, len(tiles))
	for i, t := range tiles {
		if i == len(tiles)-1 {
			waypoints = append(waypoints, Waypoint{X: toX, Y: toY})
			continue
		}
		waypoints = append(waypoints, Waypoint{
			X: float64(t.X)*ts + ts/2,
			Y: float64(t.Y)*ts + ts/2,
		})
	}
	return waypoints, nil
}

func (m *Map) nearestPassableNeighbor(goal tileCoord) (tileCoord, bool) {
	for _, d := range fourDirections {
		cand := tileCoord{goal.X + d.X, goal.Y + d.Y}
		if m.InBounds(cand.X, cand.Y) && !m.IsTileBlocked(cand.X, cand.Y) {
			return cand, true
		}
	}
	return tileCoord{}, false
}
