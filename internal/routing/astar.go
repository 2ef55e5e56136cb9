package routing

import (
	"container/heap"
	"errors"

	"trip-planner-service/internal/geo"
)

// ErrNoPath is returned when the frontier drains without reaching the goal:
// either the goal is unreachable or every route needs an edge beyond the
// vehicle's range.
var ErrNoPath = errors.New("no feasible path within range")

// Mode selects how the range limit constrains the search.
type Mode int

const (
	// ModePerEdge skips any single edge longer than the range. The total
	// path length may still exceed the range; callers surface that as an
	// advisory rather than a failure.
	ModePerEdge Mode = iota
	// ModeCumulative rejects any partial path whose total distance from the
	// start exceeds the range.
	ModeCumulative
)

// pqItem is one frontier entry. A node can be enqueued several times as its
// g-score improves; outdated copies are detected at pop time by comparing
// the cost they carried against the current best.
type pqItem struct {
	node     geo.Coordinate
	cost     float64 // g-score at enqueue time
	priority float64 // f-score: cost plus heuristic to goal
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*pqItem)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// FindPath runs an A* search over g from start to goal. The heuristic is the
// great-circle distance to the goal, which never overestimates road distance.
// rangeKm constrains edges according to mode. Returns the optimal path
// including both endpoints, or ErrNoPath when no route survives the range
// constraint.
func FindPath(g *Graph, start, goal geo.Coordinate, rangeKm float64, mode Mode) ([]geo.Coordinate, error) {
	gScore := make(map[geo.Coordinate]float64)
	gScore[start] = 0

	cameFrom := make(map[geo.Coordinate]geo.Coordinate)

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{node: start, cost: 0, priority: geo.Distance(start, goal)})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		current := item.node

		// Stale entry: the node was re-enqueued with a better cost after
		// this copy was pushed.
		if item.cost > gScore[current] {
			continue
		}

		if current == goal {
			return reconstructPath(cameFrom, start, goal), nil
		}

		for _, e := range g.Neighbors(current) {
			tentative := item.cost + e.DistanceKm

			switch mode {
			case ModeCumulative:
				if tentative > rangeKm {
					continue
				}
			default:
				if e.DistanceKm > rangeKm {
					continue
				}
			}

			if old, ok := gScore[e.To]; !ok || tentative < old {
				cameFrom[e.To] = current
				gScore[e.To] = tentative
				heap.Push(pq, &pqItem{
					node:     e.To,
					cost:     tentative,
					priority: tentative + geo.Distance(e.To, goal),
				})
			}
		}
	}

	return nil, ErrNoPath
}

func reconstructPath(cameFrom map[geo.Coordinate]geo.Coordinate, start, goal geo.Coordinate) []geo.Coordinate {
	path := []geo.Coordinate{goal}
	for current := goal; current != start; {
		current = cameFrom[current]
		path = append(path, current)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
