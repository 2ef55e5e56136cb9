package routing

import (
	"fmt"

	"trip-planner-service/internal/geo"
)

// Segment is one directed leg of a route as reported by a directions
// provider: travel from Start to End covers DistanceKm of road.
type Segment struct {
	Start      geo.Coordinate
	End        geo.Coordinate
	DistanceKm float64
}

// Edge is a weighted connection from a node to one of its neighbors.
type Edge struct {
	To         geo.Coordinate
	DistanceKm float64
}

// Graph is an adjacency list of coordinate nodes. It is built once per
// planning request and never mutated afterwards, so it needs no locking.
// Overlapping provider segments produce duplicate adjacency entries; the
// search considers all of them and keeps whichever costs less.
type Graph struct {
	adjacency map[geo.Coordinate][]Edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{adjacency: make(map[geo.Coordinate][]Edge)}
}

// AddEdge adds a single directed edge from one coordinate to another.
func (g *Graph) AddEdge(from, to geo.Coordinate, distanceKm float64) {
	g.adjacency[from] = append(g.adjacency[from], Edge{To: to, DistanceKm: distanceKm})
}

// AddSegment inserts a provider segment as a pair of directed edges, one in
// each direction, making the graph effectively undirected.
func (g *Graph) AddSegment(s Segment) {
	g.AddEdge(s.Start, s.End, s.DistanceKm)
	g.AddEdge(s.End, s.Start, s.DistanceKm)
}

// Neighbors returns the adjacency entries for a coordinate. The returned
// slice is owned by the graph and must not be modified.
func (g *Graph) Neighbors(c geo.Coordinate) []Edge {
	return g.adjacency[c]
}

// NodeCount returns the number of distinct coordinate nodes.
func (g *Graph) NodeCount() int {
	return len(g.adjacency)
}

// PathDistance sums the realized edge weights along path, taking the first
// adjacency entry matching each consecutive pair. Per-pair weights are read
// back from the graph rather than from search bookkeeping.
func (g *Graph) PathDistance(path []geo.Coordinate) float64 {
	total := 0.0
	for i := 0; i < len(path)-1; i++ {
		for _, e := range g.adjacency[path[i]] {
			if e.To == path[i+1] {
				total += e.DistanceKm
				break
			}
		}
	}
	return total
}

// BuildGraph constructs a graph from ordered directions segments. Every
// segment is inserted in both directions. An empty segment list is an error:
// it means the provider produced no usable route data.
func BuildGraph(segments []Segment) (*Graph, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("cannot build route graph: no segments")
	}

	g := NewGraph()
	for _, s := range segments {
		g.AddSegment(s)
	}
	return g, nil
}
