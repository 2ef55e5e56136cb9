package routing

import "trip-planner-service/internal/geo"

// SamplePath reduces path to waypoints spaced roughly intervalKm apart,
// measured as cumulative distance walked along the path. The first point is
// always emitted; whenever the walked distance since the last emission
// reaches intervalKm the current point is emitted and the accumulator
// resets. The final point is appended unless it already is the last sample
// (compared via geo.SamePoint, so provider float noise cannot duplicate it).
// Every emitted point is a point of the input path.
func SamplePath(path []geo.Coordinate, intervalKm float64) []geo.Coordinate {
	if len(path) == 0 {
		return nil
	}

	samples := []geo.Coordinate{path[0]}
	accumulated := 0.0
	for i := 0; i < len(path)-1; i++ {
		accumulated += geo.Distance(path[i], path[i+1])
		if accumulated >= intervalKm {
			samples = append(samples, path[i+1])
			accumulated = 0
		}
	}

	last := path[len(path)-1]
	if !geo.SamePoint(samples[len(samples)-1], last) {
		samples = append(samples, last)
	}
	return samples
}
