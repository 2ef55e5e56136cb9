package geo

import "math"

// samePointEpsilon is the per-component tolerance for SamePoint. Directions
// providers emit at most seven decimal places, so anything closer than 1e-9
// degrees is floating-point noise, not a distinct location.
const samePointEpsilon = 1e-9

// Coordinate is a WGS84 point in decimal degrees. Routing code uses it as a
// map key, so node identity is exact value equality on both components.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance calculates the great-circle distance between two points in
// kilometers using the Haversine formula.
func Distance(a, b Coordinate) float64 {
	const earthRadius = 6371 // Earth's radius in kilometers

	lat1Rad := a.Lat * math.Pi / 180
	lng1Rad := a.Lng * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	lng2Rad := b.Lng * math.Pi / 180

	dlat := lat2Rad - lat1Rad
	dlng := lng2Rad - lng1Rad

	h := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}

// SamePoint reports whether a and b describe the same location, tolerating
// floating-point noise below samePointEpsilon on each component.
func SamePoint(a, b Coordinate) bool {
	return math.Abs(a.Lat-b.Lat) < samePointEpsilon && math.Abs(a.Lng-b.Lng) < samePointEpsilon
}
