package maps

import (
	"context"

	"trip-planner-service/internal/geo"
	"trip-planner-service/internal/routing"
)

// DirectionsProvider defines the interface for road-route lookups
type DirectionsProvider interface {
	// Segments returns the ordered step segments of the primary route from
	// origin to destination, suitable for building a route graph.
	Segments(ctx context.Context, origin, destination string) ([]routing.Segment, error)
	// Route returns the overall distance and duration of the primary route.
	Route(ctx context.Context, origin, destination string) (*RouteSummary, error)
}

// PlacesProvider defines the interface for charging-station lookups
type PlacesProvider interface {
	// NearbyChargers returns charging stations within radiusMeters of
	// center. A lookup that succeeds but matches nothing returns an empty
	// slice, not an error.
	NearbyChargers(ctx context.Context, center geo.Coordinate, radiusMeters int) ([]ChargingStation, error)
}
