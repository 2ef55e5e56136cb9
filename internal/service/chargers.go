package service

import (
	"context"
	"log/slog"

	"trip-planner-service/internal/geo"
	"trip-planner-service/internal/maps"
)

// chargersAlongRoute queries chargers around each sample point and merges the
// results, keeping the first occurrence of each place and dropping entries
// without a place ID. A failed lookup at one point contributes nothing rather
// than failing the whole plan.
func (p *PlannerService) chargersAlongRoute(ctx context.Context, samples []geo.Coordinate) []maps.ChargingStation {
	seen := make(map[string]bool)
	stations := []maps.ChargingStation{}
	for _, point := range samples {
		found, err := p.places.NearbyChargers(ctx, point, p.config.RouteChargerRadiusM)
		if err != nil {
			slog.Warn("Charger lookup failed for sample point",
				"lat", point.Lat,
				"lng", point.Lng,
				"error", err)
			continue
		}
		for _, station := range found {
			if station.PlaceID == "" || seen[station.PlaceID] {
				continue
			}
			seen[station.PlaceID] = true
			stations = append(stations, station)
		}
	}
	return stations
}

// suggestionsAt is the fallback when no feasible path exists: a single lookup
// around the origin, capped to the configured limit.
func (p *PlannerService) suggestionsAt(ctx context.Context, origin geo.Coordinate) ChargingSuggestions {
	found, err := p.places.NearbyChargers(ctx, origin, p.config.OriginChargerRadiusM)
	if err != nil {
		slog.Warn("Charger lookup failed at origin",
			"lat", origin.Lat,
			"lng", origin.Lng,
			"error", err)
		found = nil
	}
	if len(found) > p.config.OriginSuggestionLimit {
		found = found[:p.config.OriginSuggestionLimit]
	}
	return suggestionsFor(found)
}

func suggestionsFor(stations []maps.ChargingStation) ChargingSuggestions {
	suggestions := ChargingSuggestions{
		Count:    len(stations),
		Stations: stations,
	}
	if len(stations) == 0 {
		suggestions.Stations = []maps.ChargingStation{}
		message := msgNoStationsFound
		suggestions.Message = &message
	}
	return suggestions
}

// NearbyStations looks up charging stations around an arbitrary point. Unlike
// the per-plan lookups, provider errors propagate to the caller.
func (p *PlannerService) NearbyStations(ctx context.Context, center geo.Coordinate, radiusMeters int) ([]maps.ChargingStation, error) {
	return p.places.NearbyChargers(ctx, center, radiusMeters)
}
