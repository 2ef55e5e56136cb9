package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"trip-planner-service/internal/geo"
	"trip-planner-service/internal/kinesis"
	"trip-planner-service/internal/maps"
	"trip-planner-service/internal/routing"
	"trip-planner-service/internal/storage"
)

// Plan statuses and advisory messages returned to clients.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"

	msgWithinRange     = "Route within range."
	msgRechargeNeeded  = "Range insufficient, recharge required mid-route."
	msgNoPath          = "No valid path found (battery may be insufficient)"
	msgNoStationsFound = "No charging stations found"
)

// PlannerConfig holds the tunables for route planning
type PlannerConfig struct {
	// SampleIntervalKm is the along-route spacing between charger lookups.
	SampleIntervalKm float64
	// RouteChargerRadiusM is the places search radius at each sample point.
	RouteChargerRadiusM int
	// OriginChargerRadiusM is the search radius around the start when no
	// feasible route exists.
	OriginChargerRadiusM int
	// OriginSuggestionLimit caps the fallback suggestions at the origin.
	OriginSuggestionLimit int
	// Mode selects how the range limit prunes the search.
	Mode routing.Mode
}

// DefaultPlannerConfig returns the production defaults: sample every 40 km,
// search 12 km around each sample point, and fall back to the top 5 stations
// within 5 km of the origin.
func DefaultPlannerConfig() *PlannerConfig {
	return &PlannerConfig{
		SampleIntervalKm:      40,
		RouteChargerRadiusM:   12000,
		OriginChargerRadiusM:  5000,
		OriginSuggestionLimit: 5,
		Mode:                  routing.ModePerEdge,
	}
}

// PlannerService coordinates route search, charger lookup, and trip records
type PlannerService struct {
	directions maps.DirectionsProvider
	places     maps.PlacesProvider
	trips      storage.TripStorage
	models     storage.ModelStorage
	streamer   *kinesis.Streamer
	config     *PlannerConfig
}

// NewPlannerService creates a new planner service instance
func NewPlannerService(directions maps.DirectionsProvider, places maps.PlacesProvider, trips storage.TripStorage, models storage.ModelStorage, config *PlannerConfig) *PlannerService {
	if config == nil {
		config = DefaultPlannerConfig()
	}
	return &PlannerService{
		directions: directions,
		places:     places,
		trips:      trips,
		models:     models,
		config:     config,
	}
}

// SetKinesisStreamer sets the Kinesis streamer for trip and plan events
func (p *PlannerService) SetKinesisStreamer(streamer *kinesis.Streamer) {
	p.streamer = streamer
}

// ChargingSuggestions lists deduplicated charger candidates for a plan.
// Message is set only when no stations were found.
type ChargingSuggestions struct {
	Message  *string                `json:"message"`
	Count    int                    `json:"count"`
	Stations []maps.ChargingStation `json:"stations"`
}

// PlanResult is the outcome of one planning request.
type PlanResult struct {
	Status              string              `json:"status"`
	Path                [][]float64         `json:"path"`
	TotalDistanceKm     float64             `json:"total_distance_km"`
	EstimatedRangeKm    float64             `json:"estimated_range_km"`
	Message             string              `json:"message"`
	ChargingSuggestions ChargingSuggestions `json:"charging_suggestions"`
}

// PlanTrip fetches the road route between two locations, searches it for a
// path where every hop fits the given range, and collects charging stations
// along the way. An infeasible route is a normal outcome reported with status
// "failed" and charging suggestions near the origin; an error means the
// directions provider itself failed.
func (p *PlannerService) PlanTrip(ctx context.Context, origin, destination string, rangeKm float64) (*PlanResult, error) {
	segments, err := p.directions.Segments(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch route segments: %w", err)
	}

	graph, err := routing.BuildGraph(segments)
	if err != nil {
		return nil, err
	}

	start := segments[0].Start
	goal := segments[len(segments)-1].End

	slog.Info("Running route search",
		"origin", origin,
		"destination", destination,
		"range_km", rangeKm,
		"graph_nodes", graph.NodeCount())

	path, err := routing.FindPath(graph, start, goal, rangeKm, p.config.Mode)
	if errors.Is(err, routing.ErrNoPath) {
		result := &PlanResult{
			Status:              StatusFailed,
			Path:                [][]float64{},
			TotalDistanceKm:     0,
			EstimatedRangeKm:    round2(rangeKm),
			Message:             msgNoPath,
			ChargingSuggestions: p.suggestionsAt(ctx, start),
		}
		if p.streamer != nil {
			p.streamer.StreamPlanEvent(StatusFailed, origin, destination, 0, rangeKm)
		}
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	totalKm := graph.PathDistance(path)
	samples := routing.SamplePath(path, p.config.SampleIntervalKm)
	stations := p.chargersAlongRoute(ctx, samples)

	message := msgWithinRange
	if totalKm > rangeKm {
		message = msgRechargeNeeded
	}

	result := &PlanResult{
		Status:              StatusSuccess,
		Path:                pathPairs(path),
		TotalDistanceKm:     round2(totalKm),
		EstimatedRangeKm:    round2(rangeKm),
		Message:             message,
		ChargingSuggestions: suggestionsFor(stations),
	}
	if p.streamer != nil {
		p.streamer.StreamPlanEvent(StatusSuccess, origin, destination, totalKm, rangeKm)
	}
	return result, nil
}

// pathPairs flattens coordinates into [lat, lng] pairs for the response body.
func pathPairs(path []geo.Coordinate) [][]float64 {
	pairs := make([][]float64, 0, len(path))
	for _, point := range path {
		pairs = append(pairs, []float64{point.Lat, point.Lng})
	}
	return pairs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
