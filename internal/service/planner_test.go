package service

import (
	"context"
	"errors"
	"testing"

	"trip-planner-service/internal/geo"
	"trip-planner-service/internal/maps"
	"trip-planner-service/internal/routing"
	"trip-planner-service/internal/storage"
)

// MockDirectionsProvider implements maps.DirectionsProvider for testing
type MockDirectionsProvider struct {
	segments []routing.Segment
	summary  *maps.RouteSummary
	err      error
}

func (m *MockDirectionsProvider) Segments(ctx context.Context, origin, destination string) ([]routing.Segment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.segments, nil
}

func (m *MockDirectionsProvider) Route(ctx context.Context, origin, destination string) (*maps.RouteSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

// MockPlacesProvider implements maps.PlacesProvider for testing. Each call
// consumes the next canned result and records where it was asked to search.
type MockPlacesProvider struct {
	results [][]maps.ChargingStation
	err     error
	calls   []placesCall
}

type placesCall struct {
	center geo.Coordinate
	radius int
}

func (m *MockPlacesProvider) NearbyChargers(ctx context.Context, center geo.Coordinate, radiusMeters int) ([]maps.ChargingStation, error) {
	m.calls = append(m.calls, placesCall{center: center, radius: radiusMeters})
	if m.err != nil {
		return nil, m.err
	}
	if len(m.results) == 0 {
		return nil, nil
	}
	next := m.results[0]
	m.results = m.results[1:]
	return next, nil
}

// Three points along the 17th parallel, roughly 10.65 km apart.
var (
	pointA = geo.Coordinate{Lat: 17.0, Lng: 78.0}
	pointB = geo.Coordinate{Lat: 17.0, Lng: 78.1}
	pointC = geo.Coordinate{Lat: 17.0, Lng: 78.2}
)

func routeSegments(points ...geo.Coordinate) []routing.Segment {
	segments := make([]routing.Segment, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		segments = append(segments, routing.Segment{
			Start:      points[i],
			End:        points[i+1],
			DistanceKm: geo.Distance(points[i], points[i+1]),
		})
	}
	return segments
}

func newTestService(directions *MockDirectionsProvider, places *MockPlacesProvider, config *PlannerConfig) *PlannerService {
	store := storage.NewMemoryStorage()
	return NewPlannerService(directions, places, store, store, config)
}

func TestPlannerService_PlanTrip_Success(t *testing.T) {
	directions := &MockDirectionsProvider{segments: routeSegments(pointA, pointB, pointC)}
	places := &MockPlacesProvider{
		results: [][]maps.ChargingStation{
			{
				{PlaceID: "p1", Name: "Tata Power Station"},
				{Name: "Unnamed kiosk"}, // no place ID, dropped
			},
			{
				{PlaceID: "p1", Name: "Tata Power Station"}, // duplicate
				{PlaceID: "p2", Name: "Statiq Hub"},
			},
		},
	}
	planner := newTestService(directions, places, nil)

	result, err := planner.PlanTrip(context.Background(), "Hyderabad", "Warangal", 50)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Status != StatusSuccess {
		t.Errorf("Expected status %q, got %q", StatusSuccess, result.Status)
	}
	if result.Message != "Route within range." {
		t.Errorf("Unexpected message: %q", result.Message)
	}
	if len(result.Path) != 3 {
		t.Fatalf("Expected 3 path points, got %d", len(result.Path))
	}
	if result.Path[0][0] != pointA.Lat || result.Path[0][1] != pointA.Lng {
		t.Errorf("Path should start at the origin, got %v", result.Path[0])
	}
	if result.TotalDistanceKm < 20 || result.TotalDistanceKm > 23 {
		t.Errorf("Expected total distance near 21.3 km, got %v", result.TotalDistanceKm)
	}
	if result.EstimatedRangeKm != 50 {
		t.Errorf("Expected estimated range 50, got %v", result.EstimatedRangeKm)
	}

	suggestions := result.ChargingSuggestions
	if suggestions.Count != 2 {
		t.Fatalf("Expected 2 deduplicated stations, got %d", suggestions.Count)
	}
	if suggestions.Stations[0].PlaceID != "p1" || suggestions.Stations[1].PlaceID != "p2" {
		t.Errorf("Unexpected station order: %+v", suggestions.Stations)
	}
	if suggestions.Message != nil {
		t.Errorf("Expected nil message when stations exist, got %q", *suggestions.Message)
	}

	// The route is shorter than the sample interval, so only the endpoints
	// are queried.
	if len(places.calls) != 2 {
		t.Fatalf("Expected 2 charger lookups, got %d", len(places.calls))
	}
	for _, call := range places.calls {
		if call.radius != 12000 {
			t.Errorf("Expected route lookup radius 12000, got %d", call.radius)
		}
	}
}

func TestPlannerService_PlanTrip_RechargeAdvisory(t *testing.T) {
	directions := &MockDirectionsProvider{segments: routeSegments(pointA, pointB, pointC)}
	places := &MockPlacesProvider{}
	planner := newTestService(directions, places, nil)

	// Every hop fits the range but the total does not.
	result, err := planner.PlanTrip(context.Background(), "Hyderabad", "Warangal", 15)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Status != StatusSuccess {
		t.Fatalf("Expected status %q, got %q", StatusSuccess, result.Status)
	}
	if result.Message != "Range insufficient, recharge required mid-route." {
		t.Errorf("Unexpected message: %q", result.Message)
	}
}

func TestPlannerService_PlanTrip_NoFeasiblePath(t *testing.T) {
	directions := &MockDirectionsProvider{segments: routeSegments(pointA, pointB, pointC)}
	places := &MockPlacesProvider{
		results: [][]maps.ChargingStation{
			{
				{PlaceID: "o1"}, {PlaceID: "o2"}, {PlaceID: "o3"},
				{PlaceID: "o4"}, {PlaceID: "o5"}, {PlaceID: "o6"},
				{PlaceID: "o7"},
			},
		},
	}
	planner := newTestService(directions, places, nil)

	result, err := planner.PlanTrip(context.Background(), "Hyderabad", "Warangal", 5)
	if err != nil {
		t.Fatalf("An unreachable route should not be an error, got %v", err)
	}

	if result.Status != StatusFailed {
		t.Errorf("Expected status %q, got %q", StatusFailed, result.Status)
	}
	if result.Message != "No valid path found (battery may be insufficient)" {
		t.Errorf("Unexpected message: %q", result.Message)
	}
	if len(result.Path) != 0 {
		t.Errorf("Expected empty path, got %v", result.Path)
	}
	if result.TotalDistanceKm != 0 {
		t.Errorf("Expected zero distance, got %v", result.TotalDistanceKm)
	}

	suggestions := result.ChargingSuggestions
	if suggestions.Count != 5 {
		t.Errorf("Expected origin suggestions capped at 5, got %d", suggestions.Count)
	}
	if len(suggestions.Stations) != 5 {
		t.Errorf("Expected 5 stations, got %d", len(suggestions.Stations))
	}

	if len(places.calls) != 1 {
		t.Fatalf("Expected a single origin lookup, got %d", len(places.calls))
	}
	if places.calls[0].radius != 5000 {
		t.Errorf("Expected origin lookup radius 5000, got %d", places.calls[0].radius)
	}
	if !geo.SamePoint(places.calls[0].center, pointA) {
		t.Errorf("Expected origin lookup at %v, got %v", pointA, places.calls[0].center)
	}
}

func TestPlannerService_PlanTrip_CumulativeMode(t *testing.T) {
	config := DefaultPlannerConfig()
	config.Mode = routing.ModeCumulative

	directions := &MockDirectionsProvider{segments: routeSegments(pointA, pointB, pointC)}
	planner := newTestService(directions, &MockPlacesProvider{}, config)

	// 15 km covers each hop but not the 21.3 km total, so the cumulative
	// budget rejects the route that per-edge pruning accepts.
	result, err := planner.PlanTrip(context.Background(), "Hyderabad", "Warangal", 15)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Status != StatusFailed {
		t.Errorf("Expected cumulative budget to reject the route, got status %q", result.Status)
	}

	result, err = planner.PlanTrip(context.Background(), "Hyderabad", "Warangal", 25)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Status != StatusSuccess {
		t.Errorf("Expected route within the cumulative budget, got status %q", result.Status)
	}
}

func TestPlannerService_PlanTrip_ChargerLookupFailuresAbsorbed(t *testing.T) {
	directions := &MockDirectionsProvider{segments: routeSegments(pointA, pointB, pointC)}
	places := &MockPlacesProvider{err: errors.New("places API error: OVER_QUERY_LIMIT")}
	planner := newTestService(directions, places, nil)

	result, err := planner.PlanTrip(context.Background(), "Hyderabad", "Warangal", 50)
	if err != nil {
		t.Fatalf("Charger lookup failures should not fail the plan, got %v", err)
	}

	if result.Status != StatusSuccess {
		t.Errorf("Expected status %q, got %q", StatusSuccess, result.Status)
	}
	suggestions := result.ChargingSuggestions
	if suggestions.Count != 0 {
		t.Errorf("Expected no stations, got %d", suggestions.Count)
	}
	if suggestions.Stations == nil {
		t.Error("Stations should be an empty slice, not nil")
	}
	if suggestions.Message == nil || *suggestions.Message != "No charging stations found" {
		t.Errorf("Expected empty-result message, got %v", suggestions.Message)
	}
}

func TestPlannerService_PlanTrip_DirectionsError(t *testing.T) {
	directions := &MockDirectionsProvider{err: errors.New("directions API error: REQUEST_DENIED")}
	planner := newTestService(directions, &MockPlacesProvider{}, nil)

	_, err := planner.PlanTrip(context.Background(), "Hyderabad", "Warangal", 50)
	if err == nil {
		t.Fatal("Expected an error when the directions provider fails")
	}
}

func TestPlannerService_NearbyStations_PropagatesErrors(t *testing.T) {
	places := &MockPlacesProvider{err: errors.New("places API error: REQUEST_DENIED")}
	planner := newTestService(&MockDirectionsProvider{}, places, nil)

	_, err := planner.NearbyStations(context.Background(), pointA, 5000)
	if err == nil {
		t.Fatal("Expected the provider error to propagate")
	}
}
