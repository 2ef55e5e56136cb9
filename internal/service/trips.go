package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"trip-planner-service/internal/storage"
)

// batteryEfficiency converts road distance into an energy-use estimate when
// projecting the battery level at the end of a recorded trip.
const batteryEfficiency = 1.2

// RecordTripInput carries the fields of a trip to record.
type RecordTripInput struct {
	UserID         string
	FromLocation   string
	ToLocation     string
	BatteryPercent float64
	EVModelID      int
}

// RecordTrip resolves the road distance and duration for a journey, projects
// the battery level at arrival, and persists the trip.
func (p *PlannerService) RecordTrip(ctx context.Context, input RecordTripInput) (*storage.Trip, error) {
	summary, err := p.directions.Route(ctx, input.FromLocation, input.ToLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve route: %w", err)
	}

	energyUsed := summary.DistanceKm / batteryEfficiency
	batteryEnd := math.Max(input.BatteryPercent-(energyUsed/100*input.BatteryPercent), 0)

	trip := &storage.Trip{
		ID:           uuid.New().String(),
		UserID:       input.UserID,
		Source:       input.FromLocation,
		Destination:  input.ToLocation,
		DistanceKm:   summary.DistanceKm,
		DurationMin:  summary.DurationMin,
		BatteryStart: input.BatteryPercent,
		BatteryEnd:   batteryEnd,
		EnergyUsed:   energyUsed,
		RouteTaken:   fmt.Sprintf("%s -> %s", input.FromLocation, input.ToLocation),
		EVModelID:    input.EVModelID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := p.trips.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	if p.streamer != nil {
		p.streamer.StreamTripEvent("created", trip)
	}

	return trip, nil
}

// GetTrip returns a single recorded trip by ID.
func (p *PlannerService) GetTrip(ctx context.Context, tripID string) (*storage.Trip, error) {
	return p.trips.GetTrip(ctx, tripID)
}

// ListTrips returns recorded trips, optionally filtered to one user.
func (p *PlannerService) ListTrips(ctx context.Context, userID string) ([]*storage.Trip, error) {
	return p.trips.ListTrips(ctx, userID)
}
