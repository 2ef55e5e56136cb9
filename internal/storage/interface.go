package storage

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	ErrTripNotFound  = errors.New("trip not found")
	ErrModelNotFound = errors.New("ev model not found")
)

// Trip is one recorded journey between two locations
type Trip struct {
	ID           string    `json:"trip_id" dynamodbav:"trip_id"`
	UserID       string    `json:"user_id" dynamodbav:"user_id"`
	Source       string    `json:"source" dynamodbav:"source"`
	Destination  string    `json:"destination" dynamodbav:"destination"`
	DistanceKm   float64   `json:"distance" dynamodbav:"distance"`
	DurationMin  float64   `json:"duration" dynamodbav:"duration"`
	BatteryStart float64   `json:"battery_start" dynamodbav:"battery_start"`
	BatteryEnd   float64   `json:"battery_end" dynamodbav:"battery_end"`
	EnergyUsed   float64   `json:"energy_used" dynamodbav:"energy_used"`
	RouteTaken   string    `json:"route_taken" dynamodbav:"route_taken"`
	EVModelID    int       `json:"ev_model_id" dynamodbav:"ev_model_id"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
}

// EVModel describes one electric vehicle model in the catalog. Range data
// comes either from MaxRangeKm directly or from battery capacity divided by
// average consumption.
type EVModel struct {
	ID                 int     `json:"ev_model_id" dynamodbav:"ev_model_id"`
	ModelName          string  `json:"model_name" dynamodbav:"model_name"`
	MaxRangeKm         float64 `json:"max_range" dynamodbav:"max_range"`
	BatteryCapacityKWh float64 `json:"battery_capacity" dynamodbav:"battery_capacity"`
	AvgConsumption     float64 `json:"avg_consumption" dynamodbav:"avg_consumption"` // kWh per km
}

// TripStorage defines the interface for trip persistence
type TripStorage interface {
	// CreateTrip stores a new trip record
	CreateTrip(ctx context.Context, trip *Trip) error

	// GetTrip retrieves a trip by ID
	GetTrip(ctx context.Context, tripID string) (*Trip, error)

	// ListTrips returns trips, filtered by user when userID is non-empty
	ListTrips(ctx context.Context, userID string) ([]*Trip, error)
}

// ModelStorage defines the interface for the EV model catalog
type ModelStorage interface {
	// GetModel retrieves a model by its numeric ID
	GetModel(ctx context.Context, modelID int) (*EVModel, error)

	// FindModelByName returns the first model whose name contains the given
	// text, compared case-insensitively
	FindModelByName(ctx context.Context, name string) (*EVModel, error)

	// ListModels returns all models ordered by model name
	ListModels(ctx context.Context) ([]*EVModel, error)
}
