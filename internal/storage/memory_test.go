package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testTrip(id, userID string, createdAt time.Time) *Trip {
	return &Trip{
		ID:           id,
		UserID:       userID,
		Source:       "Hyderabad",
		Destination:  "Warangal",
		DistanceKm:   145.2,
		DurationMin:  150,
		BatteryStart: 90,
		BatteryEnd:   21.5,
		EnergyUsed:   121,
		RouteTaken:   "Hyderabad -> Warangal",
		EVModelID:    1,
		CreatedAt:    createdAt,
	}
}

func TestMemoryStorage_CreateTrip(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	trip := testTrip("trip-1", "guest_user", time.Now())

	err := storage.CreateTrip(ctx, trip)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Try to create the same trip again - should fail
	err = storage.CreateTrip(ctx, trip)
	if err == nil {
		t.Fatal("Expected error when creating duplicate trip")
	}
}

func TestMemoryStorage_GetTrip(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	storage.CreateTrip(ctx, testTrip("trip-1", "guest_user", time.Now()))

	retrieved, err := storage.GetTrip(ctx, "trip-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if retrieved.Source != "Hyderabad" {
		t.Errorf("Expected source 'Hyderabad', got %s", retrieved.Source)
	}

	_, err = storage.GetTrip(ctx, "non-existent")
	if !errors.Is(err, ErrTripNotFound) {
		t.Errorf("Expected ErrTripNotFound, got %v", err)
	}
}

func TestMemoryStorage_ListTrips(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	storage.CreateTrip(ctx, testTrip("trip-2", "alice", base.Add(time.Hour)))
	storage.CreateTrip(ctx, testTrip("trip-1", "alice", base))
	storage.CreateTrip(ctx, testTrip("trip-3", "bob", base.Add(2*time.Hour)))

	all, err := storage.ListTrips(ctx, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 trips, got %d", len(all))
	}
	if all[0].ID != "trip-1" || all[2].ID != "trip-3" {
		t.Errorf("Expected trips ordered by creation time, got %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
	}

	filtered, err := storage.ListTrips(ctx, "alice")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("Expected 2 trips for alice, got %d", len(filtered))
	}
	for _, trip := range filtered {
		if trip.UserID != "alice" {
			t.Errorf("Expected only alice's trips, got one for %s", trip.UserID)
		}
	}
}

func TestMemoryStorage_GetModel(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	model, err := storage.GetModel(ctx, 1)
	if err != nil {
		t.Fatalf("Expected seeded model 1, got error: %v", err)
	}
	if model.ModelName != "Tata Nexon EV" {
		t.Errorf("Expected 'Tata Nexon EV', got %s", model.ModelName)
	}

	_, err = storage.GetModel(ctx, 999)
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Expected ErrModelNotFound, got %v", err)
	}
}

func TestMemoryStorage_FindModelByName(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	model, err := storage.FindModelByName(ctx, "  kona ")
	if err != nil {
		t.Fatalf("Expected a match, got error: %v", err)
	}
	if model.ModelName != "Hyundai Kona Electric" {
		t.Errorf("Expected 'Hyundai Kona Electric', got %s", model.ModelName)
	}

	// Multiple matches resolve to the lowest model ID.
	storage.AddModel(&EVModel{ID: 9, ModelName: "Tata Nexon EV Max", MaxRangeKm: 437})
	model, err = storage.FindModelByName(ctx, "nexon")
	if err != nil {
		t.Fatalf("Expected a match, got error: %v", err)
	}
	if model.ID != 1 {
		t.Errorf("Expected model 1 to win, got %d", model.ID)
	}

	_, err = storage.FindModelByName(ctx, "cybertruck")
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Expected ErrModelNotFound, got %v", err)
	}
}

func TestMemoryStorage_ListModels(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	models, err := storage.ListModels(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(models) != 4 {
		t.Fatalf("Expected 4 seeded models, got %d", len(models))
	}

	for i := 1; i < len(models); i++ {
		if models[i-1].ModelName > models[i].ModelName {
			t.Errorf("Expected models ordered by name, got %s before %s", models[i-1].ModelName, models[i].ModelName)
		}
	}
}
