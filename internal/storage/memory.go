package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStorage implements TripStorage and ModelStorage using in-memory maps
type MemoryStorage struct {
	trips  map[string]*Trip
	models map[int]*EVModel
	mu     sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage instance pre-seeded with
// a small EV model catalog so the service is usable without external stores.
func NewMemoryStorage() *MemoryStorage {
	s := &MemoryStorage{
		trips:  make(map[string]*Trip),
		models: make(map[int]*EVModel),
	}
	for _, model := range defaultModels() {
		s.models[model.ID] = model
	}
	return s
}

func defaultModels() []*EVModel {
	return []*EVModel{
		{ID: 1, ModelName: "Tata Nexon EV", MaxRangeKm: 312},
		{ID: 2, ModelName: "MG ZS EV", MaxRangeKm: 461},
		{ID: 3, ModelName: "Hyundai Kona Electric", BatteryCapacityKWh: 39.2, AvgConsumption: 0.147},
		{ID: 4, ModelName: "Mahindra XUV400", MaxRangeKm: 456},
	}
}

func (m *MemoryStorage) CreateTrip(ctx context.Context, trip *Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.trips[trip.ID]; exists {
		return fmt.Errorf("trip %s already exists", trip.ID)
	}

	m.trips[trip.ID] = trip
	return nil
}

func (m *MemoryStorage) GetTrip(ctx context.Context, tripID string) (*Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trip, exists := m.trips[tripID]
	if !exists {
		return nil, ErrTripNotFound
	}

	return trip, nil
}

func (m *MemoryStorage) ListTrips(ctx context.Context, userID string) ([]*Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Trip
	for _, trip := range m.trips {
		if userID == "" || trip.UserID == userID {
			result = append(result, trip)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (m *MemoryStorage) GetModel(ctx context.Context, modelID int) (*EVModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	model, exists := m.models[modelID]
	if !exists {
		return nil, ErrModelNotFound
	}

	return model, nil
}

func (m *MemoryStorage) FindModelByName(ctx context.Context, name string) (*EVModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(name))

	// Walk IDs in ascending order so the first match is deterministic.
	ids := make([]int, 0, len(m.models))
	for id := range m.models {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		model := m.models[id]
		if strings.Contains(strings.ToLower(model.ModelName), needle) {
			return model, nil
		}
	}

	return nil, ErrModelNotFound
}

func (m *MemoryStorage) ListModels(ctx context.Context) ([]*EVModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*EVModel, 0, len(m.models))
	for _, model := range m.models {
		result = append(result, model)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ModelName < result[j].ModelName
	})

	return result, nil
}

// AddModel inserts or replaces a catalog entry. Used for seeding and tests.
func (m *MemoryStorage) AddModel(model *EVModel) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.models[model.ID] = model
}
