package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"trip-planner-service/internal/storage"
)

// ErrNoRangeData means a model record carries neither a rated range nor the
// capacity and consumption figures needed to derive one.
var ErrNoRangeData = errors.New("ev model has no range data")

// ResolveModel looks up an EV model by ID when one is given, otherwise by a
// partial name match. Requests naming neither are rejected.
func (p *PlannerService) ResolveModel(ctx context.Context, modelID int, modelName string) (*storage.EVModel, error) {
	if modelID > 0 {
		return p.models.GetModel(ctx, modelID)
	}
	if strings.TrimSpace(modelName) != "" {
		return p.models.FindModelByName(ctx, modelName)
	}
	return nil, storage.ErrModelNotFound
}

// ListModels returns the EV model catalog ordered by name.
func (p *PlannerService) ListModels(ctx context.Context) ([]*storage.EVModel, error) {
	return p.models.ListModels(ctx)
}

// ComputeRange converts a model's specs and the current charge into usable
// range in kilometers. A rated maximum range wins when present; otherwise the
// range is derived from battery capacity over average consumption. The charge
// percentage is clamped to [0, 100].
func ComputeRange(model *storage.EVModel, batteryPercent float64) (float64, error) {
	var baseRange float64
	switch {
	case model.MaxRangeKm > 0:
		baseRange = model.MaxRangeKm
	case model.BatteryCapacityKWh > 0 && model.AvgConsumption > 0:
		baseRange = model.BatteryCapacityKWh / model.AvgConsumption
	default:
		return 0, ErrNoRangeData
	}

	percent := math.Max(0, math.Min(100, batteryPercent))
	return baseRange * percent / 100, nil
}
