package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStorage implements TripStorage and ModelStorage backed by
// PostgreSQL tables `trips` and `ev_models`.
type PostgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage opens a pooled connection to the database and verifies
// it with a ping.
func NewPostgresStorage(databaseURL string) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStorage{db: db}, nil
}

// Close closes the database connection
func (p *PostgresStorage) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *PostgresStorage) CreateTrip(ctx context.Context, trip *Trip) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO trips (trip_id, user_id, source, destination, distance, duration, battery_start, battery_end, energy_used, route_taken, ev_model_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		trip.ID, trip.UserID, trip.Source, trip.Destination, trip.DistanceKm,
		trip.DurationMin, trip.BatteryStart, trip.BatteryEnd, trip.EnergyUsed,
		trip.RouteTaken, trip.EVModelID, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

func (p *PostgresStorage) GetTrip(ctx context.Context, tripID string) (*Trip, error) {
	var trip Trip
	err := p.db.QueryRowContext(ctx,
		`SELECT trip_id, user_id, source, destination, distance, duration, battery_start, battery_end, energy_used, route_taken, ev_model_id, created_at
		 FROM trips WHERE trip_id = $1`,
		tripID,
	).Scan(&trip.ID, &trip.UserID, &trip.Source, &trip.Destination,
		&trip.DistanceKm, &trip.DurationMin, &trip.BatteryStart,
		&trip.BatteryEnd, &trip.EnergyUsed, &trip.RouteTaken,
		&trip.EVModelID, &trip.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return &trip, nil
}

func (p *PostgresStorage) ListTrips(ctx context.Context, userID string) ([]*Trip, error) {
	query := `SELECT trip_id, user_id, source, destination, distance, duration, battery_start, battery_end, energy_used, route_taken, ev_model_id, created_at
	          FROM trips`
	args := []interface{}{}
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		var trip Trip
		if err := rows.Scan(&trip.ID, &trip.UserID, &trip.Source, &trip.Destination,
			&trip.DistanceKm, &trip.DurationMin, &trip.BatteryStart,
			&trip.BatteryEnd, &trip.EnergyUsed, &trip.RouteTaken,
			&trip.EVModelID, &trip.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, &trip)
	}

	return trips, rows.Err()
}

func (p *PostgresStorage) GetModel(ctx context.Context, modelID int) (*EVModel, error) {
	var model EVModel
	err := p.db.QueryRowContext(ctx,
		`SELECT ev_model_id, model_name, COALESCE(max_range, 0), COALESCE(battery_capacity, 0), COALESCE(avg_consumption, 0)
		 FROM ev_models WHERE ev_model_id = $1`,
		modelID,
	).Scan(&model.ID, &model.ModelName, &model.MaxRangeKm,
		&model.BatteryCapacityKWh, &model.AvgConsumption)

	if err == sql.ErrNoRows {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ev model: %w", err)
	}

	return &model, nil
}

func (p *PostgresStorage) FindModelByName(ctx context.Context, name string) (*EVModel, error) {
	var model EVModel
	err := p.db.QueryRowContext(ctx,
		`SELECT ev_model_id, model_name, COALESCE(max_range, 0), COALESCE(battery_capacity, 0), COALESCE(avg_consumption, 0)
		 FROM ev_models WHERE model_name ILIKE '%' || $1 || '%'
		 ORDER BY ev_model_id LIMIT 1`,
		name,
	).Scan(&model.ID, &model.ModelName, &model.MaxRangeKm,
		&model.BatteryCapacityKWh, &model.AvgConsumption)

	if err == sql.ErrNoRows {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ev model: %w", err)
	}

	return &model, nil
}

func (p *PostgresStorage) ListModels(ctx context.Context) ([]*EVModel, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT ev_model_id, model_name, COALESCE(max_range, 0), COALESCE(battery_capacity, 0), COALESCE(avg_consumption, 0)
		 FROM ev_models ORDER BY model_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ev models: %w", err)
	}
	defer rows.Close()

	var models []*EVModel
	for rows.Next() {
		var model EVModel
		if err := rows.Scan(&model.ID, &model.ModelName, &model.MaxRangeKm,
			&model.BatteryCapacityKWh, &model.AvgConsumption); err != nil {
			return nil, fmt.Errorf("failed to scan ev model: %w", err)
		}
		models = append(models, &model)
	}

	return models, rows.Err()
}
