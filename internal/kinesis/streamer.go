package kinesis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"trip-planner-service/internal/storage"

	"github.com/aws/aws-sdk-go-v2/service/kinesis"
)

type Streamer struct {
	client     *kinesis.Client
	streamName string
}

type TripEvent struct {
	TripID       string    `json:"trip_id"`
	EventType    string    `json:"event_type"` // created
	Timestamp    time.Time `json:"timestamp"`
	UserID       string    `json:"user_id"`
	Source       string    `json:"source"`
	Destination  string    `json:"destination"`
	DistanceKm   float64   `json:"distance_km"`
	BatteryStart float64   `json:"battery_start"`
	BatteryEnd   float64   `json:"battery_end"`
}

type PlanEvent struct {
	EventType       string    `json:"event_type"` // planned
	Timestamp       time.Time `json:"timestamp"`
	Status          string    `json:"status"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	TotalDistanceKm float64   `json:"total_distance_km"`
	RangeKm         float64   `json:"range_km"`
}

func NewStreamer(client *kinesis.Client, streamName string) *Streamer {
	return &Streamer{
		client:     client,
		streamName: streamName,
	}
}

func (s *Streamer) StreamTripEvent(eventType string, trip *storage.Trip) {
	if s.client == nil {
		return // Kinesis not enabled
	}

	event := TripEvent{
		TripID:       trip.ID,
		EventType:    eventType,
		Timestamp:    time.Now().UTC(),
		UserID:       trip.UserID,
		Source:       trip.Source,
		Destination:  trip.Destination,
		DistanceKm:   trip.DistanceKm,
		BatteryStart: trip.BatteryStart,
		BatteryEnd:   trip.BatteryEnd,
	}

	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal trip event", "trip_id", trip.ID, "error", err)
		return
	}

	_, err = s.client.PutRecord(context.TODO(), &kinesis.PutRecordInput{
		StreamName:   &s.streamName,
		Data:         data,
		PartitionKey: &trip.ID,
	})

	if err != nil {
		slog.Error("Failed to stream trip event", "trip_id", trip.ID, "event_type", eventType, "error", err)
	} else {
		slog.Debug("Streamed trip event", "trip_id", trip.ID, "event_type", eventType)
	}
}

func (s *Streamer) StreamPlanEvent(status, origin, destination string, totalDistanceKm, rangeKm float64) {
	if s.client == nil {
		return // Kinesis not enabled
	}

	event := PlanEvent{
		EventType:       "planned",
		Timestamp:       time.Now().UTC(),
		Status:          status,
		Origin:          origin,
		Destination:     destination,
		TotalDistanceKm: totalDistanceKm,
		RangeKm:         rangeKm,
	}

	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal plan event", "origin", origin, "error", err)
		return
	}

	_, err = s.client.PutRecord(context.TODO(), &kinesis.PutRecordInput{
		StreamName:   &s.streamName,
		Data:         data,
		PartitionKey: &event.Origin,
	})

	if err != nil {
		slog.Error("Failed to stream plan event", "origin", origin, "status", status, "error", err)
	} else {
		slog.Debug("Streamed plan event", "origin", origin, "status", status)
	}
}
