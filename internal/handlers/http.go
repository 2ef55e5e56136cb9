package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"trip-planner-service/internal/geo"
	"trip-planner-service/internal/service"
	"trip-planner-service/internal/storage"

	"github.com/gorilla/mux"
)

// HTTPHandler handles HTTP requests for the trip planner service
type HTTPHandler struct {
	planner       *service.PlannerService
	mapsAPIOnline bool
	storageType   string
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(planner *service.PlannerService, mapsAPIConfigured bool, storageType string) *HTTPHandler {
	return &HTTPHandler{
		planner:       planner,
		mapsAPIOnline: mapsAPIConfigured,
		storageType:   storageType,
	}
}

// RegisterRoutes sets up HTTP routes
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Health).Methods("GET")
	router.HandleFunc("/health", h.Health).Methods("GET")
	router.HandleFunc("/predict-route", h.PredictRoute).Methods("POST")
	router.HandleFunc("/trip", h.CreateTrip).Methods("POST")
	router.HandleFunc("/trip/{trip_id}", h.GetTrip).Methods("GET")
	router.HandleFunc("/trips", h.GetTrips).Methods("GET")
	router.HandleFunc("/nearest-charging-stations", h.NearestChargingStations).Methods("GET")
	router.HandleFunc("/ev-models", h.GetEVModels).Methods("GET")
}

// Health returns service health and configuration status
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	googleMapsAPI := "missing"
	if h.mapsAPIOnline {
		googleMapsAPI = "configured"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "EV trip planner backend running",
		"status":  "healthy",
		"config": map[string]string{
			"google_maps_api": googleMapsAPI,
			"storage":         h.storageType,
		},
	})
}

// PredictRoute plans a range-feasible route for an EV model and battery level
func (h *HTTPHandler) PredictRoute(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FromLocation   string  `json:"from_location"`
		ToLocation     string  `json:"to_location"`
		EVModelID      int     `json:"ev_model_id"`
		EVModelName    string  `json:"ev_model_name"`
		BatteryPercent float64 `json:"battery_percent"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if input.FromLocation == "" || input.ToLocation == "" {
		http.Error(w, "from_location and to_location are required", http.StatusBadRequest)
		return
	}

	slog.Info("Route prediction request received",
		"from", input.FromLocation,
		"to", input.ToLocation,
		"ev_model_id", input.EVModelID,
		"ev_model_name", input.EVModelName,
		"battery_percent", input.BatteryPercent)

	model, err := h.planner.ResolveModel(r.Context(), input.EVModelID, input.EVModelName)
	if errors.Is(err, storage.ErrModelNotFound) {
		http.Error(w, "EV model not found", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rangeKm, err := service.ComputeRange(model, input.BatteryPercent)
	if err != nil {
		http.Error(w, "Unable to compute range from model data", http.StatusBadRequest)
		return
	}
	if rangeKm <= 0 {
		http.Error(w, "Battery level too low to plan a route", http.StatusBadRequest)
		return
	}

	result, err := h.planner.PlanTrip(r.Context(), input.FromLocation, input.ToLocation, rangeKm)
	if err != nil {
		slog.Error("Route prediction failed",
			"from", input.FromLocation,
			"to", input.ToLocation,
			"error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// CreateTrip records a completed trip with its battery projection
func (h *HTTPHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID         string  `json:"user_id"`
		FromLocation   string  `json:"from_location"`
		ToLocation     string  `json:"to_location"`
		BatteryPercent float64 `json:"battery_percent"`
		EVModelID      int     `json:"ev_model_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if input.FromLocation == "" || input.ToLocation == "" {
		http.Error(w, "from_location and to_location are required", http.StatusBadRequest)
		return
	}
	if input.UserID == "" {
		input.UserID = "guest_user"
	}
	if input.EVModelID == 0 {
		input.EVModelID = 1
	}

	trip, err := h.planner.RecordTrip(r.Context(), service.RecordTripInput{
		UserID:         input.UserID,
		FromLocation:   input.FromLocation,
		ToLocation:     input.ToLocation,
		BatteryPercent: input.BatteryPercent,
		EVModelID:      input.EVModelID,
	})
	if err != nil {
		slog.Error("Trip recording failed",
			"user_id", input.UserID,
			"from", input.FromLocation,
			"to", input.ToLocation,
			"error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       "success",
		"trip_id":      trip.ID,
		"distance_km":  trip.DistanceKm,
		"duration_min": trip.DurationMin,
		"battery_end":  trip.BatteryEnd,
		"energy_used":  trip.EnergyUsed,
	})
}

// GetTrip returns a single recorded trip by ID
func (h *HTTPHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["trip_id"]

	trip, err := h.planner.GetTrip(r.Context(), tripID)
	if errors.Is(err, storage.ErrTripNotFound) {
		http.Error(w, "Trip not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trip)
}

// GetTrips returns recorded trips, optionally filtered by user
func (h *HTTPHandler) GetTrips(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	trips, err := h.planner.ListTrips(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"trips": trips})
}

// NearestChargingStations finds charging stations around a point
func (h *HTTPHandler) NearestChargingStations(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")
	radiusStr := r.URL.Query().Get("radius")

	if latStr == "" || lngStr == "" {
		http.Error(w, "Missing required parameters", http.StatusBadRequest)
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		http.Error(w, "Invalid latitude", http.StatusBadRequest)
		return
	}

	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		http.Error(w, "Invalid longitude", http.StatusBadRequest)
		return
	}

	radius := 5000
	if radiusStr != "" {
		radius, err = strconv.Atoi(radiusStr)
		if err != nil {
			http.Error(w, "Invalid radius", http.StatusBadRequest)
			return
		}
	}

	stations, err := h.planner.NearbyStations(r.Context(), geo.Coordinate{Lat: lat, Lng: lng}, radius)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	top := stations
	if len(top) > 5 {
		top = top[:5]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count":              len(stations),
		"radius_used_meters": radius,
		"stations":           top,
	})
}

// GetEVModels returns the EV model catalog
func (h *HTTPHandler) GetEVModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.planner.ListModels(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"models": models})
}
