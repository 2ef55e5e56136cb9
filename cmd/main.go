package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"trip-planner-service/internal/handlers"
	"trip-planner-service/internal/kinesis"
	"trip-planner-service/internal/maps"
	"trip-planner-service/internal/routing"
	"trip-planner-service/internal/service"
	"trip-planner-service/internal/storage"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	kinesisService "github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Setup structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	// Get configuration from environment
	port := getEnv("PORT", "8000")
	apiKey := getEnv("GOOGLE_MAPS_API_KEY", "")
	storageType := getEnv("STORAGE_TYPE", "memory")

	if apiKey == "" {
		slog.Warn("GOOGLE_MAPS_API_KEY not set, route and charger lookups will fail")
	}

	// Initialize storage based on configuration
	var tripStorage storage.TripStorage
	var modelStorage storage.ModelStorage

	switch storageType {
	case "dynamodb":
		tripsTable := getEnv("DYNAMODB_TRIPS_TABLE", "ev-trips")
		modelsTable := getEnv("DYNAMODB_EV_MODELS_TABLE", "ev-models")
		region := getEnv("AWS_REGION", "us-west-2")

		cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
		if err != nil {
			slog.Error("Failed to load AWS config", "error", err)
			os.Exit(1)
		}

		dynamoClient := dynamodb.NewFromConfig(cfg)
		dynamoStorage := storage.NewDynamoDBStorage(dynamoClient, tripsTable, modelsTable)
		tripStorage = dynamoStorage
		modelStorage = dynamoStorage
		slog.Info("Using DynamoDB storage", "trips_table", tripsTable, "models_table", modelsTable)
	case "postgres":
		databaseURL := getEnv("DATABASE_URL", "")
		if databaseURL == "" {
			slog.Error("DATABASE_URL environment variable not set")
			os.Exit(1)
		}

		postgresStorage, err := storage.NewPostgresStorage(databaseURL)
		if err != nil {
			slog.Error("Failed to connect to Postgres", "error", err)
			os.Exit(1)
		}
		defer postgresStorage.Close()
		tripStorage = postgresStorage
		modelStorage = postgresStorage
		slog.Info("Using Postgres storage")
	default:
		memoryStorage := storage.NewMemoryStorage()
		tripStorage = memoryStorage
		modelStorage = memoryStorage
		slog.Info("Using in-memory storage")
	}

	// The Google Maps client serves both directions and places lookups
	mapsClient := maps.NewClient(maps.DefaultBaseURL, apiKey)

	// Planner configuration
	plannerConfig := service.DefaultPlannerConfig()
	plannerConfig.SampleIntervalKm = getEnvFloat("ROUTE_SAMPLE_INTERVAL_KM", plannerConfig.SampleIntervalKm)
	plannerConfig.RouteChargerRadiusM = getEnvInt("CHARGER_SEARCH_RADIUS_M", plannerConfig.RouteChargerRadiusM)
	if getEnv("SEARCH_MODE", "edge") == "cumulative" {
		plannerConfig.Mode = routing.ModeCumulative
	}

	// Initialize service
	plannerService := service.NewPlannerService(mapsClient, mapsClient, tripStorage, modelStorage, plannerConfig)

	// Initialize Kinesis streamer if stream name is provided
	if streamName := getEnv("KINESIS_TRIP_EVENTS_STREAM", ""); streamName != "" {
		cfg, err := config.LoadDefaultConfig(context.TODO())
		if err != nil {
			slog.Warn("Failed to load AWS config for Kinesis", "error", err)
		} else {
			kinesisClient := kinesisService.NewFromConfig(cfg)
			streamer := kinesis.NewStreamer(kinesisClient, streamName)
			plannerService.SetKinesisStreamer(streamer)
			slog.Info("Kinesis trip event streaming enabled", "stream", streamName)
		}
	}

	// Initialize HTTP handlers
	httpHandler := handlers.NewHTTPHandler(plannerService, apiKey != "", storageType)

	// Setup routes
	router := mux.NewRouter()

	// Use path prefix if running behind load balancer
	pathPrefix := os.Getenv("PATH_PREFIX")
	if pathPrefix != "" {
		plannerRouter := router.PathPrefix(pathPrefix).Subrouter()
		httpHandler.RegisterRoutes(plannerRouter)
	} else {
		httpHandler.RegisterRoutes(router)
	}

	// Add CORS middleware for frontend
	router.Use(corsMiddleware)

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Setup graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("Trip planner service starting", "port", port, "storage", storageType)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Trip planner service failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-c
	slog.Info("Trip planner service shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer from environment variable
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Invalid integer, using default", "key", key, "provided", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvFloat gets a float from environment variable
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Warn("Invalid number, using default", "key", key, "provided", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}

// corsMiddleware adds CORS headers for frontend access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
