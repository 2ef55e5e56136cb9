package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trip-planner-service/internal/geo"
	"trip-planner-service/internal/routing"
)

// DefaultBaseURL is the production Google Maps web service endpoint.
const DefaultBaseURL = "https://maps.googleapis.com"

// Common errors
var (
	ErrNoRoute = errors.New("no route found between locations")
)

// ChargingStation is one charging point of interest returned by the places
// provider. PlaceID is the provider-side identity used for deduplication.
type ChargingStation struct {
	PlaceID string  `json:"place_id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Rating  float64 `json:"rating"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// RouteSummary is the distance and duration of a route's primary leg.
type RouteSummary struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
}

// Client handles communication with the Google Maps web services
// (Directions and Places Nearby Search).
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new maps client. Pass DefaultBaseURL outside of tests.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type textValue struct {
	Value float64 `json:"value"`
}

// directionsResponse mirrors the fields read from the Directions API.
type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance textValue `json:"distance"`
			Duration textValue `json:"duration"`
			Steps    []struct {
				StartLocation latLng    `json:"start_location"`
				EndLocation   latLng    `json:"end_location"`
				Distance      textValue `json:"distance"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// placesResponse mirrors the fields read from the Places Nearby Search API.
type placesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name     string  `json:"name"`
		Vicinity string  `json:"vicinity"`
		Rating   float64 `json:"rating"`
		PlaceID  string  `json:"place_id"`
		Geometry struct {
			Location latLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Segments returns the step segments of the primary route between two
// locations. Each step carries its snapped start and end coordinates and the
// road distance between them in kilometers.
func (c *Client) Segments(ctx context.Context, origin, destination string) ([]routing.Segment, error) {
	data, err := c.directions(ctx, origin, destination)
	if err != nil {
		return nil, err
	}

	steps := data.Routes[0].Legs[0].Steps
	if len(steps) == 0 {
		return nil, ErrNoRoute
	}

	segments := make([]routing.Segment, 0, len(steps))
	for _, step := range steps {
		segments = append(segments, routing.Segment{
			Start:      geo.Coordinate{Lat: step.StartLocation.Lat, Lng: step.StartLocation.Lng},
			End:        geo.Coordinate{Lat: step.EndLocation.Lat, Lng: step.EndLocation.Lng},
			DistanceKm: step.Distance.Value / 1000,
		})
	}
	return segments, nil
}

// Route returns the overall distance and duration of the primary route leg.
func (c *Client) Route(ctx context.Context, origin, destination string) (*RouteSummary, error) {
	data, err := c.directions(ctx, origin, destination)
	if err != nil {
		return nil, err
	}

	leg := data.Routes[0].Legs[0]
	return &RouteSummary{
		DistanceKm:  leg.Distance.Value / 1000,
		DurationMin: leg.Duration.Value / 60,
	}, nil
}

func (c *Client) directions(ctx context.Context, origin, destination string) (*directionsResponse, error) {
	params := url.Values{}
	params.Add("origin", origin)
	params.Add("destination", destination)
	params.Add("key", c.apiKey)

	url := fmt.Sprintf("%s/maps/api/directions/json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions API returned status %d", resp.StatusCode)
	}

	var data directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	if data.Status != "OK" {
		return nil, fmt.Errorf("directions API error: %s", data.Status)
	}
	if len(data.Routes) == 0 || len(data.Routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}

	return &data, nil
}

// NearbyChargers searches for EV charging stations around a point. A
// ZERO_RESULTS response yields an empty slice; any other non-OK provider
// status is an error.
func (c *Client) NearbyChargers(ctx context.Context, center geo.Coordinate, radiusMeters int) ([]ChargingStation, error) {
	params := url.Values{}
	params.Add("location", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(center.Lat, 'f', 6, 64),
		strconv.FormatFloat(center.Lng, 'f', 6, 64)))
	params.Add("radius", strconv.Itoa(radiusMeters))
	params.Add("keyword", "EV charging station")
	params.Add("key", c.apiKey)

	url := fmt.Sprintf("%s/maps/api/place/nearbysearch/json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API returned status %d", resp.StatusCode)
	}

	var data placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	if data.Status != "OK" && data.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places API error: %s", data.Status)
	}

	stations := make([]ChargingStation, 0, len(data.Results))
	for _, r := range data.Results {
		stations = append(stations, ChargingStation{
			PlaceID: r.PlaceID,
			Name:    r.Name,
			Address: r.Vicinity,
			Rating:  r.Rating,
			Lat:     r.Geometry.Location.Lat,
			Lng:     r.Geometry.Location.Lng,
		})
	}
	return stations, nil
}
