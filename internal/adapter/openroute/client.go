package openroute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
)

var domain = "https://api.openrouteservice.org"

// requestTimeout bounds every call so pricing can fall through to the
// offline tiers instead of hanging.
const requestTimeout = 10 * time.Second

type Client struct {
	apiKey string
	http   *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lng, lat]
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves a free-form address to a coordinate. Zero matches is
// types.ErrLocationNotFound; transport failures are returned as-is for
// the caller to decide. No retries here.
func (c *Client) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	const op = "openroute.Geocode"

	endpoint := fmt.Sprintf("%s/geocode/search?api_key=%s&text=%s&size=1",
		domain, c.apiKey, url.QueryEscape(address))

	var payload geocodeResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return models.Coordinate{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	if len(payload.Features) == 0 {
		return models.Coordinate{}, wrap.Error(ctx, types.ErrLocationNotFound)
	}

	coords := payload.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return models.Coordinate{}, wrap.Error(ctx, fmt.Errorf("%s: malformed geometry in response", op))
	}

	return models.Coordinate{Lat: coords[1], Lng: coords[0]}, nil
}

// ReverseGeocode returns a human-readable label for a coordinate. The
// caller is expected to fall back to a formatted "lat, lng" string on error.
func (c *Client) ReverseGeocode(ctx context.Context, coord models.Coordinate) (string, error) {
	const op = "openroute.ReverseGeocode"

	endpoint := fmt.Sprintf("%s/geocode/reverse?api_key=%s&point.lon=%f&point.lat=%f&size=1",
		domain, c.apiKey, coord.Lng, coord.Lat)

	var payload geocodeResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return "", wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	if len(payload.Features) == 0 {
		return "", wrap.Error(ctx, types.ErrLocationNotFound)
	}

	return payload.Features[0].Properties.Label, nil
}

type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Duration float64 `json:"duration"` // seconds
			Distance float64 `json:"distance"` // meters
		} `json:"summary"`
	} `json:"routes"`
}

// Route requests a driving route between two points and returns its
// duration in seconds and distance in meters.
func (c *Client) Route(ctx context.Context, pickup, dropoff models.Coordinate) (float64, float64, error) {
	const op = "openroute.Route"

	// ORS wants [lng, lat] pairs
	body, err := json.Marshal(directionsRequest{
		Coordinates: [][2]float64{
			{pickup.Lng, pickup.Lat},
			{dropoff.Lng, dropoff.Lat},
		},
	})
	if err != nil {
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: marshal request: %w", op, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		domain+"/v2/directions/driving-car", bytes.NewReader(body))
	if err != nil {
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: build request: %w", op, err))
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: request failed: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var payload directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: failed to decode response: %w", op, err))
	}

	if len(payload.Routes) == 0 {
		return 0, 0, wrap.Error(ctx, types.ErrRouteUnavailable)
	}

	summary := payload.Routes[0].Summary
	return summary.Duration, summary.Distance, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
