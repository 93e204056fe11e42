package location

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/UnknownOlympus/heatmap/internal/models"
	"golang.org/x/time/rate"
)

// UpdatePath is the user-location endpoint relative to the API base URL.
const UpdatePath = "users/location"

// ErrInvalidCoordinates is returned when asked to push an out-of-range coordinate.
var ErrInvalidCoordinates = errors.New("coordinates out of range")

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPUpdater pushes the device location to the backend REST API.
type HTTPUpdater struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL of the backend API
	token   string        // Bearer token, optional
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

type updateRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewHTTPUpdater creates an updater with a default HTTP client.
// Pushes are limited to one every ten seconds with a burst of one.
func NewHTTPUpdater(baseURL, token string, log *slog.Logger) *HTTPUpdater {
	const timeout = 10

	return &HTTPUpdater{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: baseURL,
		token:   token,
		log:     log,
		limiter: rate.NewLimiter(rate.Every(timeout*time.Second), 1),
	}
}

// NewHTTPUpdaterWithClient creates an updater with a custom HTTP client and limiter.
// Useful for testing with mocked HTTP clients.
func NewHTTPUpdaterWithClient(
	client HTTPClient,
	baseURL, token string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *HTTPUpdater {
	return &HTTPUpdater{
		client:  client,
		baseURL: baseURL,
		token:   token,
		log:     log,
		limiter: limiter,
	}
}

// UpdateLocation posts the coordinates. Pushes over the rate limit are dropped, not queued.
func (hu *HTTPUpdater) UpdateLocation(ctx context.Context, coords models.GeoCoordinate) error {
	if !coords.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidCoordinates, coords)
	}

	if !hu.limiter.Allow() {
		hu.log.DebugContext(ctx, "Location push throttled", "coords", coords.String())
		return nil
	}

	reqURL, err := url.JoinPath(hu.baseURL, UpdatePath)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	payload, err := json.Marshal(updateRequest(coords))
	if err != nil {
		return fmt.Errorf("failed to encode location: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if hu.token != "" {
		req.Header.Set("Authorization", "Bearer "+hu.token)
	}

	resp, err := hu.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute location update: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("location update returned status %d: %s", resp.StatusCode, string(body))
	}

	hu.log.DebugContext(ctx, "Location pushed", "coords", coords.String())

	return nil
}
