package clusters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/heatmap/internal/models"
	"golang.org/x/time/rate"
)

// Endpoint paths relative to the API base URL.
const (
	ClustersPath = "heatmap/clusters/optimized"
	HeatmapPath  = "heatmap/points"
)

// UserAgent identifies the client to the backend.
const UserAgent = "Heatmap-Client/1.0 (https://github.com/UnknownOlympus/heatmap)"

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPProvider implements Provider against the backend REST API.
type HTTPProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL of the backend API
	token   string        // Bearer token, optional
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// clusterResponse is one element of the clustering endpoint response.
type clusterResponse struct {
	ID                 string         `json:"id"`
	Lat                float64        `json:"lat"`
	Lng                float64        `json:"lng"`
	UserCount          int            `json:"userCount"`
	DensityScore       int            `json:"densityScore"`
	AverageAge         float64        `json:"averageAge"`
	GenderDistribution map[string]int `json:"genderDistribution"`
	AgeDistribution    map[string]int `json:"ageDistribution"`
	StatusBreakdown    map[string]int `json:"statusBreakdown"`
}

// heatmapResponse is one element of the heatmap points endpoint response.
type heatmapResponse struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Density   int     `json:"density"`
	UserCount int     `json:"userCount"`
}

// NewHTTPProvider creates a provider with a default HTTP client.
func NewHTTPProvider(baseURL, token string, rateLimit int, log *slog.Logger) *HTTPProvider {
	const timeout = 10

	return &HTTPProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: baseURL,
		token:   token,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}
}

// NewHTTPProviderWithClient allows injecting a custom HTTP client and limiter.
func NewHTTPProviderWithClient(
	client HTTPClient,
	baseURL, token string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *HTTPProvider {
	return &HTTPProvider{
		client:  client,
		baseURL: baseURL,
		token:   token,
		log:     log,
		limiter: limiter,
	}
}

// FetchClusters queries the optimized clustering endpoint.
// Malformed clusters are dropped; the order of the remaining ones is preserved.
func (hp *HTTPProvider) FetchClusters(ctx context.Context, query Query) ([]models.ClusterSummary, error) {
	params := url.Values{}
	params.Set("zoom", formatFloat(query.Zoom))
	params.Set("radiusKm", formatFloat(query.RadiusKm))
	if query.MaxClusters > 0 {
		params.Set("maxClusters", strconv.Itoa(query.MaxClusters))
	}
	if query.Bounds != nil {
		params.Set("north", formatFloat(query.Bounds.NorthEast.Latitude))
		params.Set("south", formatFloat(query.Bounds.SouthWest.Latitude))
		params.Set("east", formatFloat(query.Bounds.NorthEast.Longitude))
		params.Set("west", formatFloat(query.Bounds.SouthWest.Longitude))
	}

	var raw []clusterResponse
	if err := hp.get(ctx, ClustersPath, params, &raw); err != nil {
		return nil, err
	}

	return hp.sanitizeClusters(ctx, raw), nil
}

// FetchHeatmap queries the heatmap points endpoint.
func (hp *HTTPProvider) FetchHeatmap(ctx context.Context, query HeatmapQuery) ([]models.HeatmapPoint, error) {
	params := url.Values{}
	params.Set("lat", formatFloat(query.Center.Latitude))
	params.Set("lng", formatFloat(query.Center.Longitude))
	params.Set("radiusKm", formatFloat(query.RadiusKm))

	var raw []heatmapResponse
	if err := hp.get(ctx, HeatmapPath, params, &raw); err != nil {
		return nil, err
	}

	points := make([]models.HeatmapPoint, 0, len(raw))
	for _, p := range raw {
		pos := models.GeoCoordinate{Latitude: p.Lat, Longitude: p.Lng}
		if !pos.Valid() {
			hp.log.WarnContext(ctx, "Dropping heatmap point with invalid coordinates", "lat", p.Lat, "lng", p.Lng)
			continue
		}
		points = append(points, models.HeatmapPoint{Position: pos, Density: p.Density, UserCount: p.UserCount})
	}

	return points, nil
}

func (hp *HTTPProvider) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := hp.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limit wait: %w", ErrNetwork, err)
	}

	reqURL, err := url.JoinPath(hp.baseURL, path)
	if err != nil {
		return fmt.Errorf("failed to build URL for %s: %w", path, err)
	}
	reqURL += "?" + params.Encode()

	hp.log.DebugContext(ctx, "Cluster service request", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Headers
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if hp.token != "" {
		req.Header.Set("Authorization", "Bearer "+hp.token)
	}

	resp, err := hp.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNetwork, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrNetwork, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		hp.log.ErrorContext(ctx, "Cluster service error", "path", path, "status", resp.StatusCode, "body", string(body))
		return &ServiceError{Endpoint: path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err = json.Unmarshal(body, out); err != nil {
		hp.log.ErrorContext(ctx, "Failed to parse cluster service response", "error", err, "body", string(body))
		return fmt.Errorf("%w: failed to decode %s response: %w", ErrService, path, err)
	}

	return nil
}

func (hp *HTTPProvider) sanitizeClusters(ctx context.Context, raw []clusterResponse) []models.ClusterSummary {
	seen := make(map[string]bool, len(raw))
	result := make([]models.ClusterSummary, 0, len(raw))

	for _, c := range raw {
		pos := models.GeoCoordinate{Latitude: c.Lat, Longitude: c.Lng}
		switch {
		case c.ID == "":
			hp.log.WarnContext(ctx, "Dropping cluster without id")
			continue
		case seen[c.ID]:
			hp.log.WarnContext(ctx, "Dropping duplicate cluster", "id", c.ID)
			continue
		case !pos.Valid():
			hp.log.WarnContext(ctx, "Dropping cluster with invalid coordinates", "id", c.ID, "lat", c.Lat, "lng", c.Lng)
			continue
		case c.UserCount < 0:
			hp.log.WarnContext(ctx, "Dropping cluster with negative user count", "id", c.ID, "count", c.UserCount)
			continue
		}
		seen[c.ID] = true

		summary := models.ClusterSummary{
			ID:                 c.ID,
			Position:           pos,
			UserCount:          c.UserCount,
			DensityScore:       c.DensityScore,
			StatusBreakdown:    c.StatusBreakdown,
			AverageAge:         c.AverageAge,
			GenderDistribution: c.GenderDistribution,
			AgeDistribution:    c.AgeDistribution,
		}
		if total := summary.BreakdownTotal(); len(c.StatusBreakdown) > 0 && total != c.UserCount {
			hp.log.DebugContext(ctx, "Cluster status breakdown does not add up",
				"id", c.ID, "user_count", c.UserCount, "breakdown_total", total)
		}
		result = append(result, summary)
	}

	return result
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
