package clusters

import (
	"context"

	"github.com/UnknownOlympus/heatmap/internal/models"
)

// Query describes one request to the optimized clustering endpoint.
type Query struct {
	Zoom        float64                // grouped zoom level
	Bounds      *models.ViewportBounds // optional; nil asks for the whole radius
	RadiusKm    float64
	MaxClusters int
}

// HeatmapQuery describes one request for raw density samples around a center.
type HeatmapQuery struct {
	Center   models.GeoCoordinate
	RadiusKm float64
}

// Provider is the boundary to the remote clustering service.
// A failed call returns no data so callers can keep their previous state untouched.
type Provider interface {
	FetchClusters(ctx context.Context, query Query) ([]models.ClusterSummary, error)
	FetchHeatmap(ctx context.Context, query HeatmapQuery) ([]models.HeatmapPoint, error)
}
