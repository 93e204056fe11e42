package clusters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/UnknownOlympus/heatmap/internal/models"
)

// ErrEmptyFixture is returned when a fixture file holds no clusters and no heatmap points.
var ErrEmptyFixture = errors.New("cluster fixture is empty")

// Fixture is the on-disk format read by StaticProvider.
type Fixture struct {
	Clusters []models.ClusterSummary `json:"clusters"`
	Heatmap  []models.HeatmapPoint   `json:"heatmap"`
}

// StaticProvider serves clusters from a fixture, for offline runs and demos.
// Clusters outside the queried bounds are filtered and MaxClusters is honoured.
type StaticProvider struct {
	fixture Fixture
	log     *slog.Logger
}

// NewStaticProvider creates a provider over an in-memory fixture.
func NewStaticProvider(fixture Fixture, log *slog.Logger) *StaticProvider {
	return &StaticProvider{fixture: fixture, log: log}
}

// LoadFixture reads a JSON fixture file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	var fixture Fixture
	if err = json.Unmarshal(data, &fixture); err != nil {
		return Fixture{}, fmt.Errorf("failed to decode fixture %s: %w", path, err)
	}
	if len(fixture.Clusters) == 0 && len(fixture.Heatmap) == 0 {
		return Fixture{}, ErrEmptyFixture
	}

	return fixture, nil
}

func (sp *StaticProvider) FetchClusters(ctx context.Context, query Query) ([]models.ClusterSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	result := make([]models.ClusterSummary, 0, len(sp.fixture.Clusters))
	for _, c := range sp.fixture.Clusters {
		if query.Bounds != nil && !query.Bounds.Contains(c.Position) {
			continue
		}
		if query.MaxClusters > 0 && len(result) >= query.MaxClusters {
			break
		}
		result = append(result, c.Clone())
	}

	sp.log.DebugContext(ctx, "Serving clusters from fixture", "count", len(result), "zoom", query.Zoom)

	return result, nil
}

func (sp *StaticProvider) FetchHeatmap(ctx context.Context, query HeatmapQuery) ([]models.HeatmapPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	radiusMeters := query.RadiusKm * 1000
	result := make([]models.HeatmapPoint, 0, len(sp.fixture.Heatmap))
	for _, p := range sp.fixture.Heatmap {
		if radiusMeters > 0 && query.Center.DistanceMeters(p.Position) > radiusMeters {
			continue
		}
		result = append(result, p)
	}

	return result, nil
}
