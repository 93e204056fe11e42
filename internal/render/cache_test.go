package render_test

import (
	"testing"

	"github.com/UnknownOlympus/heatmap/internal/metrics"
	"github.com/UnknownOlympus/heatmap/internal/models"
	"github.com/UnknownOlympus/heatmap/internal/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (*render.Cache, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics(prometheus.NewRegistry())

	return render.NewCache(m), m
}

func johannesburg() *models.GeoCoordinate {
	return &models.GeoCoordinate{Latitude: -26.20, Longitude: 28.05}
}

func baseState() models.DisplayState {
	return models.DisplayState{
		RadiusKm:     50,
		ZoomLevel:    11,
		UserLocation: johannesburg(),
		Status:       models.StatusReady,
	}
}

func TestCache_SingleCoverageCircle(t *testing.T) {
	cache, _ := newCache(t)
	state := baseState()
	state.LastClusters = []models.ClusterSummary{}

	circles := cache.Circles(state)

	require.Len(t, circles, 1)
	assert.Equal(t, models.CircleCoverage, circles[0].Kind)
	assert.InDelta(t, 50000.0, circles[0].RadiusMeters, 0.001)
	assert.Equal(t, *johannesburg(), circles[0].Center)
	assert.Empty(t, cache.Frame(state).Markers)
}

func TestCache_ReferenceStableOnUnchangedState(t *testing.T) {
	cache, m := newCache(t)
	state := baseState()

	first := cache.Frame(state)
	second := cache.Frame(state)

	assert.Same(t, first, second)
	assert.Same(t, &first.Circles[0], &cache.Circles(state)[0])
	assert.InDelta(t, 1, testutil.ToFloat64(m.RenderCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.RenderCache.WithLabelValues("hit")), 0)
}

func TestCache_Invalidation(t *testing.T) {
	t.Run("zoom change keeps the frame", func(t *testing.T) {
		cache, _ := newCache(t)
		state := baseState()
		first := cache.Frame(state)

		state.ZoomLevel = 14.5

		assert.Same(t, first, cache.Frame(state))
	})

	t.Run("radius change rebuilds", func(t *testing.T) {
		cache, _ := newCache(t)
		state := baseState()
		first := cache.Frame(state)

		state.RadiusKm = 25
		second := cache.Frame(state)

		assert.NotSame(t, first, second)
		assert.NotEqual(t, first.Key, second.Key)
		assert.InDelta(t, 25000.0, second.Circles[0].RadiusMeters, 0.001)
	})

	t.Run("layer toggle rebuilds", func(t *testing.T) {
		cache, _ := newCache(t)
		state := baseState()
		first := cache.Frame(state)

		state.ShowClusterLayer = true

		assert.NotSame(t, first, cache.Frame(state))
	})

	t.Run("new cluster revision rebuilds", func(t *testing.T) {
		cache, _ := newCache(t)
		state := baseState()
		state.ShowClusterLayer = true
		state.LastClusters = []models.ClusterSummary{{ID: "a", UserCount: 3}}
		state.ClusterRevision = 1
		first := cache.Frame(state)

		state.LastClusters = []models.ClusterSummary{{ID: "b", UserCount: 70}}
		state.ClusterRevision = 2
		second := cache.Frame(state)

		assert.NotSame(t, first, second)
		require.Len(t, second.Markers, 1)
		assert.Equal(t, "b", second.Markers[0].ID)
	})

	t.Run("explicit invalidate", func(t *testing.T) {
		cache, _ := newCache(t)
		state := baseState()
		first := cache.Frame(state)

		cache.Invalidate()

		second := cache.Frame(state)
		assert.NotSame(t, first, second)
		assert.Equal(t, first.Key, second.Key)
	})
}

func TestCache_EmptyFramesAreNotCached(t *testing.T) {
	cache, m := newCache(t)
	state := models.DisplayState{RadiusKm: 50}

	first := cache.Frame(state)
	second := cache.Frame(state)

	assert.True(t, first.Empty())
	assert.NotSame(t, first, second)
	assert.InDelta(t, 2, testutil.ToFloat64(m.RenderCache.WithLabelValues("miss")), 0)
}

func TestCache_HeatmapCircles(t *testing.T) {
	cache, _ := newCache(t)
	state := baseState()
	state.ShowHeatmapLayer = true
	state.HeatmapPoints = []models.HeatmapPoint{
		{Position: models.GeoCoordinate{Latitude: -26.1, Longitude: 28.0}, Density: 1},
		{Position: models.GeoCoordinate{Latitude: -26.2, Longitude: 28.1}, Density: 5},
		{Position: models.GeoCoordinate{Latitude: -26.3, Longitude: 28.2}, Density: 9},
		{Position: models.GeoCoordinate{Latitude: -26.4, Longitude: 28.3}, Density: 20},
		{Position: models.GeoCoordinate{Latitude: -26.5, Longitude: 28.4}, Density: 21},
	}

	circles := cache.Circles(state)

	require.Len(t, circles, 6)
	wantStroke := []string{"#2196F3", "#4CAF50", "#FBC02D", "#FF9800", "#F44336"}
	for i, c := range circles[1:] {
		assert.Equal(t, models.CircleHeatmap, c.Kind)
		assert.Equal(t, wantStroke[i], c.StrokeColor, "density %d", state.HeatmapPoints[i].Density)
	}
	assert.Greater(t, circles[5].RadiusMeters, circles[1].RadiusMeters)
}

func TestCache_HeatmapLayerOff(t *testing.T) {
	cache, _ := newCache(t)
	state := baseState()
	state.HeatmapPoints = []models.HeatmapPoint{{Position: *johannesburg(), Density: 4}}

	require.Len(t, cache.Circles(state), 1)
}

func TestCache_ClusterMarkers(t *testing.T) {
	cache, _ := newCache(t)
	state := baseState()
	state.ShowClusterLayer = true
	state.LastClusters = []models.ClusterSummary{
		{ID: "small", UserCount: 10, StatusBreakdown: map[string]int{"passed": 6, "liked": 4}},
		{ID: "medium", UserCount: 11, StatusBreakdown: map[string]int{"matched": 5, "liked": 5, "passed": 1}},
		{ID: "large", UserCount: 51, StatusBreakdown: map[string]int{"pending": 51}},
		{ID: "unknown", UserCount: 1},
	}

	markers := cache.Frame(state).Markers

	require.Len(t, markers, 4)
	assert.Equal(t, models.SizeSmall, markers[0].Size)
	assert.Equal(t, "passed", markers[0].Status)
	assert.Equal(t, "#9E9E9E", markers[0].Color)

	assert.Equal(t, models.SizeMedium, markers[1].Size)
	assert.Equal(t, "matched", markers[1].Status)
	assert.Equal(t, "#4CAF50", markers[1].Color)

	assert.Equal(t, models.SizeLarge, markers[2].Size)
	assert.Equal(t, "#FFC107", markers[2].Color)

	assert.Empty(t, markers[3].Status)
	assert.Equal(t, "#2196F3", markers[3].Color)
}

func TestCoverageOutlineIsGeodesic(t *testing.T) {
	cache, _ := newCache(t)
	state := baseState()

	circle := cache.Circles(state)[0]

	require.Len(t, circle.Outline, 64)
	for _, p := range circle.Outline {
		assert.InDelta(t, 50000, circle.Center.DistanceMeters(p), 50)
	}
}

func TestKey(t *testing.T) {
	a := baseState()
	b := baseState()
	b.ZoomLevel = 3
	b.Status = models.StatusLoading

	assert.Equal(t, render.Key(a), render.Key(b))

	c := baseState()
	c.UserLocation = nil
	assert.NotEqual(t, render.Key(a), render.Key(c))

	d := baseState()
	d.HeatmapRevision = 7
	assert.NotEqual(t, render.Key(a), render.Key(d))

	assert.Len(t, render.Key(a), 16)
}
