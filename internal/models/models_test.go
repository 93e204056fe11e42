package models_test

import (
	"testing"

	"github.com/UnknownOlympus/heatmap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoCoordinate_Valid(t *testing.T) {
	assert.True(t, models.GeoCoordinate{Latitude: -26.20, Longitude: 28.05}.Valid())
	assert.True(t, models.GeoCoordinate{Latitude: 90, Longitude: -180}.Valid())
	assert.False(t, models.GeoCoordinate{Latitude: 90.1, Longitude: 0}.Valid())
	assert.False(t, models.GeoCoordinate{Latitude: 0, Longitude: 180.5}.Valid())
}

func TestGeoCoordinate_DistanceMeters(t *testing.T) {
	johannesburg := models.GeoCoordinate{Latitude: -26.2041, Longitude: 28.0473}
	pretoria := models.GeoCoordinate{Latitude: -25.7479, Longitude: 28.2293}

	// Roughly 54km apart.
	assert.InDelta(t, 54000, johannesburg.DistanceMeters(pretoria), 2000)
	assert.InDelta(t, 0, johannesburg.DistanceMeters(johannesburg), 0.001)
}

func TestViewportBounds(t *testing.T) {
	bounds := models.ViewportBounds{
		NorthEast: models.GeoCoordinate{Latitude: -25.0, Longitude: 29.0},
		SouthWest: models.GeoCoordinate{Latitude: -27.0, Longitude: 27.0},
	}

	t.Run("valid and contains", func(t *testing.T) {
		require.True(t, bounds.Valid())
		assert.True(t, bounds.Contains(models.GeoCoordinate{Latitude: -26.2, Longitude: 28.05}))
		assert.False(t, bounds.Contains(models.GeoCoordinate{Latitude: -24.0, Longitude: 28.05}))
	})

	t.Run("center", func(t *testing.T) {
		center := bounds.Center()
		assert.InDelta(t, -26.0, center.Latitude, 0.0001)
		assert.InDelta(t, 28.0, center.Longitude, 0.0001)
	})

	t.Run("antimeridian crossing", func(t *testing.T) {
		pacific := models.ViewportBounds{
			NorthEast: models.GeoCoordinate{Latitude: 10, Longitude: -170},
			SouthWest: models.GeoCoordinate{Latitude: -10, Longitude: 170},
		}
		require.True(t, pacific.Valid())
		assert.True(t, pacific.Contains(models.GeoCoordinate{Latitude: 0, Longitude: 179}))
		assert.False(t, pacific.Contains(models.GeoCoordinate{Latitude: 0, Longitude: 0}))
	})

	t.Run("inverted latitudes are invalid", func(t *testing.T) {
		inverted := models.ViewportBounds{NorthEast: bounds.SouthWest, SouthWest: bounds.NorthEast}
		assert.False(t, inverted.Valid())
	})
}

func TestClusterSummary_DominantStatus(t *testing.T) {
	tests := []struct {
		name      string
		breakdown map[string]int
		want      string
	}{
		{"matched wins", map[string]int{"matched": 5, "passed": 3}, "matched"},
		{"passed wins", map[string]int{"matched": 3, "passed": 5}, "passed"},
		{"exact tie prefers matched", map[string]int{"liked": 4, "matched": 4}, "matched"},
		{"tie without matched is alphabetical", map[string]int{"passed": 2, "liked": 2}, "liked"},
		{"matched loses tie only when beaten", map[string]int{"matched": 4, "liked": 4, "passed": 6}, "passed"},
		{"empty breakdown", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cluster := models.ClusterSummary{StatusBreakdown: tt.breakdown}
			assert.Equal(t, tt.want, cluster.DominantStatus())
		})
	}
}

func TestDisplayState_Clone(t *testing.T) {
	loc := models.GeoCoordinate{Latitude: 1, Longitude: 2}
	state := models.DisplayState{
		UserLocation: &loc,
		LastClusters: []models.ClusterSummary{
			{ID: "a", StatusBreakdown: map[string]int{"matched": 1}},
		},
		HeatmapPoints: []models.HeatmapPoint{{Density: 3}},
	}

	clone := state.Clone()
	clone.UserLocation.Latitude = 50
	clone.LastClusters[0].StatusBreakdown["matched"] = 9
	clone.HeatmapPoints[0].Density = 7

	assert.InDelta(t, 1.0, state.UserLocation.Latitude, 0)
	assert.Equal(t, 1, state.LastClusters[0].StatusBreakdown["matched"])
	assert.Equal(t, 3, state.HeatmapPoints[0].Density)
}

func TestDisplayState_CloneKeepsAbsentClusters(t *testing.T) {
	clone := models.DisplayState{}.Clone()

	assert.Nil(t, clone.LastClusters)
	assert.Nil(t, clone.UserLocation)
}

func TestDisplayState_CloneKeepsEmptyFetchedResults(t *testing.T) {
	state := models.DisplayState{
		LastClusters:  []models.ClusterSummary{},
		HeatmapPoints: []models.HeatmapPoint{},
	}

	clone := state.Clone()

	require.NotNil(t, clone.LastClusters)
	require.NotNil(t, clone.HeatmapPoints)
	assert.Empty(t, clone.LastClusters)
	assert.Empty(t, clone.HeatmapPoints)
	assert.Nil(t, models.DisplayState{}.Clone().HeatmapPoints)
}
