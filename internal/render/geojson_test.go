package render_test

import (
	"encoding/json"
	"testing"

	"github.com/UnknownOlympus/heatmap/internal/models"
	"github.com/UnknownOlympus/heatmap/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeGeoJSON(t *testing.T) {
	cache, _ := newCache(t)
	state := baseState()
	state.ShowClusterLayer = true
	state.LastClusters = []models.ClusterSummary{
		{ID: "c1", Position: models.GeoCoordinate{Latitude: -26.1, Longitude: 28.1}, UserCount: 12},
	}
	frame := cache.Frame(state)

	data, err := render.EncodeGeoJSON(frame)
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			ID       string `json:"id"`
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 2)

	circle := doc.Features[0]
	assert.Equal(t, "coverage", circle.ID)
	assert.Equal(t, "Polygon", circle.Geometry.Type)
	assert.Equal(t, frame.Key, circle.Properties["frameKey"])

	var ring [][][]float64
	require.NoError(t, json.Unmarshal(circle.Geometry.Coordinates, &ring))
	require.Len(t, ring, 1)
	require.Len(t, ring[0], 65)
	assert.Equal(t, ring[0][0], ring[0][64])

	marker := doc.Features[1]
	assert.Equal(t, "c1", marker.ID)
	assert.Equal(t, "Point", marker.Geometry.Type)
	assert.Equal(t, "medium", marker.Properties["size"])

	var point []float64
	require.NoError(t, json.Unmarshal(marker.Geometry.Coordinates, &point))
	assert.InDelta(t, 28.1, point[0], 1e-9)
	assert.InDelta(t, -26.1, point[1], 1e-9)
}

func TestEncodeGeoJSON_EmptyFrame(t *testing.T) {
	data, err := render.EncodeGeoJSON(&render.Frame{Key: "0"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(data))
}
