package render

import (
	"encoding/json"
	"fmt"

	"github.com/UnknownOlympus/heatmap/internal/models"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// EncodeGeoJSON writes the frame as a FeatureCollection. Circles become polygons
// built from their outline and markers become points.
func EncodeGeoJSON(frame *Frame) ([]byte, error) {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(frame.Circles)+len(frame.Markers))}

	for _, c := range frame.Circles {
		if len(c.Outline) < 3 {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       c.ID,
			Geometry: ringPolygon(c.Outline),
			Properties: map[string]any{
				"kind":         string(c.Kind),
				"radiusMeters": c.RadiusMeters,
				"fillColor":    c.FillColor,
				"strokeColor":  c.StrokeColor,
				"frameKey":     frame.Key,
			},
		})
	}

	for _, m := range frame.Markers {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       m.ID,
			Geometry: geom.NewPointFlat(geom.XY, []float64{m.Position.Longitude, m.Position.Latitude}),
			Properties: map[string]any{
				"kind":      "cluster",
				"size":      string(m.Size),
				"color":     m.Color,
				"status":    m.Status,
				"userCount": m.UserCount,
				"frameKey":  frame.Key,
			},
		})
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame %s: %w", frame.Key, err)
	}

	return data, nil
}

// ringPolygon closes the outline into a single-ring polygon in lng/lat order.
func ringPolygon(outline []models.GeoCoordinate) *geom.Polygon {
	flat := make([]float64, 0, 2*(len(outline)+1))
	for _, p := range outline {
		flat = append(flat, p.Longitude, p.Latitude)
	}
	flat = append(flat, outline[0].Longitude, outline[0].Latitude)

	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}
