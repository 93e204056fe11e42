package render

import (
	"github.com/UnknownOlympus/heatmap/internal/models"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	coverageVertices = 64
	heatmapVertices  = 24
)

// geodesicOutline approximates a circle of radiusMeters around center on the sphere.
func geodesicOutline(center models.GeoCoordinate, radiusMeters float64, vertices int) []models.GeoCoordinate {
	if radiusMeters <= 0 {
		return nil
	}

	angle := s1.Angle(radiusMeters / models.EarthRadiusMeters)
	loop := s2.RegularLoop(s2.PointFromLatLng(center.LatLng()), angle, vertices)

	outline := make([]models.GeoCoordinate, 0, loop.NumVertices())
	for _, v := range loop.Vertices() {
		outline = append(outline, models.FromLatLng(s2.LatLngFromPoint(v)))
	}

	return outline
}
