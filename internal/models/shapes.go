package models

// CircleKind distinguishes the coverage circle from heatmap density circles.
type CircleKind string

const (
	CircleCoverage CircleKind = "coverage"
	CircleHeatmap  CircleKind = "heatmap"
)

// MarkerSize is the icon tier of a cluster marker.
type MarkerSize string

const (
	SizeSmall  MarkerSize = "small"
	SizeMedium MarkerSize = "medium"
	SizeLarge  MarkerSize = "large"
)

// Circle is a drawable geodesic circle. Outline is a closed-form approximation
// of the circle on the sphere; the first vertex is not repeated.
type Circle struct {
	ID           string          `json:"id"`
	Kind         CircleKind      `json:"kind"`
	Center       GeoCoordinate   `json:"center"`
	RadiusMeters float64         `json:"radiusMeters"`
	FillColor    string          `json:"fillColor"`
	StrokeColor  string          `json:"strokeColor"`
	Outline      []GeoCoordinate `json:"-"`
}

// Marker is a drawable cluster pin.
type Marker struct {
	ID        string        `json:"id"`
	Position  GeoCoordinate `json:"position"`
	Size      MarkerSize    `json:"size"`
	Color     string        `json:"color"`
	Status    string        `json:"status,omitempty"`
	UserCount int           `json:"userCount"`
}
