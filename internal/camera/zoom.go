package camera

import "math"

// Zoom limits accepted by GroupZoom.
const (
	MinZoom         = 1.0
	MaxZoom         = 18.0
	zoomBucketWidth = 3.0
)

// GroupZoom collapses a continuous zoom level into the midpoint of a fixed-width bucket,
// so gestures produce at most six distinct fetch levels: 2, 5, 8, 11, 14 and 17.
func GroupZoom(zoom float64) float64 {
	if math.IsNaN(zoom) {
		zoom = MinZoom
	}
	zoom = math.Max(MinZoom, math.Min(MaxZoom, zoom))

	bucket := math.Floor((zoom - MinZoom) / zoomBucketWidth)

	return bucket*zoomBucketWidth + 2
}
