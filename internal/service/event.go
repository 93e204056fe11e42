package service

import (
	"github.com/UnknownOlympus/heatmap/internal/camera"
	"github.com/UnknownOlympus/heatmap/internal/models"
)

// EventType names an input accepted by Run.
type EventType string

const (
	EventMove   EventType = "move"
	EventIdle   EventType = "idle"
	EventRadius EventType = "radius"
	EventToggle EventType = "toggle"
	EventReload EventType = "reload"
)

// Layer names accepted by toggle events.
const (
	LayerHeatmap  = "heatmap"
	LayerClusters = "clusters"
)

// Event is one user or map input. Fields other than Type are read only for the
// event types that need them.
type Event struct {
	Type     EventType              `json:"type"`
	Zoom     float64                `json:"zoom,omitempty"`
	Target   models.GeoCoordinate   `json:"target,omitzero"`
	Bounds   *models.ViewportBounds `json:"bounds,omitempty"`
	RadiusKm int                    `json:"radiusKm,omitempty"`
	Layer    string                 `json:"layer,omitempty"`
}

// CameraPosition returns the camera part of a move event.
func (e Event) CameraPosition() camera.CameraPosition {
	return camera.CameraPosition{Target: e.Target, Zoom: e.Zoom}
}
