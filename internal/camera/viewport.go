package camera

import (
	"context"
	"errors"
	"sync"

	"github.com/UnknownOlympus/heatmap/internal/models"
)

// ErrViewportUnavailable is returned when the map has not reported a usable viewport yet.
var ErrViewportUnavailable = errors.New("map viewport is not available")

// ViewportSource returns the rectangle currently visible on the map.
type ViewportSource interface {
	Viewport(ctx context.Context) (models.ViewportBounds, error)
}

// ViewportTracker remembers the last valid viewport reported by the map.
type ViewportTracker struct {
	mu     sync.RWMutex
	bounds *models.ViewportBounds
}

// NewViewportTracker creates a tracker with no viewport.
func NewViewportTracker() *ViewportTracker {
	return &ViewportTracker{}
}

// Update stores the bounds if they are valid and reports whether they were accepted.
func (vt *ViewportTracker) Update(bounds models.ViewportBounds) bool {
	if !bounds.Valid() {
		return false
	}

	vt.mu.Lock()
	defer vt.mu.Unlock()
	vt.bounds = &bounds

	return true
}

// Viewport returns the last accepted bounds or ErrViewportUnavailable.
func (vt *ViewportTracker) Viewport(ctx context.Context) (models.ViewportBounds, error) {
	if err := ctx.Err(); err != nil {
		return models.ViewportBounds{}, err
	}

	vt.mu.RLock()
	defer vt.mu.RUnlock()
	if vt.bounds == nil {
		return models.ViewportBounds{}, ErrViewportUnavailable
	}

	return *vt.bounds, nil
}
