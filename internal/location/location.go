// Package location resolves the device location and pushes it to the backend.
package location

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/heatmap/internal/models"
)

// ErrLocationUnavailable means no usable device location could be resolved.
// It is the one failure that is surfaced to the user.
var ErrLocationUnavailable = errors.New("location unavailable")

// Provider returns the current device coordinates.
type Provider interface {
	CurrentLocation(ctx context.Context) (*models.GeoCoordinate, error)
}

// Replayer is implemented by providers that return a previously pushed location
// instead of observing the device. Pushing their fixes back would only refresh
// the stored timestamp.
type Replayer interface {
	Replays() bool
}

// Replays reports whether p returns previously pushed locations.
func Replays(p Provider) bool {
	r, ok := p.(Replayer)
	return ok && r.Replays()
}

// Updater pushes the device coordinates to the backend. Callers treat it as fire-and-forget.
type Updater interface {
	UpdateLocation(ctx context.Context, coords models.GeoCoordinate) error
}

// StaticProvider always returns the configured coordinates.
type StaticProvider struct {
	coords models.GeoCoordinate
}

// NewStaticProvider creates a provider for fixed coordinates.
func NewStaticProvider(coords models.GeoCoordinate) *StaticProvider {
	return &StaticProvider{coords: coords}
}

func (sp *StaticProvider) CurrentLocation(ctx context.Context) (*models.GeoCoordinate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !sp.coords.Valid() {
		return nil, ErrLocationUnavailable
	}
	coords := sp.coords

	return &coords, nil
}

// NoopUpdater discards location pushes.
type NoopUpdater struct{}

func (NoopUpdater) UpdateLocation(context.Context, models.GeoCoordinate) error { return nil }
