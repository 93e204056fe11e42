package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/heatmap/internal/models"
	"github.com/UnknownOlympus/heatmap/internal/repository"
)

// Store is the part of the repository used for last-known locations.
type Store interface {
	UpsertUserLocation(ctx context.Context, userID string, coords models.GeoCoordinate) error
	LastKnownLocation(ctx context.Context, userID string) (*repository.StoredLocation, error)
}

// PostgresProvider returns the user's last pushed location.
// Locations older than maxAge are treated as unavailable; a zero maxAge accepts any age.
type PostgresProvider struct {
	store  Store
	userID string
	maxAge time.Duration
	now    func() time.Time
	log    *slog.Logger
}

// NewPostgresProvider creates a provider reading from the location store.
func NewPostgresProvider(store Store, userID string, maxAge time.Duration, log *slog.Logger) *PostgresProvider {
	return &PostgresProvider{store: store, userID: userID, maxAge: maxAge, now: time.Now, log: log}
}

func (pp *PostgresProvider) CurrentLocation(ctx context.Context) (*models.GeoCoordinate, error) {
	loc, err := pp.store.LastKnownLocation(ctx, pp.userID)
	if errors.Is(err, repository.ErrLocationNotFound) {
		return nil, ErrLocationUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}

	if pp.maxAge > 0 {
		if age := pp.now().Sub(loc.UpdatedAt); age > pp.maxAge {
			pp.log.InfoContext(ctx, "Stored location is stale", "user", pp.userID, "age", age.String())
			return nil, ErrLocationUnavailable
		}
	}

	coords := loc.Coordinates

	return &coords, nil
}

// Replays is always true: the provider reads back what an updater stored.
func (pp *PostgresProvider) Replays() bool { return true }

// PostgresUpdater writes location pushes straight into the location store.
type PostgresUpdater struct {
	store  Store
	userID string
}

// NewPostgresUpdater creates an updater for the given user.
func NewPostgresUpdater(store Store, userID string) *PostgresUpdater {
	return &PostgresUpdater{store: store, userID: userID}
}

func (pu *PostgresUpdater) UpdateLocation(ctx context.Context, coords models.GeoCoordinate) error {
	if err := pu.store.UpsertUserLocation(ctx, pu.userID, coords); err != nil {
		return fmt.Errorf("failed to store location: %w", err)
	}

	return nil
}
