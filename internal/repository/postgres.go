package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/heatmap/internal/models"
	"github.com/jackc/pgx/v5"
)

// EnsureSchema creates the user_locations table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS user_locations (
			user_id    TEXT PRIMARY KEY,
			latitude   DOUBLE PRECISION NOT NULL,
			longitude  DOUBLE PRECISION NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create user_locations table: %w", err)
	}

	return nil
}

// UpsertUserLocation stores the latest coordinates pushed for a user,
// replacing any previous value and refreshing updated_at.
func (r *Repository) UpsertUserLocation(ctx context.Context, userID string, coords models.GeoCoordinate) error {
	query := `
		INSERT INTO user_locations (user_id, latitude, longitude, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE
		SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = EXCLUDED.updated_at;
	`

	_, err := r.db.Exec(ctx, query, userID, coords.Latitude, coords.Longitude)
	if err != nil {
		return fmt.Errorf("failed to upsert user location: %w", err)
	}

	r.log.DebugContext(ctx, "User location stored", "user", userID, "coords", coords.String())

	return nil
}

// LastKnownLocation returns the most recent location stored for a user,
// or ErrLocationNotFound when the user never pushed one.
func (r *Repository) LastKnownLocation(ctx context.Context, userID string) (*StoredLocation, error) {
	query := `
		SELECT latitude, longitude, updated_at
		FROM user_locations
		WHERE user_id = $1;
	`

	var loc StoredLocation
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&loc.Coordinates.Latitude, &loc.Coordinates.Longitude, &loc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last known location: %w", err)
	}

	return &loc, nil
}
