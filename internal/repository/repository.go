package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/heatmap/internal/models"
)

// ErrLocationNotFound is returned when no location is stored for a user.
var ErrLocationNotFound = errors.New("no stored location for user")

type Repository struct {
	db  Database
	log *slog.Logger
}

// StoredLocation is a user's last pushed location.
type StoredLocation struct {
	Coordinates models.GeoCoordinate
	UpdatedAt   time.Time
}

type Interface interface {
	EnsureSchema(ctx context.Context) error
	UpsertUserLocation(ctx context.Context, userID string, coords models.GeoCoordinate) error
	LastKnownLocation(ctx context.Context, userID string) (*StoredLocation, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
