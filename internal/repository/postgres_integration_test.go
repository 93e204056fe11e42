//go:build integration

package repository_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/heatmap/internal/models"
	"github.com/UnknownOlympus/heatmap/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRepository_Postgres(t *testing.T) {
	ctx := t.Context()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("heatmap"),
		postgres.WithUsername("heatmap"),
		postgres.WithPassword("heatmap"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, testcontainers.TerminateContainer(container))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := repository.NewRepository(pool, slog.Default())
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx), "schema creation must be repeatable")

	_, err = repo.LastKnownLocation(ctx, "ghost")
	require.ErrorIs(t, err, repository.ErrLocationNotFound)

	first := models.GeoCoordinate{Latitude: -26.2, Longitude: 28.05}
	second := models.GeoCoordinate{Latitude: -33.92, Longitude: 18.42}

	require.NoError(t, repo.UpsertUserLocation(ctx, "user-1", first))
	require.NoError(t, repo.UpsertUserLocation(ctx, "user-1", second))

	loc, err := repo.LastKnownLocation(ctx, "user-1")
	require.NoError(t, err)
	assert.InEpsilon(t, second.Latitude, loc.Coordinates.Latitude, 0.000001)
	assert.InEpsilon(t, second.Longitude, loc.Coordinates.Longitude, 0.000001)
	assert.WithinDuration(t, time.Now(), loc.UpdatedAt, time.Minute)
}
