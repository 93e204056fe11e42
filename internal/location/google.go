package location

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/heatmap/internal/models"
	"googlemaps.github.io/maps"
)

// maxAccuracyMeters rejects fixes too coarse to centre a coverage circle on.
const maxAccuracyMeters = 50000

// GoogleProvider resolves the device location with the Google Geolocation API.
type GoogleProvider struct {
	client GeolocationClient // client is the Google Maps API client
	log    *slog.Logger      // log is the logger for logging operations
}

type GeolocationClient interface {
	Geolocate(ctx context.Context, r *maps.GeolocationRequest) (*maps.GeolocationResult, error)
}

// NewGoogleProvider wraps a Google Maps client.
func NewGoogleProvider(client GeolocationClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// CurrentLocation asks Google to geolocate the caller by IP address.
// Any failure, an empty result, or an overly coarse fix yields ErrLocationUnavailable.
func (gp *GoogleProvider) CurrentLocation(ctx context.Context) (*models.GeoCoordinate, error) {
	gp.log.DebugContext(ctx, "Geolocating using Google Maps")

	req := maps.GeolocationRequest{ConsiderIP: true}
	result, err := gp.client.Geolocate(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to geolocate: %w", ErrLocationUnavailable, err)
	}
	if result == nil {
		return nil, ErrLocationUnavailable
	}

	coords := models.GeoCoordinate{Latitude: result.Location.Lat, Longitude: result.Location.Lng}
	if !coords.Valid() {
		return nil, fmt.Errorf("%w: invalid coordinates %s", ErrLocationUnavailable, coords)
	}
	if result.Accuracy > maxAccuracyMeters {
		gp.log.WarnContext(ctx, "Geolocation fix too coarse", "accuracy_m", result.Accuracy)
		return nil, fmt.Errorf("%w: accuracy %.0fm", ErrLocationUnavailable, result.Accuracy)
	}

	return &coords, nil
}
