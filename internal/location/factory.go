package location

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/heatmap/internal/models"
	"googlemaps.github.io/maps"
)

// ProviderType represents the type of location provider.
type ProviderType string

const (
	// ProviderTypeStatic returns configured coordinates.
	ProviderTypeStatic ProviderType = "static"
	// ProviderTypeGoogle uses the Google Geolocation API.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypePostgres returns the last location stored for the user.
	ProviderTypePostgres ProviderType = "postgres"
)

// UpdaterType represents where location pushes go.
type UpdaterType string

const (
	UpdaterTypeHTTP     UpdaterType = "http"
	UpdaterTypePostgres UpdaterType = "postgres"
	UpdaterTypeNone     UpdaterType = "none"
)

// ProviderConfig holds configuration for creating a location provider.
type ProviderConfig struct {
	Type   ProviderType         // Type of provider to create
	APIKey string               // Google API key
	Static models.GeoCoordinate // Coordinates for the static provider
	Store  Store                // Store for the postgres provider
	UserID string               // User whose location is read
	MaxAge time.Duration        // Oldest acceptable stored location
	Logger *slog.Logger         // Logger for the provider
}

// UpdaterConfig holds configuration for creating a location updater.
type UpdaterConfig struct {
	Type    UpdaterType
	BaseURL string
	Token   string
	Store   Store
	UserID  string
	Logger  *slog.Logger
}

// NewProvider creates a location provider based on the provided configuration.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeStatic:
		if !config.Static.Valid() {
			return nil, fmt.Errorf("invalid static coordinates %s", config.Static)
		}
		return NewStaticProvider(config.Static), nil
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	case ProviderTypePostgres:
		if config.Store == nil || config.UserID == "" {
			return nil, errors.New("store and user ID are required for postgres provider")
		}
		return NewPostgresProvider(config.Store, config.UserID, config.MaxAge, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported location provider type: %s", config.Type)
	}
}

func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	client, err := maps.NewClient(maps.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}

// NewUpdater creates a location updater based on the provided configuration.
func NewUpdater(config UpdaterConfig) (Updater, error) {
	switch config.Type {
	case UpdaterTypeHTTP:
		if config.BaseURL == "" {
			return nil, errors.New("base URL is required for http updater")
		}
		return NewHTTPUpdater(config.BaseURL, config.Token, config.Logger), nil
	case UpdaterTypePostgres:
		if config.Store == nil || config.UserID == "" {
			return nil, errors.New("store and user ID are required for postgres updater")
		}
		return NewPostgresUpdater(config.Store, config.UserID), nil
	case UpdaterTypeNone, "":
		return NoopUpdater{}, nil
	default:
		return nil, fmt.Errorf("unsupported location updater type: %s", config.Type)
	}
}
