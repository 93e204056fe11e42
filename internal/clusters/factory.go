package clusters

import (
	"errors"
	"fmt"
	"log/slog"
)

// ProviderType represents the type of cluster provider.
type ProviderType string

const (
	// ProviderTypeHTTP talks to the backend clustering service.
	ProviderTypeHTTP ProviderType = "http"
	// ProviderTypeStatic serves clusters from a local fixture file.
	ProviderTypeStatic ProviderType = "static"
)

// defaultRateLimit is applied when the HTTP provider has no explicit limit.
const defaultRateLimit = 5

// ProviderConfig holds configuration for creating a cluster provider.
type ProviderConfig struct {
	Type        ProviderType // Type of provider to create
	BaseURL     string       // API base URL (http)
	Token       string       // Bearer token (http, optional)
	RateLimit   int          // Requests per second (http)
	FixturePath string       // Fixture file (static)
	Logger      *slog.Logger // Logger for the provider
}

// NewProvider creates a cluster provider based on the provided configuration.
//
// Supported provider types:
// - "http": backend REST API (requires a base URL)
// - "static": JSON fixture file (requires a fixture path)
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeHTTP:
		return newHTTPProvider(config)
	case ProviderTypeStatic:
		return newStaticProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

func newHTTPProvider(config ProviderConfig) (Provider, error) {
	if config.BaseURL == "" {
		return nil, errors.New("base URL is required for http provider")
	}

	if config.RateLimit <= 0 {
		config.RateLimit = defaultRateLimit
		config.Logger.Warn("Rate limit for cluster API not set, set a default value", "value", config.RateLimit)
	}

	return NewHTTPProvider(config.BaseURL, config.Token, config.RateLimit, config.Logger), nil
}

func newStaticProvider(config ProviderConfig) (Provider, error) {
	if config.FixturePath == "" {
		return nil, errors.New("fixture path is required for static provider")
	}

	fixture, err := LoadFixture(config.FixturePath)
	if err != nil {
		return nil, err
	}

	return NewStaticProvider(fixture, config.Logger), nil
}
