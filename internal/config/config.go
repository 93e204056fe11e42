package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds the configuration settings for the heat-map service.
//
// Fields:
// - Env: The current environment (local, development, production).
// - Port: The port for the monitoring server.
// - APIBaseURL, APIToken: The backend REST API and its bearer token.
// - ProviderType: The cluster provider to use (http, static).
// - LocationProvider, LocationSink: Where the device location comes from and goes to.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env          string        `mapstructure:"env"`           // Env is the current environment: local, development, production.
	Port         int           `mapstructure:"port"`          // Port is the monitoring server port.
	APIBaseURL   string        `mapstructure:"api_base_url"`  // APIBaseURL is the backend REST API root.
	APIToken     string        `mapstructure:"api_token"`     // APIToken is sent as a bearer token.
	ProviderType string        `mapstructure:"provider_type"` // ProviderType selects the cluster provider.
	FixturePath  string        `mapstructure:"fixture_path"`  // FixturePath is the JSON fixture for the static provider.
	RateLimit    int           `mapstructure:"rate_limit"`    // RateLimit is the backend request rate per second.
	QuietWindow  time.Duration `mapstructure:"quiet_window"`  // QuietWindow is the camera debounce window.

	RadiusKm     int  `mapstructure:"radius_km"`
	MaxClusters  int  `mapstructure:"max_clusters"`
	ShowHeatmap  bool `mapstructure:"show_heatmap"`
	ShowClusters bool `mapstructure:"show_clusters"`

	LocationProvider string        `mapstructure:"location_provider"` // static, google or postgres
	LocationSink     string        `mapstructure:"location_sink"`     // http, postgres or none
	GoogleAPIKey     string        `mapstructure:"google_api_key"`
	StaticLatitude   float64       `mapstructure:"static_latitude"`
	StaticLongitude  float64       `mapstructure:"static_longitude"`
	UserID           string        `mapstructure:"user_id"`
	UpdateTimeout    time.Duration `mapstructure:"update_timeout"`   // UpdateTimeout bounds a location push.
	LocationMaxAge   time.Duration `mapstructure:"location_max_age"` // LocationMaxAge is the oldest usable stored location.

	Database PostgresConfig `mapstructure:"database"` // Database holds the postgres database configuration
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`     // Host is the database server address.
	Port     string `mapstructure:"port"`     // Port is the database server port.
	User     string `mapstructure:"user"`     // User is the database user.
	Password string `mapstructure:"password"` // Password is the database user's password.
	Name     string `mapstructure:"name"`     // Name is the name of the database.
}

// UsesPostgres reports whether any component needs the database.
func (c *Config) UsesPostgres() bool {
	return c.LocationProvider == "postgres" || c.LocationSink == "postgres"
}

// MustLoad builds the configuration from defaults, an optional YAML file named by
// HEATMAP_CONFIG, an optional .env file and the environment, in increasing priority.
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = gotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("HEATMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"database.host":     "DB_HOST",
		"database.port":     "DB_PORT",
		"database.user":     "DB_USERNAME",
		"database.password": "DB_PASSWORD",
		"database.name":     "DB_NAME",
	} {
		_ = v.BindEnv(key, env)
	}

	if path := os.Getenv("HEATMAP_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	port, err := cast.ToIntE(v.Get("port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	rateLimit, err := cast.ToIntE(v.Get("rate_limit"))
	if err != nil {
		panic("failed to parse rate limit from configuration")
	}

	quietWindow, err := cast.ToDurationE(v.Get("quiet_window"))
	if err != nil {
		panic("failed to parse quiet window from configuration")
	}

	radius, err := cast.ToIntE(v.Get("radius_km"))
	if err != nil || radius <= 0 {
		panic("failed to parse radius from configuration, must be a positive integer")
	}

	maxClusters, err := cast.ToIntE(v.Get("max_clusters"))
	if err != nil {
		panic("failed to parse max clusters from configuration, must be an integer")
	}

	showHeatmap, err := cast.ToBoolE(v.Get("show_heatmap"))
	if err != nil {
		panic("failed to parse heatmap layer flag from configuration")
	}

	showClusters, err := cast.ToBoolE(v.Get("show_clusters"))
	if err != nil {
		panic("failed to parse cluster layer flag from configuration")
	}

	latitude, err := cast.ToFloat64E(v.Get("static_latitude"))
	if err != nil {
		panic("failed to parse static latitude from configuration")
	}

	longitude, err := cast.ToFloat64E(v.Get("static_longitude"))
	if err != nil {
		panic("failed to parse static longitude from configuration")
	}

	updateTimeout, err := cast.ToDurationE(v.Get("update_timeout"))
	if err != nil {
		panic("failed to parse update timeout from configuration")
	}

	maxAge, err := cast.ToDurationE(v.Get("location_max_age"))
	if err != nil {
		panic("failed to parse location max age from configuration")
	}

	return &Config{
		Env:              v.GetString("env"),
		Port:             port,
		APIBaseURL:       v.GetString("api_base_url"),
		APIToken:         v.GetString("api_token"),
		ProviderType:     v.GetString("provider_type"),
		FixturePath:      v.GetString("fixture_path"),
		RateLimit:        rateLimit,
		QuietWindow:      quietWindow,
		RadiusKm:         radius,
		MaxClusters:      maxClusters,
		ShowHeatmap:      showHeatmap,
		ShowClusters:     showClusters,
		LocationProvider: v.GetString("location_provider"),
		LocationSink:     v.GetString("location_sink"),
		GoogleAPIKey:     v.GetString("google_api_key"),
		StaticLatitude:   latitude,
		StaticLongitude:  longitude,
		UserID:           v.GetString("user_id"),
		UpdateTimeout:    updateTimeout,
		LocationMaxAge:   maxAge,
		Database: PostgresConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetString("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Name:     v.GetString("database.name"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("port", 8080)
	v.SetDefault("api_base_url", "")
	v.SetDefault("api_token", "")
	v.SetDefault("provider_type", "http")
	v.SetDefault("fixture_path", "")
	v.SetDefault("rate_limit", 5)
	v.SetDefault("quiet_window", "300ms")
	v.SetDefault("radius_km", 50)
	v.SetDefault("max_clusters", 100)
	v.SetDefault("show_heatmap", false)
	v.SetDefault("show_clusters", true)
	v.SetDefault("location_provider", "static")
	v.SetDefault("location_sink", "none")
	v.SetDefault("google_api_key", "")
	v.SetDefault("static_latitude", 0)
	v.SetDefault("static_longitude", 0)
	v.SetDefault("user_id", "")
	v.SetDefault("update_timeout", "5s")
	v.SetDefault("location_max_age", "24h")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
}
