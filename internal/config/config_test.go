package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/heatmap/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("HEATMAP_ENV", "local")
	t.Setenv("HEATMAP_API_BASE_URL", "https://api.example.com/v1")
	t.Setenv("HEATMAP_API_TOKEN", "secret")
	t.Setenv("HEATMAP_QUIET_WINDOW", "500ms")
	t.Setenv("HEATMAP_RADIUS_KM", "25")
	t.Setenv("HEATMAP_SHOW_HEATMAP", "true")
	t.Setenv("HEATMAP_LOCATION_PROVIDER", "postgres")
	t.Setenv("HEATMAP_STATIC_LATITUDE", "-26.2")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "https://api.example.com/v1", cfg.APIBaseURL)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, 500*time.Millisecond, cfg.QuietWindow)
	assert.Equal(t, 25, cfg.RadiusKm)
	assert.True(t, cfg.ShowHeatmap)
	assert.True(t, cfg.ShowClusters)
	assert.InDelta(t, -26.2, cfg.StaticLatitude, 0.0001)
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
	assert.True(t, cfg.UsesPostgres())
}

func Test_MustLoadDefaults(t *testing.T) {
	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http", cfg.ProviderType)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.Equal(t, 300*time.Millisecond, cfg.QuietWindow)
	assert.Equal(t, 50, cfg.RadiusKm)
	assert.Equal(t, 100, cfg.MaxClusters)
	assert.Equal(t, 5*time.Second, cfg.UpdateTimeout)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "none", cfg.LocationSink)
	assert.False(t, cfg.UsesPostgres())
}

func Test_MustLoadFromFile(t *testing.T) {
	defer filet.CleanUp(t)
	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, "heatmap.yaml")
	filet.File(t, path, `
env: development
port: 9090
provider_type: static
fixture_path: /srv/fixture.json
max_clusters: 40
location_sink: postgres
database:
  host: db.internal
  name: heatmap
`)
	t.Setenv("HEATMAP_CONFIG", path)
	t.Setenv("HEATMAP_MAX_CLUSTERS", "60")

	cfg := config.MustLoad()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "static", cfg.ProviderType)
	assert.Equal(t, "/srv/fixture.json", cfg.FixturePath)
	assert.Equal(t, 60, cfg.MaxClusters)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "heatmap", cfg.Database.Name)
	assert.True(t, cfg.UsesPostgres())
}

func TestMustLoad_MissingFile(t *testing.T) {
	t.Setenv("HEATMAP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	assert.PanicsWithValue(t, "failed to read configuration file", func() {
		config.MustLoad()
	})
}

func TestMustLoad_ParseErrors(t *testing.T) {
	tests := []struct {
		env   string
		value string
		want  string
	}{
		{"HEATMAP_PORT", "error_value", "failed to parse port for monitoring server from configuration"},
		{"HEATMAP_QUIET_WINDOW", "error_value", "failed to parse quiet window from configuration"},
		{"HEATMAP_RADIUS_KM", "error_value", "failed to parse radius from configuration, must be a positive integer"},
		{"HEATMAP_RADIUS_KM", "0", "failed to parse radius from configuration, must be a positive integer"},
		{"HEATMAP_RATE_LIMIT", "fast", "failed to parse rate limit from configuration"},
		{"HEATMAP_SHOW_CLUSTERS", "maybe", "failed to parse cluster layer flag from configuration"},
		{"HEATMAP_UPDATE_TIMEOUT", "soon", "failed to parse update timeout from configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			assert.PanicsWithValue(t, tt.want, func() {
				config.MustLoad()
			})
		})
	}
}
