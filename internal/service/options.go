package service

import (
	"log/slog"
	"time"

	"github.com/UnknownOlympus/heatmap/internal/camera"
	"github.com/UnknownOlympus/heatmap/internal/clusters"
	"github.com/UnknownOlympus/heatmap/internal/location"
	"github.com/UnknownOlympus/heatmap/internal/metrics"
)

const (
	DefaultRadiusKm      = 50
	DefaultMaxClusters   = 100
	DefaultUpdateTimeout = 5 * time.Second
)

// Options configures one heat-map session. Every screen variant is a different
// set of Options over the same HeatmapService.
type Options struct {
	Clusters clusters.Provider     // required
	Location location.Provider     // required
	Updater  location.Updater      // defaults to location.NoopUpdater
	Viewport camera.ViewportSource // defaults to a fresh camera.ViewportTracker
	Metrics  *metrics.Metrics      // required
	Logger   *slog.Logger          // defaults to slog.Default()

	RadiusKm      int
	MaxClusters   int
	ShowHeatmap   bool
	ShowClusters  bool
	QuietWindow   time.Duration
	UpdateTimeout time.Duration // bound on the fire-and-forget location push

	// OnUpdate is called after any change that can alter the rendered frame.
	// It runs on the goroutine that made the change and must not block.
	OnUpdate func()

	// AfterFunc overrides the debounce timer, for tests.
	AfterFunc camera.AfterFunc
}

func (o *Options) setDefaults() {
	if o.Updater == nil {
		o.Updater = location.NoopUpdater{}
	}
	if o.Viewport == nil {
		o.Viewport = camera.NewViewportTracker()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.RadiusKm <= 0 {
		o.RadiusKm = DefaultRadiusKm
	}
	if o.MaxClusters <= 0 {
		o.MaxClusters = DefaultMaxClusters
	}
	if o.UpdateTimeout <= 0 {
		o.UpdateTimeout = DefaultUpdateTimeout
	}
	if o.OnUpdate == nil {
		o.OnUpdate = func() {}
	}
}
