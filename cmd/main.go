package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/heatmap/internal/camera"
	"github.com/UnknownOlympus/heatmap/internal/clusters"
	"github.com/UnknownOlympus/heatmap/internal/config"
	"github.com/UnknownOlympus/heatmap/internal/location"
	"github.com/UnknownOlympus/heatmap/internal/metrics"
	"github.com/UnknownOlympus/heatmap/internal/models"
	"github.com/UnknownOlympus/heatmap/internal/render"
	"github.com/UnknownOlympus/heatmap/internal/repository"
	"github.com/UnknownOlympus/heatmap/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
// Camera events are read as JSON lines from stdin and frames are written as GeoJSON to stdout.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// The database is only needed when locations are read from or written to postgres.
	var (
		dtb   *pgxpool.Pool
		store location.Store
	)
	if cfg.UsesPostgres() {
		var err error
		dtb, err = repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()

		repo := repository.NewRepository(dtb, logger)
		if err = repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare DB schema: %v", err)
		}
		store = repo
	}

	// Create the cluster provider using factory pattern based on configuration.
	clusterProvider, err := clusters.NewProvider(clusters.ProviderConfig{
		Type:        clusters.ProviderType(cfg.ProviderType),
		BaseURL:     cfg.APIBaseURL,
		Token:       cfg.APIToken,
		RateLimit:   cfg.RateLimit,
		FixturePath: cfg.FixturePath,
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("Failed to create cluster provider: %v", err)
	}
	logger.InfoContext(ctx, "Cluster provider initialized", "type", cfg.ProviderType)

	locationProvider, err := location.NewProvider(location.ProviderConfig{
		Type:   location.ProviderType(cfg.LocationProvider),
		APIKey: cfg.GoogleAPIKey,
		Static: models.GeoCoordinate{Latitude: cfg.StaticLatitude, Longitude: cfg.StaticLongitude},
		Store:  store,
		UserID: cfg.UserID,
		MaxAge: cfg.LocationMaxAge,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("Failed to create location provider: %v", err)
	}

	locationUpdater, err := location.NewUpdater(location.UpdaterConfig{
		Type:    location.UpdaterType(cfg.LocationSink),
		BaseURL: cfg.APIBaseURL,
		Token:   cfg.APIToken,
		Store:   store,
		UserID:  cfg.UserID,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("Failed to create location updater: %v", err)
	}
	logger.InfoContext(ctx, "Location initialized", "provider", cfg.LocationProvider, "sink", cfg.LocationSink)

	var heatmap *service.HeatmapService
	frames := newFrameWriter(os.Stdout, func() *render.Frame { return heatmap.Frame() }, logger)

	heatmap, err = service.NewHeatmapService(service.Options{
		Clusters:      clusterProvider,
		Location:      locationProvider,
		Updater:       locationUpdater,
		Viewport:      camera.NewViewportTracker(),
		Metrics:       appMetrics,
		Logger:        logger,
		RadiusKm:      cfg.RadiusKm,
		MaxClusters:   cfg.MaxClusters,
		ShowHeatmap:   cfg.ShowHeatmap,
		ShowClusters:  cfg.ShowClusters,
		QuietWindow:   cfg.QuietWindow,
		UpdateTimeout: cfg.UpdateTimeout,
		OnUpdate:      frames.Refresh,
	})
	if err != nil {
		log.Fatalf("Failed to create heatmap service: %v", err)
	}

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Send camera events on stdin, press Ctrl+C to stop.")

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	go startMonitoringServer(ctx, logger, reg, dtb, cfg.Port)

	events := make(chan service.Event)
	go readEvents(ctx, os.Stdin, events, logger)

	if err = heatmap.Run(ctx, events); err != nil {
		logger.ErrorContext(ctx, "Heatmap session failed", "error", err)
	}

	// Log that a shutdown has been requested.
	logger.InfoContext(ctx, "Stopping application...")
	heatmap.Close()

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - dtb: A pgxpool connector for database methods (ping), nil when postgres is not used
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb *pgxpool.Pool,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if dtb != nil {
			if err := dtb.Ping(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, "DB ping failed"
			}
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(readTimeout)*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified	 or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
