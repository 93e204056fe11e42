package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/heatmap/internal/camera"
	"github.com/UnknownOlympus/heatmap/internal/clusters"
	"github.com/UnknownOlympus/heatmap/internal/location"
	"github.com/UnknownOlympus/heatmap/internal/metrics"
	"github.com/UnknownOlympus/heatmap/internal/models"
	"github.com/UnknownOlympus/heatmap/internal/render"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidRadius is returned by SetRadius for a non-positive radius.
	ErrInvalidRadius = errors.New("radius must be positive")
	// ErrClosed is returned by operations on a closed service.
	ErrClosed = errors.New("heatmap service closed")
)

// HeatmapService reconciles the heat-map display state with camera movement,
// layer toggles and asynchronously arriving backend data.
type HeatmapService struct {
	log           *slog.Logger          // Logger for session events
	clusters      clusters.Provider     // Remote clustering service
	location      location.Provider     // Device location source
	updater       location.Updater      // Sink for fire-and-forget location pushes
	viewport      camera.ViewportSource // Visible map rectangle
	metrics       *metrics.Metrics      // Metrics for fetches, cache and staleness
	cache         *render.Cache         // Memoized drawables
	debouncer     *camera.Debouncer     // Camera event debouncer
	maxClusters   int                   // Cap passed to every cluster query
	updateTimeout time.Duration         // Bound on a location push
	pushFixes     bool                  // false when the provider replays stored fixes
	onUpdate      func()                // Change notification

	ctx    context.Context // session context, cancelled by Close
	cancel context.CancelFunc
	wg     sync.WaitGroup // background fetches and pushes

	mu             sync.Mutex
	state          models.DisplayState
	clusterIssued  uint64 // last cluster request id handed out
	clusterApplied uint64 // highest cluster request id applied
	heatmapIssued  uint64
	heatmapApplied uint64
	loadIssued     uint64 // last full reload started; older reloads do not touch status
	closed         bool
}

// NewHeatmapService creates a session in the Loading state. Call Load (or Run)
// to populate it and Close to release its timer and background work.
func NewHeatmapService(opts Options) (*HeatmapService, error) {
	if opts.Clusters == nil {
		return nil, errors.New("cluster provider is required")
	}
	if opts.Location == nil {
		return nil, errors.New("location provider is required")
	}
	if opts.Metrics == nil {
		return nil, errors.New("metrics are required")
	}
	opts.setDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	hs := &HeatmapService{
		log:           opts.Logger.With("component", "heatmap"),
		clusters:      opts.Clusters,
		location:      opts.Location,
		updater:       opts.Updater,
		viewport:      opts.Viewport,
		metrics:       opts.Metrics,
		cache:         render.NewCache(opts.Metrics),
		maxClusters:   opts.MaxClusters,
		updateTimeout: opts.UpdateTimeout,
		pushFixes:     !location.Replays(opts.Location),
		onUpdate:      opts.OnUpdate,
		ctx:           ctx,
		cancel:        cancel,
		state: models.DisplayState{
			ShowHeatmapLayer: opts.ShowHeatmap,
			ShowClusterLayer: opts.ShowClusters,
			RadiusKm:         opts.RadiusKm,
			ZoomLevel:        camera.MinZoom,
			Status:           models.StatusLoading,
		},
	}

	if !hs.pushFixes {
		hs.log.Info("Location provider replays stored fixes, location pushes disabled")
	}

	hs.debouncer = camera.NewDebouncer(camera.DebouncerConfig{
		QuietWindow: opts.QuietWindow,
		Viewport:    opts.Viewport,
		Radius:      hs.radius,
		OnSettle:    hs.onSettle,
		AfterFunc:   opts.AfterFunc,
		Logger:      opts.Logger,
		Metrics:     opts.Metrics,
	})

	return hs, nil
}

// Run starts the initial load and then applies events until ctx is done or
// events is closed. Full reloads run in the background so camera and toggle
// events keep flowing while fetches are in flight; their outcome is visible
// through State().Status. A missing location does not end the session and a
// reload event retries it. Run returns once its reloads have finished.
func (hs *HeatmapService) Run(ctx context.Context, events <-chan Event) error {
	hs.log.InfoContext(ctx, "Heatmap session started")

	var reloads sync.WaitGroup
	defer reloads.Wait()

	hs.reload(ctx, &reloads)

	for {
		select {
		case <-ctx.Done():
			hs.log.InfoContext(ctx, "Heatmap session stopped")
			return nil
		case ev, ok := <-events:
			if !ok {
				hs.log.InfoContext(ctx, "Event stream closed")
				return nil
			}
			hs.handle(ctx, ev, &reloads)
		}
	}
}

// reload runs Load in the background, tracked by reloads.
func (hs *HeatmapService) reload(ctx context.Context, reloads *sync.WaitGroup) {
	reloads.Add(1)
	started := hs.spawn(func(context.Context) {
		defer reloads.Done()

		err := hs.Load(ctx)
		if err != nil && !errors.Is(err, location.ErrLocationUnavailable) && !errors.Is(err, ErrClosed) {
			hs.log.WarnContext(ctx, "Reload failed", "error", err)
		}
	})
	if !started {
		reloads.Done()
	}
}

func (hs *HeatmapService) handle(ctx context.Context, ev Event, reloads *sync.WaitGroup) {
	switch ev.Type {
	case EventMove:
		if ev.Bounds != nil {
			if vu, ok := hs.viewport.(viewportUpdater); ok && !vu.Update(*ev.Bounds) {
				hs.log.DebugContext(ctx, "Ignoring invalid viewport", "bounds", *ev.Bounds)
			}
		}
		hs.OnCameraMove(ev.CameraPosition())
	case EventIdle:
		hs.OnCameraIdle()
	case EventRadius:
		if err := hs.setRadius(ctx, ev.RadiusKm); err != nil {
			hs.log.WarnContext(ctx, "Radius change failed", "radius_km", ev.RadiusKm, "error", err)
			return
		}
		hs.reload(ctx, reloads)
	case EventToggle:
		switch ev.Layer {
		case LayerHeatmap:
			hs.ToggleHeatmapLayer()
		case LayerClusters:
			hs.ToggleClusterLayer(ctx)
		default:
			hs.log.WarnContext(ctx, "Unknown layer", "layer", ev.Layer)
		}
	case EventReload:
		hs.reload(ctx, reloads)
	default:
		hs.log.WarnContext(ctx, "Unknown event", "type", ev.Type)
	}
}

type viewportUpdater interface {
	Update(bounds models.ViewportBounds) bool
}

// Load performs a full reload: resolve the location, push it, then fetch heatmap
// points and (with the cluster layer on) clusters concurrently. Only a missing
// location is returned; fetch failures are logged and the previous data is kept.
// When reloads overlap, only the most recently started one sets the location
// and the status.
func (hs *HeatmapService) Load(ctx context.Context) error {
	ctx, stop := hs.bind(ctx)
	defer stop()

	hs.mu.Lock()
	if hs.closed {
		hs.mu.Unlock()
		return ErrClosed
	}
	hs.loadIssued++
	gen := hs.loadIssued
	hs.state.Status = models.StatusLoading
	hs.mu.Unlock()
	hs.log.DebugContext(ctx, "Full reload started", "load", gen)

	coords, err := hs.location.CurrentLocation(ctx)
	if err != nil {
		hs.setLoadStatus(gen, models.StatusLocationUnavailable)
		hs.log.WarnContext(ctx, "Location unavailable", "error", err)
		if !errors.Is(err, location.ErrLocationUnavailable) {
			err = fmt.Errorf("%w: %w", location.ErrLocationUnavailable, err)
		}
		return err
	}
	if coords == nil {
		hs.setLoadStatus(gen, models.StatusLocationUnavailable)
		hs.log.WarnContext(ctx, "Location unavailable", "error", "no coordinates")
		return location.ErrLocationUnavailable
	}
	where := *coords

	hs.mu.Lock()
	if gen == hs.loadIssued {
		hs.state.UserLocation = &where
	}
	radius := hs.state.RadiusKm
	showClusters := hs.state.ShowClusterLayer
	zoom := camera.GroupZoom(hs.state.ZoomLevel)
	hs.heatmapIssued++
	heatmapSeq := hs.heatmapIssued
	hs.mu.Unlock()
	hs.onUpdate()

	if hs.pushFixes {
		hs.pushLocation(where)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hs.fetchHeatmap(gctx, heatmapSeq, clusters.HeatmapQuery{Center: where, RadiusKm: float64(radius)})
		return nil
	})

	if showClusters {
		query := clusters.Query{Zoom: zoom, RadiusKm: float64(radius), MaxClusters: hs.maxClusters}
		if bounds, vErr := hs.viewport.Viewport(ctx); vErr == nil && bounds.Valid() {
			query.Bounds = &bounds
		} else {
			hs.log.DebugContext(ctx, "Viewport unavailable, fetching clusters for the whole radius", "error", vErr)
		}
		seq := hs.nextClusterSeq()
		g.Go(func() error {
			hs.fetchClusters(gctx, seq, query)
			return nil
		})
	}

	_ = g.Wait()

	hs.setLoadStatus(gen, models.StatusReady)
	hs.log.InfoContext(ctx, "Full reload finished", "load", gen, "radius_km", radius, "location", where.String())

	return nil
}

// SetRadius changes the coverage radius and performs a full reload, since the
// radius changes the upstream density computation.
func (hs *HeatmapService) SetRadius(ctx context.Context, km int) error {
	if err := hs.setRadius(ctx, km); err != nil {
		return err
	}

	return hs.Load(ctx)
}

func (hs *HeatmapService) setRadius(ctx context.Context, km int) error {
	if km <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRadius, km)
	}

	hs.mu.Lock()
	if hs.closed {
		hs.mu.Unlock()
		return ErrClosed
	}
	hs.state.RadiusKm = km
	hs.mu.Unlock()

	hs.log.InfoContext(ctx, "Radius changed", "radius_km", km)
	hs.onUpdate()

	return nil
}

// ToggleHeatmapLayer flips the heatmap layer and returns the new value.
func (hs *HeatmapService) ToggleHeatmapLayer() bool {
	hs.mu.Lock()
	hs.state.ShowHeatmapLayer = !hs.state.ShowHeatmapLayer
	on := hs.state.ShowHeatmapLayer
	hs.mu.Unlock()

	hs.log.Debug("Heatmap layer toggled", "visible", on)
	hs.onUpdate()

	return on
}

// ToggleClusterLayer flips the cluster layer and returns the new value. Turning
// the layer on with no clusters cached starts exactly one fetch for the current
// viewport and grouped zoom.
func (hs *HeatmapService) ToggleClusterLayer(ctx context.Context) bool {
	hs.mu.Lock()
	hs.state.ShowClusterLayer = !hs.state.ShowClusterLayer
	on := hs.state.ShowClusterLayer
	needFetch := on && hs.state.LastClusters == nil && !hs.closed
	zoom := camera.GroupZoom(hs.state.ZoomLevel)
	radius := hs.state.RadiusKm
	hs.mu.Unlock()

	hs.log.DebugContext(ctx, "Cluster layer toggled", "visible", on)
	hs.onUpdate()

	if !needFetch {
		return on
	}

	bounds, err := hs.viewport.Viewport(ctx)
	if err != nil || !bounds.Valid() {
		hs.log.DebugContext(ctx, "Viewport unavailable, skipping cluster fetch", "error", err)
		return on
	}

	hs.startClusterFetch(clusters.Query{
		Zoom:        zoom,
		Bounds:      &bounds,
		RadiusKm:    float64(radius),
		MaxClusters: hs.maxClusters,
	})

	return on
}

// OnCameraMove records the zoom level and forwards the move to the debouncer.
func (hs *HeatmapService) OnCameraMove(pos camera.CameraPosition) {
	hs.mu.Lock()
	hs.state.ZoomLevel = pos.Zoom
	hs.mu.Unlock()

	hs.debouncer.Move(pos)
}

// OnCameraIdle starts the debounce quiet window.
func (hs *HeatmapService) OnCameraIdle() {
	hs.debouncer.Idle()
}

// ApplyFetchedClusters replaces the cached clusters wholesale with the response
// to request seq. A response older than one already applied is discarded and
// false is returned.
func (hs *HeatmapService) ApplyFetchedClusters(seq uint64, result []models.ClusterSummary) bool {
	if result == nil {
		result = []models.ClusterSummary{}
	}

	hs.mu.Lock()
	if seq < hs.clusterApplied {
		applied := hs.clusterApplied
		hs.mu.Unlock()

		hs.metrics.StaleResponses.Inc()
		hs.log.Info("Stale cluster response discarded", "seq", seq, "applied_seq", applied)
		return false
	}
	hs.clusterApplied = seq
	hs.state.LastClusters = result
	hs.state.ClusterRevision++
	hs.mu.Unlock()

	hs.log.Debug("Clusters applied", "seq", seq, "count", len(result))
	hs.onUpdate()

	return true
}

// State returns a deep copy of the display state.
func (hs *HeatmapService) State() models.DisplayState {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	return hs.state.Clone()
}

// Frame returns the drawables for the current state, reusing the cached frame
// when nothing that affects appearance has changed.
func (hs *HeatmapService) Frame() *render.Frame {
	return hs.cache.Frame(hs.State())
}

// Circles returns the circles of the current frame.
func (hs *HeatmapService) Circles() []models.Circle {
	return hs.Frame().Circles
}

// Close stops the debouncer, cancels in-flight work and waits for it to finish.
// It is safe to call more than once.
func (hs *HeatmapService) Close() {
	hs.mu.Lock()
	if hs.closed {
		hs.mu.Unlock()
		return
	}
	hs.closed = true
	hs.mu.Unlock()

	hs.debouncer.Close()
	hs.cancel()
	hs.wg.Wait()

	hs.log.Info("Heatmap service closed")
}

func (hs *HeatmapService) radius() int {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	return hs.state.RadiusKm
}

// setLoadStatus records the outcome of reload gen unless a newer reload has started.
func (hs *HeatmapService) setLoadStatus(gen uint64, status models.LoadStatus) {
	hs.mu.Lock()
	if gen != hs.loadIssued {
		hs.mu.Unlock()
		return
	}
	hs.state.Status = status
	hs.mu.Unlock()

	hs.onUpdate()
}

func (hs *HeatmapService) nextClusterSeq() uint64 {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	hs.clusterIssued++

	return hs.clusterIssued
}

// onSettle receives debounced camera settles.
func (hs *HeatmapService) onSettle(ctx context.Context, req camera.FetchRequest) {
	hs.mu.Lock()
	show := hs.state.ShowClusterLayer
	hs.mu.Unlock()

	if !show {
		hs.log.DebugContext(ctx, "Cluster layer hidden, settle ignored", "zoom", req.Zoom)
		return
	}

	bounds := req.Bounds
	hs.startClusterFetch(clusters.Query{
		Zoom:        req.Zoom,
		Bounds:      &bounds,
		RadiusKm:    float64(req.RadiusKm),
		MaxClusters: hs.maxClusters,
	})
}

// startClusterFetch issues a request id now and fetches in the background.
func (hs *HeatmapService) startClusterFetch(query clusters.Query) {
	seq := hs.nextClusterSeq()
	hs.spawn(func(ctx context.Context) {
		hs.fetchClusters(ctx, seq, query)
	})
}

// spawn runs f on the session context unless the service is closed.
func (hs *HeatmapService) spawn(f func(ctx context.Context)) bool {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	if hs.closed {
		return false
	}

	hs.wg.Add(1)
	go func() {
		defer hs.wg.Done()
		f(hs.ctx)
	}()

	return true
}

// bind derives a context from ctx that is also cancelled when the session closes.
func (hs *HeatmapService) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(hs.ctx, cancel)

	return ctx, func() {
		stop()
		cancel()
	}
}

func (hs *HeatmapService) fetchClusters(ctx context.Context, seq uint64, query clusters.Query) {
	hs.metrics.InflightFetches.Inc()
	defer hs.metrics.InflightFetches.Dec()

	hs.log.DebugContext(ctx, "Fetching clusters", "seq", seq, "zoom", query.Zoom, "radius_km", query.RadiusKm)

	startTime := time.Now()
	result, err := hs.clusters.FetchClusters(ctx, query)
	hs.metrics.RequestSeconds.WithLabelValues("clusters").Observe(time.Since(startTime).Seconds())

	if err != nil {
		hs.metrics.ClusterFetches.WithLabelValues("failure").Inc()
		hs.log.ErrorContext(ctx, "Cluster fetch failed", "seq", seq, "error", err)
		return
	}

	hs.metrics.ClusterFetches.WithLabelValues("success").Inc()
	hs.ApplyFetchedClusters(seq, result)
}

func (hs *HeatmapService) fetchHeatmap(ctx context.Context, seq uint64, query clusters.HeatmapQuery) {
	hs.metrics.InflightFetches.Inc()
	defer hs.metrics.InflightFetches.Dec()

	startTime := time.Now()
	points, err := hs.clusters.FetchHeatmap(ctx, query)
	hs.metrics.RequestSeconds.WithLabelValues("heatmap").Observe(time.Since(startTime).Seconds())

	if err != nil {
		hs.log.ErrorContext(ctx, "Heatmap fetch failed", "seq", seq, "error", err)
		return
	}
	if points == nil {
		points = []models.HeatmapPoint{}
	}

	hs.mu.Lock()
	if seq < hs.heatmapApplied {
		hs.mu.Unlock()
		hs.metrics.StaleResponses.Inc()
		hs.log.InfoContext(ctx, "Stale heatmap response discarded", "seq", seq)
		return
	}
	hs.heatmapApplied = seq
	hs.state.HeatmapPoints = points
	hs.state.HeatmapRevision++
	hs.mu.Unlock()

	hs.log.DebugContext(ctx, "Heatmap points applied", "seq", seq, "count", len(points))
	hs.onUpdate()
}

// pushLocation sends the device location in the background. Failures are logged only.
func (hs *HeatmapService) pushLocation(coords models.GeoCoordinate) {
	hs.spawn(func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, hs.updateTimeout)
		defer cancel()

		if err := hs.updater.UpdateLocation(ctx, coords); err != nil {
			hs.metrics.LocationUpdates.WithLabelValues("failure").Inc()
			hs.log.WarnContext(ctx, "Location update failed", "error", err)
			return
		}

		hs.metrics.LocationUpdates.WithLabelValues("success").Inc()
	})
}
