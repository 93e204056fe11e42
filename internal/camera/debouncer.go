package camera

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/heatmap/internal/metrics"
	"github.com/UnknownOlympus/heatmap/internal/models"
)

// DefaultQuietWindow is how long the camera must stay idle before a fetch fires.
const DefaultQuietWindow = 300 * time.Millisecond

// State is the debouncer's position in its state machine.
type State int

const (
	StateIdle State = iota
	StateMoving
	StateSettling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMoving:
		return "moving"
	case StateSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// CameraPosition is reported by the map on every camera move callback.
type CameraPosition struct {
	Target models.GeoCoordinate `json:"target"`
	Zoom   float64              `json:"zoom"`
}

// FetchRequest is emitted once per settled camera.
type FetchRequest struct {
	Zoom     float64               // grouped zoom
	Bounds   models.ViewportBounds // viewport at settle time
	RadiusKm int
}

// Stopper cancels a scheduled function.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through StdAfterFunc.
type AfterFunc func(d time.Duration, f func()) Stopper

// StdAfterFunc schedules f with the runtime timer.
func StdAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// DebouncerConfig wires a Debouncer to its collaborators.
type DebouncerConfig struct {
	// QuietWindow defaults to DefaultQuietWindow.
	QuietWindow time.Duration
	// Viewport is queried when the timer expires.
	Viewport ViewportSource
	// Radius returns the current radius in km.
	Radius func() int
	// OnSettle receives one request per settle.
	OnSettle func(ctx context.Context, req FetchRequest)
	// AfterFunc defaults to StdAfterFunc.
	AfterFunc AfterFunc
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// Debouncer suppresses fetches while the camera moves and fires exactly one
// FetchRequest after the camera has been idle for the quiet window.
type Debouncer struct {
	cfg    DebouncerConfig
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	state      State
	zoom       float64
	timer      Stopper
	generation uint64 // invalidates expiries of cancelled timers
	closed     bool
}

// NewDebouncer creates an idle debouncer. Close must be called to release its timer.
func NewDebouncer(cfg DebouncerConfig) *Debouncer {
	if cfg.QuietWindow <= 0 {
		cfg.QuietWindow = DefaultQuietWindow
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = StdAfterFunc
	}
	if cfg.Radius == nil {
		cfg.Radius = func() int { return 0 }
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Viewport == nil {
		cfg.Viewport = NewViewportTracker()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Debouncer{
		cfg:    cfg,
		log:    cfg.Logger.With("component", "debouncer"),
		ctx:    ctx,
		cancel: cancel,
		zoom:   MinZoom,
	}
}

// State returns the current state.
func (d *Debouncer) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state
}

// Move handles a camera-move callback.
func (d *Debouncer) Move(pos CameraPosition) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.zoom = pos.Zoom

	switch d.state {
	case StateMoving:
		return
	case StateSettling:
		d.log.DebugContext(d.ctx, "Camera moved during quiet window, fetch cancelled")
	case StateIdle:
	}
	d.stopTimerLocked()
	d.state = StateMoving
}

// Idle handles a camera-idle callback and (re)starts the quiet window.
func (d *Debouncer) Idle() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	d.stopTimerLocked()
	gen := d.generation
	d.timer = d.cfg.AfterFunc(d.cfg.QuietWindow, func() { d.expire(gen) })
	d.state = StateSettling
}

// Close cancels any pending timer. Events after Close are ignored.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.stopTimerLocked()
	d.closed = true
	d.state = StateIdle
	d.cancel()
}

func (d *Debouncer) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}

func (d *Debouncer) expire(gen uint64) {
	d.mu.Lock()
	if d.closed || d.state != StateSettling || gen != d.generation {
		d.mu.Unlock()
		return
	}
	d.state = StateIdle
	d.timer = nil
	zoom := d.zoom
	d.mu.Unlock()

	bounds, err := d.cfg.Viewport.Viewport(d.ctx)
	if err != nil {
		d.log.DebugContext(d.ctx, "Viewport unavailable, skipping cluster fetch", "error", err)
		return
	}
	if !bounds.Valid() {
		d.log.DebugContext(d.ctx, "Viewport invalid, skipping cluster fetch", "bounds", bounds)
		return
	}

	req := FetchRequest{Zoom: GroupZoom(zoom), Bounds: bounds, RadiusKm: d.cfg.Radius()}
	if d.cfg.Metrics != nil {
		d.cfg.Metrics.DebounceSettles.Inc()
	}
	d.log.DebugContext(d.ctx, "Camera settled", "zoom", req.Zoom, "radius_km", req.RadiusKm)

	if d.cfg.OnSettle != nil {
		d.cfg.OnSettle(d.ctx, req)
	}
}
