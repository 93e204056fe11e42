// Package render derives drawable circles and cluster markers from the display
// state and memoizes them by a content key.
package render

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/UnknownOlympus/heatmap/internal/metrics"
	"github.com/UnknownOlympus/heatmap/internal/models"
	"github.com/cespare/xxhash/v2"
)

// Frame is one computed set of drawables together with the key it was built for.
type Frame struct {
	Key     string
	Circles []models.Circle
	Markers []models.Marker
}

// Empty reports whether the frame has nothing to draw.
func (f *Frame) Empty() bool {
	return len(f.Circles) == 0 && len(f.Markers) == 0
}

// Key hashes every display field that changes what is drawn.
// ZoomLevel and Status are excluded so camera animation does not invalidate the cache.
func Key(state models.DisplayState) string {
	buf := make([]byte, 0, 64)

	if state.UserLocation != nil {
		buf = append(buf, 1)
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(state.UserLocation.Latitude))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(state.UserLocation.Longitude))
	} else {
		buf = append(buf, 0)
	}

	buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(state.RadiusKm)))
	buf = append(buf, boolByte(state.ShowHeatmapLayer), boolByte(state.ShowClusterLayer))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(state.LastClusters)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(state.HeatmapPoints)))
	buf = binary.LittleEndian.AppendUint64(buf, state.ClusterRevision)
	buf = binary.LittleEndian.AppendUint64(buf, state.HeatmapRevision)

	return fmt.Sprintf("%016x", xxhash.Sum64(buf))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}

	return 0
}

// Cache keeps the last non-empty frame. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	frame   *Frame
	metrics *metrics.Metrics
}

// NewCache creates an empty render cache.
func NewCache(m *metrics.Metrics) *Cache {
	return &Cache{metrics: m}
}

// Frame returns the drawables for state. When the key matches the cached frame the
// same pointer is returned. Empty frames are returned but never cached.
func (c *Cache) Frame(state models.DisplayState) *Frame {
	key := Key(state)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frame != nil && c.frame.Key == key {
		c.metrics.RenderCache.WithLabelValues("hit").Inc()
		return c.frame
	}

	c.metrics.RenderCache.WithLabelValues("miss").Inc()
	frame := build(key, state)
	if !frame.Empty() {
		c.frame = frame
	}

	return frame
}

// Circles is Frame(state).Circles.
func (c *Cache) Circles(state models.DisplayState) []models.Circle {
	return c.Frame(state).Circles
}

// Invalidate drops the cached frame.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.frame = nil
	c.mu.Unlock()
}

func build(key string, state models.DisplayState) *Frame {
	frame := &Frame{Key: key}

	if loc := state.UserLocation; loc != nil && state.RadiusKm > 0 {
		radius := float64(state.RadiusKm) * 1000
		frame.Circles = append(frame.Circles, models.Circle{
			ID:           "coverage",
			Kind:         models.CircleCoverage,
			Center:       *loc,
			RadiusMeters: radius,
			FillColor:    coverageFill,
			StrokeColor:  coverageStroke,
			Outline:      geodesicOutline(*loc, radius, coverageVertices),
		})
	}

	if state.ShowHeatmapLayer {
		for i, p := range state.HeatmapPoints {
			style := styleForDensity(p.Density)
			frame.Circles = append(frame.Circles, models.Circle{
				ID:           "heatmap-" + strconv.Itoa(i),
				Kind:         models.CircleHeatmap,
				Center:       p.Position,
				RadiusMeters: style.radiusMeters,
				FillColor:    style.fill,
				StrokeColor:  style.stroke,
				Outline:      geodesicOutline(p.Position, style.radiusMeters, heatmapVertices),
			})
		}
	}

	if state.ShowClusterLayer {
		for _, cluster := range state.LastClusters {
			status := cluster.DominantStatus()
			frame.Markers = append(frame.Markers, models.Marker{
				ID:        cluster.ID,
				Position:  cluster.Position,
				Size:      sizeForCount(cluster.UserCount),
				Color:     colorForStatus(status),
				Status:    status,
				UserCount: cluster.UserCount,
			})
		}
	}

	return frame
}
