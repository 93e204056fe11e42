package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/heatmap/internal/render"
	"github.com/UnknownOlympus/heatmap/internal/service"
)

// maxEventLine bounds one JSON event line.
const maxEventLine = 64 * 1024

// readEvents decodes one JSON event per line from r and sends it on out.
// Malformed lines are logged and skipped. out is closed when r is exhausted.
func readEvents(ctx context.Context, r io.Reader, out chan<- service.Event, log *slog.Logger) {
	defer close(out)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxEventLine)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var ev service.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			log.WarnContext(ctx, "Skipping malformed event", "line", line, "error", err)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case out <- ev:
		}
	}

	if err := scanner.Err(); err != nil {
		log.ErrorContext(ctx, "Failed to read events", "error", err)
	}
}

// frameWriter writes the current frame as one GeoJSON line whenever its key changes.
// The frame is taken from source while the writer's lock is held, so concurrent
// refreshes write frames in the order they were computed.
type frameWriter struct {
	mu      sync.Mutex
	w       io.Writer
	source  func() *render.Frame
	log     *slog.Logger
	lastKey string
}

func newFrameWriter(w io.Writer, source func() *render.Frame, log *slog.Logger) *frameWriter {
	return &frameWriter{w: w, source: source, log: log}
}

func (fw *frameWriter) Refresh() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	frame := fw.source()
	if frame.Key == fw.lastKey {
		return
	}

	data, err := render.EncodeGeoJSON(frame)
	if err != nil {
		fw.log.Error("Failed to encode frame", "error", err)
		return
	}

	if _, err = fw.w.Write(append(data, '\n')); err != nil {
		fw.log.Error("Failed to write frame", "error", err)
		return
	}
	fw.lastKey = frame.Key
}
