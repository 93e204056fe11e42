// Package logtest captures slog records so tests can assert on emitted events.
package logtest

import (
	"context"
	"log/slog"
	"sync"
)

// Record is a captured log entry with its attributes flattened.
type Record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// Recorder is a slog.Handler that keeps every record in memory.
type Recorder struct {
	mu      *sync.Mutex
	records *[]Record
	attrs   []slog.Attr
}

// NewRecorder returns a recorder and a logger writing to it at debug level.
func NewRecorder() (*Recorder, *slog.Logger) {
	rec := &Recorder{mu: &sync.Mutex{}, records: &[]Record{}}

	return rec, slog.New(rec)
}

func (r *Recorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *Recorder) Handle(_ context.Context, record slog.Record) error {
	attrs := make(map[string]any, record.NumAttrs()+len(r.attrs))
	for _, a := range r.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	record.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	*r.records = append(*r.records, Record{Level: record.Level, Message: record.Message, Attrs: attrs})

	return nil
}

func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Recorder{
		mu:      r.mu,
		records: r.records,
		attrs:   append(append([]slog.Attr(nil), r.attrs...), attrs...),
	}
}

// WithGroup is not needed by the code under test; groups are flattened.
func (r *Recorder) WithGroup(string) slog.Handler { return r }

// Records returns a copy of everything captured so far.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Record(nil), *r.records...)
}

// Messages returns the messages of all captured records.
func (r *Recorder) Messages() []string {
	records := r.Records()
	msgs := make([]string, len(records))
	for i, rec := range records {
		msgs[i] = rec.Message
	}

	return msgs
}

// Count returns how many records carry the given message.
func (r *Recorder) Count(msg string) int {
	n := 0
	for _, rec := range r.Records() {
		if rec.Message == msg {
			n++
		}
	}

	return n
}
