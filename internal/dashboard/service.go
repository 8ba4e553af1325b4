package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/feastline/feastline-admin/internal/orders"
)

// RecordSource supplies the order snapshot a dashboard load aggregates.
// The store is queried exactly once per load; every derived view is
// computed from that single consistent snapshot.
type RecordSource interface {
	Snapshot(ctx context.Context, cutoff *time.Time) (orders.Snapshot, error)
}

// Recorder receives aggregation telemetry. Implemented by the
// observability package; optional.
type Recorder interface {
	ObserveAggregation(window string, duration time.Duration, skipped int)
}

// Service coordinates dashboard loads with the cache layer. State never
// survives an invocation: each load produces a fresh complete result.
type Service struct {
	source  RecordSource
	cache   *Cache
	metrics Recorder
	now     func() time.Time
}

// NewService wires a RecordSource with a Cache helper.
func NewService(source RecordSource, cache *Cache) *Service {
	return &Service{source: source, cache: cache, now: time.Now}
}

// WithMetrics attaches an aggregation telemetry sink.
func (s *Service) WithMetrics(rec Recorder) *Service {
	s.metrics = rec
	return s
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Load resolves the window against the current clock, pulls one record
// snapshot and derives all dashboard views from it, consulting the cache
// first when one is configured. A failed snapshot pull surfaces as an
// error; no partial or stale views are substituted here.
func (s *Service) Load(ctx context.Context, window Window) (Views, error) {
	cutoff := window.Cutoff(s.now().UTC())

	loader := func(ctx context.Context) (interface{}, error) {
		started := time.Now()
		snap, err := s.source.Snapshot(ctx, cutoff)
		if err != nil {
			return Views{}, fmt.Errorf("dashboard: fetch records: %w", err)
		}
		views := ComputeViews(snap.Orders, cutoff)
		views.Skipped += snap.Skipped
		if s.metrics != nil {
			s.metrics.ObserveAggregation(string(window), time.Since(started), views.Skipped)
		}
		return views, nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return Views{}, err
		}
		return value.(Views), nil
	}

	key, err := s.cache.BuildKey(ctx, keyViews(window))
	if err != nil {
		return Views{}, err
	}
	var views Views
	if err := s.cache.FetchJSON(ctx, key, &views, loader); err != nil {
		return Views{}, err
	}
	return views, nil
}

// Invalidate drops every cached view, forcing the next load to recompute.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
