package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestTrackerRecordsOnProvidedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	tracker := metrics.Track("dashboard:warmup")
	if err := tracker.End(nil); err != nil {
		t.Fatalf("end returned %v", err)
	}

	failure := errors.New("boom")
	tracker = metrics.Track("dashboard:warmup")
	if err := tracker.End(failure); !errors.Is(err, failure) {
		t.Fatalf("end must return the error untouched, got %v", err)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, fam := range families {
		found[fam.GetName()] = true
	}
	for _, name := range []string{"feastline_jobs_total", "feastline_jobs_failures_total", "feastline_job_duration_seconds"} {
		if !found[name] {
			t.Fatalf("collector %s missing from registry, got %v", name, found)
		}
	}
}

func TestNilTrackerIsSafe(t *testing.T) {
	var tracker *Tracker
	if err := tracker.End(nil); err != nil {
		t.Fatalf("nil tracker end returned %v", err)
	}
}
