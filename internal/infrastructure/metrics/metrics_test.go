package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWithRegistryRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegistry(registry)

	if m.LedgersCreated == nil || m.EntryTransitions == nil || m.HTTPRequests == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.EntriesCreated.WithLabelValues("debt").Inc()
	m.EntryTransitions.WithLabelValues("approve", "success").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	if got := testutil.ToFloat64(m.EntriesCreated.WithLabelValues("debt")); got != 1 {
		t.Fatalf("expected 1 debt entry, got %v", got)
	}
}

func TestNewWithRegistryIsolated(t *testing.T) {
	// Two registries must not collide on metric names.
	a := NewWithRegistry(prometheus.NewRegistry())
	b := NewWithRegistry(prometheus.NewRegistry())

	a.LedgersCreated.Inc()
	if got := testutil.ToFloat64(b.LedgersCreated); got != 0 {
		t.Fatalf("expected isolated counters, got %v", got)
	}
}
