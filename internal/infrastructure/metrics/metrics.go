package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	LedgersCreated      prometheus.Counter
	ParticipantsCreated prometheus.Counter

	// Entry metrics
	EntriesCreated      *prometheus.CounterVec
	EntryTransitions    *prometheus.CounterVec
	TransitionConflicts prometheus.Counter
	TransitionDuration  prometheus.Histogram
	EntryAmount         prometheus.Histogram

	// Balance metrics
	BalanceComputations prometheus.Counter
	BalanceDuration     prometheus.Histogram

	// Event metrics
	EventsPublished *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Storage metrics
	StorageRetries *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all Prometheus metrics and registers them on reg
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		LedgersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_ledgers_created_total",
			Help: "Total number of ledgers created",
		}),
		ParticipantsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_participants_created_total",
			Help: "Total number of participants registered",
		}),

		// Entry metrics
		EntriesCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_entries_created_total",
				Help: "Total number of entries created by type",
			},
			[]string{"type"},
		),
		EntryTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_entry_transitions_total",
				Help: "Total entry transitions by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		TransitionConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_entry_transition_conflicts_total",
			Help: "Total transitions lost to a concurrent change",
		}),
		TransitionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "debtledger_entry_transition_duration_seconds",
			Help:    "Duration of entry transitions",
			Buckets: prometheus.DefBuckets,
		}),
		EntryAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "debtledger_entry_amount",
			Help:    "Entry amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Balance metrics
		BalanceComputations: factory.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_balance_computations_total",
			Help: "Total number of balance computations",
		}),
		BalanceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "debtledger_balance_duration_seconds",
			Help:    "Duration of balance computations",
			Buckets: prometheus.DefBuckets,
		}),

		// Event metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_events_published_total",
				Help: "Total events handed to the publisher by type and status",
			},
			[]string{"type", "status"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "debtledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "debtledger_http_in_flight_requests",
			Help: "Current number of HTTP requests being served",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_rate_limit_hits_total",
			Help: "Total rate limit hits",
		}),

		// Storage metrics
		StorageRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_storage_retries_total",
				Help: "Total retried storage transactions by reason",
			},
			[]string{"reason"},
		),
	}
}
