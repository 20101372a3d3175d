package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// vessel-call pipeline.
type Metrics struct {
	EventsIngested prometheus.Counter
	EventsExcluded prometheus.Counter
	EventsRejected prometheus.Counter

	Intervals      *prometheus.CounterVec // label: status (Matched, Mismatch_Arrive, ...)
	DictionaryHits prometheus.Counter
	DictionaryMiss prometheus.Counter

	LookupFiltered prometheus.Counter
	ManifestRows   *prometheus.CounterVec // label: outcome={matched,not_matched,error}
	MatchPath      *prometheus.CounterVec // label: path={imo,name}

	StageDuration *prometheus.HistogramVec // label: stage={ingest,align,enrich,match,write}
	RunDuration   prometheus.Histogram
	RunsCompleted prometheus.Counter
	RunActive     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.EventsIngested,
		m.EventsExcluded,
		m.EventsRejected,
		m.Intervals,
		m.DictionaryHits,
		m.DictionaryMiss,
		m.LookupFiltered,
		m.ManifestRows,
		m.MatchPath,
		m.StageDuration,
		m.RunDuration,
		m.RunsCompleted,
		m.RunActive,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EventsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rivercall",
			Name:      "events_ingested_total",
			Help:      "Movement-event rows read from the source files.",
		}),
		EventsExcluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rivercall",
			Name:      "events_excluded_total",
			Help:      "Rows dropped by the vessel exclusion list.",
		}),
		EventsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rivercall",
			Name:      "events_rejected_total",
			Help:      "Rows dropped for unusable identifiers.",
		}),
		Intervals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rivercall",
			Name:      "intervals_total",
			Help:      "Stay intervals emitted by the aligner, by match status.",
		}, []string{"status"}),
		DictionaryHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rivercall",
			Name:      "dictionary_hits_total",
			Help:      "Intervals whose zone resolved to a berth dictionary entry.",
		}),
		DictionaryMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rivercall",
			Name:      "dictionary_misses_total",
			Help:      "Intervals retained without a dictionary match.",
		}),
		LookupFiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rivercall",
			Name:      "lookup_filtered_total",
			Help:      "Lookup intervals dropped as non-berth before indexing.",
		}),
		ManifestRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rivercall",
			Name:      "manifest_rows_total",
			Help:      "Manifest rows processed, by outcome.",
		}, []string{"outcome"}),
		MatchPath: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rivercall",
			Name:      "match_path_total",
			Help:      "Matched manifest rows by index path.",
		}, []string{"path"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rivercall",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}, []string{"stage"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rivercall",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete batch run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 1800},
		}),
		RunsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rivercall",
			Name:      "runs_completed_total",
			Help:      "Batch runs that produced an output file.",
		}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rivercall",
			Name:      "run_active",
			Help:      "1 while a batch run is in progress.",
		}),
	}
}
