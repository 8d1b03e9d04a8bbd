package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// spill-detection pipeline.
type Metrics struct {
	RunsTotal     *prometheus.CounterVec // labels: outcome={success,aborted}
	RunDuration   prometheus.Histogram
	RunInFlight   prometheus.Gauge
	WrecksScanned prometheus.Counter
	WrecksSkipped prometheus.Counter

	CandidatesEvaluated prometheus.Counter
	EventsWritten       *prometheus.CounterVec // labels: severity={info,warning,critical}
	WriteErrors         prometheus.Counter
	AlertsPublished     prometheus.Counter

	QueryDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wreck_oil",
			Name:      "runs_total",
			Help:      "Completed detection runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wreck_oil",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete detection run over all wrecks.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		RunInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wreck_oil",
			Name:      "run_in_flight",
			Help:      "1 while a detection run is executing, 0 otherwise.",
		}),
		WrecksScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wreck_oil",
			Name:      "wrecks_scanned_total",
			Help:      "Wrecks with resolved coordinates that were evaluated.",
		}),
		WrecksSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wreck_oil",
			Name:      "wrecks_skipped_total",
			Help:      "Wrecks skipped because no coordinate shape resolved.",
		}),
		CandidatesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wreck_oil",
			Name:      "candidates_evaluated_total",
			Help:      "Dark-spot candidates scored against the thresholds.",
		}),
		EventsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wreck_oil",
			Name:      "events_written_total",
			Help:      "Spill events upserted into the store by severity.",
		}, []string{"severity"}),
		WriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wreck_oil",
			Name:      "write_errors_total",
			Help:      "Event writes that failed and were skipped.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wreck_oil",
			Name:      "alerts_published_total",
			Help:      "Exceeded events fanned out to the alert topic.",
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wreck_oil",
			Name:      "imagery_query_duration_seconds",
			Help:      "Duration of one imagery platform detection query.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.RunInFlight,
		m.WrecksScanned,
		m.WrecksSkipped,
		m.CandidatesEvaluated,
		m.EventsWritten,
		m.WriteErrors,
		m.AlertsPublished,
		m.QueryDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wreck_oil", Name: "runs_total"}, []string{"outcome"}),
		RunDuration:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wreck_oil", Name: "run_duration_seconds"}),
		RunInFlight:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wreck_oil", Name: "run_in_flight"}),
		WrecksScanned:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wreck_oil", Name: "wrecks_scanned_total"}),
		WrecksSkipped:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wreck_oil", Name: "wrecks_skipped_total"}),
		CandidatesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wreck_oil", Name: "candidates_evaluated_total"}),
		EventsWritten:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wreck_oil", Name: "events_written_total"}, []string{"severity"}),
		WriteErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wreck_oil", Name: "write_errors_total"}),
		AlertsPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wreck_oil", Name: "alerts_published_total"}),
		QueryDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wreck_oil", Name: "imagery_query_duration_seconds"}),
	}
}
