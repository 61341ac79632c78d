// Package metrics records pipeline runs in Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nulllvoid/visitfacts"
)

var _ visitfacts.Metrics = (*Metrics)(nil)

type Metrics struct {
	StageDuration *prometheus.HistogramVec // stage latency in seconds
	Fetches       *prometheus.CounterVec   // dataset fetches by status (ok, empty, failed)
	Rows          *prometheus.GaugeVec     // row count per table after the run
	Errors        *prometheus.CounterVec   // stage failures by error type

	gatherer prometheus.Gatherer
}

// NewMetrics registers the collectors on reg, or on a fresh registry when reg
// is nil.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "visitfacts_stage_duration_seconds",
				Help:    "Pipeline stage latency in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 300},
			},
			[]string{"pipeline", "stage"},
		),
		Fetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visitfacts_dataset_fetches_total",
				Help: "Dataset fetches by outcome",
			},
			[]string{"pipeline", "dataset", "status"},
		),
		Rows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "visitfacts_table_rows",
				Help: "Rows per table in the last run",
			},
			[]string{"pipeline", "table"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visitfacts_stage_errors_total",
				Help: "Stage failures by error type",
			},
			[]string{"pipeline", "stage", "type"},
		),
		gatherer: reg,
	}
}

func (m *Metrics) RecordStageDuration(pipeline, stage string, duration time.Duration) {
	m.StageDuration.WithLabelValues(pipeline, stage).Observe(duration.Seconds())
}

func (m *Metrics) RecordFetch(pipeline, dataset, status string) {
	m.Fetches.WithLabelValues(pipeline, dataset, status).Inc()
}

func (m *Metrics) RecordRowCount(pipeline, table string, count int) {
	m.Rows.WithLabelValues(pipeline, table).Set(float64(count))
}

func (m *Metrics) RecordError(pipeline, stage, errorType string) {
	m.Errors.WithLabelValues(pipeline, stage, errorType).Inc()
}

// WriteTextfile dumps every registered metric in the node-exporter textfile
// format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.gatherer)
}
