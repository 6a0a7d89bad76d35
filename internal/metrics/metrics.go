// Package metrics provides the centralized Prometheus registry for the
// strikeout-edge pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RowsParsedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strikeout_edge",
		Name:      "rows_parsed_total",
		Help:      "Total source rows parsed, by table",
	}, []string{"table"})
	RowsMalformedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strikeout_edge",
		Name:      "rows_malformed_total",
		Help:      "Total source rows excluded as malformed, by table",
	}, []string{"table"})
	TrainingRowsDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strikeout_edge",
		Name:      "training_rows_dropped_total",
		Help:      "Training rows dropped during assembly, by reason",
	}, []string{"reason"})
	NamesUnmatchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "strikeout_edge",
		Name:      "names_unmatched_total",
		Help:      "Prop player names that failed identity resolution",
	})
	SchemaFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strikeout_edge",
		Name:      "schema_fallbacks_total",
		Help:      "Schema columns synthesized with a neutral fallback at scoring time",
	}, []string{"column"})
	PredictionsScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "strikeout_edge",
		Name:      "predictions_scored_total",
		Help:      "Prop lines scored successfully",
	})
	PropsDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strikeout_edge",
		Name:      "props_dropped_total",
		Help:      "Prop lines dropped before scoring, by reason",
	}, []string{"reason"})
)

// Gauge metrics
var (
	TrainingMAE = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "strikeout_edge",
		Name:      "training_mae",
		Help:      "In-sample mean absolute error of the last training run",
	})
	TrainingR2 = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "strikeout_edge",
		Name:      "training_r2",
		Help:      "In-sample coefficient of determination of the last training run",
	})
	LastRunTimestamp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "strikeout_edge",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed run, by kind",
	}, []string{"kind"})
)

// Histogram metrics
var (
	PredictionEdge = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "strikeout_edge",
		Name:      "prediction_edge",
		Help:      "Signed edge (prediction minus line) of scored props",
		Buckets:   []float64{-3, -2, -1.5, -1, -0.75, -0.5, -0.25, 0, 0.25, 0.5, 0.75, 1, 1.5, 2, 3},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RowsParsedTotal)
		registry.MustRegister(RowsMalformedTotal)
		registry.MustRegister(TrainingRowsDroppedTotal)
		registry.MustRegister(NamesUnmatchedTotal)
		registry.MustRegister(SchemaFallbacksTotal)
		registry.MustRegister(PredictionsScoredTotal)
		registry.MustRegister(PropsDroppedTotal)

		registry.MustRegister(TrainingMAE)
		registry.MustRegister(TrainingR2)
		registry.MustRegister(LastRunTimestamp)

		registry.MustRegister(PredictionEdge)
	})
	return registry
}

// Handler returns an HTTP handler serving the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{})
}
