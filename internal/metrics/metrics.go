// Package metrics provides the centralized Prometheus metrics registry for the
// odds generation tools.
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
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "diamond_odds",
		Name:      "provider_requests_total",
		Help:      "Total number of data provider requests by endpoint and outcome",
	}, []string{"endpoint", "status"})
	StatsFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "diamond_odds",
		Name:      "stats_fallbacks_total",
		Help:      "Total number of team stats requests served from the standings fallback",
	})
	TrainingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "diamond_odds",
		Name:      "training_runs_total",
		Help:      "Total number of model training runs by outcome",
	}, []string{"status"})
	GamesScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "diamond_odds",
		Name:      "games_scored_total",
		Help:      "Total number of games scored by the fitted model",
	})
	ModelLoadErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "diamond_odds",
		Name:      "model_load_errors_total",
		Help:      "Total number of failed model artifact loads",
	})
	WeatherCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "diamond_odds",
		Name:      "weather_cache_hits_total",
		Help:      "Total number of forecast requests served from the in-memory cache",
	})
)

// Gauge metrics
var (
	TrainingRowsUsed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "diamond_odds",
		Name:      "training_rows_used",
		Help:      "Number of labeled rows used by the most recent training run",
	})
	ValidationBrierScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "diamond_odds",
		Name:      "validation_brier_score",
		Help:      "Brier score of the most recent training run's validation fold",
	})
	ValidationLogLoss = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "diamond_odds",
		Name:      "validation_log_loss",
		Help:      "Log loss of the most recent training run's validation fold",
	})
)

// Histogram metrics
var (
	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "diamond_odds",
		Name:      "provider_request_duration_seconds",
		Help:      "Latency of data provider requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "diamond_odds",
		Name:      "training_duration_seconds",
		Help:      "Duration of model training runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(StatsFallbacksTotal)
		registry.MustRegister(TrainingRunsTotal)
		registry.MustRegister(GamesScoredTotal)
		registry.MustRegister(ModelLoadErrorsTotal)
		registry.MustRegister(WeatherCacheHitsTotal)

		registry.MustRegister(TrainingRowsUsed)
		registry.MustRegister(ValidationBrierScore)
		registry.MustRegister(ValidationLogLoss)

		registry.MustRegister(ProviderRequestDuration)
		registry.MustRegister(TrainingDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordProviderRequest records a provider call with its outcome and latency.
func RecordProviderRequest(endpoint, status string, durationSeconds float64) {
	ProviderRequestsTotal.WithLabelValues(endpoint, status).Inc()
	ProviderRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordTrainingRun records a completed training run.
func RecordTrainingRun(status string, durationSeconds float64) {
	TrainingRunsTotal.WithLabelValues(status).Inc()
	TrainingDuration.Observe(durationSeconds)
}

// RecordValidationMetrics updates the validation gauges after training.
func RecordValidationMetrics(rows int, brier, logLoss float64) {
	TrainingRowsUsed.Set(float64(rows))
	ValidationBrierScore.Set(brier)
	ValidationLogLoss.Set(logLoss)
}
