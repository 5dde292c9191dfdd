// Package metrics собирает счётчики процесса для Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tutor_connect"

// Значения метки result
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultHit     = "hit"
	ResultMiss    = "miss"
)

var (
	// Bookings попытки бронирования
	Bookings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_total",
		Help:      "Booking attempts by result.",
	}, []string{"result"})

	// CacheFallbacks обращения к локальному кэшу после ошибки каталога
	CacheFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_fallbacks_total",
		Help:      "Booking overview cache fallbacks by result.",
	}, []string{"result"})

	// SlotMutations изменения предметов и слотов
	SlotMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_mutations_total",
		Help:      "Subject and slot mutations by operation.",
	}, []string{"op"})

	// DirectoryLatency время операций каталога
	DirectoryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "directory_operation_seconds",
		Help:      "Directory operation latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op", "result"})
)

// ObserveDirectory фиксирует длительность операции каталога
func ObserveDirectory(op string, start time.Time, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	DirectoryLatency.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}

// Router служебные эндпоинты: /health и /metrics
func Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
