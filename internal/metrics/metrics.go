package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vladimiradmaev/qadha-helper/internal/logger"
)

const namespace = "qadha_helper"

var (
	once sync.Once

	updatesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_processed_total",
			Help:      "Count of Telegram updates processed by kind.",
		},
		[]string{"kind"},
	)

	updateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "update_processing_seconds",
			Help:      "Time spent processing a Telegram update.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	estimations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimations_total",
			Help:      "Count of Qadha estimations by madhab.",
		},
		[]string{"madhab"},
	)

	ledgerOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Count of daily ledger operations by kind.",
		},
		[]string{"kind"},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Count of handled errors by type.",
		},
		[]string{"type"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(updatesProcessed, updateDuration, estimations, ledgerOps, errorsTotal)
	})
}

func IncUpdate(kind string) {
	updatesProcessed.WithLabelValues(kind).Inc()
}

func ObserveUpdateDuration(d time.Duration) {
	updateDuration.Observe(d.Seconds())
}

func IncEstimation(madhab string) {
	estimations.WithLabelValues(madhab).Inc()
}

func IncLedger(kind string) {
	ledgerOps.WithLabelValues(kind).Inc()
}

func IncError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	logger.Info("Metrics server started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Metrics server error", "error", err)
	}
}
