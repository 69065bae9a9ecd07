package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datastore_repository_operations_total",
			Help: "Total repository operations by entity, operation and status.",
		},
		[]string{"entity", "operation", "status"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datastore_repository_operation_seconds",
			Help:    "Repository operation latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"entity", "operation"},
	)

	transactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datastore_transactions_total",
			Help: "Total grouped transactions by status.",
		},
		[]string{"status"},
	)
)

// ObserveOperation records a completed repository operation.
func ObserveOperation(entity, operation string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	operationsTotal.WithLabelValues(entity, operation, status).Inc()
	operationDuration.WithLabelValues(entity, operation).Observe(duration.Seconds())
}

// ObserveTransaction records the outcome of a grouped transaction.
func ObserveTransaction(err error) {
	status := "committed"
	if err != nil {
		status = "rolled_back"
	}
	transactionsTotal.WithLabelValues(status).Inc()
}
