package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	dbOperationsTotal      *prometheus.CounterVec
	dbOperationLatency     *prometheus.HistogramVec
	dbOperationErrorsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for database
// observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		dbOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_operations_total",
			Help: "Total number of database operations executed.",
		}, []string{"operation", "table"})

		dbOperationLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_operation_latency_seconds",
			Help:    "Latency distribution for database operations.",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"operation", "table"})

		dbOperationErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_operation_errors_total",
			Help: "Total number of database operations that returned an error.",
		}, []string{"operation", "table"})

		prometheus.MustRegister(dbOperationsTotal, dbOperationLatency, dbOperationErrorsTotal)
	})
}

// DBOperations exposes the counter for executed operations.
func DBOperations() *prometheus.CounterVec {
	RegisterMetrics()
	return dbOperationsTotal
}

// DBOperationLatency exposes the latency histogram for operations.
func DBOperationLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return dbOperationLatency
}

// DBOperationErrors exposes the counter for failed operations.
func DBOperationErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return dbOperationErrorsTotal
}
