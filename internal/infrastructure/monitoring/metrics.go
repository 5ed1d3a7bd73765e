package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	PaymentsTotal        *prometheus.CounterVec
	ReconciliationsTotal *prometheus.CounterVec
	ReceiptFallbacks     prometheus.Counter
	SweepDuration        prometheus.Histogram
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_ledger_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		PaymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_ledger_payments_total",
				Help: "Payment write operations by operation and outcome.",
			},
			[]string{"operation", "status"},
		),
		ReconciliationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_ledger_reconciliations_total",
				Help: "Loan reconciliations by outcome.",
			},
			[]string{"outcome"},
		),
		ReceiptFallbacks: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loan_ledger_receipt_fallbacks_total",
				Help: "Receipt numbers derived from the clock after random candidates were exhausted.",
			},
		),
		SweepDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loan_ledger_reconcile_sweep_duration_seconds",
				Help:    "Duration of the scheduled reconciliation sweep.",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordPayment(operation, status string) {
	Business.PaymentsTotal.WithLabelValues(operation, status).Inc()
}

func RecordReconciliation(outcome string) {
	Business.ReconciliationsTotal.WithLabelValues(outcome).Inc()
}

func RecordReceiptFallback() {
	Business.ReceiptFallbacks.Inc()
}

func RecordSweep(duration time.Duration) {
	Business.SweepDuration.Observe(duration.Seconds())
}

// QueryStatus labels a query outcome for RecordDBQuery.
func QueryStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
