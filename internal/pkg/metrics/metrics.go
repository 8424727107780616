package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	ledgerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messpay",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Total number of wallet ledger operations.",
		},
		[]string{"op", "result"},
	)

	ledgerTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messpay",
			Subsystem: "ledger",
			Name:      "tokens_total",
			Help:      "Tokens moved by successful ledger operations.",
		},
		[]string{"op"},
	)

	orderPlacements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messpay",
			Subsystem: "orders",
			Name:      "placements_total",
			Help:      "Order placements by result (created or rejection reason).",
		},
		[]string{"result"},
	)

	orderStatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messpay",
			Subsystem: "orders",
			Name:      "status_changes_total",
			Help:      "Order status updates by target status.",
		},
		[]string{"status"},
	)

	compensations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messpay",
			Subsystem: "orders",
			Name:      "compensations_total",
			Help:      "Refund credits issued after a failed order write.",
		},
		[]string{"success"},
	)

	rechargeRuns = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "messpay",
			Subsystem: "recharge",
			Name:      "run_duration_seconds",
			Help:      "Duration of scheduled token recharge runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		ledgerOperations,
		ledgerTokens,
		orderPlacements,
		orderStatusChanges,
		compensations,
		rechargeRuns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordLedgerOperation records one ledger call. amount is counted only when result is "ok".
func RecordLedgerOperation(op, result string, amount int64) {
	ledgerOperations.WithLabelValues(op, result).Inc()
	if result == "ok" && amount > 0 {
		ledgerTokens.WithLabelValues(op).Add(float64(amount))
	}
}

// RecordOrderPlacement records an order placement outcome.
func RecordOrderPlacement(result string) {
	orderPlacements.WithLabelValues(result).Inc()
}

// RecordStatusChange records an order status update.
func RecordStatusChange(status string) {
	orderStatusChanges.WithLabelValues(status).Inc()
}

// RecordCompensation records a refund issued for a failed order write.
func RecordCompensation(success bool) {
	result := "false"
	if success {
		result = "true"
	}
	compensations.WithLabelValues(result).Inc()
}

// RecordRechargeRun records one scheduled recharge run.
func RecordRechargeRun(result string, duration time.Duration) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	rechargeRuns.WithLabelValues(result).Observe(duration.Seconds())
}
