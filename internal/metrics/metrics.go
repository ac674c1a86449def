package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhooksReceived counts inbound notifications by kind and outcome.
	WebhooksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payment_ledger",
		Name:      "webhooks_received_total",
		Help:      "Inbound payment notifications by kind and outcome.",
	}, []string{"kind", "outcome"})

	// UnknownProviderStatuses counts gateway statuses outside the known vocabulary.
	UnknownProviderStatuses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payment_ledger",
		Name:      "unknown_provider_status_total",
		Help:      "Gateway statuses mapped to pending because they are not recognised.",
	}, []string{"status"})

	// Reconciliations counts reconciler outcomes by target status.
	Reconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payment_ledger",
		Name:      "reconciliations_total",
		Help:      "Reconciliation attempts by target status and result.",
	}, []string{"to", "result"})

	// BalanceMutations counts applied balance ledger entries.
	BalanceMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payment_ledger",
		Name:      "balance_mutations_total",
		Help:      "Balance ledger entries by direction and result.",
	}, []string{"direction", "result"})

	// PaymentAnomalies counts gateway payments that were refused or need
	// manual action, by reason.
	PaymentAnomalies = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payment_ledger",
		Name:      "payment_anomalies_total",
		Help:      "Gateway payments refused or left for manual action, by reason.",
	}, []string{"reason"})

	// GatewayLatency observes gateway round trips.
	GatewayLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "payment_ledger",
		Name:      "gateway_request_seconds",
		Help:      "Payment gateway request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})
)
