// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector. Create one per registry with New.
type Metrics struct {
	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec

	// BalanceComputations counts aggregate+plan runs.
	BalanceComputations prometheus.Counter
	// SettlementPayments observes the number of payments per plan.
	SettlementPayments prometheus.Histogram
	// MissingMemberRefs counts ledger references to non-members, by kind.
	MissingMemberRefs *prometheus.CounterVec

	// CategorizeFallbacks counts default categories, by reason.
	CategorizeFallbacks *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sharedledger",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and Connect code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sharedledger",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		BalanceComputations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sharedledger",
			Name:      "balance_computations_total",
			Help:      "Balance aggregations computed.",
		}),
		SettlementPayments: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sharedledger",
			Name:      "settlement_payments",
			Help:      "Suggested payments per settlement plan.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		MissingMemberRefs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sharedledger",
			Name:      "missing_member_refs_total",
			Help:      "Ledger references to identities outside the member list.",
		}, []string{"kind"}),
		CategorizeFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sharedledger",
			Name:      "categorize_fallbacks_total",
			Help:      "Expenses that got the default category, by reason.",
		}, []string{"reason"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.RPCRequests,
			m.RPCDuration,
			m.BalanceComputations,
			m.SettlementPayments,
			m.MissingMemberRefs,
			m.CategorizeFallbacks,
		)
	}
	return m
}

// CategorizeFallback is a categorize.Resolver OnFallback hook.
func (m *Metrics) CategorizeFallback(reason string) {
	if m == nil {
		return
	}
	m.CategorizeFallbacks.WithLabelValues(reason).Inc()
}
