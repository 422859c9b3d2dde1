package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	enqueue(
		settlementsTotal,
		intentsExpiredTotal,
	)
}

var (
	settlementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_settlements_total",
			Help: "Settlement attempts by intent kind and outcome (ok/support_required).",
		},
		[]string{"kind", "outcome"},
	)

	intentsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_intents_expired_total",
			Help: "Abandoned payment intents closed out by the reaper.",
		},
	)
)

func IncSettlement(kind, outcome string) {
	settlementsTotal.WithLabelValues(norm(kind), norm(outcome)).Inc()
}

func IncIntentExpired() {
	intentsExpiredTotal.Inc()
}
