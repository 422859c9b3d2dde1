package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	enqueue(cartMutationsTotal)
}

var cartMutationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checkout_cart_mutations_total",
		Help: "Optimistic cart mutations by op (add/update/remove) and outcome (ok/rejected).",
	},
	[]string{"op", "outcome"},
)

func IncCartMutation(op, outcome string) {
	cartMutationsTotal.WithLabelValues(norm(op), norm(outcome)).Inc()
}
