package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	enqueue(
		paymentsInitiatedTotal,
		paymentsVerifiedTotal,
		paymentsRevenueTotal,
	)
}

var (
	paymentsInitiatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_payments_initiated_total",
			Help: "Payment initiations by provider and outcome (ok/rejected).",
		},
		[]string{"provider", "outcome"},
	)

	paymentsVerifiedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_payments_verified_total",
			Help: "Verification calls by provider and outcome (ok/not_paid/error).",
		},
		[]string{"provider", "outcome"},
	)

	paymentsRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_payments_revenue_total",
			Help: "Total monetary value of settled payments, by provider.",
		},
		[]string{"provider"},
	)
)

func IncPaymentInitiated(provider, outcome string) {
	paymentsInitiatedTotal.WithLabelValues(norm(provider), norm(outcome)).Inc()
}

func IncVerification(provider, outcome string) {
	paymentsVerifiedTotal.WithLabelValues(norm(provider), norm(outcome)).Inc()
}

func AddRevenue(provider string, amount int64) {
	paymentsRevenueTotal.WithLabelValues(norm(provider)).Add(float64(amount))
}
