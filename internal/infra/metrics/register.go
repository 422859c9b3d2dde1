// Package metrics holds the checkout pipeline's Prometheus collectors.
// Each concern (payments, settlement, cart) declares its collectors in its
// own file and enqueues them from init(); main calls MustRegister once at
// startup so /metrics never serves a half-wired registry.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	queued       []prometheus.Collector
)

func enqueue(cs ...prometheus.Collector) {
	queued = append(queued, cs...)
}

// MustRegister registers every queued collector exactly once. Repeat calls
// are no-ops, so tests that boot the wiring twice do not panic.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(queued...)
		queued = nil
	})
}
