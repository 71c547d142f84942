// Package metrics holds the Prometheus collectors for lifecycle transitions.
// They register on the default registry so fiberprometheus serves them from
// the same /metrics endpoint as the HTTP collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "covematch",
			Subsystem: "lifecycle",
			Name:      "transitions_total",
			Help:      "Total number of intention and match state transitions.",
		},
		[]string{"entity", "transition"},
	)

	poolChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "covematch",
			Subsystem: "pool",
			Name:      "changes_total",
			Help:      "Total number of pool entries consumed or released.",
		},
		[]string{"op"},
	)

	operationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "covematch",
			Subsystem: "lifecycle",
			Name:      "errors_total",
			Help:      "Total number of failed lifecycle operations by error kind.",
		},
		[]string{"operation", "kind"},
	)

	expiredIntentions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "covematch",
			Subsystem: "expiry",
			Name:      "intentions_total",
			Help:      "Total number of intentions moved to expired by the sweeper.",
		},
	)
)

func init() {
	prometheus.MustRegister(transitions, poolChanges, operationErrors, expiredIntentions)
}

// Transition records an entity moving to a new state ("match", "accepted").
func Transition(entity, transition string) {
	transitions.WithLabelValues(entity, transition).Inc()
}

// PoolConsumed records a deleted pool entry.
func PoolConsumed() {
	poolChanges.WithLabelValues("consume").Inc()
}

// PoolReleased records a created or reset pool entry.
func PoolReleased() {
	poolChanges.WithLabelValues("release").Inc()
}

// OperationFailed records a failed operation by error kind.
func OperationFailed(operation, kind string) {
	operationErrors.WithLabelValues(operation, kind).Inc()
}

// IntentionsExpired records a sweep result.
func IntentionsExpired(n int64) {
	if n > 0 {
		expiredIntentions.Add(float64(n))
	}
}
