// Package metrics exposes the kitchen's Prometheus instrumentation: order
// outcome counters and per-shelf occupancy. Mount Handler at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Placed counts successful placements by destination shelf.
	Placed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kitchen_orders_placed_total",
		Help: "Orders placed on a shelf, by shelf kind.",
	}, []string{"shelf"})

	// Wasted counts orders dropped because target and overflow were both full.
	Wasted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kitchen_orders_wasted_total",
		Help: "Orders dropped for lack of shelf space.",
	})

	// Delivered counts successful courier pickups.
	Delivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kitchen_orders_delivered_total",
		Help: "Orders picked up by a courier before decaying.",
	})

	// Decayed counts TTL expirations, by the shelf the order decayed on.
	Decayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kitchen_orders_decayed_total",
		Help: "Orders whose value reached zero on a shelf, by shelf kind.",
	}, []string{"shelf"})

	// Requeued counts busy-contention retries through the intake channel.
	Requeued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kitchen_orders_requeued_total",
		Help: "Orders re-published to intake after losing a lock race.",
	})

	// Recovered counts overflow-to-target moves by the recovery scan.
	Recovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kitchen_orders_recovered_total",
		Help: "Orders moved from the overflow shelf back to their target shelf.",
	})

	// Occupancy tracks the number of orders resident per shelf.
	Occupancy = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "kitchen_shelf_occupancy",
		Help: "Orders currently resident on a shelf, by shelf kind.",
	}, []string{"shelf"})
)

// Handler serves the Prometheus exposition endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
