// Package metrics exposes Prometheus counters for the handful of business
// events worth alerting on, plus the /metrics handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OrdersCreated counts committed customer orders.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qrmenu_orders_created_total",
		Help: "Number of orders successfully created.",
	})

	// OrderTransitions counts status transitions by target status.
	OrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrmenu_order_transitions_total",
		Help: "Number of order status transitions, labelled by target status.",
	}, []string{"to"})

	// ReservationsPurged counts reservations removed by the retention
	// sweep, labelled by the retention class that expired them.
	ReservationsPurged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrmenu_reservations_purged_total",
		Help: "Number of reservations deleted by the retention sweep.",
	}, []string{"class"})
)

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
