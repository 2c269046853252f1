package reconcile

import "github.com/prometheus/client_golang/prometheus"

var (
	partsAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optikit_parts_added_total",
			Help: "Parts instantiated by reconciliation, by kind.",
		},
		[]string{"kind"},
	)

	partsRemoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optikit_parts_removed_total",
			Help: "Parts unregistered by reconciliation, by kind.",
		},
		[]string{"kind"},
	)

	partsModified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optikit_parts_modified_total",
			Help: "Parts updated in place by reconciliation, by kind.",
		},
		[]string{"kind"},
	)

	refreshTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "optikit_refresh_total",
			Help: "Full classify/reconcile/reorder passes run.",
		},
	)
)

func init() {
	prometheus.MustRegister(partsAdded)
	prometheus.MustRegister(partsRemoved)
	prometheus.MustRegister(partsModified)
	prometheus.MustRegister(refreshTotal)
}
