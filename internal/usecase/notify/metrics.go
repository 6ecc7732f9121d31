package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadpulse_notify_deliveries_total",
			Help: "Total notification deliveries attempted, by destination and outcome.",
		},
		[]string{"destination", "outcome"},
	)
)

// recordDelivery counts one delivery attempt per destination.
func recordDelivery(destination string, succeeded bool) {
	outcome := "success"
	if !succeeded {
		outcome = "failure"
	}
	deliveriesTotal.WithLabelValues(destination, outcome).Inc()
}
