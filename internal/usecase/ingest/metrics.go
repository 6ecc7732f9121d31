package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ingestEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "leadpulse_ingest_events_total",
		Help: "Ingestion pipeline events by source and outcome.",
	},
	[]string{"source", "outcome"},
)

func recordIngest(source, outcome string) {
	ingestEvents.WithLabelValues(source, outcome).Inc()
}
