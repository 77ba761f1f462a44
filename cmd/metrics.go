package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var solrRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "solr_dashboard",
		Name:      "solr_request_duration_seconds",
		Help:      "Duration of outbound Solr requests in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	},
	[]string{"endpoint", "outcome"},
)

func init() {
	prometheus.MustRegister(solrRequestDuration)
}

func observeSolrRequest(endpoint string, outcome string, elapsed time.Duration) {
	solrRequestDuration.WithLabelValues(endpoint, outcome).Observe(elapsed.Seconds())
}
