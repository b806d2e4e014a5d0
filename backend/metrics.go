package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "hotelbooking",
	Subsystem: "backend",
	Name:      "request_duration_seconds",
	Help:      "Latency of booking backend calls by endpoint and status code.",
	Buckets:   prometheus.DefBuckets,
}, []string{"endpoint", "code"})
