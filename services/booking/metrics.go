package booking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hotelbooking",
		Subsystem: "payment_poll",
		Name:      "outcomes_total",
		Help:      "Payment confirmation polls by final outcome.",
	}, []string{"outcome"})

	pollFetches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hotelbooking",
		Subsystem: "payment_poll",
		Name:      "fetches_total",
		Help:      "Booking status fetches issued by payment confirmation polls.",
	})

	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hotelbooking",
		Subsystem: "booking",
		Name:      "submissions_total",
		Help:      "Reservation submissions by result.",
	}, []string{"result"})

	availabilityChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hotelbooking",
		Subsystem: "booking",
		Name:      "availability_checks_total",
		Help:      "Availability checks by result.",
	}, []string{"result"})
)
