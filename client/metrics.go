package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mealCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pgportal_client",
			Name:      "meal_commands_total",
			Help:      "Meal selection and cancellation commands by outcome.",
		},
		[]string{"op", "outcome"},
	)

	mealFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pgportal_client",
			Name:      "meal_fetches_total",
			Help:      "Day menu fetches by outcome.",
		},
		[]string{"outcome"},
	)

	contractViolationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pgportal_client",
			Name:      "meal_contract_violations_total",
			Help:      "Raw meals skipped during normalization.",
		},
	)
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)
