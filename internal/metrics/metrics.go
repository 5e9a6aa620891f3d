package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matchmaker_registrations_total",
			Help: "Total number of profiles registered",
		},
	)

	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchmaker_decisions_total",
			Help: "Total number of like/skip decisions recorded",
		},
		[]string{"action"},
	)

	MatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matchmaker_matches_total",
			Help: "Total number of matches created",
		},
	)

	SelectionsExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matchmaker_selections_exhausted_total",
			Help: "Total number of candidate selections that found an empty eligible set",
		},
	)

	AgeChangesDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchmaker_age_changes_denied_total",
			Help: "Total number of age edits denied by the rate limit",
		},
		[]string{"reason"},
	)
)
