package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MetricChangeRequestsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swm_change_requests_created_total",
			Help: "Number of change requests submitted for approval",
		},
		[]string{"entity", "operation", "priority"},
	)

	MetricChangeRequestsReviewed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swm_change_requests_reviewed_total",
			Help: "Number of change requests approved or rejected",
		},
		[]string{"decision"},
	)

	MetricChangeExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swm_change_executions_total",
			Help: "Number of approved changes replayed against a backend, by outcome",
		},
		[]string{"backend", "outcome"},
	)
)
