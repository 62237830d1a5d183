package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	entriesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "health_tracker",
			Name:      "entries_created_total",
			Help:      "Entries stored, by entry type and source form.",
		},
		[]string{"kind", "source"},
	)

	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "health_tracker",
			Name:      "exports_total",
			Help:      "Data exports attempted, by result.",
		},
		[]string{"result"},
	)
)

func countCreated(kind, source string) {
	entriesCreatedTotal.WithLabelValues(kind, source).Inc()
}
