package validation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assetdesk",
		Subsystem: "validation",
		Name:      "runs_total",
		Help:      "Total number of holder validations broken down by kind and result.",
	}, []string{"kind", "result"})

	missingMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assetdesk",
		Subsystem: "validation",
		Name:      "missing_messages_total",
		Help:      "Total number of missing-field messages broken down by role.",
	}, []string{"role"})

	officeFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "assetdesk",
		Subsystem: "validation",
		Name:      "office_fetch_errors_total",
		Help:      "Total number of failed default office lookups.",
	})
)

func recordValidation(kind string, messages int) {
	result := "complete"
	if messages > 0 {
		result = "missing"
	}
	validationRuns.WithLabelValues(kind, result).Inc()
}
