package changes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var changesComputed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "assetdesk",
	Subsystem: "changes",
	Name:      "computed_total",
	Help:      "Total number of snapshot diffs computed broken down by schema.",
}, []string{"schema"})
