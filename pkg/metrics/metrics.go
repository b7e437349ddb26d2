package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	leadsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leadflow_leads_created_total",
		Help: "Total number of leads created",
	})

	statusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_status_transitions_total",
			Help: "Total number of lead status transitions by target status",
		},
		[]string{"to"},
	)

	unknownStatusLeads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leadflow_unknown_status_leads_total",
		Help: "Leads excluded from aggregation because of an unrecognized status",
	})

	storeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_store_errors_total",
			Help: "Lead store failures by operation",
		},
		[]string{"op"},
	)
)

func RecordLeadCreated() {
	leadsCreated.Inc()
}

func RecordStatusTransition(to string) {
	statusTransitions.WithLabelValues(to).Inc()
}

// RecordUnknownStatus adds n leads seen with an unrecognized status.
func RecordUnknownStatus(n int) {
	if n > 0 {
		unknownStatusLeads.Add(float64(n))
	}
}

func RecordStoreError(op string) {
	storeErrors.WithLabelValues(op).Inc()
}
