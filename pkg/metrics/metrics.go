package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "guitarserver"

	metricLabelRoute  = "route"
	metricLabelStatus = "status"
)

var (
	// ServiceRequestCounter counts the requests for each route and response status
	ServiceRequestCounter = newCounterVec(
		"service_request_count",
		"Count of requests for each route",
		metricLabelRoute, metricLabelStatus,
	)
	// ServiceRequestDuration observes the duration of requests for each route
	ServiceRequestDuration = newSummaryVec(
		"service_request_duration_seconds",
		"Seconds to decode a request, run the service operation and encode its response",
		metricLabelRoute, metricLabelStatus,
	)
	// CollectionSizeGauge tracks the number of items in the in-memory collection
	CollectionSizeGauge = newGaugeVec(
		"collection_size",
		"Number of guitars currently in the collection",
	)
	// ValidationFailedCounter counts rejected creates
	ValidationFailedCounter = newCounterVec(
		"validation_failed_count",
		"Number of create requests rejected by validation",
	)
	// StorePersistFailedCounter counts failed attempts to persist the collection
	StorePersistFailedCounter = newCounterVec(
		"store_persist_failed_count",
		"Number of failures to write the collection to the store",
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newGaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	vec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
