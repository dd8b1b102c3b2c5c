package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobstream_applications_submitted_total",
			Help: "Total number of applications submitted",
		},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobstream_application_status_transitions_total",
			Help: "Total number of application status transitions by target status",
		},
		[]string{"status"},
	)

	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobstream_messages_sent_total",
			Help: "Total number of conversation messages appended",
		},
	)

	FanOutDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobstream_fanout_dropped_total",
			Help: "Messages dropped for subscribers whose buffer was full",
		},
	)

	FanOutSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobstream_fanout_subscribers",
			Help: "Number of live conversation subscribers on this instance",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "jobstream_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"route", "method", "status"},
	)
)
