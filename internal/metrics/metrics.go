// Package metrics holds the Prometheus instruments shared across Reing.
// All collectors register with the global registry, so importing this
// package is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	QuestionsStored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reing_questions_stored_total",
			Help: "Questions accepted from visitors.",
		})

	AnswersStored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reing_answers_stored_total",
			Help: "Answers published by the admin.",
		})

	// NotifyJobs counts dispatcher outcomes.  kind is question|answer;
	// result is ok|error|dropped|discarded.
	NotifyJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reing_notify_jobs_total",
			Help: "Notification jobs by kind and result.",
		}, []string{"kind", "result"})

	NotifyQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reing_notify_queue_depth",
			Help: "Jobs waiting in the notification queue.",
		})

	CardRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reing_card_renders_total",
			Help: "Answer card requests by cache outcome (hit|miss).",
		}, []string{"outcome"})

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reing_http_requests_total",
			Help: "HTTP requests by route pattern, method, and status class.",
		}, []string{"route", "method", "code"})

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reing_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"})
)

func init() {
	prometheus.MustRegister(
		QuestionsStored,
		AnswersStored,
		NotifyJobs,
		NotifyQueueDepth,
		CardRenders,
		HTTPRequests,
		HTTPDuration,
	)
}
