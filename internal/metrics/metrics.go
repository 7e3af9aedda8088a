// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package metrics

import (
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// percentBuckets covers per-fold precision and recall, which are in [0, 100].
var percentBuckets = prometheus.LinearBuckets(0, 10, 11)

var (
	// Last.fm API Metrics
	LastfmRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lastfm_requests_total",
			Help: "Total number of Last.fm API requests",
		},
		[]string{"method", "status"},
	)

	LastfmRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lastfm_request_duration_seconds",
			Help:    "Duration of Last.fm API requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method"},
	)

	LastfmRateLimitRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lastfm_rate_limit_retries_total",
			Help: "Total number of Last.fm requests retried after HTTP 429",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Crawl Metrics
	CrawlUsers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_users_total",
			Help: "Total number of users processed by the crawler",
		},
		[]string{"outcome"}, // "completed", "failed", "resumed"
	)

	CrawlPages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_pages_total",
			Help: "Total number of recent-track pages fetched",
		},
	)

	CrawlEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_events_total",
			Help: "Total number of listening events collected",
		},
	)

	// Evaluation Metrics
	EvaluationFolds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_folds_total",
			Help: "Total number of evaluated (user, fold) pairs",
		},
		[]string{"strategy", "outcome"}, // "scored", "empty"
	)

	EvaluationPrecision = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaluation_fold_precision",
			Help:    "Per-fold precision in percent",
			Buckets: percentBuckets,
		},
		[]string{"strategy"},
	)

	EvaluationRecall = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaluation_fold_recall",
			Help:    "Per-fold recall in percent",
			Buckets: percentBuckets,
		},
		[]string{"strategy"},
	)

	EvaluationMAP = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "evaluation_map",
			Help: "Mean average precision of the last evaluation run",
		},
		[]string{"strategy"},
	)

	EvaluationMAR = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "evaluation_mar",
			Help: "Mean average recall of the last evaluation run",
		},
		[]string{"strategy"},
	)

	EvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaluation_duration_seconds",
			Help:    "Duration of evaluation runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		},
		[]string{"strategy"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordLastfmRequest records one Last.fm API call. status is the HTTP
// status code, or 0 when no response was received.
func RecordLastfmRequest(method string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	LastfmRequestsTotal.WithLabelValues(method, label).Inc()
	LastfmRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordCrawlUser records a finished user crawl.
func RecordCrawlUser(outcome string, pages, events int) {
	CrawlUsers.WithLabelValues(outcome).Inc()
	CrawlPages.Add(float64(pages))
	CrawlEvents.Add(float64(events))
}

// RecordFold records the score of one (user, fold) pair.
func RecordFold(strategy string, precision, recall float64, empty bool) {
	outcome := "scored"
	if empty {
		outcome = "empty"
	}
	EvaluationFolds.WithLabelValues(strategy, outcome).Inc()
	EvaluationPrecision.WithLabelValues(strategy).Observe(precision)
	EvaluationRecall.WithLabelValues(strategy).Observe(recall)
}

// RecordEvaluation records the aggregate of a completed evaluation run.
func RecordEvaluation(strategy string, mapScore, marScore float64, duration time.Duration) {
	EvaluationMAP.WithLabelValues(strategy).Set(mapScore)
	EvaluationMAR.WithLabelValues(strategy).Set(marScore)
	EvaluationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text format. The file is replaced atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
