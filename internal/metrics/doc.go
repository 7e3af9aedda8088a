// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

/*
Package metrics provides Prometheus instrumentation for crawls and evaluation runs.

All collectors are registered with the default registry through promauto. The
toolkit runs as a batch CLI rather than a long-lived server, so instead of a
/metrics endpoint the registry can be dumped in the text exposition format at
the end of a command with WriteTextfile (for the node_exporter textfile
collector, or for inspection).

# Available Metrics

Last.fm API:
  - lastfm_requests_total: API calls (counter)
    Labels: method, status
  - lastfm_request_duration_seconds: API latency (histogram)
    Labels: method
  - lastfm_rate_limit_retries_total: 429 responses that were retried (counter)

Circuit Breaker:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels: name, result
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total: Labels: name, from_state, to_state

Crawl:
  - crawl_users_total: Labels: outcome (completed, failed, resumed)
  - crawl_pages_total, crawl_events_total (counters)

Evaluation:
  - evaluation_folds_total: Labels: strategy, outcome (scored, empty)
  - evaluation_fold_precision, evaluation_fold_recall: per-fold percentages (histogram)
  - evaluation_map, evaluation_mar: last run aggregate (gauge)
  - evaluation_duration_seconds (histogram)

# Usage

	metrics.RecordFold("cf", 50, 25, false)
	if err := metrics.WriteTextfile("scrobblerec.prom"); err != nil {
	    logging.Warn().Err(err).Msg("Failed to write metrics")
	}
*/
package metrics
