// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package lastfm

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/scrobblerec/internal/config"
	"github.com/tomtom215/scrobblerec/internal/logging"
	"github.com/tomtom215/scrobblerec/internal/metrics"
)

// BreakerName labels the Last.fm circuit breaker in logs and metrics.
const BreakerName = "lastfm-api"

// BreakerSettings controls when the circuit opens.
type BreakerSettings struct {
	// MinRequests is the number of requests in a window before the failure
	// ratio is considered.
	MinRequests uint32

	// FailureRatio opens the circuit when reached.
	FailureRatio float64

	// Interval resets counts while closed.
	Interval time.Duration

	// Timeout is the time spent open before a half-open probe.
	Timeout time.Duration
}

// DefaultBreakerSettings opens after 60% failures over at least 10 requests
// and probes again after two minutes.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:  10,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
	}
}

// CircuitBreakerClient wraps an API with circuit breaker protection.
//
// Request errors such as "User not found" are returned to the caller but
// counted as successes by the breaker.
type CircuitBreakerClient struct {
	client API
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// fetched pairs a decoded response with its raw body.
type fetched[T any] struct {
	value *T
	raw   []byte
}

// NewCircuitBreakerClient creates a Last.fm client with circuit breaker.
func NewCircuitBreakerClient(cfg *config.LastfmConfig) *CircuitBreakerClient {
	return WrapWithCircuitBreaker(NewClient(cfg), DefaultBreakerSettings())
}

// WrapWithCircuitBreaker adds circuit breaker protection to client.
func WrapWithCircuitBreaker(client API, s BreakerSettings) *CircuitBreakerClient {
	name := BreakerName

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRatio
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || isRequestError(err) || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{client: client, cb: cb, name: name}
}

// execute runs fn through the breaker. Rejections are reported as ErrCircuitOpen.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}

		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		counts := cbc.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	return result, nil
}

// castResult safely type-casts the circuit breaker result.
func castResult[T any](result interface{}, err error) (*T, []byte, error) {
	if err != nil {
		return nil, nil, err
	}
	typed, ok := result.(fetched[T])
	if !ok {
		return nil, nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed.value, typed.raw, nil
}

// State returns the current breaker state as "closed", "half-open" or "open".
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

// RecentTracks implements API.
func (cbc *CircuitBreakerClient) RecentTracks(ctx context.Context, user string, page, limit int) (*RecentTracksPage, []byte, error) {
	return castResult[RecentTracksPage](cbc.execute(func() (interface{}, error) {
		p, raw, err := cbc.client.RecentTracks(ctx, user, page, limit)
		if err != nil {
			return nil, err
		}
		return fetched[RecentTracksPage]{value: p, raw: raw}, nil
	}))
}

// UserInfo implements API.
func (cbc *CircuitBreakerClient) UserInfo(ctx context.Context, user string) (*UserInfo, []byte, error) {
	return castResult[UserInfo](cbc.execute(func() (interface{}, error) {
		info, raw, err := cbc.client.UserInfo(ctx, user)
		if err != nil {
			return nil, err
		}
		return fetched[UserInfo]{value: info, raw: raw}, nil
	}))
}

// stateToFloat converts circuit breaker state to numeric value for metrics.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
