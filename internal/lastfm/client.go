// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package lastfm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/scrobblerec/internal/config"
	"github.com/tomtom215/scrobblerec/internal/logging"
	"github.com/tomtom215/scrobblerec/internal/metrics"
)

// API method names.
const (
	MethodRecentTracks = "user.getrecenttracks"
	MethodUserInfo     = "user.getinfo"
)

// maxErrorBodySize limits the amount of response body read for error reporting.
const maxErrorBodySize = 64 * 1024 // 64KB

// maxBodySize bounds a successful response; a 200-track page is well below it.
const maxBodySize = 16 << 20

// API is the subset of the Last.fm web service used by the crawler.
// Both methods return the decoded value and the raw response body.
type API interface {
	RecentTracks(ctx context.Context, user string, page, limit int) (*RecentTracksPage, []byte, error)
	UserInfo(ctx context.Context, user string) (*UserInfo, []byte, error)
}

// Client calls the Last.fm 2.0 web service.
type Client struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a client from configuration.
func NewClient(cfg *config.LastfmConfig) *Client {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		baseURL: cfg.APIURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
	}
}

// readBodyForError reads the response body for error reporting (max 64KB).
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// call performs one API method call and returns the raw body of a
// successful response. Error payloads become *APIError.
func (c *Client) call(ctx context.Context, method string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("method", method)
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	reqURL := c.baseURL + "?" + params.Encode()

	start := time.Now()
	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		metrics.RecordLastfmRequest(method, 0, time.Since(start))
		return nil, fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()
	metrics.RecordLastfmRequest(method, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		if apiErr := parseAPIError(body, resp.StatusCode); apiErr != nil {
			return nil, apiErr
		}
		return nil, fmt.Errorf("%s request failed with status %d: %s", method, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}
	if apiErr := parseAPIError(body, resp.StatusCode); apiErr != nil {
		return nil, apiErr
	}
	return body, nil
}

// parseAPIError returns the API error contained in body, if any.
func parseAPIError(body []byte, status int) *APIError {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Code == 0 {
		return nil
	}
	apiErr.StatusCode = status
	return &apiErr
}

// doRequestWithRateLimit performs an HTTP GET after waiting for the client-side
// limiter. HTTP 429 responses are retried with exponential backoff
// (base, 2·base, 4·base, ...) or the delay given by Retry-After.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = &APIError{
				Code:       CodeRateLimitExceeded,
				Message:    fmt.Sprintf("rate limit exceeded after %d retries", c.maxRetries),
				StatusCode: http.StatusTooManyRequests,
			}
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}

		metrics.LastfmRateLimitRetries.Inc()
		logging.Debug().
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Last.fm rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// RecentTracks fetches one page of a user's scrobbles.
func (c *Client) RecentTracks(ctx context.Context, user string, page, limit int) (*RecentTracksPage, []byte, error) {
	params := url.Values{}
	params.Set("user", user)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	raw, err := c.call(ctx, MethodRecentTracks, params)
	if err != nil {
		return nil, nil, err
	}
	p, err := ParseRecentTracks(raw)
	if err != nil {
		return nil, raw, err
	}
	return p, raw, nil
}

// UserInfo fetches a user's profile.
func (c *Client) UserInfo(ctx context.Context, user string) (*UserInfo, []byte, error) {
	params := url.Values{}
	params.Set("user", user)

	raw, err := c.call(ctx, MethodUserInfo, params)
	if err != nil {
		return nil, nil, err
	}
	info, err := ParseUserInfo(raw)
	if err != nil {
		return nil, raw, err
	}
	return info, raw, nil
}
