// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package lastfm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tomtom215/scrobblerec/internal/events"
	"github.com/tomtom215/scrobblerec/internal/logging"
	"github.com/tomtom215/scrobblerec/internal/metrics"
)

// CrawlerConfig controls a listening-event crawl.
type CrawlerConfig struct {
	// ArchiveDir receives every raw page as <user>_<page>.json.
	// Empty disables archiving.
	ArchiveDir string

	// MaxPages is the number of pages fetched per user.
	MaxPages int

	// PageLimit is the number of events requested per page.
	PageLimit int
}

// CrawlStats summarizes a crawl.
type CrawlStats struct {
	Users     int
	Completed int
	Resumed   int
	Failed    int
	Pages     int
	Events    int
	Duration  time.Duration
}

// Crawler collects listening events for a list of users.
type Crawler struct {
	api      API
	progress ProgressStore
	cfg      CrawlerConfig
}

// NewCrawler creates a crawler. progress may be nil, which disables resuming.
func NewCrawler(api API, progress ProgressStore, cfg CrawlerConfig) *Crawler {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 5
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 200
	}
	return &Crawler{api: api, progress: progress, cfg: cfg}
}

// Run crawls every user in order and returns their listening events in the
// same order. A user whose pages cannot be fetched or decoded is logged and
// skipped. Context cancellation and an open circuit breaker stop the crawl.
func (c *Crawler) Run(ctx context.Context, users []string) ([]events.ListeningEvent, CrawlStats, error) {
	start := time.Now()
	stats := CrawlStats{Users: len(users)}
	logger := logging.Ctx(ctx)

	if c.cfg.ArchiveDir != "" {
		if err := os.MkdirAll(c.cfg.ArchiveDir, 0o750); err != nil {
			return nil, stats, fmt.Errorf("create archive dir: %w", err)
		}
	}

	var all []events.ListeningEvent
	for i, user := range users {
		if err := ctx.Err(); err != nil {
			return all, stats, err
		}

		if c.progress != nil {
			up, err := c.progress.Load(ctx, user)
			if err != nil {
				return all, stats, err
			}
			if up != nil {
				all = append(all, up.Events...)
				stats.Resumed++
				stats.Events += len(up.Events)
				metrics.RecordCrawlUser("resumed", 0, 0)
				logger.Debug().Str("user", user).Int("events", len(up.Events)).Msg("User already crawled, reusing stored events")
				continue
			}
		}

		logger.Info().
			Int("n", i+1).
			Int("of", len(users)).
			Str("user", user).
			Msg("Fetching listening events")

		up, err := c.crawlUser(ctx, user)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrCircuitOpen) {
				return all, stats, err
			}
			stats.Failed++
			metrics.RecordCrawlUser("failed", 0, 0)
			logger.Warn().Err(err).Str("user", user).Msg("Skipping user")
			continue
		}

		if c.progress != nil {
			if err := c.progress.Save(ctx, up); err != nil {
				return all, stats, err
			}
		}

		all = append(all, up.Events...)
		stats.Completed++
		stats.Pages += up.Pages
		stats.Events += len(up.Events)
		metrics.RecordCrawlUser("completed", up.Pages, len(up.Events))
	}

	stats.Duration = time.Since(start)
	logger.Info().
		Int("users", stats.Users).
		Int("completed", stats.Completed).
		Int("resumed", stats.Resumed).
		Int("failed", stats.Failed).
		Int("events", stats.Events).
		Dur("duration", stats.Duration).
		Msg("Crawl complete")

	return all, stats, nil
}

// crawlUser fetches up to MaxPages pages for one user. It stops early when
// the API reports no further pages.
func (c *Crawler) crawlUser(ctx context.Context, user string) (*UserProgress, error) {
	up := &UserProgress{User: user}

	for page := 1; page <= c.cfg.MaxPages; page++ {
		p, raw, err := c.api.RecentTracks(ctx, user, page, c.cfg.PageLimit)
		if raw != nil {
			if archErr := c.archive(user, page, raw); archErr != nil {
				return nil, archErr
			}
		}
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		up.Pages++
		up.Events = append(up.Events, p.Events(user)...)

		logging.Ctx(ctx).Debug().
			Str("user", user).
			Int("page", page).
			Int("total_pages", p.TotalPages()).
			Int("tracks", len(p.Tracks)).
			Msg("Retrieved page")

		if page >= p.TotalPages() || len(p.Tracks) == 0 {
			break
		}
	}

	up.CompletedAt = time.Now().UTC()
	return up, nil
}

func (c *Crawler) archive(user string, page int, raw []byte) error {
	if c.cfg.ArchiveDir == "" {
		return nil
	}
	path := filepath.Join(c.cfg.ArchiveDir, fileName(user)+"_"+strconv.Itoa(page)+".json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("archive page: %w", err)
	}
	return nil
}
