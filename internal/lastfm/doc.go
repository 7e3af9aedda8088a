// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

/*
Package lastfm crawls listening events and user profiles from the Last.fm API.

# Components

  - Client: HTTP access to the 2.0 web service with client-side rate
    limiting and exponential backoff on HTTP 429.
  - CircuitBreakerClient: wraps a Client with sony/gobreaker so a failing
    API is not hammered by every remaining user of a crawl.
  - Crawler: fetches up to MaxPages pages of user.getrecenttracks per user,
    archives every raw page as <archive>/<user>_<page>.json and collects
    the listening events. Finished users are recorded in a BadgerDB
    ProgressStore so an interrupted crawl resumes where it stopped.
  - UserInfoFetcher: archives user.getinfo responses as <dir>/<user>.json.

# Error Handling

API error payloads ({"error": 6, "message": "User not found"}) become
*APIError. Permanent API errors fail only the affected user and do not count
against the circuit breaker. When the circuit opens, the crawl stops with
ErrCircuitOpen; progress already stored is kept.

# Usage

	client := lastfm.NewCircuitBreakerClient(&cfg.Lastfm)
	crawler := lastfm.NewCrawler(client, lastfm.NewBadgerProgress(db), lastfm.CrawlerConfig{
	    ArchiveDir: "listening_events",
	    MaxPages:   5,
	    PageLimit:  200,
	})
	evs, stats, err := crawler.Run(ctx, users)
*/
package lastfm
