// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package uam

import (
	"fmt"

	"github.com/tomtom215/scrobblerec/internal/events"
)

// ConvertStats describes a FromEvents conversion.
type ConvertStats struct {
	Events  int
	Skipped int
	Pairs   int
}

// FromEvents aggregates listening events into a normalized dataset.
//
// Users and artists are indexed in first-seen order. Each cell holds the
// number of events for the (user, artist) pair, then every row is scaled to
// sum to 1. Events with an empty user or artist name, or with a name that
// contains a tab or line break, are skipped.
func FromEvents(evs []events.ListeningEvent) (*Dataset, ConvertStats, error) {
	stats := ConvertStats{Events: len(evs)}
	users := NewRegistry()
	artists := NewRegistry()

	type pair struct{ u, a int }
	counts := make(map[pair]int)

	for _, ev := range evs {
		if ev.User == "" || ev.Artist == "" || checkIdentifier(ev.User) != nil || checkIdentifier(ev.Artist) != nil {
			stats.Skipped++
			continue
		}
		p := pair{u: users.Add(ev.User), a: artists.Add(ev.Artist)}
		counts[p]++
	}

	if users.Len() == 0 || artists.Len() == 0 {
		return nil, stats, fmt.Errorf("%w: no usable listening events", ErrMalformedInput)
	}

	m := NewMatrix(users.Len(), artists.Len())
	for p, n := range counts {
		m.Set(p.u, p.a, float64(n))
	}
	m.NormalizeRows()
	stats.Pairs = len(counts)

	return &Dataset{Matrix: m, Artists: artists, Users: users}, stats, nil
}
