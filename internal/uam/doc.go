// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

// Package uam holds the user-artist interaction matrix (UAM) and the ordered
// registries that map matrix indices back to Last.fm user and artist names.
//
// # Data Model
//
// Matrix is a dense users × artists matrix backed by gonum. Each row is a
// user's play-count distribution: after NormalizeRows every row with at
// least one play sums to 1, and rows without plays stay all-zero.
//
// Registry is an append-only ordered set. The position of a name is its
// matrix index; Add inserts a name on first sight and returns the existing
// index afterwards.
//
// Dataset bundles a matrix with its two registries and checks that the
// dimensions agree.
//
// # File Formats
//
//	UAM.txt          one user per line, tab-separated %0.6f values, no header
//	UAM_artists.txt  header "artist", then one artist per line
//	UAM_users.txt    header "user", then one user per line
//
// # Ownership
//
// Matrix methods that mutate (Set, ZeroEntries, NormalizeRow) act on the
// receiver's storage. Callers that need a scratch copy use Clone; the
// evaluation harness clones once per fold.
package uam
