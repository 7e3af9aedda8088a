// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

// Package evaluate measures a recommender with per-user k-fold cross-validation.
//
// For every user the nonzero artist indices are split into contiguous folds.
// Each fold in turn is held out as the test set, the recommender is asked for
// a recommendation from the remaining training indices, and the result is
// scored with precision and recall in percent. MAP and MAR average these
// scores over Folds × Users (user, fold) pairs.
//
// # Edge Cases
//
//   - Users without any interaction are skipped; their folds count as zero.
//   - Users with fewer interactions than folds only run the folds that
//     receive a test item; the others count as zero.
//   - An empty recommendation scores precision 0 and recall 0 and is still
//     counted.
//
// # Concurrency
//
// With Workers > 1 users are evaluated in parallel. Per-user results are
// summed in user order and random strategies are reseeded per (user, fold),
// so the aggregate does not depend on the worker count.
package evaluate
