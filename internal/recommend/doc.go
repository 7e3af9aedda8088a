// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

// Package recommend produces artist recommendations for a single user from a
// normalized user-artist matrix.
//
// Two strategies are provided:
//
//   - NeighborCF ("cf"): finds the user whose listening distribution is most
//     similar to the seed user's training history and recommends that user's
//     artists that the seed has not been trained on.
//   - Baseline ("baseline"): draws a random subset of the artists outside the
//     training set.
//
// # Matrix Ownership
//
// Recommend may modify the seed user's row of the matrix it is given. Callers
// that reuse a matrix across calls must pass a Clone.
//
// # Usage
//
//	rec, err := recommend.New("cf", 42)
//	if err != nil {
//	    return err
//	}
//	artists, err := rec.Recommend(ctx, m.Clone(), user, train)
package recommend
