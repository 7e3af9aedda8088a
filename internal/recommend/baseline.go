// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package recommend

import (
	"context"
	"math/rand"
	"sync"

	"github.com/tomtom215/scrobblerec/internal/uam"
)

// Baseline recommends a random subset of the artists not in the training set.
//
// The number of draws k is uniform in [1, |candidates|]; k candidates are
// then drawn uniformly with replacement and deduplicated, so the result holds
// between 1 and k artists. Without candidates the result is empty.
type Baseline struct {
	baseRecommender

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBaseline creates the "baseline" strategy with a fixed seed.
func NewBaseline(seed int64) *Baseline {
	return &Baseline{
		baseRecommender: baseRecommender{name: StrategyBaseline},
		rng:             rand.New(rand.NewSource(seed)), //nolint:gosec // not security sensitive
	}
}

// WithSeed implements Seeded.
func (b *Baseline) WithSeed(seed int64) Recommender {
	return NewBaseline(seed)
}

// Recommend implements Recommender. m is not modified.
func (b *Baseline) Recommend(ctx context.Context, m *uam.Matrix, user int, train []int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkIndices(m, user, train); err != nil {
		return nil, err
	}

	_, artists := m.Dims()
	trainSet := indexSet(train)
	candidates := make([]int, 0, artists)
	for a := 0; a < artists; a++ {
		if _, ok := trainSet[a]; !ok {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return []int{}, nil
	}

	b.mu.Lock()
	k := b.rng.Intn(len(candidates)) + 1
	picked := make(map[int]struct{}, k)
	for i := 0; i < k; i++ {
		picked[candidates[b.rng.Intn(len(candidates))]] = struct{}{}
	}
	b.mu.Unlock()

	return sortedKeys(picked), nil
}
