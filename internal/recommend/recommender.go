// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tomtom215/scrobblerec/internal/uam"
)

// Strategy names accepted by New.
const (
	StrategyCF       = "cf"
	StrategyBaseline = "baseline"
)

var (
	// ErrUnknownStrategy is returned by New for an unrecognized strategy name.
	ErrUnknownStrategy = errors.New("unknown recommendation strategy")

	// ErrIndexOutOfRange is returned when a user or artist index is outside the matrix.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Recommender produces a recommendation for one user.
//
// The returned artist indices are sorted ascending, contain no duplicates,
// and never include an index from train.
type Recommender interface {
	// Name returns the strategy identifier.
	Name() string

	// Recommend returns artist indices for user given the artists in train.
	// m must be exclusively owned by the call.
	Recommend(ctx context.Context, m *uam.Matrix, user int, train []int) ([]int, error)
}

// Seeded is implemented by recommenders that draw random numbers.
// WithSeed returns an independent copy whose randomness is fixed by seed.
type Seeded interface {
	Recommender
	WithSeed(seed int64) Recommender
}

// Strategies returns the names accepted by New.
func Strategies() []string {
	return []string{StrategyBaseline, StrategyCF}
}

// New returns the recommender registered under name.
func New(name string, seed int64) (Recommender, error) {
	switch name {
	case StrategyCF:
		return NewNeighborCF(), nil
	case StrategyBaseline:
		return NewBaseline(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// baseRecommender carries the name shared by all strategies.
type baseRecommender struct {
	name string
}

// Name returns the strategy identifier.
func (b baseRecommender) Name() string {
	return b.name
}

// checkIndices validates user and train against the matrix dimensions.
func checkIndices(m *uam.Matrix, user int, train []int) error {
	users, artists := m.Dims()
	if user < 0 || user >= users {
		return fmt.Errorf("%w: user %d not in [0, %d)", ErrIndexOutOfRange, user, users)
	}
	for _, a := range train {
		if a < 0 || a >= artists {
			return fmt.Errorf("%w: artist %d not in [0, %d)", ErrIndexOutOfRange, a, artists)
		}
	}
	return nil
}

func indexSet(indices []int) map[int]struct{} {
	set := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		set[i] = struct{}{}
	}
	return set
}

// sortedKeys returns the members of set in ascending order.
func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
