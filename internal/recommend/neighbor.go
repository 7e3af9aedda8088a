// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package recommend

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/scrobblerec/internal/uam"
)

// Neighbor is a user together with its similarity to a seed user.
type Neighbor struct {
	User       int
	Similarity float64
}

// NeighborCF implements single-neighbor user-based collaborative filtering.
//
// For a seed user u with training artists T:
//
//  1. every entry of u's row outside T is zeroed;
//  2. the row is rescaled to sum to 1;
//  3. sim(u, v) = <row(u), row(v)> for every user v;
//  4. the neighbor n is the user v != u with the highest similarity,
//     ties resolved to the lowest index;
//  5. the recommendation is nonzero(n) - T.
type NeighborCF struct {
	baseRecommender
}

// NewNeighborCF creates the "cf" strategy.
func NewNeighborCF() *NeighborCF {
	return &NeighborCF{baseRecommender: baseRecommender{name: StrategyCF}}
}

// Recommend implements Recommender. The seed user's row of m is modified.
func (c *NeighborCF) Recommend(ctx context.Context, m *uam.Matrix, user int, train []int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkIndices(m, user, train); err != nil {
		return nil, err
	}
	if len(train) == 0 {
		return []int{}, nil
	}

	trainSet := indexSet(train)

	// Remove everything the seed is not allowed to see.
	_, artists := m.Dims()
	hidden := make([]int, 0, artists)
	for _, a := range m.NonZero(user) {
		if _, ok := trainSet[a]; !ok {
			hidden = append(hidden, a)
		}
	}
	m.ZeroEntries(user, hidden)
	if !m.NormalizeRow(user) {
		return []int{}, nil
	}

	nb, ok := rankNeighbors(m, user, 1)
	if !ok {
		return []int{}, nil
	}

	rec := make(map[int]struct{})
	for _, a := range m.NonZero(nb[0].User) {
		if _, ok := trainSet[a]; !ok {
			rec[a] = struct{}{}
		}
	}
	return sortedKeys(rec), nil
}

// NearestNeighbor returns the user most similar to user over m as it is,
// without modifying m. ok is false when m has a single user.
func NearestNeighbor(m *uam.Matrix, user int) (Neighbor, bool, error) {
	if err := checkIndices(m, user, nil); err != nil {
		return Neighbor{}, false, err
	}
	nb, ok := rankNeighbors(m, user, 1)
	if !ok {
		return Neighbor{}, false, nil
	}
	return nb[0], true, nil
}

// NearestNeighbors returns up to k users ordered by descending similarity to
// user, ties resolved to the lowest index. The seed itself is never included.
func NearestNeighbors(m *uam.Matrix, user, k int) ([]Neighbor, error) {
	if err := checkIndices(m, user, nil); err != nil {
		return nil, err
	}
	nb, _ := rankNeighbors(m, user, k)
	return nb, nil
}

// similarities returns <row(user), row(v)> for every v.
func similarities(m *uam.Matrix, user int) []float64 {
	users, artists := m.Dims()
	seed := mat.NewVecDense(artists, m.Row(user))
	sims := mat.NewVecDense(users, nil)
	sims.MulVec(m.Dense(), seed)
	return sims.RawVector().Data
}

func rankNeighbors(m *uam.Matrix, user, k int) ([]Neighbor, bool) {
	sims := similarities(m, user)
	if len(sims) < 2 || k <= 0 {
		return nil, false
	}

	neighbors := make([]Neighbor, 0, len(sims)-1)
	for v, s := range sims {
		if v == user {
			continue
		}
		neighbors = append(neighbors, Neighbor{User: v, Similarity: s})
	}

	// neighbors is in ascending user order, so a stable sort keeps the
	// lowest index first among equal similarities.
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Similarity > neighbors[j].Similarity
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, true
}
