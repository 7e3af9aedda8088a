// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package evaluate

// Split is one train/test partition of a user's artist indices.
type Split struct {
	Fold  int
	Train []int
	Test  []int
}

// KFold partitions indices into folds contiguous test blocks without
// shuffling. The first len(indices)%folds folds receive one extra item. Folds
// that would receive no test item are omitted, so fewer than folds splits are
// returned when len(indices) < folds.
//
// Across the returned splits every index appears in exactly one Test, and in
// each split Train and Test are disjoint and together equal indices.
func KFold(indices []int, folds int) []Split {
	n := len(indices)
	if folds <= 0 || n == 0 {
		return nil
	}

	splits := make([]Split, 0, min(folds, n))
	start := 0
	for f := 0; f < folds; f++ {
		size := n / folds
		if f < n%folds {
			size++
		}
		if size == 0 {
			continue
		}
		end := start + size

		train := make([]int, 0, n-size)
		train = append(train, indices[:start]...)
		train = append(train, indices[end:]...)
		test := make([]int, size)
		copy(test, indices[start:end])

		splits = append(splits, Split{Fold: f, Train: train, Test: test})
		start = end
	}
	return splits
}
