// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package evaluate

// FoldScore is the outcome of comparing one recommendation against a test set.
type FoldScore struct {
	TP        int
	FP        int
	Precision float64
	Recall    float64
	Empty     bool
}

// Score compares recommended against test. Precision is 100·TP/|recommended|
// and recall is 100·TP/|test|; both are 0 when their denominator is empty.
func Score(recommended, test []int) FoldScore {
	testSet := make(map[int]struct{}, len(test))
	for _, a := range test {
		testSet[a] = struct{}{}
	}

	var s FoldScore
	for _, a := range recommended {
		if _, ok := testSet[a]; ok {
			s.TP++
		} else {
			s.FP++
		}
	}

	if len(recommended) == 0 {
		s.Empty = true
	} else {
		s.Precision = 100 * float64(s.TP) / float64(len(recommended))
	}
	if len(testSet) > 0 {
		s.Recall = 100 * float64(s.TP) / float64(len(testSet))
	}
	return s
}
