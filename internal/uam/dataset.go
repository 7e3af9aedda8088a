// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package uam

import "fmt"

// Dataset is an interaction matrix with its aligned registries.
type Dataset struct {
	Matrix  *Matrix
	Artists *Registry
	Users   *Registry
}

// Validate checks that the registries match the matrix dimensions.
func (d *Dataset) Validate() error {
	if d == nil || d.Matrix == nil || d.Artists == nil || d.Users == nil {
		return fmt.Errorf("%w: incomplete dataset", ErrMalformedInput)
	}
	users, artists := d.Matrix.Dims()
	if d.Users.Len() != users {
		return fmt.Errorf("%w: %d users in registry, %d rows in matrix", ErrDimensionMismatch, d.Users.Len(), users)
	}
	if d.Artists.Len() != artists {
		return fmt.Errorf("%w: %d artists in registry, %d columns in matrix", ErrDimensionMismatch, d.Artists.Len(), artists)
	}
	return nil
}

// Stats summarizes a dataset for logging.
type Stats struct {
	Users        int
	Artists      int
	Interactions int
	EmptyUsers   int
	Density      float64
}

// Stats computes summary statistics.
func (d *Dataset) Stats() Stats {
	users, artists := d.Matrix.Dims()
	s := Stats{
		Users:        users,
		Artists:      artists,
		Interactions: d.Matrix.Interactions(),
	}
	for u := 0; u < users; u++ {
		if d.Matrix.RowSum(u) == 0 {
			s.EmptyUsers++
		}
	}
	s.Density = float64(s.Interactions) / float64(users*artists)
	return s
}
