// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package recommend

import (
	"context"
	"testing"
)

func TestBaseline_Recommend(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, [][]float64{
		{0.2, 0.2, 0.2, 0.2, 0.2, 0, 0, 0},
		{0, 0, 0, 0, 0, 0.5, 0.5, 0},
	})
	ctx := context.Background()

	tests := []struct {
		name  string
		train []int
	}{
		{"no training data", nil},
		{"partial", []int{0, 1, 2}},
		{"all but one", []int{0, 1, 2, 3, 4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := NewBaseline(7)
			complement := 8 - len(tt.train)
			trainSet := indexSet(tt.train)

			for i := 0; i < 200; i++ {
				got, err := b.Recommend(ctx, m, 0, tt.train)
				if err != nil {
					t.Fatalf("Recommend() error = %v", err)
				}
				if len(got) < 1 || len(got) > complement {
					t.Fatalf("len = %d, want in [1, %d]", len(got), complement)
				}
				for j, a := range got {
					if _, ok := trainSet[a]; ok {
						t.Fatalf("Recommend() = %v contains training artist %d", got, a)
					}
					if a < 0 || a >= 8 {
						t.Fatalf("Recommend() = %v out of range", got)
					}
					if j > 0 && got[j-1] >= a {
						t.Fatalf("Recommend() = %v not strictly ascending", got)
					}
				}
			}
		})
	}
}

func TestBaseline_EmptyComplement(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, [][]float64{{0.5, 0.5}})
	got, err := NewBaseline(1).Recommend(context.Background(), m, 0, []int{0, 1})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Recommend() = %v, want empty", got)
	}
}

func TestBaseline_WithSeedReproducible(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, [][]float64{make([]float64, 50)})
	ctx := context.Background()
	var base Seeded = NewBaseline(0)

	a, _ := base.WithSeed(99).Recommend(ctx, m, 0, nil)
	b, _ := base.WithSeed(99).Recommend(ctx, m, 0, nil)
	if !equalInts(a, b) {
		t.Errorf("same seed produced %v and %v", a, b)
	}
}

func TestBaseline_DoesNotModifyMatrix(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, [][]float64{{0.5, 0.5, 0}})
	if _, err := NewBaseline(3).Recommend(context.Background(), m, 0, []int{0}); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if m.At(0, 0) != 0.5 || m.At(0, 1) != 0.5 {
		t.Errorf("row = %v, want unchanged", m.Row(0))
	}
}
