// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package evaluate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/tomtom215/scrobblerec/internal/recommend"
	"github.com/tomtom215/scrobblerec/internal/uam"
)

// oracle recommends exactly the held-out artists.
type oracle struct{}

func (oracle) Name() string { return "oracle" }

func (oracle) Recommend(_ context.Context, m *uam.Matrix, user int, train []int) ([]int, error) {
	inTrain := make(map[int]bool, len(train))
	for _, a := range train {
		inTrain[a] = true
	}
	var out []int
	for _, a := range m.NonZero(user) {
		if !inTrain[a] {
			out = append(out, a)
		}
	}
	return out, nil
}

// silent never recommends anything.
type silent struct{}

func (silent) Name() string { return "silent" }

func (silent) Recommend(context.Context, *uam.Matrix, int, []int) ([]int, error) {
	return nil, nil
}

// failing returns an error for one user.
type failing struct{ user int }

func (failing) Name() string { return "failing" }

func (f failing) Recommend(_ context.Context, _ *uam.Matrix, user int, _ []int) ([]int, error) {
	if user == f.user {
		return nil, errors.New("boom")
	}
	return nil, nil
}

func testDataset(t *testing.T, rows [][]float64) *uam.Dataset {
	t.Helper()
	m, err := uam.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}
	m.NormalizeRows()
	users, artists := m.Dims()

	ur := uam.NewRegistry()
	for u := 0; u < users; u++ {
		ur.Add(fmt.Sprintf("user%d", u))
	}
	ar := uam.NewRegistry()
	for a := 0; a < artists; a++ {
		ar.Add(fmt.Sprintf("artist%d", a))
	}
	return &uam.Dataset{Matrix: m, Artists: ar, Users: ur}
}

// denseRows builds users × artists rows where user u listened to every
// artist a with (a+u)%3 != 0.
func denseRows(users, artists int) [][]float64 {
	rows := make([][]float64, users)
	for u := range rows {
		rows[u] = make([]float64, artists)
		for a := range rows[u] {
			if (a+u)%3 != 0 {
				rows[u][a] = float64(a + 1)
			}
		}
	}
	return rows
}

func TestHarness_OracleScoresHundred(t *testing.T) {
	t.Parallel()

	h, err := NewHarness(testDataset(t, denseRows(4, 12)), oracle{}, Config{Folds: 5, Seed: 1})
	if err != nil {
		t.Fatalf("NewHarness() error = %v", err)
	}

	res, err := h.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if math.Abs(res.MAP-100) > 1e-9 || math.Abs(res.MAR-100) > 1e-9 {
		t.Errorf("MAP, MAR = %f, %f, want 100, 100", res.MAP, res.MAR)
	}
	if res.EvaluatedFolds != 20 {
		t.Errorf("EvaluatedFolds = %d, want 20", res.EvaluatedFolds)
	}
	for _, f := range res.PerFold {
		if f.Precision != 100 || f.Recall != 100 {
			t.Errorf("user %d fold %d = %f/%f, want 100/100", f.User, f.Fold, f.Precision, f.Recall)
		}
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestHarness_SparseUsersCountAsZero(t *testing.T) {
	t.Parallel()

	rows := [][]float64{
		{1, 1, 1, 1, 1, 0}, // 5 interactions: all folds
		{1, 1, 0, 0, 0, 0}, // 2 interactions: 2 folds
		{0, 0, 0, 0, 0, 0}, // no history: skipped
	}
	h, err := NewHarness(testDataset(t, rows), oracle{}, Config{Folds: 5})
	if err != nil {
		t.Fatalf("NewHarness() error = %v", err)
	}

	res, err := h.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.SkippedUsers != 1 {
		t.Errorf("SkippedUsers = %d, want 1", res.SkippedUsers)
	}
	if res.EvaluatedFolds != 7 {
		t.Errorf("EvaluatedFolds = %d, want 7", res.EvaluatedFolds)
	}
	// 7 perfect folds over 5·3 pairs
	want := 100 * 7.0 / 15.0
	if math.Abs(res.MAP-want) > 1e-9 || math.Abs(res.MAR-want) > 1e-9 {
		t.Errorf("MAP, MAR = %f, %f, want %f", res.MAP, res.MAR, want)
	}
}

func TestHarness_EmptyRecommendationsCounted(t *testing.T) {
	t.Parallel()

	h, err := NewHarness(testDataset(t, denseRows(3, 9)), silent{}, Config{Folds: 3})
	if err != nil {
		t.Fatalf("NewHarness() error = %v", err)
	}

	res, err := h.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.MAP != 0 || res.MAR != 0 {
		t.Errorf("MAP, MAR = %f, %f, want 0, 0", res.MAP, res.MAR)
	}
	if res.EmptyRecommendations != res.EvaluatedFolds || res.EvaluatedFolds != 9 {
		t.Errorf("EmptyRecommendations = %d, EvaluatedFolds = %d, want 9, 9", res.EmptyRecommendations, res.EvaluatedFolds)
	}
}

func TestHarness_WorkersMatchSequential(t *testing.T) {
	t.Parallel()

	rows := denseRows(9, 30)

	for _, strategy := range recommend.Strategies() {
		t.Run(strategy, func(t *testing.T) {
			t.Parallel()

			run := func(workers int) *Result {
				rec, err := recommend.New(strategy, 7)
				if err != nil {
					t.Fatalf("New() error = %v", err)
				}
				h, err := NewHarness(testDataset(t, rows), rec, Config{Folds: 5, Workers: workers, Seed: 7})
				if err != nil {
					t.Fatalf("NewHarness() error = %v", err)
				}
				res, err := h.Run(context.Background())
				if err != nil {
					t.Fatalf("Run() error = %v", err)
				}
				return res
			}

			seq := run(1)
			par := run(4)
			if seq.MAP != par.MAP || seq.MAR != par.MAR {
				t.Errorf("sequential %f/%f != parallel %f/%f", seq.MAP, seq.MAR, par.MAP, par.MAR)
			}
			if seq.EvaluatedFolds != par.EvaluatedFolds {
				t.Errorf("EvaluatedFolds %d != %d", seq.EvaluatedFolds, par.EvaluatedFolds)
			}
		})
	}
}

func TestHarness_DoesNotModifyDataset(t *testing.T) {
	t.Parallel()

	d := testDataset(t, denseRows(3, 6))
	before := d.Matrix.Clone()

	h, err := NewHarness(d, recommend.NewNeighborCF(), Config{Folds: 2})
	if err != nil {
		t.Fatalf("NewHarness() error = %v", err)
	}
	if _, err := h.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	users, artists := d.Matrix.Dims()
	for u := 0; u < users; u++ {
		for a := 0; a < artists; a++ {
			if d.Matrix.At(u, a) != before.At(u, a) {
				t.Fatalf("matrix changed at (%d, %d)", u, a)
			}
		}
	}
}

func TestHarness_SingleFoldScenario(t *testing.T) {
	t.Parallel()

	d := testDataset(t, [][]float64{
		{1, 0, 0},
		{0.5, 0.5, 0},
		{0, 0, 1},
	})
	h, err := NewHarness(d, recommend.NewNeighborCF(), Config{Folds: 1})
	if err != nil {
		t.Fatalf("NewHarness() error = %v", err)
	}

	res, err := h.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, f := range res.PerFold {
		if f.User == 0 && f.Recommended != 0 {
			t.Errorf("user 0 recommended %d artists, want 0", f.Recommended)
		}
	}
}

func TestNewHarness_Errors(t *testing.T) {
	t.Parallel()

	good := testDataset(t, denseRows(2, 3))
	ragged := testDataset(t, denseRows(2, 3))
	ragged.Users.Add("extra")

	tests := []struct {
		name    string
		d       *uam.Dataset
		rec     recommend.Recommender
		cfg     Config
		wantErr error
	}{
		{name: "zero folds", d: good, rec: oracle{}, cfg: Config{Folds: 0}, wantErr: ErrInvalidFolds},
		{name: "negative folds", d: good, rec: oracle{}, cfg: Config{Folds: -2}, wantErr: ErrInvalidFolds},
		{name: "dimension mismatch", d: ragged, rec: oracle{}, cfg: Config{Folds: 2}, wantErr: uam.ErrDimensionMismatch},
		{name: "nil dataset", d: nil, rec: oracle{}, cfg: Config{Folds: 2}, wantErr: uam.ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewHarness(tt.d, tt.rec, tt.cfg); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewHarness() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHarness_RecommenderErrorAborts(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{1, 3} {
		h, err := NewHarness(testDataset(t, denseRows(5, 6)), failing{user: 3}, Config{Folds: 2, Workers: workers})
		if err != nil {
			t.Fatalf("NewHarness() error = %v", err)
		}
		if _, err := h.Run(context.Background()); err == nil {
			t.Errorf("workers=%d: Run() expected error", workers)
		}
	}
}

func TestHarness_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h, err := NewHarness(testDataset(t, denseRows(3, 6)), oracle{}, Config{Folds: 2})
	if err != nil {
		t.Fatalf("NewHarness() error = %v", err)
	}
	if _, err := h.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
