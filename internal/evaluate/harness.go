// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package evaluate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/scrobblerec/internal/logging"
	"github.com/tomtom215/scrobblerec/internal/metrics"
	"github.com/tomtom215/scrobblerec/internal/recommend"
	"github.com/tomtom215/scrobblerec/internal/uam"
)

// DefaultFolds is the number of folds used when none is configured.
const DefaultFolds = 5

// ErrInvalidFolds is returned when the fold count is not positive.
var ErrInvalidFolds = errors.New("fold count must be positive")

// Config controls an evaluation run.
type Config struct {
	// Folds is the number of cross-validation folds per user.
	Folds int

	// Workers is the number of users evaluated concurrently. Values below 1
	// mean sequential evaluation.
	Workers int

	// Seed fixes the randomness of random strategies.
	Seed int64
}

// DefaultConfig returns a sequential five-fold configuration.
func DefaultConfig() Config {
	return Config{Folds: DefaultFolds, Workers: 1, Seed: 42}
}

// FoldResult is the score of one (user, fold) pair.
type FoldResult struct {
	User        int     `json:"user"`
	Fold        int     `json:"fold"`
	Train       int     `json:"train"`
	Test        int     `json:"test"`
	Recommended int     `json:"recommended"`
	TP          int     `json:"tp"`
	Precision   float64 `json:"precision"`
	Recall      float64 `json:"recall"`
}

// Result is the aggregate of an evaluation run.
type Result struct {
	RunID                string        `json:"run_id"`
	Strategy             string        `json:"strategy"`
	Folds                int           `json:"folds"`
	Users                int           `json:"users"`
	EvaluatedFolds       int           `json:"evaluated_folds"`
	SkippedUsers         int           `json:"skipped_users"`
	EmptyRecommendations int           `json:"empty_recommendations"`
	MAP                  float64       `json:"map"`
	MAR                  float64       `json:"mar"`
	Duration             time.Duration `json:"duration"`
	PerFold              []FoldResult  `json:"per_fold,omitempty"`
}

// Harness runs a recommender against a dataset.
type Harness struct {
	dataset     *uam.Dataset
	recommender recommend.Recommender
	cfg         Config
}

// NewHarness validates the inputs and returns a harness.
func NewHarness(d *uam.Dataset, rec recommend.Recommender, cfg Config) (*Harness, error) {
	if cfg.Folds <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFolds, cfg.Folds)
	}
	if rec == nil {
		return nil, errors.New("recommender is required")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Harness{dataset: d, recommender: rec, cfg: cfg}, nil
}

// userResult holds the folds evaluated for one user.
type userResult struct {
	skipped bool
	folds   []FoldResult
}

// Run evaluates every user and aggregates MAP and MAR.
func (h *Harness) Run(ctx context.Context) (*Result, error) {
	runID := logging.RunIDFromContext(ctx)
	if runID == "" {
		runID = logging.GenerateRunID()
		ctx = logging.ContextWithRunID(ctx, runID)
	}
	logger := logging.Ctx(ctx)
	start := time.Now()

	users, _ := h.dataset.Matrix.Dims()
	strategy := h.recommender.Name()

	logger.Info().
		Str("strategy", strategy).
		Int("users", users).
		Int("folds", h.cfg.Folds).
		Int("workers", h.cfg.Workers).
		Msg("Starting evaluation")

	results := make([]userResult, users)

	if h.cfg.Workers == 1 {
		for u := 0; u < users; u++ {
			r, err := h.evaluateUser(ctx, u)
			if err != nil {
				return nil, err
			}
			results[u] = r
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(h.cfg.Workers)
		for u := 0; u < users; u++ {
			g.Go(func() error {
				r, err := h.evaluateUser(gctx, u)
				if err != nil {
					return err
				}
				results[u] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	res := &Result{
		RunID:    runID,
		Strategy: strategy,
		Folds:    h.cfg.Folds,
		Users:    users,
	}
	var sumPrecision, sumRecall float64
	for _, r := range results {
		if r.skipped {
			res.SkippedUsers++
			continue
		}
		for i := range r.folds {
			f := &r.folds[i]
			sumPrecision += f.Precision
			sumRecall += f.Recall
			if f.Recommended == 0 {
				res.EmptyRecommendations++
			}
		}
		res.EvaluatedFolds += len(r.folds)
		res.PerFold = append(res.PerFold, r.folds...)
	}

	denom := float64(h.cfg.Folds * users)
	res.MAP = sumPrecision / denom
	res.MAR = sumRecall / denom
	res.Duration = time.Since(start)

	metrics.RecordEvaluation(strategy, res.MAP, res.MAR, res.Duration)

	logger.Info().
		Str("strategy", strategy).
		Int("evaluated_folds", res.EvaluatedFolds).
		Int("skipped_users", res.SkippedUsers).
		Int("empty_recommendations", res.EmptyRecommendations).
		Float64("map", res.MAP).
		Float64("mar", res.MAR).
		Dur("duration", res.Duration).
		Msg("Evaluation complete")

	return res, nil
}

func (h *Harness) evaluateUser(ctx context.Context, user int) (userResult, error) {
	if err := ctx.Err(); err != nil {
		return userResult{}, err
	}

	history := h.dataset.Matrix.NonZero(user)
	if len(history) == 0 {
		logging.Ctx(ctx).Debug().Int("user", user).Msg("Skipping user without listening history")
		return userResult{skipped: true}, nil
	}

	splits := KFold(history, h.cfg.Folds)
	folds := make([]FoldResult, 0, len(splits))
	strategy := h.recommender.Name()

	for _, s := range splits {
		rec := h.recommender
		if seeded, ok := rec.(recommend.Seeded); ok {
			rec = seeded.WithSeed(foldSeed(h.cfg.Seed, user, s.Fold))
		}

		recommended, err := rec.Recommend(ctx, h.dataset.Matrix.Clone(), user, s.Train)
		if err != nil {
			return userResult{}, fmt.Errorf("user %d fold %d: %w", user, s.Fold, err)
		}

		score := Score(recommended, s.Test)
		fr := FoldResult{
			User:        user,
			Fold:        s.Fold,
			Train:       len(s.Train),
			Test:        len(s.Test),
			Recommended: len(recommended),
			TP:          score.TP,
			Precision:   score.Precision,
			Recall:      score.Recall,
		}
		folds = append(folds, fr)
		metrics.RecordFold(strategy, score.Precision, score.Recall, score.Empty)

		logging.Ctx(ctx).Debug().
			Int("user", user).
			Int("fold", s.Fold).
			Int("train", fr.Train).
			Int("test", fr.Test).
			Int("recommended", fr.Recommended).
			Float64("precision", fr.Precision).
			Float64("recall", fr.Recall).
			Msg("Fold scored")
	}

	return userResult{folds: folds}, nil
}

// foldSeed derives a per-(user, fold) seed so random strategies produce the
// same draws regardless of evaluation order.
func foldSeed(seed int64, user, fold int) int64 {
	return seed*1_000_003 + int64(user)*1_009 + int64(fold)
}
