// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/scrobblerec/internal/config"
	"github.com/tomtom215/scrobblerec/internal/evaluate"
	"github.com/tomtom215/scrobblerec/internal/events"
	"github.com/tomtom215/scrobblerec/internal/lastfm"
	"github.com/tomtom215/scrobblerec/internal/logging"
	"github.com/tomtom215/scrobblerec/internal/recommend"
	"github.com/tomtom215/scrobblerec/internal/uam"
)

func datasetPaths(cfg *config.Config) uam.Paths {
	return uam.Paths{
		Matrix:  cfg.Data.Path(cfg.Data.Matrix),
		Artists: cfg.Data.Path(cfg.Data.Artists),
		Users:   cfg.Data.Path(cfg.Data.Users),
	}
}

func seedUsers(cfg *config.Config) ([]string, error) {
	users, err := lastfm.ReadUsersFile(cfg.Data.Path(cfg.Data.SeedUsers))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users in %s", cfg.Data.SeedUsers)
	}
	return users, nil
}

func runFetch(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	reset := fs.Bool("reset", false, "discard stored crawl progress before starting")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	users, err := seedUsers(cfg)
	if err != nil {
		return err
	}

	db, err := lastfm.OpenStore(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing progress store")
		}
	}()

	progress := lastfm.NewBadgerProgress(db)
	if *reset {
		if err := progress.Clear(ctx); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
	}

	logging.Ctx(ctx).Info().
		Int("users", len(users)).
		Str("lastfm", cfg.Lastfm.String()).
		Msg("Starting crawl")

	crawler := lastfm.NewCrawler(lastfm.NewCircuitBreakerClient(&cfg.Lastfm), progress, lastfm.CrawlerConfig{
		ArchiveDir: cfg.Data.Path(cfg.Data.ArchiveDir),
		MaxPages:   cfg.Lastfm.MaxPages,
		PageLimit:  cfg.Lastfm.PageLimit,
	})
	evs, stats, err := crawler.Run(ctx, users)
	if err != nil {
		return err
	}

	out := cfg.Data.Path(cfg.Data.Events)
	if err := events.WriteFile(out, evs); err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "Fetched %d listening events for %d of %d users (%d resumed, %d failed) into %s\n",
		stats.Events, stats.Completed+stats.Resumed, stats.Users, stats.Resumed, stats.Failed, out)
	return err
}

func runUserInfo(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("userinfo", flag.ContinueOnError)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	users, err := seedUsers(cfg)
	if err != nil {
		return err
	}

	dir := cfg.Data.Path(cfg.Data.UserInfoDir)
	infos, err := lastfm.NewUserInfoFetcher(lastfm.NewCircuitBreakerClient(&cfg.Lastfm), dir).Run(ctx, users)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "Fetched %d of %d user profiles into %s\n", len(infos), len(users), dir)
	return err
}

func runConvert(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	evs, err := events.ReadFile(cfg.Data.Path(cfg.Data.Events))
	if err != nil {
		return err
	}

	d, cs, err := uam.FromEvents(evs)
	if err != nil {
		return err
	}
	if err := uam.SaveDataset(datasetPaths(cfg), d); err != nil {
		return err
	}

	s := d.Stats()
	logging.Ctx(ctx).Info().
		Int("events", cs.Events).
		Int("skipped_events", cs.Skipped).
		Int("users", s.Users).
		Int("artists", s.Artists).
		Int("interactions", s.Interactions).
		Float64("density", s.Density).
		Msg("Interaction matrix written")

	_, err = fmt.Fprintf(stdout, "Converted %d listening events into a %d x %d matrix\n", cs.Events, s.Users, s.Artists)
	return err
}

func runRecommend(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	strategy := fs.String("strategy", cfg.Evaluate.Strategy, "recommender: "+strings.Join(recommend.Strategies(), ", "))
	only := fs.String("user", "", "recommend for this user only")
	seed := fs.Int64("seed", cfg.Evaluate.Seed, "seed for random strategies")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	rec, err := recommend.New(*strategy, *seed)
	if err != nil {
		return err
	}

	d, err := uam.LoadDataset(datasetPaths(cfg))
	if err != nil {
		return err
	}

	users := make([]int, 0, d.Users.Len())
	if *only != "" {
		u, ok := d.Users.Index(*only)
		if !ok {
			return fmt.Errorf("user %q is not in %s", *only, cfg.Data.Users)
		}
		users = append(users, u)
	} else {
		for u := 0; u < d.Users.Len(); u++ {
			users = append(users, u)
		}
	}

	for _, u := range users {
		history := d.Matrix.NonZero(u)
		if len(history) == 0 {
			logging.Ctx(ctx).Debug().Str("user", d.Users.Name(u)).Msg("No listening history, skipping")
			continue
		}

		line := d.Users.Name(u)
		if rec.Name() == recommend.StrategyCF {
			nb, ok, err := recommend.NearestNeighbor(d.Matrix, u)
			if err != nil {
				return err
			}
			if ok {
				line += fmt.Sprintf("\tclosest=%s\tsimilarity=%.4f", d.Users.Name(nb.User), nb.Similarity)
			}
		}

		recs, err := rec.Recommend(ctx, d.Matrix.Clone(), u, history)
		if err != nil {
			return err
		}
		line += "\t" + strings.Join(d.Artists.Lookup(recs), ", ")

		if _, err := fmt.Fprintln(stdout, line); err != nil {
			return err
		}
	}
	return nil
}

func runEvaluate(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	ec := cfg.Evaluate
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	fs.StringVar(&ec.Strategy, "strategy", ec.Strategy, "recommender: "+strings.Join(recommend.Strategies(), ", "))
	fs.IntVar(&ec.Folds, "folds", ec.Folds, "number of cross-validation folds")
	fs.IntVar(&ec.Workers, "workers", ec.Workers, "users evaluated concurrently")
	fs.Int64Var(&ec.Seed, "seed", ec.Seed, "seed for random strategies")
	out := fs.String("out", "", "write the full result with per-fold scores as JSON to this file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	cfg.Evaluate = ec
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	rec, err := recommend.New(ec.Strategy, ec.Seed)
	if err != nil {
		return err
	}

	d, err := uam.LoadDataset(datasetPaths(cfg))
	if err != nil {
		return err
	}

	h, err := evaluate.NewHarness(d, rec, evaluate.Config{Folds: ec.Folds, Workers: ec.Workers, Seed: ec.Seed})
	if err != nil {
		return err
	}
	res, err := h.Run(ctx)
	if err != nil {
		return err
	}

	if *out != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		if err := os.WriteFile(*out, data, 0o600); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}

	_, err = fmt.Fprintf(stdout, "MAP: %.2f, MAR: %.2f\n", res.MAP, res.MAR)
	return err
}
