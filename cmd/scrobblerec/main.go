// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/tomtom215/scrobblerec/internal/config"
	"github.com/tomtom215/scrobblerec/internal/logging"
	"github.com/tomtom215/scrobblerec/internal/metrics"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// errUsage marks command line errors; they exit with status 2.
var errUsage = errors.New("usage error")

type command struct {
	summary string
	run     func(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error
}

var commands = map[string]command{
	"fetch":     {"crawl listening events from Last.fm", runFetch},
	"userinfo":  {"download Last.fm user profiles", runUserInfo},
	"convert":   {"build the interaction matrix from listening events", runConvert},
	"recommend": {"print recommendations from each user's full history", runRecommend},
	"evaluate":  {"cross-validate a recommender and print MAP and MAR", runEvaluate},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("scrobblerec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		fs.Usage()
		return 2
	}

	cfg, err := config.LoadWithKoanf(*configPath)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    stderr,
	})
	metrics.SetAppInfo(version)

	ctx = logging.ContextWithRunID(ctx, logging.GenerateRunID())
	logger := logging.Ctx(ctx)
	logger.Debug().Str("command", name).Str("version", version).Msg("Starting")

	err = cmd.run(ctx, cfg, fs.Args()[1:], stdout)

	if cfg.Metrics.Textfile != "" {
		if werr := metrics.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.Warn().Err(werr).Str("path", cfg.Metrics.Textfile).Msg("Failed to write metrics textfile")
		}
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	default:
		logger.Error().Err(err).Str("command", name).Msg("Command failed")
		return 1
	}
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	_, _ = fmt.Fprintln(w, "Usage: scrobblerec [-config path] <command> [flags]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}

// parseFlags parses command flags and rejects positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	return nil
}
