// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

// Package logging provides centralized zerolog-based structured logging for Scrobblerec.
//
// Every command in the toolkit logs through a single global zerolog logger,
// JSON by default and human-readable console output when requested.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	logging.Info().Str("user", "rj").Int("pages", 5).Msg("fetched listening events")
//	logging.Error().Err(err).Msg("load matrix")
//
// # Components
//
// Long-lived components (the crawler, the evaluation harness) receive a
// zerolog.Logger and tag it with a component field:
//
//	logger := logging.WithComponent("evaluate")
//
// An evaluation run stores its run ID in the context so fold-level log lines
// can be correlated:
//
//	ctx = logging.ContextWithRunID(ctx, runID)
//	logging.Ctx(ctx).Info().Int("user", u).Msg("fold scored")
//
// # Configuration
//
// Environment Variables (read through internal/config):
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Badger
//
// BadgerLogger adapts the global logger to badger's Logger interface so the
// crawl progress store logs through the same pipeline.
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send(), and prefer structured
// fields over Msgf.
package logging
