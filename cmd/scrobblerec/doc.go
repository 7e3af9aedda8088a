// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

// Package main is the entry point for the scrobblerec command.
//
// scrobblerec crawls listening events from Last.fm, turns them into a
// user-artist interaction matrix, and evaluates recommenders on that matrix
// with per-user k-fold cross-validation.
//
// # Commands
//
//	scrobblerec [-config path] fetch [-reset]
//	scrobblerec [-config path] userinfo
//	scrobblerec [-config path] convert
//	scrobblerec [-config path] recommend [-strategy cf|baseline] [-user name] [-seed S]
//	scrobblerec [-config path] evaluate [-strategy cf|baseline] [-folds N] [-workers N] [-seed S] [-out file]
//
// fetch reads the seed users file, downloads up to lastfm.max_pages pages of
// recent tracks per user, archives every raw page and writes the listening
// event file. Finished users are kept in the progress store (store.path), so
// an interrupted crawl resumes where it stopped.
//
// convert aggregates the listening event file into the matrix and the two
// registry files. recommend prints recommendations computed from each user's
// full history. evaluate runs the cross-validation harness and prints
//
//	MAP: 12.34, MAR: 5.67
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Command flags (evaluate and recommend only)
//   - Environment variables (LASTFM_API_KEY, EVAL_FOLDS, LOG_LEVEL, ...)
//   - Config file (-config, CONFIG_PATH, or scrobblerec.yaml)
//   - Built-in defaults
//
// When metrics.textfile is set, all Prometheus metrics are written to that
// file in the text exposition format after the command finishes, for the
// node_exporter textfile collector.
//
// # Exit Codes
//
//	0  success
//	1  the command failed
//	2  usage error
package main
