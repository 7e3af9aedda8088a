// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

/*
Package config loads scrobblerec configuration with Koanf v2.

Sources are layered, later ones overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: the explicit path, else $CONFIG_PATH, else the
    first of DefaultConfigPaths that exists
 3. Environment variables (see envTransformFunc for the mapping)

The merged configuration is validated with go-playground/validator through
the validation package.

# Example File

	logging:
	  level: debug
	  format: console
	lastfm:
	  api_key: 0123456789abcdef0123456789abcdef
	  max_pages: 5
	  page_limit: 200
	data:
	  dir: ./data
	evaluate:
	  strategy: cf
	  folds: 5
	  workers: 4

# Environment Variables

	LASTFM_API_KEY, LASTFM_API_URL, LASTFM_MAX_PAGES, LASTFM_PAGE_LIMIT,
	LASTFM_RATE_LIMIT, LASTFM_TIMEOUT, DATA_DIR, SEED_USERS_FILE,
	EVAL_STRATEGY, EVAL_FOLDS, EVAL_WORKERS, EVAL_SEED, STORE_PATH,
	METRICS_TEXTFILE, LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
