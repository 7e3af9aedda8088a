// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"scrobblerec.yaml",
	"scrobblerec.yml",
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
		Lastfm: LastfmConfig{
			APIURL:         "http://ws.audioscrobbler.com/2.0/",
			APIKey:         "",
			Timeout:        30 * time.Second,
			MaxPages:       5,
			PageLimit:      200,
			RateLimit:      4, // Last.fm asks for at most 5 req/s per key
			Burst:          1,
			MaxRetries:     5,
			RetryBaseDelay: time.Second,
		},
		Data: DataConfig{
			Dir:         ".",
			SeedUsers:   "seed_users.csv",
			Events:      "LE.txt",
			Matrix:      "UAM.txt",
			Artists:     "UAM_artists.txt",
			Users:       "UAM_users.txt",
			ArchiveDir:  "listening_events",
			UserInfoDir: "user_info",
		},
		Evaluate: EvaluateConfig{
			Strategy: "cf",
			Folds:    5,
			Workers:  1,
			Seed:     42,
		},
		Store: StoreConfig{
			Path: "",
		},
		Metrics: MetricsConfig{
			Textfile: "",
		},
	}
}

// Load is LoadWithKoanf with the file search rules only.
func Load() (*Config, error) {
	return LoadWithKoanf("")
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: path if non-empty, otherwise the first file found by findConfigFile
//  3. Environment Variables: Override any setting
func LoadWithKoanf(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file. An explicit path must exist.
	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Last.fm
	"lastfm_api_url":          "lastfm.api_url",
	"lastfm_api_key":          "lastfm.api_key",
	"lastfm_timeout":          "lastfm.timeout",
	"lastfm_max_pages":        "lastfm.max_pages",
	"lastfm_page_limit":       "lastfm.page_limit",
	"lastfm_rate_limit":       "lastfm.rate_limit",
	"lastfm_burst":            "lastfm.burst",
	"lastfm_max_retries":      "lastfm.max_retries",
	"lastfm_retry_base_delay": "lastfm.retry_base_delay",

	// Data files
	"data_dir":        "data.dir",
	"seed_users_file": "data.seed_users",
	"le_file":         "data.events",
	"uam_file":        "data.matrix",
	"uam_artists":     "data.artists",
	"uam_users":       "data.users",
	"archive_dir":     "data.archive_dir",
	"user_info_dir":   "data.user_info_dir",

	// Evaluation
	"eval_strategy": "evaluate.strategy",
	"eval_folds":    "evaluate.folds",
	"eval_workers":  "evaluate.workers",
	"eval_seed":     "evaluate.seed",

	// Store and metrics
	"store_path":       "store.path",
	"metrics_textfile": "metrics.textfile",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - LASTFM_API_KEY -> lastfm.api_key
//   - EVAL_FOLDS -> evaluate.folds
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	return ""
}
