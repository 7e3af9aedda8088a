// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/tomtom215/scrobblerec/internal/validation"
)

// ErrMissingAPIKey is returned by RequireAPIKey when no Last.fm key is configured.
var ErrMissingAPIKey = errors.New("lastfm.api_key is required (set LASTFM_API_KEY)")

// Config holds all scrobblerec configuration.
type Config struct {
	Logging  LoggingConfig  `koanf:"logging"`
	Lastfm   LastfmConfig   `koanf:"lastfm"`
	Data     DataConfig     `koanf:"data"`
	Evaluate EvaluateConfig `koanf:"evaluate"`
	Store    StoreConfig    `koanf:"store"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// LoggingConfig configures the global zerolog logger.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error,
	// fatal, panic or disabled.
	Level string `koanf:"level" validate:"loglevel"`

	// Format is json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller adds file:line to every entry.
	Caller bool `koanf:"caller"`
}

// LastfmConfig configures the Last.fm API client and crawler.
type LastfmConfig struct {
	APIURL string `koanf:"api_url" validate:"required,url"`

	// APIKey is only needed by the fetch and userinfo commands.
	APIKey string `koanf:"api_key" validate:"omitempty,hexadecimal,len=32"`

	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// MaxPages is the number of recent-track pages fetched per user.
	MaxPages int `koanf:"max_pages" validate:"min=1,max=100"`

	// PageLimit is the number of events per page; the API caps it at 200.
	PageLimit int `koanf:"page_limit" validate:"min=1,max=200"`

	// RateLimit is the sustained request rate in requests per second.
	RateLimit float64 `koanf:"rate_limit" validate:"gt=0"`
	Burst     int     `koanf:"burst" validate:"min=1"`

	// MaxRetries bounds retries after HTTP 429.
	MaxRetries     int           `koanf:"max_retries" validate:"min=0,max=10"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay" validate:"gt=0"`
}

// DataConfig names the files read and written by the commands. Relative
// file names are resolved against Dir.
type DataConfig struct {
	Dir         string `koanf:"dir" validate:"required,nonblank"`
	SeedUsers   string `koanf:"seed_users" validate:"required,nonblank"`
	Events      string `koanf:"events" validate:"required,nonblank"`
	Matrix      string `koanf:"matrix" validate:"required,nonblank"`
	Artists     string `koanf:"artists" validate:"required,nonblank"`
	Users       string `koanf:"users" validate:"required,nonblank"`
	ArchiveDir  string `koanf:"archive_dir" validate:"required,nonblank"`
	UserInfoDir string `koanf:"user_info_dir" validate:"required,nonblank"`
}

// EvaluateConfig configures the evaluation harness.
type EvaluateConfig struct {
	Strategy string `koanf:"strategy" validate:"oneof=cf baseline"`
	Folds    int    `koanf:"folds" validate:"min=1"`
	Workers  int    `koanf:"workers" validate:"min=1,max=256"`
	Seed     int64  `koanf:"seed"`
}

// StoreConfig configures the crawl progress store.
type StoreConfig struct {
	// Path is the BadgerDB directory. Empty keeps progress in memory only,
	// so an interrupted crawl starts over.
	Path string `koanf:"path"`
}

// MetricsConfig configures the Prometheus textfile dump.
type MetricsConfig struct {
	// Textfile is written at the end of every command when set.
	Textfile string `koanf:"textfile"`
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	return nil
}

// RequireAPIKey returns ErrMissingAPIKey when no Last.fm API key is set.
func (c *Config) RequireAPIKey() error {
	if c.Lastfm.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Path resolves a data file name against Data.Dir. Absolute names are
// returned unchanged.
func (c *DataConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// String returns a summary suitable for logging. The API key is masked.
func (c *LastfmConfig) String() string {
	key := "<unset>"
	if c.APIKey != "" {
		key = c.APIKey[:min(4, len(c.APIKey))] + "…"
	}
	return fmt.Sprintf("api_url=%s api_key=%s pages=%d limit=%d rate=%.2f/s",
		c.APIURL, key, c.MaxPages, c.PageLimit, c.RateLimit)
}
