// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by the process. Field names in errors
// are taken from koanf struct tags, so a failure on Config.Lastfm.PageLimit is
// reported as "lastfm.page_limit", the same key used in the YAML file.
//
// Custom validators:
//   - nonblank: string is not empty after trimming whitespace
//
// Example:
//
//	type EvaluateConfig struct {
//	    Folds    int    `koanf:"folds" validate:"min=1"`
//	    Strategy string `koanf:"strategy" validate:"oneof=cf baseline"`
//	}
//
//	if err := validation.ValidateStruct(&cfg); err != nil {
//	    return fmt.Errorf("invalid configuration: %w", err)
//	}
package validation
