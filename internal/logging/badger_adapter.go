// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package logging

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// BadgerLogger implements badger.Logger on top of zerolog.
// Badger only emits printf-style lines, so each call becomes one message
// with a "badger" source field. Trailing newlines are trimmed.
type BadgerLogger struct {
	logger zerolog.Logger
}

// NewBadgerLogger wraps the global logger for use with badger.Options.WithLogger.
func NewBadgerLogger() *BadgerLogger {
	return NewBadgerLoggerWith(Logger())
}

// NewBadgerLoggerWith wraps a specific zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBadgerLoggerWith(logger zerolog.Logger) *BadgerLogger {
	return &BadgerLogger{logger: logger.With().Str("source", "badger").Logger()}
}

// Errorf logs at error level.
func (b *BadgerLogger) Errorf(format string, args ...interface{}) {
	b.logger.Error().Msg(trimLine(format, args))
}

// Warningf logs at warn level.
func (b *BadgerLogger) Warningf(format string, args ...interface{}) {
	b.logger.Warn().Msg(trimLine(format, args))
}

// Infof logs at debug level; badger's info output is too chatty for a CLI.
func (b *BadgerLogger) Infof(format string, args ...interface{}) {
	b.logger.Debug().Msg(trimLine(format, args))
}

// Debugf logs at trace level.
func (b *BadgerLogger) Debugf(format string, args ...interface{}) {
	b.logger.Trace().Msg(trimLine(format, args))
}

func trimLine(format string, args []interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
