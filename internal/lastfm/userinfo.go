// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package lastfm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tomtom215/scrobblerec/internal/logging"
)

// UserInfoFetcher archives user.getinfo responses.
type UserInfoFetcher struct {
	api API
	dir string
}

// NewUserInfoFetcher creates a fetcher writing <dir>/<user>.json.
func NewUserInfoFetcher(api API, dir string) *UserInfoFetcher {
	return &UserInfoFetcher{api: api, dir: dir}
}

// Run fetches and archives every user's profile and returns the decoded
// profiles of the users that succeeded. Failed users are logged and skipped.
func (f *UserInfoFetcher) Run(ctx context.Context, users []string) ([]*UserInfo, error) {
	if err := os.MkdirAll(f.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create user info dir: %w", err)
	}
	logger := logging.Ctx(ctx)

	infos := make([]*UserInfo, 0, len(users))
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return infos, err
		}

		info, raw, err := f.api.UserInfo(ctx, user)
		if raw != nil {
			path := filepath.Join(f.dir, fileName(user)+".json")
			if werr := os.WriteFile(path, raw, 0o600); werr != nil {
				return infos, fmt.Errorf("write user info: %w", werr)
			}
		}
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrCircuitOpen) {
				return infos, err
			}
			logger.Warn().Err(err).Str("user", user).Msg("Skipping user")
			continue
		}

		logger.Info().
			Str("user", user).
			Str("name", info.Name).
			Int64("playcount", int64(info.Playcount)).
			Time("registered", time.Unix(int64(info.Registered.Unixtime), 0).UTC()).
			Msg("User info")
		infos = append(infos, info)
	}
	return infos, nil
}
