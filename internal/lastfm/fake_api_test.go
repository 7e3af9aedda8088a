// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package lastfm

import (
	"context"
	"fmt"
	"strings"
)

// fakeAPI serves canned pages and user info without a network.
type fakeAPI struct {
	pages    map[string][]string
	infos    map[string]string
	errs     map[string]error
	requests []string
}

func (f *fakeAPI) RecentTracks(ctx context.Context, user string, page, _ int) (*RecentTracksPage, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	f.requests = append(f.requests, fmt.Sprintf("%s/%d", user, page))
	if err, ok := f.errs[user]; ok {
		return nil, nil, err
	}
	pages := f.pages[user]
	if page > len(pages) {
		return nil, nil, &APIError{Code: CodeInvalidParameters, Message: "page out of range", StatusCode: 400}
	}
	raw := []byte(pages[page-1])
	p, err := ParseRecentTracks(raw)
	if err != nil {
		return nil, raw, err
	}
	return p, raw, nil
}

func (f *fakeAPI) UserInfo(ctx context.Context, user string) (*UserInfo, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	f.requests = append(f.requests, user)
	if err, ok := f.errs[user]; ok {
		return nil, nil, err
	}
	body, ok := f.infos[user]
	if !ok {
		return nil, nil, &APIError{Code: CodeInvalidParameters, Message: "User not found", StatusCode: 404}
	}
	raw := []byte(body)
	info, err := ParseUserInfo(raw)
	if err != nil {
		return nil, raw, err
	}
	return info, raw, nil
}

// pageJSON renders a recenttracks page with one scrobble per artist.
func pageJSON(page, totalPages int, artists ...string) string {
	tracks := make([]string, len(artists))
	for i, a := range artists {
		tracks[i] = fmt.Sprintf(`{"artist":{"#text":%q},"name":"t%d","date":{"uts":"%d"}}`, a, i, 1000+page*10+i)
	}
	return fmt.Sprintf(`{"recenttracks":{"track":[%s],"@attr":{"page":"%d","totalPages":"%d"}}}`,
		strings.Join(tracks, ","), page, totalPages)
}
