// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package lastfm

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/scrobblerec/internal/events"
)

// flexInt decodes integers that the API sends either as numbers or as
// decimal strings.
type flexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		data = []byte(s)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("lastfm: invalid integer %q: %w", data, err)
	}
	*f = flexInt(n)
	return nil
}

// TextField is the {"#text": ...} wrapper used for artist and album names.
type TextField struct {
	Text string `json:"#text"`
	MBID string `json:"mbid,omitempty"`
}

// Date is a scrobble timestamp.
type Date struct {
	UTS  flexInt `json:"uts"`
	Text string  `json:"#text"`
}

// Track is one entry of user.getrecenttracks.
type Track struct {
	Artist TextField `json:"artist"`
	Album  TextField `json:"album"`
	Name   string    `json:"name"`
	MBID   string    `json:"mbid"`
	Date   *Date     `json:"date"`
	Attr   struct {
		NowPlaying string `json:"nowplaying"`
	} `json:"@attr"`
}

// NowPlaying reports whether the track is currently playing. Such tracks
// have no date and are not listening events yet.
func (t *Track) NowPlaying() bool {
	return t.Date == nil || t.Attr.NowPlaying == "true"
}

// trackList accepts both an array and a single object, which the API
// returns when a page holds exactly one track.
type trackList []Track

// UnmarshalJSON implements json.Unmarshaler.
func (l *trackList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '{' {
		var t Track
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		*l = trackList{t}
		return nil
	}
	var ts []Track
	if err := json.Unmarshal(data, &ts); err != nil {
		return err
	}
	*l = ts
	return nil
}

// PageAttr is the paging metadata of a list response.
type PageAttr struct {
	User       string  `json:"user"`
	Page       flexInt `json:"page"`
	PerPage    flexInt `json:"perPage"`
	TotalPages flexInt `json:"totalPages"`
	Total      flexInt `json:"total"`
}

// RecentTracksPage is one page of user.getrecenttracks.
type RecentTracksPage struct {
	Tracks []Track
	Attr   PageAttr
}

type recentTracksResponse struct {
	RecentTracks *struct {
		Track trackList `json:"track"`
		Attr  PageAttr  `json:"@attr"`
	} `json:"recenttracks"`
}

// ParseRecentTracks decodes a user.getrecenttracks response body.
func ParseRecentTracks(data []byte) (*RecentTracksPage, error) {
	var resp recentTracksResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: recenttracks: %v", ErrUnexpectedResponse, err)
	}
	if resp.RecentTracks == nil {
		return nil, fmt.Errorf("%w: field \"recenttracks\" not found", ErrUnexpectedResponse)
	}
	return &RecentTracksPage{Tracks: resp.RecentTracks.Track, Attr: resp.RecentTracks.Attr}, nil
}

// Events converts the page's played tracks into listening events for user.
// Now-playing entries are skipped.
func (p *RecentTracksPage) Events(user string) []events.ListeningEvent {
	evs := make([]events.ListeningEvent, 0, len(p.Tracks))
	for i := range p.Tracks {
		t := &p.Tracks[i]
		if t.NowPlaying() {
			continue
		}
		evs = append(evs, events.ListeningEvent{
			User:   user,
			Artist: t.Artist.Text,
			Track:  t.Name,
			Time:   int64(t.Date.UTS),
		})
	}
	return evs
}

// TotalPages returns the number of pages the API reports for the user.
func (p *RecentTracksPage) TotalPages() int {
	return int(p.Attr.TotalPages)
}

// UserInfo is the user.getinfo profile.
type UserInfo struct {
	Name       string  `json:"name"`
	RealName   string  `json:"realname"`
	Country    string  `json:"country"`
	Age        flexInt `json:"age"`
	Gender     string  `json:"gender"`
	Playcount  flexInt `json:"playcount"`
	URL        string  `json:"url"`
	Registered struct {
		Unixtime flexInt `json:"unixtime"`
	} `json:"registered"`
}

// ParseUserInfo decodes a user.getinfo response body.
func ParseUserInfo(data []byte) (*UserInfo, error) {
	var resp struct {
		User *UserInfo `json:"user"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: userinfo: %v", ErrUnexpectedResponse, err)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("%w: field \"user\" not found", ErrUnexpectedResponse)
	}
	return resp.User, nil
}
