// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

// Package events reads and writes the aggregated listening-event file (LE.txt).
//
// The format is tab-separated with a header line:
//
//	user	artist	track	time
//	rj	Radiohead	Reckoner	1431525134
//
// time is a Unix timestamp in seconds, as reported by Last.fm.
package events

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Header is the first line of a listening-event file.
const Header = "user\tartist\ttrack\ttime"

// ErrMalformedEvent is returned for rows that cannot be parsed.
var ErrMalformedEvent = errors.New("malformed listening event")

// ListeningEvent is one scrobble: a user played a track by an artist at a time.
type ListeningEvent struct {
	User   string `json:"user"`
	Artist string `json:"artist"`
	Track  string `json:"track"`
	Time   int64  `json:"time"`
}

// Read parses a listening-event stream. The header line is skipped.
func Read(r io.Reader) ([]ListeningEvent, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !sc.Scan() {
		return nil, sc.Err()
	}

	var out []ListeningEvent
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimSuffix(sc.Text(), "\r")
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 4 {
			return nil, fmt.Errorf("%w: line %d has %d columns, want 4", ErrMalformedEvent, line, len(fields))
		}
		ts, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d time %q: %v", ErrMalformedEvent, line, fields[3], err)
		}
		out = append(out, ListeningEvent{
			User:   fields[0],
			Artist: fields[1],
			Track:  fields[2],
			Time:   ts,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadFile reads a listening-event file from disk.
func ReadFile(path string) ([]ListeningEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	evs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return evs, nil
}

// Write writes the header and all events.
// Tabs and newlines inside fields are replaced by spaces to keep rows intact.
func Write(w io.Writer, evs []ListeningEvent) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header + "\n"); err != nil {
		return err
	}
	for _, ev := range evs {
		line := sanitize(ev.User) + "\t" + sanitize(ev.Artist) + "\t" + sanitize(ev.Track) + "\t" +
			strconv.FormatInt(ev.Time, 10) + "\n"
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes events to path, replacing any existing file.
func WriteFile(path string, evs []ListeningEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, evs); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

var fieldReplacer = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func sanitize(s string) string {
	return fieldReplacer.Replace(s)
}
