// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package lastfm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadUsers reads a seed-user file: one user per line, where only the
// first tab-separated column is used. Blank lines are skipped and
// duplicates keep their first position.
func ReadUsers(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	seen := make(map[string]struct{})
	var users []string

	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		name, _, _ := strings.Cut(line, "\t")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		users = append(users, name)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	return users, nil
}

// ReadUsersFile reads a seed-user file from disk.
func ReadUsersFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadUsers(f)
}

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "_")

// fileName makes a user name safe to use as a file name component.
func fileName(user string) string {
	name := fileNameReplacer.Replace(user)
	if name == "." || name == ".." {
		return "_" + name
	}
	return name
}
