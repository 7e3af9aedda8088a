// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package lastfm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/scrobblerec/internal/events"
	"github.com/tomtom215/scrobblerec/internal/logging"
)

// userKeyPrefix is the BadgerDB key prefix for finished users.
const userKeyPrefix = "crawl/user/"

// UserProgress is the stored result of a finished user crawl.
type UserProgress struct {
	User        string                  `json:"user"`
	Pages       int                     `json:"pages"`
	Events      []events.ListeningEvent `json:"events"`
	CompletedAt time.Time               `json:"completed_at"`
}

// ProgressStore records which users a crawl has finished.
type ProgressStore interface {
	// Load returns the stored progress for user, or nil if none.
	Load(ctx context.Context, user string) (*UserProgress, error)

	// Save stores a finished user.
	Save(ctx context.Context, p *UserProgress) error

	// Completed lists finished users in ascending order.
	Completed(ctx context.Context) ([]string, error)

	// Clear removes all progress.
	Clear(ctx context.Context) error
}

// OpenStore opens the BadgerDB at path. An empty path opens an in-memory
// database whose contents are lost on Close.
func OpenStore(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(logging.NewBadgerLogger())
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for crawl progress: %w", err)
	}
	return db, nil
}

// BadgerProgress implements ProgressStore using BadgerDB for persistence.
type BadgerProgress struct {
	db *badger.DB
}

// NewBadgerProgress creates a progress store using the provided BadgerDB instance.
func NewBadgerProgress(db *badger.DB) *BadgerProgress {
	return &BadgerProgress{db: db}
}

func userKey(user string) []byte {
	return []byte(userKeyPrefix + user)
}

// Save persists a finished user.
func (p *BadgerProgress) Save(_ context.Context, up *UserProgress) error {
	data, err := json.Marshal(up)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(up.User), data)
	})
}

// Load retrieves the progress of user. Returns nil, nil if the user has not
// been finished.
func (p *BadgerProgress) Load(_ context.Context, user string) (*UserProgress, error) {
	var up *UserProgress

	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(user))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			up = &UserProgress{}
			return json.Unmarshal(val, up)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load progress for %s: %w", user, err)
	}

	return up, nil
}

// Completed lists finished users.
func (p *BadgerProgress) Completed(_ context.Context) ([]string, error) {
	var users []string

	err := p.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(userKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			users = append(users, string(key[len(userKeyPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	sort.Strings(users)
	return users, nil
}

// Clear removes saved progress so the next crawl starts fresh.
func (p *BadgerProgress) Clear(_ context.Context) error {
	return p.db.DropPrefix([]byte(userKeyPrefix))
}
