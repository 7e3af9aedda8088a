// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package uam

import (
	"fmt"
	"strings"
)

// Registry is an ordered set of identifiers. List position is the canonical index.
type Registry struct {
	names []string
	index map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// RegistryOf builds a registry from names in order. A repeated name, or one
// containing a tab or line break, is a malformed-input error.
func RegistryOf(names []string) (*Registry, error) {
	r := &Registry{
		names: make([]string, 0, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if err := checkIdentifier(name); err != nil {
			return nil, err
		}
		if prev, ok := r.index[name]; ok {
			return nil, fmt.Errorf("%w: duplicate identifier %q at positions %d and %d", ErrMalformedInput, name, prev, i)
		}
		r.index[name] = len(r.names)
		r.names = append(r.names, name)
	}
	return r, nil
}

// Add inserts id if absent and returns its index.
func (r *Registry) Add(id string) int {
	if i, ok := r.index[id]; ok {
		return i
	}
	i := len(r.names)
	r.index[id] = i
	r.names = append(r.names, id)
	return i
}

// Index returns the index of id.
func (r *Registry) Index(id string) (int, bool) {
	i, ok := r.index[id]
	return i, ok
}

// Name returns the identifier at index i. It panics if i is out of range.
func (r *Registry) Name(i int) string {
	return r.names[i]
}

// Len returns the number of identifiers.
func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns a copy of the identifiers in index order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Lookup maps indices to identifiers, e.g. for printing recommendations.
func (r *Registry) Lookup(indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		out = append(out, r.names[i])
	}
	return out
}

// checkIdentifier rejects names that cannot be stored on a single registry
// line; the reader keeps only the first tab-separated column.
func checkIdentifier(name string) error {
	if strings.ContainsAny(name, "\t\r\n") {
		return fmt.Errorf("%w: identifier %q contains a tab or line break", ErrMalformedInput, name)
	}
	return nil
}
