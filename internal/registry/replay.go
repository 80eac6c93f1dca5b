// Package registry holds the set of tokens that have already been
// accepted by the verification endpoint.
package registry

import (
	"fmt"
	"strings"
	"sync"
)

/*
Single-use token registry.

Values are tracked per kind ("token" for the verification endpoint). Once
a (kind, value) pair has been used it stays used for the lifetime of the
process: there is no TTL and no purge, so the set only grows.

The empty string is a legal value and, like any other, can be used once.
*/

// KindToken is the kind used for tokens presented to POST /verify_token.
const KindToken = "token"

// ReplayProtector enforces single-use semantics on a (kind, value) pair.
type ReplayProtector interface {
	// Use marks (kind,value) as consumed and returns true if this is the
	// first time it is seen. It returns false when the pair was used before.
	Use(kind, value string) (bool, error)
}

type entryKey struct {
	kind, value string
}

// InMemoryReplay is a process-local implementation of ReplayProtector.
// It is safe for concurrent use.
type InMemoryReplay struct {
	mu      sync.Mutex
	entries map[entryKey]struct{}
}

// NewInMemoryReplay creates an empty in-memory registry.
func NewInMemoryReplay() *InMemoryReplay {
	return &InMemoryReplay{entries: make(map[entryKey]struct{}, 1024)}
}

func (m *InMemoryReplay) Use(kind, value string) (bool, error) {
	kind = strings.TrimSpace(strings.ToLower(kind))
	if kind == "" {
		return false, fmt.Errorf("replay: kind is required")
	}
	k := entryKey{kind: kind, value: value}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[k]; ok {
		return false, nil
	}
	m.entries[k] = struct{}{}
	return true, nil
}

// Used reports whether (kind,value) has been consumed, without consuming it.
func (m *InMemoryReplay) Used(kind, value string) bool {
	k := entryKey{kind: strings.TrimSpace(strings.ToLower(kind)), value: value}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[k]
	return ok
}

// Len returns the number of consumed pairs across all kinds.
func (m *InMemoryReplay) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
