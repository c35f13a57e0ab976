// Package cache provides the shared read cache the roster engine works
// against. Mutations never merge results locally; their only cache effect is
// invalidating every entry under a resource-name prefix, which triggers a
// refetch from the authoritative backend.
package cache

import (
	"strings"
	"sync"
)

// Resource-name prefixes shared by readers and the mutation engine.
const (
	PrefixTournamentRoster      = "tournament-roster"
	PrefixSeriesRoster          = "series-roster"
	PrefixSeriesInvitationsSent = "series-invitations-sent"
)

// Bus is the injected invalidation surface. The engine only ever calls
// Invalidate; it never reads or writes entries itself.
type Bus interface {
	Invalidate(keyPrefix string)
}

// Key joins a resource prefix with its identifying parts, e.g.
// Key(PrefixTournamentRoster, "42", "7") -> "tournament-roster/42/7".
func Key(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}
	return prefix + "/" + strings.Join(parts, "/")
}

type entry struct {
	value any
	stale bool
}

// Store is an in-memory prefix-keyed cache implementing Bus. Invalidation
// marks matching entries stale and fires any refetch hooks watching the
// prefix; a stale entry reads as a miss until the next Put.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	watchers map[string][]func()
}

func NewStore() *Store {
	return &Store{
		entries:  make(map[string]*entry),
		watchers: make(map[string][]func()),
	}
}

func (s *Store) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{value: value}
}

func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || e.stale {
		return nil, false
	}
	return e.value, true
}

// Watch registers a refetch hook fired whenever the given prefix is
// invalidated. Hooks run synchronously on the invalidating goroutine.
func (s *Store) Watch(keyPrefix string, refetch func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers[keyPrefix] = append(s.watchers[keyPrefix], refetch)
}

func (s *Store) Invalidate(keyPrefix string) {
	s.mu.Lock()
	for key, e := range s.entries {
		if strings.HasPrefix(key, keyPrefix) {
			e.stale = true
		}
	}
	hooks := append([]func(){}, s.watchers[keyPrefix]...)
	s.mu.Unlock()

	for _, refetch := range hooks {
		refetch()
	}
}
