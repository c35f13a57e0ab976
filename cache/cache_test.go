package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "tournament-roster", Key(PrefixTournamentRoster))
	assert.Equal(t, "tournament-roster/42/7", Key(PrefixTournamentRoster, "42", "7"))
}

func TestInvalidateMarksEntriesUnderPrefixStale(t *testing.T) {
	s := NewStore()
	s.Put(Key(PrefixTournamentRoster, "42", "7"), "roster-a")
	s.Put(Key(PrefixTournamentRoster, "42", "8"), "roster-b")
	s.Put(Key(PrefixSeriesInvitationsSent, "spring"), "invites")

	s.Invalidate(PrefixTournamentRoster)

	_, ok := s.Get(Key(PrefixTournamentRoster, "42", "7"))
	assert.False(t, ok)
	_, ok = s.Get(Key(PrefixTournamentRoster, "42", "8"))
	assert.False(t, ok)

	v, ok := s.Get(Key(PrefixSeriesInvitationsSent, "spring"))
	assert.True(t, ok, "entries under other prefixes stay fresh")
	assert.Equal(t, "invites", v)
}

func TestPutAfterInvalidateReadsFresh(t *testing.T) {
	s := NewStore()
	key := Key(PrefixSeriesRoster, "spring", "gulls")
	s.Put(key, "v1")
	s.Invalidate(PrefixSeriesRoster)
	s.Put(key, "v2")

	v, ok := s.Get(key)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestWatchFiresOnInvalidate(t *testing.T) {
	s := NewStore()
	refetched := 0
	s.Watch(PrefixTournamentRoster, func() { refetched++ })

	s.Invalidate(PrefixTournamentRoster)
	s.Invalidate(PrefixSeriesRoster)

	assert.Equal(t, 1, refetched)
}
