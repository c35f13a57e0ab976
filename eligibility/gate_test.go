package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/openseries/roster-system/models"
)

func TestWithinWindow(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before start", start.Add(-time.Second), false},
		{"exactly at start", start, true},
		{"inside", start.AddDate(0, 0, 10), true},
		{"exactly at end", end, true},
		{"after end", end.Add(time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinWindow(tt.now, start, end))
		})
	}
}

func TestWithinWindowFailsClosedOnZeroBounds(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.False(t, WithinWindow(now, time.Time{}, now.AddDate(0, 1, 0)))
	assert.False(t, WithinWindow(now, now.AddDate(0, -1, 0), time.Time{}))
	assert.False(t, WithinWindow(now, time.Time{}, time.Time{}))
}

func TestIsTeamAdmin(t *testing.T) {
	team := &models.Team{ID: 7, AdminIDs: []int{3, 5}}

	assert.True(t, IsTeamAdmin(3, team))
	assert.False(t, IsTeamAdmin(4, team))
	assert.False(t, IsTeamAdmin(3, nil))
}

func TestCanInviteRequiresAdminAndOpenWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	team := &models.Team{ID: 7, AdminIDs: []int{3}}
	series := &models.Series{
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.AddDate(0, 1, 0),
	}

	assert.True(t, CanInvite(3, team, series, now))
	assert.False(t, CanInvite(4, team, series, now), "non-admin")
	assert.False(t, CanInvite(3, team, series, now.AddDate(0, 2, 0)), "window closed")
	assert.False(t, CanInvite(3, team, nil, now), "no scope")
}

func TestCanRegisterSelfUsesRegistrationWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	tournament := &models.Tournament{
		PlayerRegistrationStartDate: now.AddDate(0, 0, -1),
		PlayerRegistrationEndDate:   now.AddDate(0, 0, 1),
		StartDate:                   now.AddDate(0, 1, 0),
		EndDate:                     now.AddDate(0, 1, 2),
	}

	assert.True(t, CanRegisterSelf(tournament, now))
	assert.False(t, CanRegisterSelf(tournament, now.AddDate(0, 0, 2)))
}

func TestMatchUpAllowed(t *testing.T) {
	tests := []struct {
		division models.SeriesType
		matchUp  models.MatchUp
		want     bool
	}{
		{models.SeriesMixed, models.MatchUpMale, true},
		{models.SeriesMixed, models.MatchUpFemale, true},
		{models.SeriesOpens, models.MatchUpMale, true},
		{models.SeriesOpens, models.MatchUpFemale, false},
		{models.SeriesWomens, models.MatchUpFemale, true},
		{models.SeriesWomens, models.MatchUpMale, false},
		{models.SeriesType("Juniors"), models.MatchUpMale, false},
		{models.SeriesMixed, models.MatchUp(""), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchUpAllowed(tt.division, tt.matchUp),
			"division=%s matchUp=%s", tt.division, tt.matchUp)
	}
}
