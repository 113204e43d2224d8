package history

import (
	"testing"

	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/stretchr/testify/assert"
)

func TestResolveTeamOwner(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		team   season.Team
		want   string
		wantOK bool
	}{
		{name: "primary owner wins", team: season.Team{PrimaryOwnerID: "P", OwnerIDs: []string{"X"}}, want: "P", wantOK: true},
		{name: "first owner fallback", team: season.Team{OwnerIDs: []string{"X", "Y"}}, want: "X", wantOK: true},
		{name: "blank primary falls through", team: season.Team{PrimaryOwnerID: "  ", OwnerIDs: []string{"X"}}, want: "X", wantOK: true},
		{name: "no owners", team: season.Team{}, wantOK: false},
		{name: "empty owner list", team: season.Team{OwnerIDs: []string{}}, wantOK: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ResolveTeamOwner(tc.team)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveMemberName(t *testing.T) {
	t.Parallel()

	overrides := NameOverrides{"A": "Andy", "E": ""}
	cases := []struct {
		name   string
		id     string
		member season.Member
		want   string
	}{
		{name: "override beats display name", id: "A", member: season.Member{ID: "A", DisplayName: "handle"}, want: "Andy"},
		{name: "display name", id: "B", member: season.Member{ID: "B", DisplayName: "handle", FirstName: "Bo"}, want: "handle"},
		{name: "first and last", id: "C", member: season.Member{ID: "C", FirstName: "Cy", LastName: "Young"}, want: "Cy Young"},
		{name: "empty override ignored", id: "E", member: season.Member{ID: "E", DisplayName: "eve"}, want: "eve"},
		{name: "nothing known", id: "F", member: season.Member{ID: "F"}, want: UnknownMemberName},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ResolveMemberName(tc.id, tc.member, overrides))
		})
	}
}

func TestWinPercentage(t *testing.T) {
	t.Parallel()

	assert.Zero(t, WinPercentage(MemberStats{}))
	assert.InDelta(t, 50.0, WinPercentage(MemberStats{Wins: 1, Losses: 1}), 1e-9)
	assert.InDelta(t, 60.0, WinPercentage(MemberStats{Wins: 6, Losses: 3, Ties: 1}), 1e-9)
}
