package season

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_DropsMalformedAndStampsYear(t *testing.T) {
	t.Parallel()

	raw := Record{
		Members: []Member{{ID: " {A} "}, {ID: "  "}},
		Teams: []Team{
			{ID: 1, OwnerIDs: []string{"", " {A} "}, FinalStandingsRank: Rank(3)},
			{ID: 2, FinalStandingsRank: intPtr(0)},
		},
		Matchups: []Matchup{
			{Week: 1, Home: &Side{TeamID: 1, Score: 90}, Away: &Side{TeamID: 2, Score: 80}},
			{Week: 2, Home: &Side{TeamID: 1, Score: 0}},
		},
	}

	got := Normalize(raw, 2019)

	assert.Equal(t, 2019, got.SeasonID)
	require.Len(t, got.Members, 1)
	assert.Equal(t, "{A}", got.Members[0].ID)
	require.Len(t, got.Teams, 2)
	assert.Equal(t, []string{"{A}"}, got.Teams[0].OwnerIDs)
	assert.Equal(t, 2019, got.Teams[0].SeasonYear)
	require.NotNil(t, got.Teams[0].FinalStandingsRank)
	assert.Equal(t, 3, *got.Teams[0].FinalStandingsRank)
	assert.Nil(t, got.Teams[1].FinalStandingsRank)
	require.Len(t, got.Matchups, 1)
	assert.Equal(t, 2019, got.Matchups[0].SeasonYear)
	require.NoError(t, got.Validate())
}

func TestRecordValidate_RejectsDuplicateTeams(t *testing.T) {
	t.Parallel()

	r := Record{SeasonID: 2020, Teams: []Team{{ID: 4}, {ID: 4}}}
	require.Error(t, r.Validate())
}

func TestRecordValidate_RejectsMissingSeasonID(t *testing.T) {
	t.Parallel()

	require.Error(t, Record{}.Validate())
}

func intPtr(v int) *int { return &v }
