package history

import (
	"testing"

	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyBreakdown_AgreesWithAggregate(t *testing.T) {
	t.Parallel()

	s := Season{Year: 2022, Record: season.Record{
		SeasonID: 2022,
		Members:  []season.Member{{ID: "A", DisplayName: "Al"}, {ID: "B", DisplayName: "Bo"}, {ID: "C", DisplayName: "Cy"}, {ID: "D", DisplayName: "Di"}},
		Teams:    []season.Team{team(1, "A", 0), team(2, "B", 0), team(3, "C", 0), team(4, "D", 0)},
		Matchups: []season.Matchup{
			game(2, 1, 90, 2, 130),
			game(2, 3, 130, 4, 0),
			game(1, 1, 101, 3, 99),
			game(1, 2, 80, 4, 120),
		},
	}}

	weeks := WeeklyBreakdown(s, nil)
	require.Equal(t, 2, weeks.TotalWeeks)
	require.Len(t, weeks.WeeklyWinners, 2)

	first := weeks.WeeklyWinners[0]
	assert.Equal(t, 1, first.Week)
	assert.Equal(t, "D", first.MemberID)
	assert.Len(t, first.AllScores, 4)
	assert.InDelta(t, 80, first.AllScores[3].Score, 1e-9)

	second := weeks.WeeklyWinners[1]
	assert.Equal(t, 2, second.Week)
	assert.Equal(t, "B", second.MemberID)
	assert.Len(t, second.AllScores, 3)

	agg := Aggregate([]Season{s}, nil)
	winners := map[int]string{}
	for _, hs := range agg.WeeklyHighScores {
		winners[hs.Week] = hs.MemberID
	}
	for _, w := range weeks.WeeklyWinners {
		assert.Equal(t, winners[w.Week], w.MemberID, "week %d", w.Week)
	}
}

func TestWeeklyBreakdown_HighScoreCountsSorted(t *testing.T) {
	t.Parallel()

	s := Season{Year: 2012, Record: season.Record{
		SeasonID: 2012,
		Teams:    []season.Team{team(1, "A", 0), team(2, "B", 0)},
		Matchups: []season.Matchup{
			game(1, 1, 100, 2, 90),
			game(2, 1, 80, 2, 95),
			game(3, 1, 60, 2, 61),
			game(4, 1, 0, 2, 0),
		},
	}}

	weeks := WeeklyBreakdown(s, NameOverrides{"B": "Bee"})
	assert.Equal(t, 3, weeks.TotalWeeks)
	require.Len(t, weeks.HighScoreStats, 2)
	assert.Equal(t, HighScoreCount{MemberID: "B", MemberName: "Bee", HighScoreCount: 2}, weeks.HighScoreStats[0])
	assert.Equal(t, HighScoreCount{MemberID: "A", MemberName: UnknownMemberName, HighScoreCount: 1}, weeks.HighScoreStats[1])
}
