package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeFinishes_TenTeamLeague(t *testing.T) {
	t.Parallel()

	finishes := make([]SeasonFinish, 0, 10)
	for rank := 1; rank <= 10; rank++ {
		finishes = append(finishes, SeasonFinish{MemberID: string(rune('A' + rank - 1)), Season: 2020, Rank: rank})
	}

	got := SummarizeFinishes(finishes)
	require.Len(t, got, 10)

	byID := make(map[string]FinishSummary, len(got))
	for _, s := range got {
		byID[s.MemberID] = s
	}
	assert.Equal(t, 1, byID["A"].First)
	assert.Equal(t, 1, byID["B"].Second)
	assert.Equal(t, 1, byID["C"].Third)
	assert.Equal(t, 0, byID["C"].Last)
	assert.Equal(t, 1, byID["J"].Last)
	assert.Equal(t, 1, byID["J"].TotalSeasons)

	assert.Equal(t, "A", got[0].MemberID)
	assert.Equal(t, "B", got[1].MemberID)
	assert.Equal(t, "C", got[2].MemberID)
}

func TestSummarizeFinishes_ThreeTeamLeagueThirdIsLast(t *testing.T) {
	t.Parallel()

	got := SummarizeFinishes([]SeasonFinish{
		{MemberID: "A", MemberName: "Alice", Season: 2012, Rank: 1},
		{MemberID: "B", MemberName: "Bob", Season: 2012, Rank: 2},
		{MemberID: "C", MemberName: "Cat", Season: 2012, Rank: 3},
	})

	require.Len(t, got, 3)
	third := got[2]
	assert.Equal(t, "C", third.MemberID)
	assert.Equal(t, "Cat", third.MemberName)
	assert.Equal(t, 1, third.Third)
	assert.Equal(t, 1, third.Last)
}

func TestSummarizeFinishes_AcrossSeasons(t *testing.T) {
	t.Parallel()

	got := SummarizeFinishes([]SeasonFinish{
		{MemberID: "A", Season: 2019, Rank: 4},
		{MemberID: "B", Season: 2019, Rank: 1},
		{MemberID: "A", Season: 2020, Rank: 2},
		{MemberID: "B", Season: 2020, Rank: 6},
		{MemberID: "C", Season: 2020, Rank: 2},
		{MemberID: "C", Season: 2021, Rank: 1},
	})

	require.Len(t, got, 3)
	// B and C each have one title, C also has a runner-up.
	assert.Equal(t, "C", got[0].MemberID)
	assert.Equal(t, "B", got[1].MemberID)
	assert.Equal(t, "A", got[2].MemberID)

	assert.Equal(t, 1, got[1].Last)
	assert.Equal(t, 1, got[2].Last)
	assert.Equal(t, 2, got[2].TotalSeasons)
	// A single-finisher season counts as last for that finisher.
	assert.Equal(t, 1, got[0].Last)
}

func TestSummarizeFinishes_Empty(t *testing.T) {
	t.Parallel()

	got := SummarizeFinishes(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
