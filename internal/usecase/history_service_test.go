package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/league-history/internal/domain/history"
	"github.com/riskibarqy/league-history/internal/domain/season"
	seasonmock "github.com/riskibarqy/league-history/internal/mocks/domain/season"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, 11, 3, 12, 0, 0, 0, time.UTC)
}

func twoMemberSeason(year, homeTeam int, homeScore float64, awayTeam int, awayScore float64) season.Record {
	return season.Record{
		SeasonID: year,
		Members:  []season.Member{{ID: "A", DisplayName: "Alice"}, {ID: "B", DisplayName: "Bob"}},
		Teams: []season.Team{
			{ID: homeTeam, PrimaryOwnerID: "A", FinalStandingsRank: season.Rank(1)},
			{ID: awayTeam, PrimaryOwnerID: "B", FinalStandingsRank: season.Rank(2)},
		},
		Matchups: []season.Matchup{{
			Week: 1,
			Home: &season.Side{TeamID: homeTeam, Score: homeScore},
			Away: &season.Side{TeamID: awayTeam, Score: awayScore},
		}},
	}
}

func newService(source season.Source, workers int) *HistoryService {
	return NewHistoryService(source, history.NameOverrides{"B": "Bobby"}, HistoryConfig{
		DefaultStartYear: 2012,
		FetchWorkers:     workers,
		Now:              fixedNow,
	}, logging.NewNop())
}

func TestHistoryService_ResolveRange(t *testing.T) {
	t.Parallel()

	svc := newService(nil, 1)

	got, err := svc.ResolveRange(0, 0)
	require.NoError(t, err)
	assert.Equal(t, YearRange{StartYear: 2012, EndYear: 2024}, got)

	got, err = svc.ResolveRange(2020, 2020)
	require.NoError(t, err)
	assert.Equal(t, []int{2020}, got.Years())

	for _, tc := range []struct{ start, end int }{
		{2021, 2020},
		{1989, 2000},
		{2000, 2101},
		{-5, 2020},
	} {
		_, err := svc.ResolveRange(tc.start, tc.end)
		assert.True(t, errors.Is(err, ErrInvalidInput), "start=%d end=%d err=%v", tc.start, tc.end, err)
	}
}

func TestHistoryService_Stats_OmitsUnavailableSeasons(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := seasonmock.NewSource(t)
	source.On("FetchSeason", mock.Anything, 2020).Return(twoMemberSeason(2020, 1, 110, 2, 90), nil).Once()
	source.On("FetchSeason", mock.Anything, 2021).Return(season.Record{}, fmt.Errorf("%w: 404", season.ErrSourceUnavailable)).Once()
	source.On("FetchSeason", mock.Anything, 2022).Return(twoMemberSeason(2022, 7, 95, 3, 105), nil).Once()

	got, err := newService(source, 1).Stats(ctx, YearRange{StartYear: 2020, EndYear: 2022})
	require.NoError(t, err)

	require.Len(t, got.SeasonErrors, 1)
	assert.Equal(t, SeasonError{Year: 2021, Error: seasonUnavailableMessage}, got.SeasonErrors[0])

	require.Len(t, got.MemberStats, 2)
	assert.Equal(t, "Alice", got.MemberStats[0].MemberName)
	assert.Equal(t, "Bobby", got.MemberStats[1].MemberName)
	assert.Equal(t, 1, got.MemberStats[0].Wins)
	assert.Equal(t, 1, got.MemberStats[0].Losses)
	require.Len(t, got.SeasonFinishes, 4)
	assert.Equal(t, 2020, got.SeasonFinishes[0].Season)
	assert.Equal(t, 2022, got.SeasonFinishes[3].Season)
}

func TestHistoryService_Stats_AllSeasonsFailIsNotAnError(t *testing.T) {
	t.Parallel()

	source := season.SourceFunc(func(context.Context, int) (season.Record, error) {
		return season.Record{}, season.ErrSourceUnavailable
	})

	got, err := newService(source, 1).Stats(context.Background(), YearRange{StartYear: 2012, EndYear: 2014})
	require.NoError(t, err)
	assert.Len(t, got.SeasonErrors, 3)
	assert.Empty(t, got.MemberStats)
	assert.NotNil(t, got.MemberStats)
	assert.NotNil(t, got.HeadToHead)
}

func TestHistoryService_Stats_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	source := season.SourceFunc(func(_ context.Context, year int) (season.Record, error) {
		calls.Add(1)
		// Later years return first to shake out ordering bugs.
		time.Sleep(time.Duration(2030-year) * time.Millisecond)
		if year == 2016 {
			return season.Record{}, season.ErrSourceUnavailable
		}
		if year%2 == 0 {
			return twoMemberSeason(year, 1, 100+float64(year%7), 2, 90), nil
		}
		return twoMemberSeason(year, 4, 80, 5, 120+float64(year%5)), nil
	})

	r := YearRange{StartYear: 2012, EndYear: 2023}
	sequential, err := newService(source, 1).Stats(context.Background(), r)
	require.NoError(t, err)
	parallel, err := newService(source, 4).Stats(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
	assert.EqualValues(t, 24, calls.Load())
}

func TestHistoryService_Stats_PanickingSourceBecomesSeasonError(t *testing.T) {
	t.Parallel()

	source := season.SourceFunc(func(_ context.Context, year int) (season.Record, error) {
		if year == 2019 {
			panic("unexpected payload")
		}
		return twoMemberSeason(year, 1, 100, 2, 90), nil
	})

	for _, workers := range []int{1, 3} {
		got, err := newService(source, workers).Stats(context.Background(), YearRange{StartYear: 2018, EndYear: 2020})
		require.NoError(t, err)
		require.Len(t, got.SeasonErrors, 1, "workers=%d", workers)
		assert.Equal(t, 2019, got.SeasonErrors[0].Year)
		assert.Equal(t, 2, got.MemberStats[0].Wins)
	}
}

func TestHistoryService_Stats_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := season.SourceFunc(func(ctx context.Context, _ int) (season.Record, error) {
		return season.Record{}, ctx.Err()
	})
	_, err := newService(source, 1).Stats(ctx, YearRange{StartYear: 2012, EndYear: 2013})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHistoryService_Season(t *testing.T) {
	t.Parallel()

	source := seasonmock.NewSource(t)
	source.On("FetchSeason", mock.Anything, 2015).Return(twoMemberSeason(2015, 1, 1, 2, 2), nil).Once()
	source.On("FetchSeason", mock.Anything, 2013).Return(season.Record{}, season.ErrSourceUnavailable).Once()
	source.On("FetchSeason", mock.Anything, 2014).
		Return(season.Record{}, fmt.Errorf("%w: %w", season.ErrSourceUnavailable, ErrDependencyUnavailable)).Once()

	svc := newService(source, 1)

	record, err := svc.Season(context.Background(), 2015)
	require.NoError(t, err)
	assert.Equal(t, 2015, record.SeasonID)

	_, err = svc.Season(context.Background(), 2013)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Season(context.Background(), 2014)
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = svc.Season(context.Background(), 1800)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHistoryService_HistoryAndFinishes(t *testing.T) {
	t.Parallel()

	source := season.SourceFunc(func(_ context.Context, year int) (season.Record, error) {
		if year == 2013 {
			return season.Record{}, season.ErrSourceUnavailable
		}
		return twoMemberSeason(year, 1, 100, 2, 90), nil
	})
	svc := newService(source, 1)
	r := YearRange{StartYear: 2012, EndYear: 2014}

	hist, err := svc.History(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, hist.Seasons, 2)
	assert.Equal(t, 2012, hist.Seasons[0].SeasonID)
	assert.Equal(t, 2014, hist.Seasons[1].SeasonID)
	assert.Equal(t, []SeasonError{{Year: 2013, Error: seasonUnavailableMessage}}, hist.Errors)

	finishes, err := svc.Finishes(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, finishes.Finishes, 2)
	assert.Equal(t, "A", finishes.Finishes[0].MemberID)
	assert.Equal(t, 2, finishes.Finishes[0].First)
	assert.Equal(t, 2, finishes.Finishes[1].Last)
}

func TestHistoryService_WeeklyScores(t *testing.T) {
	t.Parallel()

	source := season.SourceFunc(func(_ context.Context, year int) (season.Record, error) {
		return twoMemberSeason(year, 1, 100, 2, 120), nil
	})

	weeks, err := newService(source, 1).WeeklyScores(context.Background(), 2023)
	require.NoError(t, err)
	assert.Equal(t, 2023, weeks.Year)
	require.Len(t, weeks.WeeklyWinners, 1)
	assert.Equal(t, "Bobby", weeks.WeeklyWinners[0].MemberName)
}

type invalidatorFunc func(ctx context.Context, year int) error

func (f invalidatorFunc) Invalidate(ctx context.Context, year int) error { return f(ctx, year) }

func TestHistoryService_RefreshSeason(t *testing.T) {
	t.Parallel()

	source := season.SourceFunc(func(_ context.Context, year int) (season.Record, error) {
		return twoMemberSeason(year, 1, 100, 2, 90), nil
	})

	var invalidated []int
	svc := newService(source, 1).WithInvalidator(invalidatorFunc(func(_ context.Context, year int) error {
		invalidated = append(invalidated, year)
		if year == 2018 {
			return errors.New("redis down")
		}
		return nil
	}))

	record, err := svc.RefreshSeason(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, 2024, record.SeasonID)

	_, err = svc.RefreshSeason(context.Background(), 2018)
	assert.ErrorIs(t, err, ErrDependencyUnavailable)

	_, err = svc.RefreshSeason(context.Background(), 3000)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, []int{2024, 2018}, invalidated)

	record, err = newService(source, 1).RefreshSeason(context.Background(), 2017)
	require.NoError(t, err)
	assert.Equal(t, 2017, record.SeasonID)
}
