package source

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/league-history/internal/domain/season"
	seasonmock "github.com/riskibarqy/league-history/internal/mocks/domain/season"
	"github.com/riskibarqy/league-history/internal/platform/cache"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const leagueDoc = `{
  "members": [{"id": "{A}", "displayName": "alpha"}, {"id": "{B}", "displayName": "bravo"}],
  "teams": [
    {"id": 1, "owners": ["{A}"], "primaryOwner": "{A}", "rankCalculatedFinal": 1},
    {"id": 2, "owners": ["{B}"], "primaryOwner": "{B}", "rankCalculatedFinal": 2}
  ],
  "schedule": [{"matchupPeriodId": 1, "home": {"teamId": 1, "totalPoints": 120}, "away": {"teamId": 2, "totalPoints": 80}}]
}`

var fetchedAt = time.Date(2024, 12, 30, 10, 0, 0, 0, time.UTC)

func unavailableStatic() season.Source {
	return season.SourceFunc(func(context.Context, int) (season.Record, error) {
		return season.Record{}, season.ErrSourceUnavailable
	})
}

func newChain(static season.Source, archive season.ArchiveRepository, remote RawFetcher) *Chain {
	return NewChain(ChainConfig{
		LeagueID: "526838",
		Static:   static,
		Archive:  archive,
		Remote:   remote,
		Now:      func() time.Time { return fetchedAt },
		Logger:   logging.NewNop(),
	})
}

func TestChain_StaticWins(t *testing.T) {
	t.Parallel()

	static := season.SourceFunc(func(_ context.Context, year int) (season.Record, error) {
		return season.Record{SeasonID: year}, nil
	})
	archive := seasonmock.NewArchiveRepository(t)
	remote := RawFetcherFunc(func(context.Context, int) ([]byte, error) {
		t.Fatalf("remote must not be called")
		return nil, nil
	})

	record, err := newChain(static, archive, remote).FetchSeason(context.Background(), 2013)
	require.NoError(t, err)
	assert.Equal(t, 2013, record.SeasonID)
}

func TestChain_ArchiveBeforeRemote(t *testing.T) {
	t.Parallel()

	archive := seasonmock.NewArchiveRepository(t)
	archive.On("Get", mock.Anything, "526838", 2019).
		Return(season.Archive{LeagueID: "526838", Year: 2019, Payload: []byte(leagueDoc)}, true, nil).Once()

	remote := RawFetcherFunc(func(context.Context, int) ([]byte, error) {
		t.Fatalf("remote must not be called")
		return nil, nil
	})

	record, err := newChain(unavailableStatic(), archive, remote).FetchSeason(context.Background(), 2019)
	require.NoError(t, err)
	assert.Equal(t, 2019, record.SeasonID)
	assert.Len(t, record.Matchups, 1)
}

func TestChain_RemoteWritesThroughToArchive(t *testing.T) {
	t.Parallel()

	archive := seasonmock.NewArchiveRepository(t)
	archive.On("Get", mock.Anything, "526838", 2022).Return(season.Archive{}, false, nil).Once()
	archive.On("Upsert", mock.Anything, season.Archive{
		LeagueID:    "526838",
		Year:        2022,
		Payload:     []byte(leagueDoc),
		PayloadHash: season.PayloadHash([]byte(leagueDoc)),
		FetchedAt:   fetchedAt,
	}).Return(nil).Once()

	remote := RawFetcherFunc(func(_ context.Context, year int) ([]byte, error) {
		assert.Equal(t, 2022, year)
		return []byte(leagueDoc), nil
	})

	record, err := newChain(unavailableStatic(), archive, remote).FetchSeason(context.Background(), 2022)
	require.NoError(t, err)
	assert.Equal(t, 2022, record.SeasonID)
}

func TestChain_ArchiveFailuresNeverFailTheFetch(t *testing.T) {
	t.Parallel()

	archive := seasonmock.NewArchiveRepository(t)
	archive.On("Get", mock.Anything, "526838", 2021).Return(season.Archive{}, false, errors.New("connection refused")).Once()
	archive.On("Upsert", mock.Anything, mock.AnythingOfType("season.Archive")).Return(errors.New("connection refused")).Once()

	remote := RawFetcherFunc(func(context.Context, int) ([]byte, error) {
		return []byte(leagueDoc), nil
	})

	_, err := newChain(nil, archive, remote).FetchSeason(context.Background(), 2021)
	require.NoError(t, err)
}

func TestChain_UndecodableRemoteIsNotArchived(t *testing.T) {
	t.Parallel()

	archive := seasonmock.NewArchiveRepository(t)
	archive.On("Get", mock.Anything, "526838", 2020).Return(season.Archive{}, false, nil).Once()

	remote := RawFetcherFunc(func(context.Context, int) ([]byte, error) {
		return []byte(`{"teams": [`), nil
	})

	_, err := newChain(nil, archive, remote).FetchSeason(context.Background(), 2020)
	assert.ErrorIs(t, err, season.ErrSourceUnavailable)
	archive.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestChain_RemoteErrorPropagates(t *testing.T) {
	t.Parallel()

	remote := RawFetcherFunc(func(context.Context, int) ([]byte, error) {
		return nil, fmt.Errorf("%w: espn status=404", season.ErrSourceUnavailable)
	})

	_, err := newChain(unavailableStatic(), nil, remote).FetchSeason(context.Background(), 2010)
	assert.ErrorIs(t, err, season.ErrSourceUnavailable)
}

func TestChain_OfflineAndStaticErrors(t *testing.T) {
	t.Parallel()

	_, err := newChain(nil, nil, nil).FetchSeason(context.Background(), 2015)
	assert.ErrorIs(t, err, season.ErrSourceUnavailable)

	_, err = newChain(unavailableStatic(), nil, nil).FetchSeason(context.Background(), 2015)
	assert.ErrorIs(t, err, season.ErrSourceUnavailable)

	static := season.SourceFunc(func(ctx context.Context, _ int) (season.Record, error) {
		return season.Record{}, context.Canceled
	})
	_, err = newChain(static, nil, nil).FetchSeason(context.Background(), 2015)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, season.ErrSourceUnavailable)
}

func TestCached_MemoizesSuccessesOnly(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	next := season.SourceFunc(func(_ context.Context, year int) (season.Record, error) {
		calls.Add(1)
		if year == 2016 {
			return season.Record{}, season.ErrSourceUnavailable
		}
		return season.Record{SeasonID: year}, nil
	})

	cached := NewCached(next, cache.NewMemory[season.Record](cache.NewStore(time.Minute)), "526838")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		record, err := cached.FetchSeason(ctx, 2015)
		require.NoError(t, err)
		assert.Equal(t, 2015, record.SeasonID)
	}
	assert.EqualValues(t, 1, calls.Load())

	for i := 0; i < 2; i++ {
		_, err := cached.FetchSeason(ctx, 2016)
		assert.ErrorIs(t, err, season.ErrSourceUnavailable)
	}
	assert.EqualValues(t, 3, calls.Load())

	require.NoError(t, cached.Invalidate(ctx, 2015))
	_, err := cached.FetchSeason(ctx, 2015)
	require.NoError(t, err)
	assert.EqualValues(t, 4, calls.Load())
}
