package espn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/riskibarqy/league-history/internal/platform/resilience"
	"github.com/riskibarqy/league-history/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "seasonId": 2021,
  "members": [
    {"id": "{A}", "firstName": "Alice", "lastName": "Smith", "displayName": "alice99"},
    {"id": "{B}", "firstName": "Bob", "lastName": "Jones", "displayName": ""}
  ],
  "teams": [
    {"id": 1, "owners": ["{A}"], "primaryOwner": "{A}", "rankCalculatedFinal": 1},
    {"id": 2, "owners": ["{B}"], "rankCalculatedFinal": 2}
  ],
  "schedule": [
    {"matchupPeriodId": 1, "home": {"teamId": 1, "totalPoints": 110.5}, "away": {"teamId": 2, "totalPoints": 90}, "winner": "HOME"},
    {"matchupPeriodId": 14, "home": {"teamId": 1, "totalPoints": 0}, "winner": "UNDECIDED"}
  ]
}`

func newTestClient(t *testing.T, serverURL string, retries int) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		BaseURL:      serverURL,
		LeagueID:     "526838",
		ESPNS2:       "s2-secret",
		SWID:         "{SWID}",
		Timeout:      2 * time.Second,
		MaxRetries:   retries,
		RetryBackoff: time.Millisecond,
		RateLimitRPS: 1000,
		Logger:       logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})
}

func TestClientFetchSeason_RequestShapeAndDecode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seasons/2021/segments/0/leagues/526838", r.URL.Path)
		assert.ElementsMatch(t, leagueViews, r.URL.Query()["view"])
		assert.Equal(t, "espn_s2=s2-secret; SWID={SWID}", r.Header.Get("Cookie"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	record, err := newTestClient(t, server.URL, 0).FetchSeason(context.Background(), 2021)
	require.NoError(t, err)

	assert.Equal(t, 2021, record.SeasonID)
	require.Len(t, record.Members, 2)
	require.Len(t, record.Teams, 2)
	assert.Equal(t, "{A}", record.Teams[0].PrimaryOwnerID)
	assert.Empty(t, record.Teams[1].PrimaryOwnerID)
	require.NotNil(t, record.Teams[0].FinalStandingsRank)
	assert.Equal(t, 1, *record.Teams[0].FinalStandingsRank)

	require.Len(t, record.Matchups, 1)
	assert.InDelta(t, 110.5, record.Matchups[0].Home.Score, 1e-9)
	assert.Equal(t, 2021, record.Matchups[0].SeasonYear)
}

func TestClientFetchRaw_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	raw, err := newTestClient(t, server.URL, 3).FetchRaw(context.Background(), 2021)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.EqualValues(t, 3, calls.Load())
}

func TestClientFetchRaw_PermanentStatusNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, `{"messages":["not authorized"]}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, 3).FetchRaw(context.Background(), 2016)
	require.Error(t, err)
	assert.True(t, errors.Is(err, season.ErrSourceUnavailable))
	assert.Contains(t, err.Error(), "status=401")
	assert.EqualValues(t, 1, calls.Load())
}

func TestClientFetchRaw_BreakerOpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	for i := 0; i < 2; i++ {
		_, err := client.FetchRaw(context.Background(), 2019)
		require.Error(t, err)
	}

	_, err := client.FetchRaw(context.Background(), 2019)
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrDependencyUnavailable))
	assert.True(t, errors.Is(err, season.ErrSourceUnavailable))
	assert.EqualValues(t, 2, calls.Load())
}

func TestClientFetchRaw_MissingLeagueID(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	_, err := client.FetchRaw(context.Background(), 2020)
	assert.True(t, errors.Is(err, season.ErrSourceUnavailable))
}

func TestClientSanitizeRedactsCookies(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "http://unused", 0)
	got := client.sanitize("dial failed for espn_s2=s2-secret; SWID={SWID}")
	assert.NotContains(t, got, "s2-secret")
	assert.NotContains(t, got, "{SWID}")
}
