package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/league-history/internal/config"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const staticSeason = `{
  "seasonId": 2015,
  "members": [{"id": "{A}", "displayName": "Alice"}, {"id": "{B}", "displayName": "Bob"}],
  "teams": [
    {"id": 1, "primaryOwner": "{A}", "rankCalculatedFinal": 1},
    {"id": 2, "primaryOwner": "{B}", "rankCalculatedFinal": 2}
  ],
  "schedule": [
    {"matchupPeriodId": 1, "home": {"teamId": 1, "totalPoints": 101.5}, "away": {"teamId": 2, "totalPoints": 88}}
  ]
}`

func offlineConfig(t *testing.T) config.Config {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "season-2015.json"), []byte(staticSeason), 0o600))

	return config.Config{
		HTTPAddr:           ":0",
		HistoricalDataDir:  dir,
		MemberNamesFile:    filepath.Join(dir, "member-names.json"),
		DefaultStartYear:   2015,
		SeasonFetchWorkers: 1,
		CacheEnabled:       true,
		CacheBackend:       config.CacheBackendMemory,
		CacheTTL:           time.Minute,
		CORSAllowedOrigins: []string{"*"},
	}
}

func TestBuild_OfflineServesStaticSeasons(t *testing.T) {
	t.Parallel()

	cfg := offlineConfig(t)
	components, err := Build(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = components.Close() })

	assert.Nil(t, components.ESPN)

	record, err := components.History.Season(context.Background(), 2015)
	require.NoError(t, err)
	assert.Equal(t, 2015, record.SeasonID)

	_, err = components.History.Season(context.Background(), 2016)
	assert.Error(t, err)

	refreshed, err := components.History.RefreshSeason(context.Background(), 2015)
	require.NoError(t, err)
	assert.Equal(t, record, refreshed)
}

func TestNewHTTPServer_ServesHealthz(t *testing.T) {
	t.Parallel()

	cfg := offlineConfig(t)
	components, err := Build(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = components.Close() })

	srv, err := NewHTTPServer(cfg, components.History, logging.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	cfg.HTTPAddr = ""
	_, err = NewHTTPServer(cfg, components.History, logging.NewNop())
	assert.Error(t, err)
}

func TestNewESPNClient_UsesLeagueConfig(t *testing.T) {
	t.Parallel()

	cfg := offlineConfig(t)
	cfg.LeagueID = "526838"
	cfg.ESPNRateLimitRPS = 2

	components, err := Build(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = components.Close() })
	assert.NotNil(t, components.ESPN)
}
