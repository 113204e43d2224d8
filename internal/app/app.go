package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/league-history/external/espn"
	"github.com/riskibarqy/league-history/internal/config"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/infrastructure/historical"
	"github.com/riskibarqy/league-history/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/league-history/internal/infrastructure/source"
	"github.com/riskibarqy/league-history/internal/interfaces/httpapi"
	"github.com/riskibarqy/league-history/internal/platform/cache"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/riskibarqy/league-history/internal/platform/resilience"
	"github.com/riskibarqy/league-history/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const redisNamespace = "league-history:"

// Components is the wired season pipeline shared by the API and the CLI.
type Components struct {
	History *usecase.HistoryService
	// ESPN is nil when LEAGUE_ID is unset and the service runs offline.
	ESPN *espn.Client

	closers []func() error
}

// Close releases the archive database and the Redis client.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Build wires static files, the archive, ESPN and the cache into one season
// source and puts the history service on top of it.
func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Components, error) {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Components{}

	chainCfg := source.ChainConfig{
		LeagueID: cfg.LeagueID,
		Static:   historical.NewSource(cfg.HistoricalDataDir),
		Logger:   logger,
	}

	if cfg.LeagueID != "" {
		c.ESPN = NewESPNClient(cfg, logger)
		chainCfg.Remote = c.ESPN
	} else {
		logger.Warn("espn disabled, serving static and archived seasons only", "reason", "LEAGUE_ID empty")
	}

	if cfg.ArchiveEnabled {
		db, err := openArchiveDB(cfg)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db.Close)
		chainCfg.Archive = postgres.NewSeasonArchiveRepository(db)
		logger.Info("season archive enabled", "db_name", dbNameFromURL(cfg.DBURL))
	}

	var src season.Source = source.NewChain(chainCfg)
	var cached *source.Cached
	if cfg.CacheEnabled {
		loader, err := c.newLoader(ctx, cfg, logger)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		cached = source.NewCached(src, loader, cfg.LeagueID)
		src = cached
		logger.Info("season cache enabled", "backend", cfg.CacheBackend, "ttl", cfg.CacheTTL)
	}

	overrides := historical.LoadNameOverrides(cfg.MemberNamesFile, logger)
	c.History = usecase.NewHistoryService(src, overrides, usecase.HistoryConfig{
		DefaultStartYear: cfg.DefaultStartYear,
		FetchWorkers:     cfg.SeasonFetchWorkers,
	}, logger)
	if cached != nil {
		c.History.WithInvalidator(cached)
	}

	return c, nil
}

func (c *Components) newLoader(ctx context.Context, cfg config.Config, logger *logging.Logger) (cache.Loader[season.Record], error) {
	if cfg.CacheBackend != config.CacheBackendRedis {
		return cache.NewMemory[season.Record](cache.NewStore(cfg.CacheTTL)), nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	c.closers = append(c.closers, client.Close)
	return cache.NewRedis[season.Record](client, redisNamespace, cfg.CacheTTL, logger.Named("cache")), nil
}

// NewESPNClient builds the rate limited, retrying ESPN client with a traced transport.
func NewESPNClient(cfg config.Config, logger *logging.Logger) *espn.Client {
	return espn.NewClient(espn.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.ESPNTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:      cfg.ESPNBaseURL,
		LeagueID:     cfg.LeagueID,
		ESPNS2:       cfg.ESPNS2,
		SWID:         cfg.SWID,
		Timeout:      cfg.ESPNTimeout,
		MaxRetries:   cfg.ESPNMaxRetries,
		RetryBackoff: cfg.ESPNRetryBackoff,
		RateLimitRPS: cfg.ESPNRateLimitRPS,
		Logger:       logger,
		CircuitBreaker: resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		}),
	})
}

// NewHTTPServer wraps the history service in the HTTP API.
func NewHTTPServer(cfg config.Config, history *usecase.HistoryService, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(history, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
