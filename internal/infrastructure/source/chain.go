package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/league-history/external/espn"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/platform/logging"
)

// RawFetcher returns the provider's raw league document for a season.
type RawFetcher interface {
	FetchRaw(ctx context.Context, year int) ([]byte, error)
}

// RawFetcherFunc adapts a plain function to RawFetcher.
type RawFetcherFunc func(ctx context.Context, year int) ([]byte, error)

func (f RawFetcherFunc) FetchRaw(ctx context.Context, year int) ([]byte, error) {
	return f(ctx, year)
}

type ChainConfig struct {
	LeagueID string
	// Static is consulted first. Nil skips it.
	Static season.Source
	// Archive is consulted after Static and receives every remote document.
	// Nil disables archiving.
	Archive season.ArchiveRepository
	// Remote is the live provider. Nil leaves the chain offline.
	Remote RawFetcher
	Now    func() time.Time
	Logger *logging.Logger
}

// Chain is a season.Source that tries the static files, then the archive, then
// the remote provider, and returns the first season that decodes.
type Chain struct {
	leagueID string
	static   season.Source
	archive  season.ArchiveRepository
	remote   RawFetcher
	now      func() time.Time
	logger   *logging.Logger
}

func NewChain(cfg ChainConfig) *Chain {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Chain{
		leagueID: cfg.LeagueID,
		static:   cfg.Static,
		archive:  cfg.Archive,
		remote:   cfg.Remote,
		now:      cfg.Now,
		logger:   cfg.Logger.Named("source"),
	}
}

func (c *Chain) FetchSeason(ctx context.Context, year int) (season.Record, error) {
	var misses []error

	if c.static != nil {
		record, err := c.static.FetchSeason(ctx, year)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, season.ErrSourceUnavailable) {
			return season.Record{}, err
		}
		misses = append(misses, fmt.Errorf("static: %w", err))
	}

	if c.archive != nil {
		record, ok := c.fromArchive(ctx, year)
		if ok {
			return record, nil
		}
	}

	if c.remote == nil {
		return season.Record{}, c.unavailable(year, misses)
	}

	raw, err := c.remote.FetchRaw(ctx, year)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return season.Record{}, ctxErr
		}
		return season.Record{}, err
	}
	record, err := espn.Decode(raw, year)
	if err != nil {
		return season.Record{}, err
	}

	c.store(ctx, year, raw)
	return record, nil
}

// fromArchive never fails the fetch; lookup and decode problems fall through
// to the remote provider.
func (c *Chain) fromArchive(ctx context.Context, year int) (season.Record, bool) {
	archive, found, err := c.archive.Get(ctx, c.leagueID, year)
	if err != nil {
		c.logger.WarnContext(ctx, "season archive lookup failed", "year", year, "error", err)
		return season.Record{}, false
	}
	if !found {
		return season.Record{}, false
	}

	record, err := espn.Decode(archive.Payload, year)
	if err != nil {
		c.logger.WarnContext(ctx, "archived season undecodable", "year", year, "payload_hash", archive.PayloadHash, "error", err)
		return season.Record{}, false
	}
	return record, true
}

func (c *Chain) store(ctx context.Context, year int, raw []byte) {
	if c.archive == nil {
		return
	}

	err := c.archive.Upsert(ctx, season.Archive{
		LeagueID:    c.leagueID,
		Year:        year,
		Payload:     raw,
		PayloadHash: season.PayloadHash(raw),
		FetchedAt:   c.now().UTC(),
	})
	if err != nil {
		c.logger.WarnContext(ctx, "archive season payload failed", "year", year, "error", err)
	}
}

func (c *Chain) unavailable(year int, misses []error) error {
	if len(misses) == 0 {
		return fmt.Errorf("%w: no source configured for season=%d", season.ErrSourceUnavailable, year)
	}
	return fmt.Errorf("%w: season=%d: %w", season.ErrSourceUnavailable, year, errors.Join(misses...))
}
