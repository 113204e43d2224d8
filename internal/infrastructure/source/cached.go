package source

import (
	"context"
	"strconv"

	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/platform/cache"
)

// Cached memoizes a Source per league and year. Failed fetches are not cached.
type Cached struct {
	next     season.Source
	loader   cache.Loader[season.Record]
	leagueID string
}

func NewCached(next season.Source, loader cache.Loader[season.Record], leagueID string) *Cached {
	return &Cached{next: next, loader: loader, leagueID: leagueID}
}

func (c *Cached) FetchSeason(ctx context.Context, year int) (season.Record, error) {
	return c.loader.GetOrLoad(ctx, c.key(year), func(ctx context.Context) (season.Record, error) {
		return c.next.FetchSeason(ctx, year)
	})
}

// Invalidate drops the cached record of one season.
func (c *Cached) Invalidate(ctx context.Context, year int) error {
	return c.loader.Invalidate(ctx, c.key(year))
}

func (c *Cached) key(year int) string {
	return "season:" + c.leagueID + ":" + strconv.Itoa(year)
}
