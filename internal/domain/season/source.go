package season

import (
	"context"
	"errors"
)

// ErrSourceUnavailable marks a season whose data could not be retrieved or parsed.
var ErrSourceUnavailable = errors.New("season source unavailable")

// Source returns the canonical record for one season year.
type Source interface {
	FetchSeason(ctx context.Context, year int) (Record, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context, year int) (Record, error)

func (f SourceFunc) FetchSeason(ctx context.Context, year int) (Record, error) {
	return f(ctx, year)
}
