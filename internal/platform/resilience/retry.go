package resilience

import (
	"context"
	"time"
)

// RetryPolicy retries with a linear backoff: attempt n waits n*Backoff.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// Do calls fn until it succeeds, reports retry=false, or the retries are
// exhausted. The error of the last attempt is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) (retry bool, err error)) error {
	maxRetries := p.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt > 0 && p.Backoff > 0 {
			timer := time.NewTimer(time.Duration(attempt) * p.Backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		retry, err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			break
		}
	}

	return lastErr
}
