package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicy_RetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	err := RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond}.Do(context.Background(), func(_ context.Context, attempt int) (bool, error) {
		calls++
		if attempt < 2 {
			return true, errors.New("503")
		}
		return false, nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected calls=3 got=%d", calls)
	}
}

func TestRetryPolicy_StopsOnPermanentError(t *testing.T) {
	t.Parallel()

	permanent := errors.New("401")
	calls := 0
	err := RetryPolicy{MaxRetries: 5}.Do(context.Background(), func(context.Context, int) (bool, error) {
		calls++
		return false, permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected calls=1 got=%d", calls)
	}
}

func TestRetryPolicy_ExhaustsRetries(t *testing.T) {
	t.Parallel()

	calls := 0
	err := RetryPolicy{MaxRetries: 2}.Do(context.Background(), func(context.Context, int) (bool, error) {
		calls++
		return true, errors.New("timeout")
	})
	if err == nil || calls != 3 {
		t.Fatalf("expected 3 failing calls, got calls=%d err=%v", calls, err)
	}
}

func TestRetryPolicy_ContextCancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	err := RetryPolicy{MaxRetries: 3, Backoff: time.Hour}.Do(ctx, func(context.Context, int) (bool, error) {
		cancel()
		return true, errors.New("500")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}
