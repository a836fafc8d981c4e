package httpclient

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/maturity-client/internal/apierr"
)

// RetryPolicy retries a call a bounded number of times with a fixed pause.
// Only errors accepted by Retryable are retried.
type RetryPolicy struct {
	Max       int
	Backoff   time.Duration
	Retryable func(error) bool

	// Sleep waits between attempts. Nil means a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// TimeoutRetry retries only calls that timed out.
func TimeoutRetry(retries int, backoff time.Duration) RetryPolicy {
	return RetryPolicy{Max: retries, Backoff: backoff, Retryable: apierr.IsTimeout}
}

// Do runs call up to Max+1 times. The last error is returned unwrapped so
// callers can still classify it.
func (p RetryPolicy) Do(ctx context.Context, logger *zap.Logger, op string, call func(ctx context.Context) (*Response, error)) (*Response, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 0; attempt <= p.Max; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, p.Backoff); err != nil {
				return nil, fmt.Errorf("%s retry wait: %w", op, err)
			}
		}
		resp, err := call(ctx)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if p.Retryable == nil || !p.Retryable(err) {
			return nil, err
		}
		if attempt < p.Max {
			logger.Info("api.retry",
				zap.String("op", op),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", p.Backoff),
				zap.Error(err))
		}
	}
	return nil, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
