package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/maturity-client/internal/apierr"
)

func noSleep(p RetryPolicy) (RetryPolicy, *[]time.Duration) {
	var slept []time.Duration
	p.Sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return p, &slept
}

// ─── Timeout retries ──────────────────────────────────────────────────────────

func TestRetry_TimeoutThenSuccess(t *testing.T) {
	p, slept := noSleep(TimeoutRetry(2, 2*time.Second))
	var n int
	resp, err := p.Do(context.Background(), zap.NewNop(), "result", func(context.Context) (*Response, error) {
		n++
		if n < 3 {
			return nil, &apierr.TimeoutError{Method: "GET", Path: "/x", Limit: time.Second}
		}
		return &Response{Status: 200}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, 3, n)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, *slept)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	p, _ := noSleep(TimeoutRetry(2, time.Second))
	var n int
	_, err := p.Do(context.Background(), nil, "result", func(context.Context) (*Response, error) {
		n++
		return nil, &apierr.TimeoutError{}
	})
	var te *apierr.TimeoutError
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, 3, n)
}

// ─── Non-retryable errors ─────────────────────────────────────────────────────

func TestRetry_OtherErrorsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(zap.NewNop(), srv.URL, time.Second, WithHTTPClient(srv.Client()))
	p, slept := noSleep(TimeoutRetry(2, time.Second))
	_, err := p.Do(context.Background(), nil, "result", func(ctx context.Context) (*Response, error) {
		return c.Get(ctx, "/x", nil)
	})
	assert.True(t, IsHTTPError(err, http.StatusServiceUnavailable))
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, *slept)
}

func TestRetry_ZeroMax(t *testing.T) {
	p, _ := noSleep(TimeoutRetry(0, time.Second))
	var n int
	_, err := p.Do(context.Background(), nil, "x", func(context.Context) (*Response, error) {
		n++
		return nil, &apierr.TimeoutError{}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}

func TestRetry_WaitHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := TimeoutRetry(2, time.Hour)
	_, err := p.Do(ctx, nil, "x", func(context.Context) (*Response, error) {
		cancel()
		return nil, &apierr.TimeoutError{}
	})
	assert.True(t, errors.Is(err, context.Canceled))
}
