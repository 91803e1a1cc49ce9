package ratelimit_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"euclid-swap/pkg/events"
	"euclid-swap/pkg/ratelimit"
)

type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

type fakeResponse struct {
	header http.Header
}

func (f fakeResponse) Header() http.Header { return f.header }

func TestDo_RateLimitDoublesDelay(t *testing.T) {
	t.Parallel()

	s := &recordingSleeper{}
	rec := &events.Recorder{}
	ex := ratelimit.New(events.New(rec), ratelimit.WithSleeper(s.sleep))

	calls := 0
	got, err := ratelimit.Do(context.Background(), ex, func(context.Context) (string, error) {
		calls++
		if calls <= 3 {
			return "", &ratelimit.StatusError{Code: http.StatusTooManyRequests}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}, s.delays)
	assert.Len(t, rec.Messages(events.LevelWarn), 3)
}

func TestDo_GenericFailureKeepsDelay(t *testing.T) {
	t.Parallel()

	s := &recordingSleeper{}
	ex := ratelimit.New(events.Nop(), ratelimit.WithSleeper(s.sleep))

	calls := 0
	_, err := ratelimit.Do(context.Background(), ex, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("connection reset")
		}
		return 1, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, s.delays)
}

func TestDo_GenericFailureAfterRateLimitKeepsEscalatedDelay(t *testing.T) {
	t.Parallel()

	s := &recordingSleeper{}
	ex := ratelimit.New(events.Nop(), ratelimit.WithSleeper(s.sleep))

	errs := []error{
		&ratelimit.StatusError{Code: http.StatusTooManyRequests},
		errors.New("timeout"),
		errors.New("timeout"),
	}
	calls := 0
	_, err := ratelimit.Do(context.Background(), ex, func(context.Context) (int, error) {
		defer func() { calls++ }()
		if calls < len(errs) {
			return 0, errs[calls]
		}
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second, 10 * time.Second}, s.delays)
}

func TestDo_FinalAttemptPropagatesError(t *testing.T) {
	t.Parallel()

	s := &recordingSleeper{}
	ex := ratelimit.New(events.Nop(), ratelimit.WithSleeper(s.sleep), ratelimit.WithAttempts(3))

	boom := &ratelimit.StatusError{Code: http.StatusBadGateway}
	calls := 0
	_, err := ratelimit.Do(context.Background(), ex, func(context.Context) (int, error) {
		calls++
		return 0, boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
	assert.Len(t, s.delays, 2)
}

func TestDo_RateLimitExhausted(t *testing.T) {
	t.Parallel()

	s := &recordingSleeper{}
	ex := ratelimit.New(events.Nop(), ratelimit.WithSleeper(s.sleep))

	_, err := ratelimit.Do(context.Background(), ex, func(context.Context) (int, error) {
		return 0, &ratelimit.StatusError{Code: http.StatusTooManyRequests}
	})

	require.ErrorIs(t, err, ratelimit.ErrRateLimited)
	assert.True(t, ratelimit.IsTooManyRequests(err))
	assert.Equal(t, []time.Duration{
		5 * time.Second, 10 * time.Second, 20 * time.Second, 40 * time.Second, 80 * time.Second,
	}, s.delays)
}

func TestDo_LogsRateLimitHeaders(t *testing.T) {
	t.Parallel()

	rec := &events.Recorder{}
	ex := ratelimit.New(events.New(rec))

	h := http.Header{}
	h.Set("X-Ratelimit-Limit", "100")
	h.Set("X-Ratelimit-Remaining", "99")

	_, err := ratelimit.Do(context.Background(), ex, func(context.Context) (fakeResponse, error) {
		return fakeResponse{header: h}, nil
	})
	require.NoError(t, err)

	infos := rec.Messages(events.LevelInfo)
	require.Len(t, infos, 1)
	assert.Equal(t, `Rate Limit Headers: {"limit":"100","remaining":"99"}`, infos[0])
}

func TestDo_ContextCancelledDuringSleep(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	ex := ratelimit.New(events.Nop(), ratelimit.WithSleeper(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	_, err := ratelimit.Do(ctx, ex, func(context.Context) (int, error) {
		return 0, errors.New("flaky")
	})
	require.ErrorIs(t, err, context.Canceled)
}
