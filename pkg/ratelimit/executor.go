// Package ratelimit retries network calls with the swap API's backoff policy.
//
// A 429 response always sleeps the current delay and doubles it. Any other
// failure sleeps the current delay without doubling and is returned to the
// caller on the last attempt. Doubling is not capped: repeated 429s within a
// single call keep growing the delay for as long as the attempt budget lasts.
package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/jpillora/backoff"

	"euclid-swap/pkg/events"
)

const (
	DefaultAttempts  = 5
	DefaultBaseDelay = 5 * time.Second
)

// ErrRateLimited is returned when every attempt was answered with HTTP 429
var ErrRateLimited = errors.New("rate limit retries exhausted")

// StatusError reports a non-2xx HTTP response
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status code %d", e.Code)
	}
	return fmt.Sprintf("API error (status %d): %s", e.Code, e.Body)
}

// IsTooManyRequests reports whether err carries an HTTP 429
func IsTooManyRequests(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusTooManyRequests
}

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Executor holds the retry budget and base delay
type Executor struct {
	attempts  int
	baseDelay time.Duration
	log       *events.Logger
	sleep     Sleeper
}

// Option configures an Executor
type Option func(*Executor)

// WithAttempts sets the retry budget
func WithAttempts(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.attempts = n
		}
	}
}

// WithBaseDelay sets the initial delay
func WithBaseDelay(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.baseDelay = d
		}
	}
}

// WithSleeper replaces the wait function
func WithSleeper(s Sleeper) Option {
	return func(e *Executor) {
		e.sleep = s
	}
}

// New creates an executor with the default budget of 5 attempts and 5s base delay
func New(log *events.Logger, opts ...Option) *Executor {
	e := &Executor{
		attempts:  DefaultAttempts,
		baseDelay: DefaultBaseDelay,
		log:       log,
		sleep:     Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Attempts returns the retry budget
func (e *Executor) Attempts() int {
	return e.attempts
}

// Do runs op under the executor's retry policy
func Do[T any](ctx context.Context, e *Executor, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	b := &backoff.Backoff{
		Min:    e.baseDelay,
		Max:    time.Duration(math.MaxInt64),
		Factor: 2,
	}
	delay := b.Duration()

	var lastErr error
	for i := 0; i < e.attempts; i++ {
		resp, err := op(ctx)
		if err == nil {
			e.logRateLimitHeaders(resp)
			return resp, nil
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		if IsTooManyRequests(err) {
			e.log.Warn("Rate limit hit (429). Retrying in %dms...", delay.Milliseconds())
			if err := e.sleep(ctx, delay); err != nil {
				return zero, err
			}
			delay = b.Duration()
			continue
		}

		if i == e.attempts-1 {
			return zero, err
		}

		e.log.Warn("API retry %d/%d failed: %v. Retrying in %dms...", i+1, e.attempts, err, delay.Milliseconds())
		if err := e.sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrRateLimited, e.attempts, lastErr)
}

type headered interface {
	Header() http.Header
}

func (e *Executor) logRateLimitHeaders(resp any) {
	h, ok := resp.(headered)
	if !ok {
		return
	}
	header := h.Header()
	if header == nil {
		return
	}

	limits := struct {
		Limit     string `json:"limit,omitempty"`
		Remaining string `json:"remaining,omitempty"`
		Reset     string `json:"reset,omitempty"`
	}{
		Limit:     header.Get("x-ratelimit-limit"),
		Remaining: header.Get("x-ratelimit-remaining"),
		Reset:     header.Get("x-ratelimit-reset"),
	}
	if limits.Limit == "" && limits.Remaining == "" && limits.Reset == "" {
		return
	}

	data, _ := json.Marshal(limits)
	e.log.Info("Rate Limit Headers: %s", data)
}
