package userclient

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"
)

// RetryPolicy retries user-service calls that fail with one of RetryOn,
// waiting BaseDelay*2^n (+-25% jitter, capped at MaxDelay) between attempts.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	RetryOn     []error
}

// DefaultRetryPolicy retries unavailability three times.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		RetryOn:     []error{ErrServiceUnavailable},
	}
}

func (p RetryPolicy) retryable(err error) bool {
	for _, target := range p.RetryOn {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Do runs call until it succeeds, fails with a non-retryable error, attempts
// run out or ctx is done. op names the call in debug logs.
func (p RetryPolicy) Do(ctx context.Context, op string, call func() error) error {
	attempts := max(p.MaxAttempts, 1)
	for attempt := 1; ; attempt++ {
		err := call()
		if err == nil || attempt == attempts || !p.retryable(err) {
			return err
		}

		delay := p.backoff(attempt)
		slog.DebugContext(ctx, "Retrying user-service call",
			"op", op,
			"attempt", attempt,
			"delay", delay,
			slog.Any("error", err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// backoff is the wait after the given (1-based) failed attempt.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	delay := float64(p.BaseDelay) * float64(uint(1)<<(attempt-1))
	delay += delay * 0.25 * (rand.Float64()*2 - 1)
	return min(time.Duration(delay), p.MaxDelay)
}
