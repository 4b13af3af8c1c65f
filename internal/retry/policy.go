package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"scribe/internal/domain"
)

// Policy is an explicit retry policy applied at each external call site.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration

	// Retryable classifies a failure. Nil retries everything except
	// cancellation and unresolved prompt templates.
	Retryable func(error) bool

	// Sleep waits between attempts. Nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error

	Logger *slog.Logger
}

// Default returns three attempts with backoff 2s, 4s, ... capped at 30s.
func Default() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 2 * time.Second,
		Multiplier:      2,
		MaxInterval:     30 * time.Second,
	}
}

// Do runs fn until it succeeds, fails with a non-retryable error, or runs out
// of attempts. Exhaustion is reported as *domain.ExternalServiceError.
func Do[T any](ctx context.Context, p Policy, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	schedule := p.schedule()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if !p.retryable(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}

		wait := schedule.NextBackOff()
		p.logger().Warn("external call failed, retrying",
			"op", op, "attempt", attempt, "wait", wait, "err", err)
		if err := p.sleep(ctx, wait); err != nil {
			return zero, err
		}
	}

	return zero, &domain.ExternalServiceError{Op: op, Attempts: attempts, Err: lastErr}
}

func (p Policy) schedule() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.Multiplier = p.Multiplier
	b.MaxInterval = p.MaxInterval
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	if b.Multiplier < 1 {
		b.Multiplier = 1
	}
	b.Reset()
	return b
}

func (p Policy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return DefaultRetryable(err)
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	return sleepWithCtx(ctx, d)
}

func (p Policy) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// DefaultRetryable retries any failure other than cancellation and local
// configuration errors.
func DefaultRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, domain.ErrPromptTemplateNotFound):
		return false
	}
	return true
}

func sleepWithCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
