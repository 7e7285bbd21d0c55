package retry

import (
	"context"
	"math/rand/v2"
	"time"

	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/telemetry"
)

const defaultBaseDelay = 300 * time.Millisecond

// Policy bounds the attempts made by Do.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Name tags log lines for the retried operation.
	Name string
}

// DefaultPolicy returns a three-attempt policy with the standard base delay.
func DefaultPolicy(name string) Policy {
	return Policy{MaxAttempts: 3, BaseDelay: defaultBaseDelay, MaxDelay: 5 * time.Second, Name: name}
}

// sleep is swapped in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn until it succeeds, fails with a non-transient error or the attempts run out.
// The last error is returned classified.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := DoValue(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoValue is Do for functions that return a value.
func DoValue[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, apperr.Classify(err)
		}
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		classified := apperr.Classify(err)
		lastErr = classified
		if classified.Kind != apperr.Transient || attempt == p.MaxAttempts {
			break
		}

		delay := backoff(p, attempt)
		telemetry.Warn("retry.attempt", map[string]any{
			"operation": p.Name,
			"attempt":   attempt,
			"delay_ms":  delay.Milliseconds(),
			"error":     err.Error(),
		})
		if err := sleep(ctx, delay); err != nil {
			return zero, apperr.Classify(err)
		}
	}
	return zero, lastErr
}

func backoff(p Policy, attempt int) time.Duration {
	d := p.BaseDelay << (attempt - 1)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	// up to 20% jitter
	jitter := time.Duration(rand.Int64N(int64(d)/5 + 1))
	return d + jitter
}
