package database

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"
)

// RetryPolicy bounds every store call: a per-attempt timeout layered on the
// caller's deadline, plus a small fixed number of retries with backoff.
// Exhausting retries surfaces the last error; it never blocks indefinitely.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	Timeout  time.Duration
}

// Do runs fn up to p.Attempts times. Not-found results, constraint
// violations, and caller cancellation are returned immediately; only
// transient store failures are retried.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		attemptCtx := ctx
		var cancel context.CancelFunc
		if p.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		}
		err = fn(attemptCtx)
		if cancel != nil {
			cancel()
		}

		if err == nil {
			return nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return err
		}
		if attempt < attempts {
			log.Printf("[database] %s failed (attempt %d/%d), retrying: %v", op, attempt, attempts, err)
			select {
			case <-time.After(p.Delay * time.Duration(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}

func retryable(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if IsUniqueViolation(err, "") {
		return false
	}
	return true
}
