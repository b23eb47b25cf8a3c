package api

import (
	"context"
	"time"
)

const (
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = time.Second
)

// Retry runs fn up to attempts times with a fixed delay between tries. Only
// Retryable errors are retried. attempts <= 0 and delay <= 0 use the defaults.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}
	if delay <= 0 {
		delay = DefaultRetryDelay
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil || !Retryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
