package fetcher

import (
	"context"
	"time"
)

// RetryPolicy controls how a failed primary download is retried
type RetryPolicy struct {
	MaxRetries int           // retries after the primary attempt
	Delay      time.Duration // fixed pause before every retry
}

// DefaultRetryPolicy retries five times, thirty seconds apart
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 5,
	Delay:      30 * time.Second,
}

// Sleeper pauses for d or until ctx is done, whichever comes first
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the real Sleeper
func SleepContext(ctx context.Context, d time.Duration) error {
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
