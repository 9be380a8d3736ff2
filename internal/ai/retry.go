package ai

import (
	"context"
	"log"
	"time"
)

// RetryPolicy bounds collaborator calls: MaxAttempts total attempts with
// exponential backoff between failures.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// Sleep is swappable in tests; nil means time.Sleep (ctx-aware).
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy matches the collaborator failure policy: 3 attempts,
// 1s initial delay, 2x multiplier, 10s cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry runs fn until it succeeds or the attempt budget is spent, backing
// off exponentially between failures. The last error is returned when all
// attempts fail.
func Retry(ctx context.Context, p RetryPolicy, fn func() error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	delay := p.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == p.MaxAttempts {
			break
		}
		log.Printf("retry attempt=%d err=%v next_delay=%s", attempt, lastErr, delay)
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		delay = time.Duration(float64(delay) * p.Multiplier)
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return lastErr
}
