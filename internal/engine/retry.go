package engine

import (
	"context"
	"time"

	"oco_trader/internal/domain"
)

// Policy bounds transient-error retries for a single gateway call. The
// attempt cap and the inter-attempt delay are both explicit so the
// escalation point is visible and testable.
type Policy struct {
	MaxAttempts int
	Interval    time.Duration

	sleep func(time.Duration) // test hook, nil means time.Sleep
}

// Do runs fn until it succeeds, returns a non-retriable error, or the
// attempt cap is exhausted. Only errors marked retriable are retried; the
// last error is returned on exhaustion.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = fn(); err == nil {
			return nil
		}
		if !domain.IsRetriable(err) {
			return err
		}
		if i < attempts-1 {
			p.wait(p.Interval)
		}
	}
	return err
}

func (p Policy) wait(d time.Duration) {
	if d <= 0 {
		return
	}
	if p.sleep != nil {
		p.sleep(d)
		return
	}
	time.Sleep(d)
}
