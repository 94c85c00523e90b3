package modeladapter

import (
	"context"
	"net/http"
	"time"
)

// DefaultBaseDelay is the backoff base used when a Policy carries none.
const DefaultBaseDelay = 500 * time.Millisecond

// maxDelay caps the backoff sleep between attempts.
const maxDelay = 30 * time.Second

// Policy governs the retry loop for one call: Retries is the number of
// re-attempts after the first (total attempts = Retries+1), BaseDelay the
// backoff base for the exponential schedule.
type Policy struct {
	Retries   int
	BaseDelay time.Duration
}

// Backoff returns the sleep applied after attempt n (0-based, counting
// completed failed attempts): BaseDelay << n, saturating instead of wrapping,
// capped at 30 seconds.
func (p Policy) Backoff(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	if attempt >= 63 || base > maxDelay>>uint(attempt) {
		return maxDelay
	}
	return base << uint(attempt)
}

// Outcome classifies the result of a single attempt.
type Outcome int

const (
	// Success ends the loop with the attempt's value.
	Success Outcome = iota
	// Retryable schedules another attempt if budget remains.
	Retryable
	// Fatal ends the loop immediately regardless of remaining budget.
	Fatal
)

// AttemptFunc performs one attempt and classifies its outcome. The context
// passed in is the caller's; per-attempt timeouts are the attempt's own
// concern.
type AttemptFunc[T any] func(ctx context.Context) (T, Outcome, error)

// loop phases. Done and Failed are terminal and materialize as returns.
type phase int

const (
	attempting phase = iota
	backingOff
	failed
)

// Do runs attempt under p: attempts are strictly sequential, the backoff
// sleep is the only suspension point between them, and exhausting the budget
// surfaces the last attempt's error, not an aggregate. A done context cuts
// the backoff sleep short and returns the context's error.
func Do[T any](ctx context.Context, p Policy, attempt AttemptFunc[T]) (T, error) {
	var zero T

	maxAttempts := p.Retries + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	n := 0
	state := attempting

	for {
		switch state {
		case attempting:
			v, outcome, err := attempt(ctx)
			switch outcome {
			case Success:
				return v, nil
			case Retryable:
				lastErr = err
				if n+1 < maxAttempts {
					state = backingOff
				} else {
					state = failed
				}
			default:
				return zero, err
			}
		case backingOff:
			t := time.NewTimer(p.Backoff(n))
			select {
			case <-ctx.Done():
				t.Stop()
				return zero, ctx.Err()
			case <-t.C:
			}
			n++
			state = attempting
		case failed:
			return zero, lastErr
		}
	}
}

// RetryableStatus reports whether an HTTP status is worth another attempt:
// 429 and any 5xx. Everything else is fatal.
func RetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// RetryableTransportErr reports whether a transport error (timeout,
// connection failure, pre-send request error) may be retried. A done parent
// context means the caller gave up, never retry past it.
func RetryableTransportErr(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	return ctx.Err() == nil
}
