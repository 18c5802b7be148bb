package bridge

import (
	"context"
	"time"
)

// RetryPolicy describes how often a failing call is retried. Delays lists
// the wait before each retry; the last entry repeats once the list is
// exhausted. MaxAttempts bounds the total number of attempts, zero means
// unbounded.
type RetryPolicy struct {
	Delays      []time.Duration
	MaxAttempts int
}

// Readiness is the policy used by the readiness probe: wait one second after
// the first failure and two seconds after every later one, forever.
func Readiness() RetryPolicy {
	return RetryPolicy{Delays: []time.Duration{time.Second, 2 * time.Second}}
}

// WithMaxAttempts returns a copy of p bounded to n attempts.
func (p RetryPolicy) WithMaxAttempts(n int) RetryPolicy {
	p.Delays = append([]time.Duration(nil), p.Delays...)
	p.MaxAttempts = n
	return p
}

// Next reports the delay before the retry that follows failed attempt
// number attempt (zero based), and false when no further attempt is allowed.
func (p RetryPolicy) Next(attempt int) (time.Duration, bool) {
	if attempt < 0 {
		attempt = 0
	}
	if p.MaxAttempts > 0 && attempt+1 >= p.MaxAttempts {
		return 0, false
	}
	if len(p.Delays) == 0 {
		return 0, true
	}
	if attempt >= len(p.Delays) {
		return p.Delays[len(p.Delays)-1], true
	}
	return p.Delays[attempt], true
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
