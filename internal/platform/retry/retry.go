// Package retry is a bounded retry combinator over sethvargo/go-retry with a
// fixed backoff and a retryable-error predicate.
package retry

import (
	"context"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

type Policy struct {
	Attempts int
	Backoff  time.Duration
	// Retryable reports whether err deserves another attempt. Nil retries every error.
	Retryable func(error) bool
}

// Constant is a policy of n attempts separated by d.
func Constant(n int, d time.Duration) Policy { return Policy{Attempts: n, Backoff: d} }

// Do calls fn until it succeeds, returns a non-retryable error, or the policy
// runs out of attempts. attempt is 1-based. It returns the number of attempts
// made and the last error.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) error) (int, error) {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	d := p.Backoff
	if d <= 0 {
		d = time.Nanosecond
	}
	b := goretry.WithMaxRetries(uint64(p.Attempts-1), goretry.NewConstant(d))

	attempt := 0
	err := goretry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		if p.Retryable == nil || p.Retryable(err) {
			return goretry.RetryableError(err)
		}
		return err
	})
	return attempt, err
}
