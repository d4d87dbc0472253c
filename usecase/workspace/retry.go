package workspace

import (
	"context"
	"time"

	"github.com/kompox/replops/domain/model"
)

// MaxRetryDelay caps the delay between two remote attempts.
const MaxRetryDelay = time.Second

// RetryRule tells the orchestrator how to treat one class of remote error.
type RetryRule struct {
	Retryable   bool
	MaxAttempts int
}

// RetryPolicy maps remote error kinds (model.ErrRemote* sentinels) to rules.
// Kinds without an entry use Default.
type RetryPolicy struct {
	Rules   map[error]RetryRule
	Default RetryRule
	// Delay is multiplied by the attempt number, capped at MaxRetryDelay.
	// Zero retries immediately.
	Delay time.Duration
}

// DefaultRetryPolicy retries transport failures up to 3 attempts in total
// and gives every other class a single attempt.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		Rules: map[error]RetryRule{
			model.ErrRemoteUnreachable: {Retryable: true, MaxAttempts: 3},
			model.ErrRemoteTimeout:     {Retryable: true, MaxAttempts: 3},
		},
		Default: RetryRule{Retryable: false, MaxAttempts: 1},
	}
}

// Rule returns the rule for err.
func (p *RetryPolicy) Rule(err error) RetryRule {
	if r, ok := p.Rules[model.RemoteKind(err)]; ok {
		return r
	}
	return p.Default
}

// ShouldRetry reports whether another attempt follows a failed attempt
// number attempt (1-based).
func (p *RetryPolicy) ShouldRetry(err error, attempt int) bool {
	r := p.Rule(err)
	return r.Retryable && attempt < r.MaxAttempts
}

// Backoff returns the delay before attempt+1.
func (p *RetryPolicy) Backoff(attempt int) time.Duration {
	d := p.Delay * time.Duration(attempt)
	if d > MaxRetryDelay {
		d = MaxRetryDelay
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
