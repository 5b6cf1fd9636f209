package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *zap.Logger
}

// RetryOption customizes a RetryProvider.
type RetryOption func(*RetryProvider)

// WithRetryLogger logs each retry at info level.
func WithRetryLogger(logger *zap.Logger) RetryOption {
	return func(r *RetryProvider) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRetry wraps a Provider with retry logic. A MaxAttempts below 1 is
// treated as a single attempt.
func WithRetry(p Provider, cfg RetryConfig, opts ...RetryOption) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	r := &RetryProvider{inner: p, config: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	replyRetried := false

	for attempt := range r.config.MaxAttempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !r.shouldRetry(err, &replyRetried) {
			return nil, err
		}

		// Last attempt: return the error without sleeping.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		// No point sleeping past the caller's deadline.
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < wait {
			return nil, err
		}

		r.logger.Info("retrying llm request",
			zap.String("purpose", string(PurposeFrom(ctx))),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// shouldRetry decides whether err is worth another attempt. Calls that
// failed in transit are retried until attempts run out. A bad reply gets
// one more try, shared across empty, malformed and off-schema replies. A
// truncated reply would truncate again under the same token budget.
func (r *RetryProvider) shouldRetry(err error, replyRetried *bool) bool {
	if cancelled(err) {
		return false
	}
	var truncated *ErrMaxTokensExceeded
	if errors.As(err, &truncated) {
		return false
	}
	if replyFault(err) {
		if *replyRetried {
			return false
		}
		*replyRetried = true
		return true
	}
	return true
}

// backoff computes the wait duration for the given attempt.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
