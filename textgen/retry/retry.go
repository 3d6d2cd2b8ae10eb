/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry implements exponential backoff with jitter for calls to
// text-generation APIs that fail with rate-limit or transient server errors.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
)

// Policy configures how often and how patiently a call is retried.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt. Zero
	// disables retrying.
	MaxRetries int
	// BaseBackoff is the delay before the first retry; it doubles on each
	// subsequent retry.
	BaseBackoff time.Duration
	// MaxBackoff caps the doubled delay.
	MaxBackoff time.Duration
	// MaxJitter bounds the random delay added to every backoff.
	MaxJitter time.Duration
}

// Default returns the policy used by the clients unless overridden. Quota
// errors recover slowly, so the backoffs are long.
func Default() Policy {
	return Policy{
		MaxRetries:  5,
		BaseBackoff: time.Second,
		MaxBackoff:  time.Minute,
		MaxJitter:   500 * time.Millisecond,
	}
}

// Validate rejects negative values.
func (p Policy) Validate() error {
	switch {
	case p.MaxRetries < 0:
		return errors.New("max retries cannot be negative")
	case p.BaseBackoff < 0:
		return errors.New("base backoff cannot be negative")
	case p.MaxBackoff < 0:
		return errors.New("max backoff cannot be negative")
	case p.MaxJitter < 0:
		return errors.New("max jitter cannot be negative")
	}
	return nil
}

// Backoff returns the delay before retry number attempt (zero based),
// excluding jitter.
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt >= 62 || p.BaseBackoff<<attempt < p.BaseBackoff {
		return p.MaxBackoff
	}
	return min(p.BaseBackoff<<attempt, p.MaxBackoff)
}

func (p Policy) jitter() time.Duration {
	if p.MaxJitter <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(p.MaxJitter)))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64())
}

// Do calls fn until it succeeds, returns an error retryable rejects, or the
// policy is exhausted. Context cancellation during a backoff ends the loop
// with ctx.Err().
func Do[T any](ctx context.Context, p Policy, operation string, retryable func(error) bool, fn func(context.Context) (T, error)) (T, error) {
	var (
		result  T
		lastErr error
	)
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		result, lastErr = fn(ctx)
		if lastErr == nil {
			return result, nil
		}
		if !retryable(lastErr) {
			return result, lastErr
		}
		if attempt == p.MaxRetries {
			break
		}

		wait := p.Backoff(attempt) + p.jitter()
		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_retries", p.MaxRetries).
			With("backoff", wait).
			With("error", lastErr.Error()).
			Warn("Transient model API error, retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}
	}
	return result, fmt.Errorf("%s failed after %d retries: %w", operation, p.MaxRetries, lastErr)
}

// RetryableStatus reports whether an HTTP status from a model API signals
// a condition worth retrying: rate limiting, overload or a transient
// server failure.
func RetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		529: // Anthropic "overloaded"
		return true
	}
	return false
}
