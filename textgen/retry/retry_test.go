/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"chainguard.dev/taskgrader/textgen/retry"
)

func fastPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries:  3,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  4 * time.Millisecond,
		MaxJitter:   time.Millisecond,
	}
}

func always(error) bool { return true }

func TestDo(t *testing.T) {
	transient := errors.New("429 rate limited")
	fatal := errors.New("400 bad request")

	tests := []struct {
		name         string
		failures     int
		err          error
		retryable    func(error) bool
		wantAttempts int32
		wantErr      error
	}{{
		name:         "first try",
		wantAttempts: 1,
	}, {
		name:         "recovers",
		failures:     2,
		err:          transient,
		retryable:    always,
		wantAttempts: 3,
	}, {
		name:         "exhausted",
		failures:     10,
		err:          transient,
		retryable:    always,
		wantAttempts: 4,
		wantErr:      transient,
	}, {
		name:         "not retryable",
		failures:     10,
		err:          fatal,
		retryable:    func(err error) bool { return !errors.Is(err, fatal) },
		wantAttempts: 1,
		wantErr:      fatal,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var attempts atomic.Int32
			retryable := tt.retryable
			if retryable == nil {
				retryable = always
			}
			got, err := retry.Do(context.Background(), fastPolicy(), "generate", retryable, func(context.Context) (string, error) {
				if n := attempts.Add(1); int(n) <= tt.failures {
					return "", tt.err
				}
				return "ok", nil
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Do: got err = %v, wanted = %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got != "ok" {
				t.Errorf("Do: got = %q, wanted = %q", got, "ok")
			}
			if got := attempts.Load(); got != tt.wantAttempts {
				t.Errorf("attempts: got = %d, wanted = %d", got, tt.wantAttempts)
			}
		})
	}
}

func TestDoContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := retry.Policy{MaxRetries: 5, BaseBackoff: time.Hour, MaxBackoff: time.Hour}

	var attempts atomic.Int32
	_, err := retry.Do(ctx, p, "generate", always, func(context.Context) (int, error) {
		attempts.Add(1)
		cancel()
		return 0, errors.New("503")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do: got = %v, wanted = context.Canceled", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts: got = %d, wanted = 1", got)
	}
}

func TestBackoff(t *testing.T) {
	p := retry.Policy{BaseBackoff: time.Second, MaxBackoff: 10 * time.Second}
	for attempt, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second} {
		if got := p.Backoff(attempt); got != want {
			t.Errorf("Backoff(%d): got = %v, wanted = %v", attempt, got, want)
		}
	}
	if got := p.Backoff(100); got != 10*time.Second {
		t.Errorf("Backoff(100): got = %v, wanted = %v", got, 10*time.Second)
	}
}

func TestValidate(t *testing.T) {
	if err := retry.Default().Validate(); err != nil {
		t.Errorf("Default().Validate: got = %v, wanted = nil", err)
	}
	for _, p := range []retry.Policy{
		{MaxRetries: -1},
		{BaseBackoff: -1},
		{MaxBackoff: -1},
		{MaxJitter: -1},
	} {
		if err := p.Validate(); err == nil {
			t.Errorf("Validate(%+v): got = nil, wanted = error", p)
		}
	}
}

func TestRetryableStatus(t *testing.T) {
	for code, want := range map[int]bool{
		200: false, 400: false, 401: false, 404: false,
		429: true, 500: true, 502: true, 503: true, 504: true, 529: true,
	} {
		if got := retry.RetryableStatus(code); got != want {
			t.Errorf("RetryableStatus(%d): got = %v, wanted = %v", code, got, want)
		}
	}
}
