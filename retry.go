// retry.go: Retry policy for batch delivery
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import (
	"context"
	"time"
)

const (
	// DefaultMaxRetries is the number of send attempts per flush.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the wait between two attempts.
	DefaultRetryDelay = time.Second

	// MaxBackoff caps the waits computed by ExponentialBackoff.
	MaxBackoff = 5 * time.Minute
)

// RetryPolicy decides how many attempts a flush makes and how long it waits
// between them. There is never a wait after the last attempt.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, first one included.
	MaxAttempts int

	// Delay is the base wait between attempts.
	Delay time.Duration

	// Backoff computes the wait after the given zero-based attempt. Nil
	// means a fixed Delay.
	Backoff func(attempt int, delay time.Duration) time.Duration
}

// DefaultRetryPolicy returns 3 attempts spaced by a fixed second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxRetries, Delay: DefaultRetryDelay}
}

// ExponentialBackoff doubles the delay after each attempt, up to MaxBackoff.
func ExponentialBackoff(attempt int, delay time.Duration) time.Duration {
	if delay <= 0 {
		return delay
	}
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= 63 || delay > MaxBackoff>>uint(attempt) {
		return MaxBackoff
	}
	return delay << uint(attempt)
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxRetries
	}
	return p.MaxAttempts
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.Backoff != nil {
		return p.Backoff(attempt, p.Delay)
	}
	return p.Delay
}

// retryable reports whether an outcome may succeed when repeated unchanged.
func (p RetryPolicy) retryable(o outcome) bool {
	return o == outcomeTransient
}

// wait blocks for the delay following attempt, or until ctx is done.
func (p RetryPolicy) wait(ctx context.Context, clock Clock, attempt int) error {
	d := p.delay(attempt)
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(d):
		return nil
	}
}
