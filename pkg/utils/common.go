// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryWithContext retries [fn] until it succeeds or [maxAttempts] is reached.
// Each attempt gets its own [attemptTimeout] context derived from [parent], and
// retrying stops as soon as [parent] is done.
func RetryWithContext[T any](
	parent context.Context,
	attemptTimeout time.Duration,
	fn func(context.Context) (T, error),
	maxAttempts int,
	sleepBetweenRepeats time.Duration,
) (T, error) {
	var (
		result T
		err    error
	)
	ctxGen := WithParentContext(parent, attemptTimeout)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err = attemptWithContext(ctxGen, fn)
		if err == nil {
			return result, nil
		}
		if parent.Err() != nil {
			return result, fmt.Errorf("aborted after %d attempts: %w", attempt+1, err)
		}
		if attempt < maxAttempts-1 {
			select {
			case <-parent.Done():
				return result, fmt.Errorf("aborted after %d attempts: %w", attempt+1, err)
			case <-time.After(sleepBetweenRepeats):
			}
		}
	}
	return result, fmt.Errorf("maximum retry attempts %d reached: last err = %w", maxAttempts, err)
}

func attemptWithContext[T any](
	ctxGen func() (context.Context, context.CancelFunc),
	fn func(context.Context) (T, error),
) (T, error) {
	ctx, cancel := ctxGen()
	defer cancel()
	return fn(ctx)
}

// WithParentContext returns a generator deriving per-attempt contexts from [parent]
// with the given [timeout]
func WithParentContext(
	parent context.Context,
	timeout time.Duration,
) func() (context.Context, context.CancelFunc) {
	return func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(parent, timeout)
	}
}
