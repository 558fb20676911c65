// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryWithContext(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		maxAttempts  int
		expectError  bool
		expectedCall int
	}{
		{
			name:         "success on first attempt",
			failures:     0,
			maxAttempts:  3,
			expectedCall: 1,
		},
		{
			name:         "success after failures",
			failures:     2,
			maxAttempts:  3,
			expectedCall: 3,
		},
		{
			name:         "all attempts fail",
			failures:     5,
			maxAttempts:  3,
			expectError:  true,
			expectedCall: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			result, err := RetryWithContext(
				context.Background(),
				time.Minute,
				func(ctx context.Context) (int, error) {
					calls++
					require.NoError(t, ctx.Err())
					if calls <= tt.failures {
						return 0, errors.New("transient")
					}
					return 42, nil
				},
				tt.maxAttempts,
				time.Millisecond,
			)
			require.Equal(t, tt.expectedCall, calls)
			if tt.expectError {
				require.ErrorContains(t, err, "maximum retry attempts 3 reached")
				require.ErrorContains(t, err, "transient")
				return
			}
			require.NoError(t, err)
			require.Equal(t, 42, result)
		})
	}
}

func TestWithParentContext(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	gen := WithParentContext(parent, time.Minute)
	ctx, ctxCancel := gen()
	defer ctxCancel()
	require.NoError(t, ctx.Err())
	cancel()
	<-ctx.Done()
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestRetryWithContextStopsOnCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	calls := 0
	start := time.Now()
	_, err := RetryWithContext(
		parent,
		time.Minute,
		func(context.Context) (int, error) {
			calls++
			cancel()
			return 0, errors.New("connection reset")
		},
		5,
		time.Minute,
	)
	require.Equal(t, 1, calls)
	require.ErrorContains(t, err, "aborted after 1 attempts")
	require.ErrorContains(t, err, "connection reset")
	require.Less(t, time.Since(start), time.Minute)
}
