// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/sethvargo/go-retry"

	"pagepress/internal/fault"
)

const (
	// defaultMaxAttempts caps how many times a rate-limited call is
	// tried in total.
	defaultMaxAttempts = 3

	// defaultRetryBase is multiplied by the attempt index to produce
	// the delay before each retry (1×, 2×, ...).
	defaultRetryBase = time.Second
)

// linearBackoff yields attempt-index × base: strictly increasing
// delays between attempts.
func linearBackoff(base time.Duration) retry.Backoff {
	attempt := 0
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * base, false
	})
}

// doWithRetry runs fn up to maxAttempts times. Only errors wrapped
// with retry.RetryableError — rate-limit responses — are retried;
// everything else returns immediately.
func doWithRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return retry.Do(ctx, retry.WithMaxRetries(uint64(maxAttempts-1), linearBackoff(base)), fn)
}

// classifyStatus turns a non-2xx upstream response into the matching
// error: 429 is retryable, anything else is terminal.
func classifyStatus(status int, message string) error {
	err := &fault.UpstreamStatus{Status: status, Message: message}
	if status == http.StatusTooManyRequests {
		return retry.RetryableError(err)
	}
	return err
}

// classifyTransport maps client-side failures. A deadline or timeout
// surfaces as fault.Timeout and is never retried.
func classifyTransport(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &fault.Timeout{Op: op}
	}
	return err
}
