// Package netretry provides retry utilities for transient store transport
// errors. The diff engine never retries; callers wrap store fetches with Do.
package netretry

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/siderolabs/go-retry/retry"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// DefaultInterval is the base wait between attempts.
const DefaultInterval = 500 * time.Millisecond

// httpStatusCodePattern matches HTTP 5xx status codes at word boundaries
// to avoid false positives on port numbers like ":5000".
var httpStatusCodePattern = regexp.MustCompile(`\b50[0-4]\b`)

// IsRetryable returns true if the error indicates a transient failure that
// should be retried. This covers Kubernetes API status errors for overload
// and timeouts, HTTP 5xx status codes, and TCP-level errors such as
// connection resets and unexpected EOF.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	if apierrors.IsServerTimeout(err) || apierrors.IsTimeout(err) ||
		apierrors.IsTooManyRequests(err) || apierrors.IsServiceUnavailable(err) ||
		apierrors.IsInternalError(err) {
		return true
	}

	errMsg := err.Error()

	textPatterns := []string{
		"Internal Server Error", "Bad Gateway",
		"Service Unavailable", "Gateway Timeout",
		"connection reset by peer", "connection refused",
		"i/o timeout", "TLS handshake timeout",
		"unexpected EOF", "no such host",
		"Client.Timeout exceeded",
	}

	for _, pattern := range textPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return httpStatusCodePattern.MatchString(errMsg)
}

// Do calls fn until it succeeds, fails with a non-retryable error, or timeout
// elapses. A non-positive timeout calls fn exactly once. The last error
// returned by fn is returned unchanged.
func Do(ctx context.Context, timeout, interval time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}

	if interval <= 0 {
		interval = DefaultInterval
	}

	var lastErr error

	err := retry.Exponential(timeout, retry.WithUnits(interval), retry.WithJitter(interval/4)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			lastErr = fn(ctx)
			if lastErr == nil {
				return nil
			}

			if IsRetryable(lastErr) {
				return retry.ExpectedError(lastErr)
			}

			return lastErr
		})
	if err == nil {
		return nil
	}

	if lastErr != nil {
		return lastErr
	}

	return err //nolint:wrapcheck // only reached when fn never ran
}
