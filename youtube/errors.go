package youtube

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// Sentinel errors for upstream API failures.
var (
	// ErrNotFound indicates no matching channel or resource exists upstream.
	ErrNotFound = errors.New("youtube: not found")
	// ErrAuth indicates the upstream rejected our credentials. Callers must
	// treat this as a force-logout signal.
	ErrAuth = errors.New("youtube: authentication rejected")
	// ErrQuota indicates the daily API quota or rate limit was exceeded.
	ErrQuota = errors.New("youtube: quota exceeded")
)

// UpstreamError wraps any other upstream failure, preserving the status code
// and message verbatim for user-visible display.
type UpstreamError struct {
	// StatusCode is the HTTP status returned upstream, 0 for transport errors.
	StatusCode int
	// Message is the upstream error message, passed through unmodified.
	Message string
	// Err is the underlying error.
	Err error
}

// Error returns a string representation of the upstream error.
func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("youtube: upstream error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("youtube: upstream error: %s", e.Message)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *UpstreamError) Unwrap() error { return e.Err }

// quota-related reason strings returned by the Data API inside 403 responses.
var quotaReasons = map[string]bool{
	"quotaExceeded":         true,
	"dailyLimitExceeded":    true,
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
}

// mapAPIError translates SDK errors into the tubetracker taxonomy.
// Quota-flavored 403s become ErrQuota; credential failures become ErrAuth;
// everything else is wrapped as UpstreamError with the message intact.
func mapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		for _, item := range apiErr.Errors {
			if quotaReasons[item.Reason] {
				return fmt.Errorf("%w: %s", ErrQuota, apiErr.Message)
			}
		}
		switch apiErr.Code {
		case 401, 403:
			return fmt.Errorf("%w: %s", ErrAuth, apiErr.Message)
		case 404:
			return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
		case 429:
			return fmt.Errorf("%w: %s", ErrQuota, apiErr.Message)
		}
		return &UpstreamError{StatusCode: apiErr.Code, Message: apiErr.Message, Err: err}
	}

	return &UpstreamError{Message: err.Error(), Err: err}
}

// isRetryable classifies mapped errors for the retry helper. Auth, quota, and
// not-found failures are permanent; context cancellation stops retries.
func isRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAuth),
		errors.Is(err, ErrQuota),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}

	var upErr *UpstreamError
	if errors.As(err, &upErr) && upErr.StatusCode >= 400 && upErr.StatusCode < 500 {
		return false
	}

	return true
}
