package youtube

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/api/googleapi"
)

// TestMapAPIError tests translation of SDK errors into the error taxonomy.
func TestMapAPIError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{
			"quota reason inside 403",
			&googleapi.Error{Code: 403, Message: "quota", Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}},
			ErrQuota,
		},
		{
			"rate limit reason",
			&googleapi.Error{Code: 403, Message: "slow down", Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}}},
			ErrQuota,
		},
		{
			"plain 403 is auth",
			&googleapi.Error{Code: 403, Message: "forbidden"},
			ErrAuth,
		},
		{
			"401 is auth",
			&googleapi.Error{Code: 401, Message: "bad key"},
			ErrAuth,
		},
		{
			"404 is not found",
			&googleapi.Error{Code: 404, Message: "gone"},
			ErrNotFound,
		},
		{
			"429 is quota",
			&googleapi.Error{Code: 429, Message: "too many"},
			ErrQuota,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapAPIError(tt.in)
			if !errors.Is(got, tt.want) {
				t.Errorf("mapAPIError() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestMapAPIErrorPreservesMessage tests that unclassified failures keep the
// upstream status and message for display.
func TestMapAPIErrorPreservesMessage(t *testing.T) {
	got := mapAPIError(&googleapi.Error{Code: 500, Message: "backend sad"})

	var upErr *UpstreamError
	if !errors.As(got, &upErr) {
		t.Fatalf("mapAPIError() type = %T, want *UpstreamError", got)
	}
	if upErr.StatusCode != 500 || upErr.Message != "backend sad" {
		t.Errorf("UpstreamError = %+v, want status 500 with message intact", upErr)
	}
}

// TestMapAPIErrorTransport tests that non-HTTP errors wrap with zero status.
func TestMapAPIErrorTransport(t *testing.T) {
	underlying := errors.New("connection reset")
	got := mapAPIError(underlying)

	var upErr *UpstreamError
	if !errors.As(got, &upErr) {
		t.Fatalf("mapAPIError() type = %T, want *UpstreamError", got)
	}
	if upErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", upErr.StatusCode)
	}
	if !errors.Is(got, underlying) {
		t.Error("wrapped error lost the underlying cause")
	}
}

// TestMapAPIErrorNil tests the nil passthrough.
func TestMapAPIErrorNil(t *testing.T) {
	if got := mapAPIError(nil); got != nil {
		t.Errorf("mapAPIError(nil) = %v, want nil", got)
	}
}

// TestIsRetryable tests the retry classification over mapped errors.
func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"auth is permanent", mapAPIError(&googleapi.Error{Code: 401}), false},
		{"quota is permanent", mapAPIError(&googleapi.Error{Code: 429}), false},
		{"not found is permanent", mapAPIError(&googleapi.Error{Code: 404}), false},
		{"client error is permanent", mapAPIError(&googleapi.Error{Code: 400, Message: "bad request"}), false},
		{"server error retries", mapAPIError(&googleapi.Error{Code: 503, Message: "unavailable"}), true},
		{"transport error retries", mapAPIError(errors.New("connection reset")), true},
		{"canceled context is permanent", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
