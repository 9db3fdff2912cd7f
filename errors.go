package tubetracker

import (
	"tubetracker/feed"
	"tubetracker/profile"
	"tubetracker/retry"
	"tubetracker/storage"
	"tubetracker/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, youtube.ErrAuth) {
//		fmt.Println("API key rejected")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var scanErr *feed.ScanError
//	if errors.As(err, &scanErr) {
//		fmt.Printf("All channels failed: %v\n", scanErr.Failures)
//	}

// Type aliases for convenient error handling.
type (
	// ScanError reports that every channel in a scan failed.
	ScanError = feed.ScanError
	// ChannelFailure pairs a channel with the error it produced.
	ChannelFailure = feed.ChannelFailure
	// UpstreamError wraps an unclassified upstream API failure.
	UpstreamError = youtube.UpstreamError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrNotFound indicates no matching channel exists upstream.
	ErrNotFound = youtube.ErrNotFound
	// ErrAuth indicates the API key was rejected.
	ErrAuth = youtube.ErrAuth
	// ErrQuota indicates the API quota was exhausted.
	ErrQuota = youtube.ErrQuota
	// ErrResolutionIncomplete indicates a channel resolved without an
	// uploads playlist.
	ErrResolutionIncomplete = feed.ErrResolutionIncomplete

	// ErrProfileNotFound indicates the profile ID is unknown.
	ErrProfileNotFound = profile.ErrProfileNotFound
	// ErrDuplicateChannel indicates the channel is already in the profile.
	ErrDuplicateChannel = profile.ErrDuplicateChannel
	// ErrLastProfile indicates the only remaining profile cannot be removed.
	ErrLastProfile = profile.ErrLastProfile

	// ErrLockTimeout indicates a timeout acquiring the state file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)

// IsRetryable determines if an error should be retried.
// It returns false for permanent errors like ErrNotFound.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
