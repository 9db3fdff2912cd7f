package feed

import (
	"errors"
	"strings"
)

// ErrResolutionIncomplete indicates a channel was found upstream but no
// uploads playlist could be determined for it, so it cannot be tracked.
var ErrResolutionIncomplete = errors.New("feed: channel has no uploads playlist")

// ChannelFailure records one channel's fetch failure during aggregation.
type ChannelFailure struct {
	// ChannelName is the display name of the failed channel.
	ChannelName string
	// Err is the underlying fetch error.
	Err error
}

// ScanError is returned when every channel's fetch failed during one
// aggregation run. Partial failures never produce a ScanError; they degrade
// to partial results.
//
// ScanError participates in multi-error unwrapping, so
// errors.Is(err, youtube.ErrAuth) reports whether any channel failed with an
// authentication error (the force-logout signal).
type ScanError struct {
	Failures []ChannelFailure
}

// Error summarizes every per-channel failure.
func (e *ScanError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.ChannelName + ": " + f.Err.Error()
	}
	return "feed: all channels failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the per-channel errors for errors.Is/errors.As.
func (e *ScanError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}
