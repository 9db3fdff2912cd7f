// Package profile manages tubetracker's named profiles: each owns an ordered
// channel set and the feed from its last aggregation run. The collection is
// persisted as one versioned dataset; at least one profile exists at all
// times and the active profile ID always references an existing profile.
package profile

import (
	"errors"
	"strings"
	"time"

	"tubetracker/feed"
)

// Sentinel errors for profile operations.
var (
	// ErrProfileNotFound indicates the profile ID references no known profile.
	ErrProfileNotFound = errors.New("profile: not found")
	// ErrDuplicateChannel indicates the channel is already tracked by the
	// profile (same resolved ID or same name, case-insensitively).
	ErrDuplicateChannel = errors.New("profile: channel already added")
	// ErrLastProfile guards the at-least-one-profile invariant.
	ErrLastProfile = errors.New("profile: cannot delete the last profile")
	// ErrEmptyName indicates a profile name was blank.
	ErrEmptyName = errors.New("profile: name must not be empty")
)

// FeedState is a profile's cached feed: the entries from its last successful
// aggregation run plus error bookkeeping. Entries are replaced atomically on
// each successful run, never appended to.
type FeedState struct {
	Entries []feed.VideoEntry `json:"entries"`
	// LastFetchedAt is when the feed was last successfully refreshed; nil
	// means never.
	LastFetchedAt *time.Time `json:"last_fetched_at"`
	// LastError holds the user-visible message from the last failed run.
	LastError string `json:"last_error,omitempty"`
}

// Profile is a named, isolated set of tracked channels plus its cached feed.
type Profile struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Channels []feed.Channel `json:"channels"`
	Feed     FeedState      `json:"feed"`
}

// HasChannel reports whether the profile already tracks a channel with the
// given ID or (case-insensitively) the given name.
func (p Profile) HasChannel(idOrName string) bool {
	lowered := strings.ToLower(idOrName)
	for _, ch := range p.Channels {
		if ch.ID == idOrName || strings.ToLower(ch.Name) == lowered {
			return true
		}
	}
	return false
}

// clone produces a deep copy so callers can't alias the store's state.
func (p Profile) clone() Profile {
	out := p
	out.Channels = append([]feed.Channel(nil), p.Channels...)
	out.Feed.Entries = append([]feed.VideoEntry(nil), p.Feed.Entries...)
	if p.Feed.LastFetchedAt != nil {
		t := *p.Feed.LastFetchedAt
		out.Feed.LastFetchedAt = &t
	}
	return out
}
