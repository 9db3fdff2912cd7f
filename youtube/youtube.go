// Package youtube provides a typed client for the YouTube Data API v3,
// covering the four endpoints tubetracker needs: channel search, channel
// lookup, uploads-playlist listing, and video statistics. Credential
// handling, rate limiting, and retry live here; callers never see raw
// upstream URLs.
package youtube

import (
	"context"
	"time"
)

// MaxStatsBatch is the upstream limit on video IDs per videos.list call.
const MaxStatsBatch = 50

// ChannelResult is the upstream view of a channel. UploadsPlaylistID is only
// populated by GetChannel (search results do not carry contentDetails).
type ChannelResult struct {
	// ID is the canonical channel ID (e.g. "UCuAXFkgsw1L7xaCfnd5JJOw").
	ID string
	// Title is the channel's display name.
	Title string
	// ThumbnailURL is the default channel thumbnail, if any.
	ThumbnailURL string
	// UploadsPlaylistID is the playlist enumerating the channel's uploads
	// (e.g. "UUuAXFkgsw1L7xaCfnd5JJOw").
	UploadsPlaylistID string
}

// PlaylistItem is one entry from a channel's uploads playlist.
type PlaylistItem struct {
	VideoID      string
	Title        string
	Description  string
	ChannelID    string
	ThumbnailURL string
	PublishedAt  time.Time
}

// VideoStats holds per-video metadata fetched in batches from videos.list.
// Zero values mean the field was not available upstream.
type VideoStats struct {
	// DurationSeconds is the video length in seconds.
	DurationSeconds int
	// ViewCount is the total view count.
	ViewCount int64
}

// API is the narrow upstream contract the aggregation pipeline consumes.
// The production implementation is Client; tests substitute fakes.
type API interface {
	// SearchChannel returns the best (first) channel match for a free-form
	// query, or ErrNotFound if nothing matches.
	SearchChannel(ctx context.Context, query string) (*ChannelResult, error)

	// GetChannel looks up a channel by its canonical ID, including its
	// uploads playlist ID. Returns ErrNotFound for unknown IDs.
	GetChannel(ctx context.Context, id string) (*ChannelResult, error)

	// ListUploads returns up to max of the most recent items from an uploads
	// playlist, newest first as served upstream.
	ListUploads(ctx context.Context, playlistID string, max int64) ([]PlaylistItem, error)

	// VideoStats fetches duration and view-count metadata for up to
	// MaxStatsBatch video IDs, keyed by video ID. IDs the upstream omits are
	// absent from the result.
	VideoStats(ctx context.Context, ids []string) (map[string]VideoStats, error)
}
