// Package feed implements tubetracker's channel-resolution and
// video-aggregation pipeline: turning user-entered handles into canonical
// channel records, fanning out over tracked channels for recent uploads,
// enriching entries with stats, and filtering/sorting the merged result.
//
// The package is stateless; persistence happens at the profile and config
// store boundaries.
package feed

import "time"

// Channel is a tracked upstream content source. Records are immutable once
// resolved; re-resolving a query produces a new record.
type Channel struct {
	// ID is the canonical channel ID, stable and unique upstream.
	ID string `json:"id"`
	// Name is the channel's display name at resolution time.
	Name string `json:"name"`
	// ThumbnailURL is the channel thumbnail, if any.
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	// UploadsListID identifies the playlist enumerating the channel's uploads.
	UploadsListID string `json:"uploads_list_id"`
}

// VideoEntry is one item of an aggregated feed. DurationSeconds and
// ViewCount are zero when stats enrichment did not cover the entry.
type VideoEntry struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ChannelName     string    `json:"channel_name"`
	ChannelID       string    `json:"channel_id"`
	URL             string    `json:"url"`
	PublishedAt     time.Time `json:"published_at"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	ViewCount       int64     `json:"view_count,omitempty"`
}

// WatchURL returns the public URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
