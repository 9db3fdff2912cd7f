package youtube

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sosodev/duration"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"tubetracker/retry"
)

// Client implements API using the YouTube Data API v3 with an API key.
// All calls go through a shared rate limiter and retry with backoff on
// transient failures.
type Client struct {
	service *youtube.Service
	limiter *rate.Limiter
	retry   retry.Config
	log     zerolog.Logger
}

// ClientConfig configures the upstream client.
type ClientConfig struct {
	// APIKey is the YouTube Data API key. Required.
	APIKey string
	// RequestsPerSecond caps upstream call rate. Default 5.
	RequestsPerSecond float64
	// Retry configures backoff for transient failures.
	Retry retry.Config
}

// DefaultClientConfig returns sensible defaults (the API key must be set).
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		RequestsPerSecond: 5,
		Retry:             retry.DefaultConfig(),
	}
}

// NewClient creates an API-key-authenticated upstream client.
func NewClient(ctx context.Context, cfg ClientConfig, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("youtube: api key required")
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &Client{
		service: service,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		retry:   cfg.Retry,
		log:     log.With().Str("component", "youtube").Logger(),
	}, nil
}

// call wraps an upstream invocation with rate limiting, retry, and error
// mapping.
func (c *Client) call(ctx context.Context, name string, fn func(context.Context) error) error {
	err := retry.Do(ctx, c.retry, isRetryable, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := fn(ctx); err != nil {
			return mapAPIError(err)
		}
		return nil
	})
	if err != nil {
		c.log.Debug().Str("call", name).Err(err).Msg("upstream call failed")
	}
	return err
}

// SearchChannel returns the best channel match for a free-form query.
func (c *Client) SearchChannel(ctx context.Context, query string) (*ChannelResult, error) {
	var result *ChannelResult

	err := c.call(ctx, "search.list", func(ctx context.Context) error {
		resp, err := c.service.Search.List([]string{"snippet"}).
			Q(query).
			Type("channel").
			MaxResults(1).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 {
			return fmt.Errorf("%w: no channel matches %q", ErrNotFound, query)
		}

		item := resp.Items[0]
		result = &ChannelResult{Title: item.Snippet.Title}
		if item.Id != nil {
			result.ID = item.Id.ChannelId
		}
		if result.ID == "" {
			result.ID = item.Snippet.ChannelId
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
			result.ThumbnailURL = item.Snippet.Thumbnails.Default.Url
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetChannel looks up a channel by canonical ID, including its uploads
// playlist.
func (c *Client) GetChannel(ctx context.Context, id string) (*ChannelResult, error) {
	var result *ChannelResult

	err := c.call(ctx, "channels.list", func(ctx context.Context) error {
		resp, err := c.service.Channels.List([]string{"snippet", "contentDetails"}).
			Id(id).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 {
			return fmt.Errorf("%w: no channel with id %q", ErrNotFound, id)
		}

		ch := resp.Items[0]
		result = &ChannelResult{ID: ch.Id}
		if ch.Snippet != nil {
			result.Title = ch.Snippet.Title
			if ch.Snippet.Thumbnails != nil && ch.Snippet.Thumbnails.Default != nil {
				result.ThumbnailURL = ch.Snippet.Thumbnails.Default.Url
			}
		}
		if ch.ContentDetails != nil && ch.ContentDetails.RelatedPlaylists != nil {
			result.UploadsPlaylistID = ch.ContentDetails.RelatedPlaylists.Uploads
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListUploads returns up to max recent items from an uploads playlist,
// paginating in pages of 50.
func (c *Client) ListUploads(ctx context.Context, playlistID string, max int64) ([]PlaylistItem, error) {
	if max <= 0 {
		max = MaxStatsBatch
	}

	var items []PlaylistItem
	pageToken := ""

	for int64(len(items)) < max {
		pageSize := max - int64(len(items))
		if pageSize > 50 {
			pageSize = 50
		}

		var resp *youtube.PlaylistItemListResponse
		err := c.call(ctx, "playlistItems.list", func(ctx context.Context) error {
			var err error
			resp, err = c.service.PlaylistItems.List([]string{"snippet"}).
				PlaylistId(playlistID).
				MaxResults(pageSize).
				PageToken(pageToken).
				Context(ctx).
				Do()
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			items = append(items, fromPlaylistItem(item))
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return items, nil
}

func fromPlaylistItem(item *youtube.PlaylistItem) PlaylistItem {
	pi := PlaylistItem{}
	if item.Snippet == nil {
		return pi
	}

	pi.Title = item.Snippet.Title
	pi.Description = item.Snippet.Description
	pi.ChannelID = item.Snippet.ChannelId
	if item.Snippet.ResourceId != nil {
		pi.VideoID = item.Snippet.ResourceId.VideoId
	}
	if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		pi.PublishedAt = t
	}
	if thumbs := item.Snippet.Thumbnails; thumbs != nil {
		// Prefer medium quality for feed display
		switch {
		case thumbs.Medium != nil:
			pi.ThumbnailURL = thumbs.Medium.Url
		case thumbs.High != nil:
			pi.ThumbnailURL = thumbs.High.Url
		case thumbs.Default != nil:
			pi.ThumbnailURL = thumbs.Default.Url
		}
	}
	return pi
}

// VideoStats fetches duration and view counts for up to MaxStatsBatch IDs.
func (c *Client) VideoStats(ctx context.Context, ids []string) (map[string]VideoStats, error) {
	if len(ids) == 0 {
		return map[string]VideoStats{}, nil
	}
	if len(ids) > MaxStatsBatch {
		return nil, fmt.Errorf("youtube: stats batch of %d exceeds limit %d", len(ids), MaxStatsBatch)
	}

	stats := make(map[string]VideoStats, len(ids))
	err := c.call(ctx, "videos.list", func(ctx context.Context) error {
		resp, err := c.service.Videos.List([]string{"contentDetails", "statistics"}).
			Id(ids...).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}

		for _, item := range resp.Items {
			s := VideoStats{}
			if item.ContentDetails != nil && item.ContentDetails.Duration != "" {
				if d, err := duration.Parse(item.ContentDetails.Duration); err == nil {
					s.DurationSeconds = int(d.ToTimeDuration() / time.Second)
				}
			}
			if item.Statistics != nil {
				s.ViewCount = int64(item.Statistics.ViewCount)
			}
			stats[item.Id] = s
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
