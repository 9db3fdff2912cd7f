package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tubetracker/youtube"
)

// Aggregator fetches and merges recent uploads across a set of channels.
// Per-channel fetches run concurrently with independent failure isolation;
// only total failure (zero successful channels) surfaces as an error.
type Aggregator struct {
	api youtube.API
	log zerolog.Logger
	now func() time.Time
}

// NewAggregator creates an aggregator over the given upstream API.
func NewAggregator(api youtube.API, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		api: api,
		log: log.With().Str("component", "aggregator").Logger(),
		now: time.Now,
	}
}

// Aggregate returns the merged feed for channels, restricted to uploads
// published within the last lookbackDays days and sorted newest first
// (stable; ties keep channel order then upload order). At most
// maxPerChannel upload-list items are requested per channel, so a channel
// with more in-window uploads than that may miss older ones.
//
// An empty channel list returns an empty feed without any upstream calls.
// If every channel fails, a *ScanError listing the per-channel failures is
// returned; it unwraps to youtube.ErrAuth when any failure was an
// authentication rejection.
func (a *Aggregator) Aggregate(ctx context.Context, channels []Channel, lookbackDays, maxPerChannel int) ([]VideoEntry, error) {
	if len(channels) == 0 {
		return []VideoEntry{}, nil
	}

	cutoff := a.now().AddDate(0, 0, -lookbackDays)

	perChannel := make([][]VideoEntry, len(channels))
	fetchErrs := make([]error, len(channels))

	var wg sync.WaitGroup
	for i, ch := range channels {
		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()
			items, err := a.api.ListUploads(ctx, ch.UploadsListID, int64(maxPerChannel))
			if err != nil {
				fetchErrs[i] = err
				return
			}
			perChannel[i] = entriesInWindow(ch, items, cutoff)
		}(i, ch)
	}
	wg.Wait()

	// Merge in channel order so ties sort deterministically later.
	var entries []VideoEntry
	seen := make(map[string]bool)
	successes := 0
	for i := range channels {
		if fetchErrs[i] != nil {
			a.log.Warn().Str("channel", channels[i].Name).Err(fetchErrs[i]).Msg("channel fetch failed")
			continue
		}
		successes++
		for _, e := range perChannel[i] {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			entries = append(entries, e)
		}
	}

	if successes == 0 {
		scanErr := &ScanError{}
		for i, ch := range channels {
			scanErr.Failures = append(scanErr.Failures, ChannelFailure{ChannelName: ch.Name, Err: fetchErrs[i]})
		}
		return nil, scanErr
	}

	a.enrichStats(ctx, entries)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PublishedAt.After(entries[j].PublishedAt)
	})

	if entries == nil {
		entries = []VideoEntry{}
	}
	return entries, nil
}

// entriesInWindow maps upload-list items to feed entries, dropping anything
// published before the cutoff. The channel name comes from the locally held
// record, not the upstream response, for display consistency.
func entriesInWindow(ch Channel, items []youtube.PlaylistItem, cutoff time.Time) []VideoEntry {
	var entries []VideoEntry
	for _, item := range items {
		if item.PublishedAt.Before(cutoff) {
			continue
		}
		entries = append(entries, VideoEntry{
			ID:           item.VideoID,
			Title:        item.Title,
			Description:  item.Description,
			ChannelName:  ch.Name,
			ChannelID:    ch.ID,
			URL:          WatchURL(item.VideoID),
			PublishedAt:  item.PublishedAt,
			ThumbnailURL: item.ThumbnailURL,
		})
	}
	return entries
}

// enrichStats fetches duration and view counts in batches and merges them
// into matching entries. A failed batch degrades gracefully: its entries
// simply keep zero duration and view count.
func (a *Aggregator) enrichStats(ctx context.Context, entries []VideoEntry) {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	stats := make(map[string]youtube.VideoStats, len(ids))
	for start := 0; start < len(ids); start += youtube.MaxStatsBatch {
		end := start + youtube.MaxStatsBatch
		if end > len(ids) {
			end = len(ids)
		}

		batch, err := a.api.VideoStats(ctx, ids[start:end])
		if err != nil {
			a.log.Warn().Int("batch_start", start).Err(err).Msg("stats batch failed")
			continue
		}
		for id, s := range batch {
			stats[id] = s
		}
	}

	for i := range entries {
		if s, ok := stats[entries[i].ID]; ok {
			entries[i].DurationSeconds = s.DurationSeconds
			entries[i].ViewCount = s.ViewCount
		}
	}
}
