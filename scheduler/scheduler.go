// Package scheduler decides when aggregation runs and orchestrates scans:
// load-triggered refreshes gated by staleness, manual scans of one profile,
// scan-all across every profile, and one-shot default-channel seeding.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"tubetracker/config"
	"tubetracker/feed"
	"tubetracker/profile"
)

// ShouldRefresh reports whether a profile's feed is due for a refresh: a
// never-fetched profile refreshes as soon as it has channels; otherwise the
// feed refreshes once its age exceeds the configured interval.
func ShouldRefresh(lastFetchedAt *time.Time, refreshIntervalHours, channelCount int, now time.Time) bool {
	if lastFetchedAt == nil {
		return channelCount > 0
	}
	return now.Sub(*lastFetchedAt) > time.Duration(refreshIntervalHours)*time.Hour
}

// Aggregator is the slice of the feed pipeline the runner invokes.
type Aggregator interface {
	Aggregate(ctx context.Context, channels []feed.Channel, lookbackDays, maxPerChannel int) ([]feed.VideoEntry, error)
}

// Runner executes scans against the profile store.
type Runner struct {
	profiles *profile.Store
	cfg      *config.Store
	agg      Aggregator
	log      zerolog.Logger
	now      func() time.Time

	scanning atomic.Bool
}

// NewRunner creates a scan runner.
func NewRunner(profiles *profile.Store, cfg *config.Store, agg Aggregator, log zerolog.Logger) *Runner {
	return &Runner{
		profiles: profiles,
		cfg:      cfg,
		agg:      agg,
		log:      log.With().Str("component", "scheduler").Logger(),
		now:      time.Now,
	}
}

// Scanning reports whether a scan is currently in progress, for rendering
// clients.
func (r *Runner) Scanning() bool {
	return r.scanning.Load()
}

// ScanProfile aggregates one profile's channels and replaces its cached feed.
// On failure the previous entries are kept and the error message is recorded
// on the profile; the aggregation error is returned unchanged so callers can
// detect youtube.ErrAuth (force logout).
func (r *Runner) ScanProfile(ctx context.Context, profileID string) error {
	p, err := r.profiles.Get(profileID)
	if err != nil {
		return err
	}

	r.scanning.Store(true)
	defer r.scanning.Store(false)

	state, aggErr := r.computeFeed(ctx, p)
	if err := r.profiles.SetFeed(p.ID, state); err != nil {
		return err
	}
	return aggErr
}

// ScanActive scans the active profile.
func (r *Runner) ScanActive(ctx context.Context) error {
	return r.ScanProfile(ctx, r.profiles.Active().ID)
}

// MaybeRefresh scans the active profile only if its feed is stale per
// ShouldRefresh. It reports whether a scan ran.
func (r *Runner) MaybeRefresh(ctx context.Context) (bool, error) {
	p := r.profiles.Active()
	cfg := r.cfg.Get()
	if !ShouldRefresh(p.Feed.LastFetchedAt, cfg.RefreshIntervalHours, len(p.Channels), r.now()) {
		return false, nil
	}
	return true, r.ScanProfile(ctx, p.ID)
}

// ScanAll recomputes every profile's feed independently in parallel, then
// applies all updates as one atomic replacement of the collection. A
// failure in one profile's aggregation never leaves another's update
// half-applied.
func (r *Runner) ScanAll(ctx context.Context) error {
	r.scanning.Store(true)
	defer r.scanning.Store(false)

	profiles := r.profiles.List()
	states := make([]profile.FeedState, len(profiles))

	var wg sync.WaitGroup
	for i, p := range profiles {
		wg.Add(1)
		go func(i int, p profile.Profile) {
			defer wg.Done()
			states[i], _ = r.computeFeed(ctx, p)
		}(i, p)
	}
	wg.Wait()

	for i := range profiles {
		profiles[i].Feed = states[i]
	}
	return r.profiles.ReplaceAll(profiles, r.profiles.Active().ID)
}

// computeFeed runs one profile's aggregation and folds the outcome into a
// FeedState. Success replaces the entries wholesale; failure keeps the
// previous entries and records the message.
func (r *Runner) computeFeed(ctx context.Context, p profile.Profile) (profile.FeedState, error) {
	cfg := r.cfg.Get()

	entries, err := r.agg.Aggregate(ctx, p.Channels, cfg.LookbackDays, cfg.MaxResultsPerChannel)
	if err != nil {
		r.log.Warn().Str("profile", p.Name).Err(err).Msg("scan failed")
		return profile.FeedState{
			Entries:       p.Feed.Entries,
			LastFetchedAt: p.Feed.LastFetchedAt,
			LastError:     err.Error(),
		}, err
	}

	now := r.now()
	r.log.Info().Str("profile", p.Name).Int("entries", len(entries)).Msg("scan complete")
	return profile.FeedState{Entries: entries, LastFetchedAt: &now}, nil
}
