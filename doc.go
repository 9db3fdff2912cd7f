// Package tubetracker aggregates recent uploads from lists of YouTube
// channels into a single chronological feed.
//
// Overview
//
// The pipeline has three stages:
//
//   - Resolution: turn a handle, display name, or channel ID into a
//     channel record with its uploads playlist (feed.Resolver).
//   - Aggregation: fetch recent uploads for every channel concurrently,
//     merge, dedupe, and sort newest first (feed.Aggregator).
//   - Presentation: filter the merged feed by duration and text query
//     (feed.Filter) and serve it over HTTP (server package).
//
// Channel lists live in named profiles (profile.Store), persisted through
// a versioned key-value store (storage package) that migrates older layouts
// on first load. User preferences such as lookback window and refresh
// interval are held in config.Store. The scheduler package decides when a
// feed is stale and re-scans it.
//
// Quick Start
//
// Resolve a channel and fetch its recent uploads:
//
//	ctx := context.Background()
//	client, err := youtube.NewClient(ctx, cfg, log)
//	if err != nil {
//		log.Fatal().Err(err).Msg("client")
//	}
//	resolver := feed.NewResolver(client, log)
//	ch, err := resolver.Resolve(ctx, "@somecreator")
//	if err != nil {
//		log.Fatal().Err(err).Msg("resolve")
//	}
//	agg := feed.NewAggregator(client, log)
//	entries, err := agg.Aggregate(ctx, []feed.Channel{*ch}, 5, 20)
package tubetracker
