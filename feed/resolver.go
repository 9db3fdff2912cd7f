package feed

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"tubetracker/youtube"
)

// channelIDPattern matches canonical channel IDs ("UC" prefix, at least 19
// characters total). Queries matching it skip the search step entirely.
var channelIDPattern = regexp.MustCompile(`^UC[A-Za-z0-9_-]{17,}$`)

// Resolver turns user-supplied queries (handles, names, or canonical IDs)
// into Channel records. It holds no state and caches nothing; callers decide
// whether to persist results.
type Resolver struct {
	api youtube.API
	log zerolog.Logger
}

// NewResolver creates a resolver over the given upstream API.
func NewResolver(api youtube.API, log zerolog.Logger) *Resolver {
	return &Resolver{api: api, log: log.With().Str("component", "resolver").Logger()}
}

// Resolve produces a canonical Channel for a query. Canonical IDs take the
// direct-lookup path (one upstream call); anything else is resolved via
// search followed by a detail lookup for the uploads playlist. A channel
// without a determinable uploads playlist fails with ErrResolutionIncomplete.
func (r *Resolver) Resolve(ctx context.Context, query string) (*Channel, error) {
	if channelIDPattern.MatchString(query) {
		return r.resolveDirect(ctx, query)
	}
	return r.resolveBySearch(ctx, query)
}

func (r *Resolver) resolveDirect(ctx context.Context, id string) (*Channel, error) {
	result, err := r.api.GetChannel(ctx, id)
	if err != nil {
		return nil, err
	}
	if result.UploadsPlaylistID == "" {
		return nil, fmt.Errorf("%w: %s", ErrResolutionIncomplete, id)
	}
	return &Channel{
		ID:            result.ID,
		Name:          result.Title,
		ThumbnailURL:  result.ThumbnailURL,
		UploadsListID: result.UploadsPlaylistID,
	}, nil
}

func (r *Resolver) resolveBySearch(ctx context.Context, query string) (*Channel, error) {
	match, err := r.api.SearchChannel(ctx, query)
	if err != nil {
		return nil, err
	}

	// Second call: search results carry no contentDetails, so the uploads
	// playlist requires a channel lookup.
	details, err := r.api.GetChannel(ctx, match.ID)
	if err != nil {
		return nil, err
	}
	if details.UploadsPlaylistID == "" {
		return nil, fmt.Errorf("%w: %q", ErrResolutionIncomplete, query)
	}

	// Display fields come from the search match the user picked.
	return &Channel{
		ID:            match.ID,
		Name:          match.Title,
		ThumbnailURL:  match.ThumbnailURL,
		UploadsListID: details.UploadsPlaylistID,
	}, nil
}

// ResolveMany resolves a batch of queries, returning the successfully
// resolved subset. Individual failures are logged and skipped, never aborting
// the batch: one bad handle in a default list must not block the rest.
func (r *Resolver) ResolveMany(ctx context.Context, queries []string) []*Channel {
	resolved := make([]*Channel, 0, len(queries))
	for _, q := range queries {
		ch, err := r.Resolve(ctx, q)
		if err != nil {
			r.log.Warn().Str("query", q).Err(err).Msg("resolution failed, skipping")
			continue
		}
		resolved = append(resolved, ch)
	}
	return resolved
}
