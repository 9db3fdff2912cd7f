package scheduler

import (
	"context"

	"github.com/rs/zerolog"

	"tubetracker/feed"
	"tubetracker/profile"
	"tubetracker/storage"
)

const (
	seedKey     = "tubetracker_defaults_applied"
	seedVersion = "1"
)

// BatchResolver is the slice of the resolution pipeline the seeder needs.
type BatchResolver interface {
	ResolveMany(ctx context.Context, queries []string) []*feed.Channel
}

// Seeder performs the one-shot resolution of default channels into the
// active profile on first run. A persisted flag marks the defaults as
// applied so later loads never re-add them, even if the user empties their
// channel list.
type Seeder struct {
	flag     storage.Dataset[bool]
	profiles *profile.Store
	resolver BatchResolver
	queries  []string
	log      zerolog.Logger
}

// NewSeeder creates a seeder for the given default-channel queries.
func NewSeeder(kv storage.KV, profiles *profile.Store, resolver BatchResolver, queries []string, log zerolog.Logger) *Seeder {
	return &Seeder{
		flag: storage.Dataset[bool]{
			KV:      kv,
			Key:     seedKey,
			Version: seedVersion,
			Log:     log,
		},
		profiles: profiles,
		resolver: resolver,
		queries:  queries,
		log:      log.With().Str("component", "seeder").Logger(),
	}
}

// Run applies the default channels once. It is idempotent and safe to re-run
// after a partial failure: per-item resolution failures are tolerated (the
// affected defaults are simply skipped), channels the profile already tracks
// are never duplicated, and the flag is only written after the attempt
// completes.
func (s *Seeder) Run(ctx context.Context) {
	if applied, ok := s.flag.Load(); ok && applied {
		return
	}
	if len(s.queries) == 0 {
		s.flag.Save(true)
		return
	}

	active := s.profiles.Active()

	missing := make([]string, 0, len(s.queries))
	for _, q := range s.queries {
		if !active.HasChannel(q) {
			missing = append(missing, q)
		}
	}

	if len(missing) > 0 {
		added := 0
		for _, ch := range s.resolver.ResolveMany(ctx, missing) {
			ok, err := s.profiles.AddResolvedChannel(active.ID, *ch)
			if err != nil {
				s.log.Warn().Str("channel", ch.Name).Err(err).Msg("seeding add failed")
				continue
			}
			if ok {
				added++
			}
		}
		s.log.Info().Int("requested", len(missing)).Int("added", added).Msg("default channels seeded")
	}

	s.flag.Save(true)
}
