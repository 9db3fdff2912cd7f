package scheduler

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"tubetracker/feed"
	"tubetracker/profile"
	"tubetracker/storage"
)

// fakeBatchResolver implements BatchResolver; unknown queries resolve to nil
// and are dropped, matching ResolveMany's skip-on-failure contract.
type fakeBatchResolver struct {
	results map[string]*feed.Channel
	calls   int
	queried [][]string
}

func (f *fakeBatchResolver) ResolveMany(ctx context.Context, queries []string) []*feed.Channel {
	f.calls++
	f.queried = append(f.queried, queries)

	out := make([]*feed.Channel, 0, len(queries))
	for _, q := range queries {
		if ch, ok := f.results[q]; ok {
			out = append(out, ch)
		}
	}
	return out
}

func newSeedFixture(queries []string) (*Seeder, *profile.Store, *fakeBatchResolver, storage.KV) {
	kv := storage.NewMemKV()
	profiles := profile.NewStore(kv, nil, zerolog.Nop())
	resolver := &fakeBatchResolver{results: map[string]*feed.Channel{
		"@alpha": {ID: "UCalpha000000000000", Name: "Alpha"},
		"@beta":  {ID: "UCbeta0000000000000", Name: "Beta"},
	}}
	return NewSeeder(kv, profiles, resolver, queries, zerolog.Nop()), profiles, resolver, kv
}

// TestSeederAppliesDefaultsOnce tests that defaults are added on first run
// and the persisted flag suppresses every later run.
func TestSeederAppliesDefaultsOnce(t *testing.T) {
	seeder, profiles, resolver, _ := newSeedFixture([]string{"@alpha", "@beta"})

	seeder.Run(context.Background())

	channels := profiles.Active().Channels
	if len(channels) != 2 {
		t.Fatalf("len(Channels) = %d, want 2", len(channels))
	}
	if channels[0].Name != "Alpha" || channels[1].Name != "Beta" {
		t.Errorf("channels = %v, want [Alpha, Beta]", channels)
	}

	// Even after the user empties the list, defaults never come back.
	for _, ch := range channels {
		if err := profiles.RemoveChannel(profiles.Active().ID, ch.ID); err != nil {
			t.Fatalf("RemoveChannel() error = %v", err)
		}
	}
	seeder.Run(context.Background())

	if resolver.calls != 1 {
		t.Errorf("resolver calls = %d, want 1", resolver.calls)
	}
	if got := len(profiles.Active().Channels); got != 0 {
		t.Errorf("len(Channels) = %d, want 0 after re-run", got)
	}
}

// TestSeederSkipsTrackedChannels tests that already-tracked defaults are not
// re-resolved.
func TestSeederSkipsTrackedChannels(t *testing.T) {
	seeder, profiles, resolver, _ := newSeedFixture([]string{"@alpha", "@beta"})

	if _, err := profiles.AddResolvedChannel(profiles.Active().ID, feed.Channel{ID: "UCalpha000000000000", Name: "@alpha"}); err != nil {
		t.Fatalf("AddResolvedChannel() error = %v", err)
	}

	seeder.Run(context.Background())

	if len(resolver.queried) != 1 || len(resolver.queried[0]) != 1 || resolver.queried[0][0] != "@beta" {
		t.Errorf("queried = %v, want [[@beta]]", resolver.queried)
	}
	if got := len(profiles.Active().Channels); got != 2 {
		t.Errorf("len(Channels) = %d, want 2", got)
	}
}

// TestSeederPartialResolutionStillFlags tests that unresolvable defaults are
// skipped and the flag is still written.
func TestSeederPartialResolutionStillFlags(t *testing.T) {
	seeder, profiles, resolver, _ := newSeedFixture([]string{"@alpha", "@missing"})

	seeder.Run(context.Background())
	seeder.Run(context.Background())

	if resolver.calls != 1 {
		t.Errorf("resolver calls = %d, want 1 (flag must suppress re-run)", resolver.calls)
	}
	channels := profiles.Active().Channels
	if len(channels) != 1 || channels[0].Name != "Alpha" {
		t.Errorf("channels = %v, want [Alpha]", channels)
	}
}

// TestSeederEmptyQueries tests that an empty default list writes the flag
// without resolving anything.
func TestSeederEmptyQueries(t *testing.T) {
	seeder, _, resolver, _ := newSeedFixture(nil)

	seeder.Run(context.Background())
	seeder.Run(context.Background())

	if resolver.calls != 0 {
		t.Errorf("resolver calls = %d, want 0", resolver.calls)
	}
}
