package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"tubetracker/youtube"
)

// TestResolveCanonicalID tests that a canonical channel ID skips search and
// resolves with a single detail lookup.
func TestResolveCanonicalID(t *testing.T) {
	api := newFakeAPI()
	api.channels["UCabcdefghijklmnopq"] = &youtube.ChannelResult{
		ID:                "UCabcdefghijklmnopq",
		Title:             "Direct",
		UploadsPlaylistID: "UUabcdefghijklmnopq",
	}
	r := NewResolver(api, zerolog.Nop())

	ch, err := r.Resolve(context.Background(), "UCabcdefghijklmnopq")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if ch.ID != "UCabcdefghijklmnopq" || ch.Name != "Direct" {
		t.Errorf("channel = %+v, want direct lookup result", ch)
	}
	if ch.UploadsListID != "UUabcdefghijklmnopq" {
		t.Errorf("UploadsListID = %q, want %q", ch.UploadsListID, "UUabcdefghijklmnopq")
	}
}

// TestResolveByHandle tests the search-then-detail path, with display fields
// taken from the search match.
func TestResolveByHandle(t *testing.T) {
	api := newFakeAPI()
	api.searches["@creator"] = &youtube.ChannelResult{
		ID:           "UCxxxxxxxxxxxxxxxxx",
		Title:        "Creator Channel",
		ThumbnailURL: "https://example.com/t.jpg",
	}
	api.channels["UCxxxxxxxxxxxxxxxxx"] = &youtube.ChannelResult{
		ID:                "UCxxxxxxxxxxxxxxxxx",
		Title:             "creator channel (canonical)",
		UploadsPlaylistID: "UUxxxxxxxxxxxxxxxxx",
	}
	r := NewResolver(api, zerolog.Nop())

	ch, err := r.Resolve(context.Background(), "@creator")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if ch.Name != "Creator Channel" {
		t.Errorf("Name = %q, want search match title", ch.Name)
	}
	if ch.ThumbnailURL != "https://example.com/t.jpg" {
		t.Errorf("ThumbnailURL = %q, want search match thumbnail", ch.ThumbnailURL)
	}
	if ch.UploadsListID != "UUxxxxxxxxxxxxxxxxx" {
		t.Errorf("UploadsListID = %q, want detail lookup playlist", ch.UploadsListID)
	}
}

// TestResolveShortUCQueryUsesSearch tests that a short "UC..." string is
// treated as a name, not a canonical ID.
func TestResolveShortUCQueryUsesSearch(t *testing.T) {
	api := newFakeAPI()
	api.searches["UC Berkeley"] = &youtube.ChannelResult{ID: "UCberkeleychannel01", Title: "UC Berkeley"}
	api.channels["UCberkeleychannel01"] = &youtube.ChannelResult{
		ID:                "UCberkeleychannel01",
		UploadsPlaylistID: "UUberkeleychannel01",
	}
	r := NewResolver(api, zerolog.Nop())

	ch, err := r.Resolve(context.Background(), "UC Berkeley")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if ch.ID != "UCberkeleychannel01" {
		t.Errorf("ID = %q, want search result", ch.ID)
	}
}

// TestResolveNoMatch tests that an unknown query surfaces ErrNotFound.
func TestResolveNoMatch(t *testing.T) {
	r := NewResolver(newFakeAPI(), zerolog.Nop())

	_, err := r.Resolve(context.Background(), "nobody here")
	if !errors.Is(err, youtube.ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

// TestResolveMissingUploadsPlaylist tests that a channel without an uploads
// playlist fails with ErrResolutionIncomplete.
func TestResolveMissingUploadsPlaylist(t *testing.T) {
	api := newFakeAPI()
	api.searches["topic"] = &youtube.ChannelResult{ID: "UCtopicchannel00001", Title: "Topic"}
	api.channels["UCtopicchannel00001"] = &youtube.ChannelResult{ID: "UCtopicchannel00001", Title: "Topic"}
	r := NewResolver(api, zerolog.Nop())

	_, err := r.Resolve(context.Background(), "topic")
	if !errors.Is(err, ErrResolutionIncomplete) {
		t.Errorf("Resolve() error = %v, want ErrResolutionIncomplete", err)
	}
}

// TestResolveManySkipsFailures tests that batch resolution skips failures
// and preserves input order for the successes.
func TestResolveManySkipsFailures(t *testing.T) {
	api := newFakeAPI()
	for _, q := range []string{"first", "third"} {
		id := "UCchannel" + q + "0000000"
		api.searches[q] = &youtube.ChannelResult{ID: id, Title: q}
		api.channels[id] = &youtube.ChannelResult{ID: id, UploadsPlaylistID: "UU" + q}
	}
	r := NewResolver(api, zerolog.Nop())

	resolved := r.ResolveMany(context.Background(), []string{"first", "missing", "third"})
	if len(resolved) != 2 {
		t.Fatalf("len(resolved) = %d, want 2", len(resolved))
	}
	if resolved[0].Name != "first" || resolved[1].Name != "third" {
		t.Errorf("resolved = [%s, %s], want [first, third]", resolved[0].Name, resolved[1].Name)
	}
}
