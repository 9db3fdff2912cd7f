package feed

import "testing"

func filterFixture() []VideoEntry {
	return []VideoEntry{
		{ID: "long", Title: "Deep Dive", Description: "an hour on internals", ChannelName: "Systems Weekly", DurationSeconds: 3600},
		{ID: "short", Title: "Quick Tip", Description: "sixty seconds", ChannelName: "Systems Weekly", DurationSeconds: 60},
		{ID: "unknown", Title: "Fresh Upload", Description: "stats pending", ChannelName: "Other Channel", DurationSeconds: 0},
	}
}

// TestFilterIdentity tests that disabled filters return the input unchanged.
func TestFilterIdentity(t *testing.T) {
	entries := filterFixture()
	got := Filter(entries, 0, "")
	if len(got) != len(entries) {
		t.Fatalf("len = %d, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i].ID != entries[i].ID {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, entries[i].ID)
		}
	}
}

// TestFilterMinDuration tests that shorts are dropped while entries with
// unknown duration are kept.
func TestFilterMinDuration(t *testing.T) {
	got := Filter(filterFixture(), 90, "")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "long" || got[1].ID != "unknown" {
		t.Errorf("ids = [%s, %s], want [long, unknown]", got[0].ID, got[1].ID)
	}
}

// TestFilterQuery tests case-insensitive substring matching across title,
// description, and channel name.
func TestFilterQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title match", "deep", []string{"long"}},
		{"description match", "SECONDS", []string{"short"}},
		{"channel match", "systems", []string{"long", "short"}},
		{"no match", "gardening", []string{}},
		{"whitespace only is identity", "   ", []string{"long", "short", "unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(filterFixture(), 0, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

// TestFilterCombined tests that duration and query filters compose.
func TestFilterCombined(t *testing.T) {
	got := Filter(filterFixture(), 90, "systems")
	if len(got) != 1 || got[0].ID != "long" {
		t.Errorf("got = %v, want only long", got)
	}
}
