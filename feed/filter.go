package feed

import "strings"

// Filter is a pure, order-preserving projection over an already-sorted feed.
// It never re-sorts.
//
// The duration filter applies only when minDurationSeconds > 0; entries with
// unknown duration (zero) are never excluded by it. The text query is a
// case-insensitive substring match over title, description, and channel
// name; an empty query is the identity.
func Filter(entries []VideoEntry, minDurationSeconds int, query string) []VideoEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if minDurationSeconds <= 0 && query == "" {
		return entries
	}

	filtered := make([]VideoEntry, 0, len(entries))
	for _, e := range entries {
		if minDurationSeconds > 0 && e.DurationSeconds > 0 && e.DurationSeconds < minDurationSeconds {
			continue
		}
		if query != "" && !matchesQuery(e, query) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func matchesQuery(e VideoEntry, lowered string) bool {
	return strings.Contains(strings.ToLower(e.Title), lowered) ||
		strings.Contains(strings.ToLower(e.Description), lowered) ||
		strings.Contains(strings.ToLower(e.ChannelName), lowered)
}
