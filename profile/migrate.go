package profile

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tubetracker/feed"
)

// Schema versions for the profiles dataset. Version 2 was a single implicit
// profile (one channel list plus one cached feed); version 3 is the current
// multi-profile collection.
const (
	datasetKey     = "tubetracker_profiles"
	datasetVersion = "3"
	versionSingle  = "2"
)

// collection is the persisted shape of the whole profile set.
type collection struct {
	Profiles []Profile `json:"profiles"`
	ActiveID string    `json:"active_id"`
}

// singleState is the retired version-2 shape.
type singleState struct {
	Channels []feed.Channel `json:"channels"`
	Feed     struct {
		Videos      []feed.VideoEntry `json:"videos"`
		LastUpdated *int64            `json:"last_updated"` // unix millis
		Error       string            `json:"error"`
	} `json:"feed"`
}

// migrateCollection promotes older stored shapes into the current
// multi-profile collection. User data is preserved, not discarded: the old
// single channel list and cached feed become the first profile, named
// "Default".
//
// Two legacy shapes are recognized: the tagged version-2 single-profile
// state, and the untagged bare channel array that predates envelope tagging.
func migrateCollection(oldVersion string, raw json.RawMessage) (collection, error) {
	switch oldVersion {
	case versionSingle:
		var old singleState
		if err := json.Unmarshal(raw, &old); err != nil {
			return collection{}, fmt.Errorf("parse v2 state: %w", err)
		}
		return wrapAsDefault(old.Channels, old.Feed.Videos, old.Feed.LastUpdated, old.Feed.Error), nil

	case "":
		var channels []feed.Channel
		if err := json.Unmarshal(raw, &channels); err != nil {
			return collection{}, fmt.Errorf("parse legacy channel list: %w", err)
		}
		return wrapAsDefault(channels, nil, nil, ""), nil
	}

	return collection{}, fmt.Errorf("no migration from version %q", oldVersion)
}

func wrapAsDefault(channels []feed.Channel, entries []feed.VideoEntry, lastUpdatedMillis *int64, lastError string) collection {
	if channels == nil {
		channels = []feed.Channel{}
	}

	state := FeedState{Entries: entries, LastError: lastError}
	if lastUpdatedMillis != nil {
		t := time.UnixMilli(*lastUpdatedMillis)
		state.LastFetchedAt = &t
	}

	p := Profile{
		ID:       uuid.NewString(),
		Name:     "Default",
		Channels: channels,
		Feed:     state,
	}
	return collection{Profiles: []Profile{p}, ActiveID: p.ID}
}
