package profile

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tubetracker/feed"
	"tubetracker/storage"
)

// ChannelResolver is the slice of the resolution pipeline the store needs
// when adding channels.
type ChannelResolver interface {
	Resolve(ctx context.Context, query string) (*feed.Channel, error)
}

// Store owns the profile collection. Every mutation re-validates the
// invariants (at least one profile, valid active ID) and persists the whole
// collection through the versioned dataset.
type Store struct {
	ds       storage.Dataset[collection]
	resolver ChannelResolver
	log      zerolog.Logger

	mu       sync.RWMutex
	profiles []Profile
	activeID string
}

// NewStore loads the profile collection from storage, migrating older shapes
// and creating an empty "Default" profile if nothing is stored.
func NewStore(kv storage.KV, resolver ChannelResolver, log zerolog.Logger) *Store {
	s := &Store{
		ds: storage.Dataset[collection]{
			KV:      kv,
			Key:     datasetKey,
			Version: datasetVersion,
			Migrate: migrateCollection,
			Log:     log,
		},
		resolver: resolver,
		log:      log.With().Str("component", "profiles").Logger(),
	}

	col, ok := s.ds.Load()
	if !ok || len(col.Profiles) == 0 {
		col = wrapAsDefault(nil, nil, nil, "")
	}
	s.profiles = col.Profiles
	s.activeID = col.ActiveID
	s.ensureActive()
	return s
}

// ensureActive repairs the active-profile pointer. Callers hold s.mu (or run
// before the store is shared).
func (s *Store) ensureActive() {
	for _, p := range s.profiles {
		if p.ID == s.activeID {
			return
		}
	}
	s.activeID = s.profiles[0].ID
}

// persist saves the current collection. Callers hold s.mu.
func (s *Store) persist() {
	s.ds.Save(collection{Profiles: s.profiles, ActiveID: s.activeID})
}

func (s *Store) indexOf(id string) int {
	for i, p := range s.profiles {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// List returns copies of all profiles in order.
func (s *Store) List() []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Profile, len(s.profiles))
	for i, p := range s.profiles {
		out[i] = p.clone()
	}
	return out
}

// Active returns a copy of the active profile.
func (s *Store) Active() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[s.indexOf(s.activeID)].clone()
}

// Get returns a copy of the profile with the given ID.
func (s *Store) Get(id string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Profile{}, ErrProfileNotFound
	}
	return s.profiles[i].clone(), nil
}

// Create appends a new empty profile and returns it.
func (s *Store) Create(name string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Profile{
		ID:       uuid.NewString(),
		Name:     name,
		Channels: []feed.Channel{},
	}
	s.profiles = append(s.profiles, p)
	s.persist()
	s.log.Info().Str("profile", name).Msg("profile created")
	return p.clone(), nil
}

// Delete removes a profile. Deleting the last remaining profile fails with
// ErrLastProfile; deleting the active profile activates the first remaining
// one.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrProfileNotFound
	}
	if len(s.profiles) == 1 {
		return ErrLastProfile
	}

	s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
	s.ensureActive()
	s.persist()
	return nil
}

// SwitchActive makes the given profile active.
func (s *Store) SwitchActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return ErrProfileNotFound
	}
	s.activeID = id
	s.persist()
	return nil
}

// AddChannel resolves a query and adds the resulting channel to a profile.
// Duplicates fail with ErrDuplicateChannel and leave the channel list
// unchanged: first by name before resolving (saving an upstream call), then
// by resolved ID or name after.
func (s *Store) AddChannel(ctx context.Context, profileID, query string) (*feed.Channel, error) {
	s.mu.RLock()
	i := s.indexOf(profileID)
	if i < 0 {
		s.mu.RUnlock()
		return nil, ErrProfileNotFound
	}
	if s.profiles[i].HasChannel(strings.TrimSpace(query)) {
		s.mu.RUnlock()
		return nil, ErrDuplicateChannel
	}
	s.mu.RUnlock()

	// Resolution happens outside the lock; it can take multiple upstream
	// round trips.
	ch, err := s.resolver.Resolve(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i = s.indexOf(profileID)
	if i < 0 {
		return nil, ErrProfileNotFound
	}
	if s.profiles[i].HasChannel(ch.ID) || s.profiles[i].HasChannel(ch.Name) {
		return nil, ErrDuplicateChannel
	}

	s.profiles[i].Channels = append(s.profiles[i].Channels, *ch)
	s.persist()
	s.log.Info().Str("channel", ch.Name).Str("profile", s.profiles[i].Name).Msg("channel added")
	return ch, nil
}

// AddResolvedChannel adds an already-resolved channel, skipping duplicates.
// It reports whether the channel was added. Used by default-channel seeding.
func (s *Store) AddResolvedChannel(profileID string, ch feed.Channel) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(profileID)
	if i < 0 {
		return false, ErrProfileNotFound
	}
	if s.profiles[i].HasChannel(ch.ID) || s.profiles[i].HasChannel(ch.Name) {
		return false, nil
	}

	s.profiles[i].Channels = append(s.profiles[i].Channels, ch)
	s.persist()
	return true, nil
}

// RemoveChannel removes a channel from a profile. Removing an untracked
// channel is a no-op.
func (s *Store) RemoveChannel(profileID, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(profileID)
	if i < 0 {
		return ErrProfileNotFound
	}

	channels := s.profiles[i].Channels[:0]
	for _, ch := range s.profiles[i].Channels {
		if ch.ID != channelID {
			channels = append(channels, ch)
		}
	}
	s.profiles[i].Channels = channels
	s.persist()
	return nil
}

// SetFeed replaces a profile's cached feed in one step.
func (s *Store) SetFeed(profileID string, state FeedState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(profileID)
	if i < 0 {
		return ErrProfileNotFound
	}
	s.profiles[i].Feed = state
	s.persist()
	return nil
}

// ReplaceAll swaps in a fully recomputed profile collection as one atomic
// update (used by scan-all, which computes every profile's feed
// independently first). The invariants still hold: the new collection must
// be non-empty and activeID is repaired if stale.
func (s *Store) ReplaceAll(profiles []Profile, activeID string) error {
	if len(profiles) == 0 {
		return ErrLastProfile
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles = profiles
	s.activeID = activeID
	s.ensureActive()
	s.persist()
	return nil
}
