package config

import (
	"sync"

	"github.com/rs/zerolog"

	"tubetracker/storage"
)

const (
	datasetKey     = "tubetracker_config"
	datasetVersion = "2"
)

// Store holds the live Config and persists every update through the
// versioned storage layer. Stored shapes from other versions are discarded
// in favor of defaults: preferences are cheap to re-enter, unlike channel
// lists.
type Store struct {
	ds storage.Dataset[Config]

	mu  sync.RWMutex
	cur Config
}

// Patch is a partial preference update; nil fields are left unchanged.
type Patch struct {
	LookbackDays         *int    `json:"lookback_days"`
	RefreshIntervalHours *int    `json:"refresh_interval_hours"`
	MaxResultsPerChannel *int    `json:"max_results_per_channel"`
	MinDurationSeconds   *int    `json:"min_duration_seconds"`
	Theme                *string `json:"theme"`
	DiagnosticsEnabled   *bool   `json:"diagnostics_enabled"`
}

// NewStore loads preferences from storage (falling back to defaults), applies
// environment overrides, and normalizes the result.
func NewStore(kv storage.KV, log zerolog.Logger) *Store {
	s := &Store{
		ds: storage.Dataset[Config]{
			KV:      kv,
			Key:     datasetKey,
			Version: datasetVersion,
			Log:     log,
		},
	}

	cur, ok := s.ds.Load()
	if !ok {
		cur = Default()
	}
	cur.applyEnv()
	cur.Normalize()
	s.cur = cur
	return s
}

// Get returns the current preferences.
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Update applies a partial patch, normalizes, persists, and returns the
// resulting preferences.
func (s *Store) Update(p Patch) Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.LookbackDays != nil {
		s.cur.LookbackDays = *p.LookbackDays
	}
	if p.RefreshIntervalHours != nil {
		s.cur.RefreshIntervalHours = *p.RefreshIntervalHours
	}
	if p.MaxResultsPerChannel != nil {
		s.cur.MaxResultsPerChannel = *p.MaxResultsPerChannel
	}
	if p.MinDurationSeconds != nil {
		s.cur.MinDurationSeconds = *p.MinDurationSeconds
	}
	if p.Theme != nil {
		s.cur.Theme = Theme(*p.Theme)
	}
	if p.DiagnosticsEnabled != nil {
		s.cur.DiagnosticsEnabled = *p.DiagnosticsEnabled
	}

	s.cur.Normalize()
	s.ds.Save(s.cur)
	return s.cur
}
