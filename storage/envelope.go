package storage

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// envelope tags every persisted dataset with its schema version.
type envelope struct {
	Version string          `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// MigrateFunc adapts an older stored shape to the current one. oldVersion is
// the version tag found in storage; the empty string means the raw value
// predates envelope tagging (a bare legacy blob). Returning an error discards
// the stored value.
type MigrateFunc[T any] func(oldVersion string, raw json.RawMessage) (T, error)

// Dataset binds one logical dataset (profiles, config, seed flag) to its key,
// current schema version, and migration path. Versions only move forward; a
// successful migration is written back immediately so it runs at most once
// per version transition.
type Dataset[T any] struct {
	KV      KV
	Key     string
	Version string
	// Migrate handles older stored shapes. Nil means version mismatches
	// discard the stored value (the caller falls back to defaults).
	Migrate MigrateFunc[T]
	Log     zerolog.Logger
}

// Load reads the dataset from storage. The second return is false when the
// key is absent, the stored value is corrupt, or migration fails; callers
// use their defaults in all three cases.
func (d Dataset[T]) Load() (T, bool) {
	var zero T

	raw, ok := d.KV.Get(d.Key)
	if !ok {
		return zero, false
	}

	env := envelope{}
	if err := json.Unmarshal([]byte(raw), &env); err != nil || env.Version == "" {
		// Bare legacy blob from before envelope tagging.
		return d.migrate("", json.RawMessage(raw))
	}

	if env.Version != d.Version {
		return d.migrate(env.Version, env.Data)
	}

	var value T
	if err := json.Unmarshal(env.Data, &value); err != nil {
		d.Log.Warn().Str("key", d.Key).Err(err).Msg("dataset corrupt, discarding")
		return zero, false
	}
	return value, true
}

// migrate runs the migration function and writes the result back at the
// current version.
func (d Dataset[T]) migrate(oldVersion string, raw json.RawMessage) (T, bool) {
	var zero T

	if d.Migrate == nil {
		d.Log.Info().Str("key", d.Key).Str("stored_version", oldVersion).
			Str("current_version", d.Version).Msg("no migration path, discarding stored value")
		d.KV.Remove(d.Key)
		return zero, false
	}

	value, err := d.Migrate(oldVersion, raw)
	if err != nil {
		d.Log.Warn().Str("key", d.Key).Str("stored_version", oldVersion).Err(err).
			Msg("migration failed, discarding stored value")
		d.KV.Remove(d.Key)
		return zero, false
	}

	d.Log.Info().Str("key", d.Key).Str("stored_version", oldVersion).
		Str("current_version", d.Version).Msg("dataset migrated")
	d.Save(value)
	return value, true
}

// Save marshals the value and stores it tagged with the current version.
func (d Dataset[T]) Save(value T) {
	data, err := json.Marshal(value)
	if err != nil {
		d.Log.Error().Str("key", d.Key).Err(err).Msg("dataset marshal failed")
		return
	}
	env, err := json.Marshal(envelope{Version: d.Version, Data: data})
	if err != nil {
		d.Log.Error().Str("key", d.Key).Err(err).Msg("envelope marshal failed")
		return
	}
	d.KV.Set(d.Key, string(env))
}
