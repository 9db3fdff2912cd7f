package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func testDataset(kv KV, migrate MigrateFunc[record]) Dataset[record] {
	return Dataset[record]{
		KV:      kv,
		Key:     "test_records",
		Version: "2",
		Migrate: migrate,
		Log:     zerolog.Nop(),
	}
}

// TestDatasetSaveLoad tests the tagged round trip at the current version.
func TestDatasetSaveLoad(t *testing.T) {
	ds := testDataset(NewMemKV(), nil)

	ds.Save(record{Name: "alpha", Count: 3})

	got, ok := ds.Load()
	if !ok {
		t.Fatal("Load() ok = false, want true")
	}
	if got.Name != "alpha" || got.Count != 3 {
		t.Errorf("Load() = %+v, want saved record", got)
	}
}

// TestDatasetAbsentKey tests that a missing key reports not-found.
func TestDatasetAbsentKey(t *testing.T) {
	ds := testDataset(NewMemKV(), nil)

	if _, ok := ds.Load(); ok {
		t.Error("Load() ok = true for absent key")
	}
}

// TestDatasetCorruptData tests that unparseable current-version data is
// discarded.
func TestDatasetCorruptData(t *testing.T) {
	kv := NewMemKV()
	kv.Set("test_records", `{"version":"2","data":{"count":"not a number"}}`)
	ds := testDataset(kv, nil)

	if _, ok := ds.Load(); ok {
		t.Error("Load() ok = true for corrupt data")
	}
}

// TestDatasetMigrationWriteBack tests that a version mismatch migrates once
// and re-tags the stored value.
func TestDatasetMigrationWriteBack(t *testing.T) {
	kv := NewMemKV()
	kv.Set("test_records", `{"version":"1","data":{"label":"old"}}`)

	migrations := 0
	ds := testDataset(kv, func(oldVersion string, raw json.RawMessage) (record, error) {
		migrations++
		if oldVersion != "1" {
			return record{}, fmt.Errorf("unexpected version %q", oldVersion)
		}
		var old struct {
			Label string `json:"label"`
		}
		if err := json.Unmarshal(raw, &old); err != nil {
			return record{}, err
		}
		return record{Name: old.Label, Count: 1}, nil
	})

	got, ok := ds.Load()
	if !ok {
		t.Fatal("Load() ok = false, want migrated value")
	}
	if got.Name != "old" || got.Count != 1 {
		t.Errorf("Load() = %+v, want migrated record", got)
	}

	// The write-back makes the second load a plain read.
	if _, ok := ds.Load(); !ok {
		t.Fatal("second Load() ok = false")
	}
	if migrations != 1 {
		t.Errorf("migrations = %d, want 1", migrations)
	}
}

// TestDatasetBareLegacyBlob tests that an untagged stored value reaches the
// migration function with an empty old version.
func TestDatasetBareLegacyBlob(t *testing.T) {
	kv := NewMemKV()
	kv.Set("test_records", `["a","b"]`)

	ds := testDataset(kv, func(oldVersion string, raw json.RawMessage) (record, error) {
		if oldVersion != "" {
			return record{}, fmt.Errorf("oldVersion = %q, want empty", oldVersion)
		}
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			return record{}, err
		}
		return record{Name: "legacy", Count: len(items)}, nil
	})

	got, ok := ds.Load()
	if !ok {
		t.Fatal("Load() ok = false, want migrated value")
	}
	if got.Count != 2 {
		t.Errorf("Count = %d, want 2", got.Count)
	}
}

// TestDatasetNoMigrationPath tests that a nil Migrate discards mismatched
// versions and removes the stored key.
func TestDatasetNoMigrationPath(t *testing.T) {
	kv := NewMemKV()
	kv.Set("test_records", `{"version":"1","data":{}}`)
	ds := testDataset(kv, nil)

	if _, ok := ds.Load(); ok {
		t.Error("Load() ok = true, want discard")
	}
	if _, ok := kv.Get("test_records"); ok {
		t.Error("stored key survived discard")
	}
}

// TestDatasetFailedMigrationDiscards tests that a migration error discards
// the stored value.
func TestDatasetFailedMigrationDiscards(t *testing.T) {
	kv := NewMemKV()
	kv.Set("test_records", `{"version":"1","data":{}}`)
	ds := testDataset(kv, func(string, json.RawMessage) (record, error) {
		return record{}, errors.New("cannot migrate")
	})

	if _, ok := ds.Load(); ok {
		t.Error("Load() ok = true, want discard on failed migration")
	}
	if _, ok := kv.Get("test_records"); ok {
		t.Error("stored key survived failed migration")
	}
}
