package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func openTestKV(t *testing.T, path string) *FileKV {
	t.Helper()
	kv, err := OpenFileKV(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenFileKV() error = %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

// TestFileKVRoundTrip tests that values survive a close-and-reopen cycle.
func TestFileKVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	kv := openTestKV(t, path)
	kv.Set("alpha", "one")
	kv.Set("beta", "two")
	kv.Remove("beta")
	if err := kv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened := openTestKV(t, path)
	if v, ok := reopened.Get("alpha"); !ok || v != "one" {
		t.Errorf("Get(alpha) = (%q, %v), want (one, true)", v, ok)
	}
	if _, ok := reopened.Get("beta"); ok {
		t.Error("Get(beta) found removed key")
	}
}

// TestFileKVCreatesFile tests that opening a missing file creates it.
func TestFileKVCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	kv := openTestKV(t, path)
	if _, ok := kv.Get("anything"); ok {
		t.Error("fresh store is not empty")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("store file not created: %v", err)
	}
}

// TestFileKVCorruptFileResets tests that an unparseable store file resets to
// empty instead of failing to open.
func TestFileKVCorruptFileResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	kv := openTestKV(t, path)
	if _, ok := kv.Get("anything"); ok {
		t.Error("corrupt store yielded values")
	}

	kv.Set("fresh", "value")
	if v, ok := kv.Get("fresh"); !ok || v != "value" {
		t.Errorf("Get(fresh) = (%q, %v), want (value, true)", v, ok)
	}
}

// TestFileLockExcludesSecondHolder tests that a held lock times out for a
// second acquirer and is reacquirable after release.
func TestFileLockExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	first := NewFileLock(path)
	if err := first.Lock(time.Second); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	second := NewFileLock(path)
	if err := second.Lock(50 * time.Millisecond); !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("second Lock() error = %v, want ErrLockTimeout", err)
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := second.Lock(time.Second); err != nil {
		t.Errorf("Lock() after release error = %v", err)
	}
	second.Unlock()
}
