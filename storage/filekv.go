package storage

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const lockTimeout = 5 * time.Second

// FileKV implements KV backed by a single JSON file. The file holds a flat
// string map plus an updated-at stamp; every mutation rewrites it atomically
// (temp file + rename). An flock-style lock guards against concurrent
// processes sharing the same file.
type FileKV struct {
	path string
	lock *FileLock
	log  zerolog.Logger

	mu   sync.RWMutex
	data *fileData
}

// fileData is the on-disk JSON structure.
type fileData struct {
	UpdatedAt time.Time         `json:"updated_at"`
	Values    map[string]string `json:"values"`
}

// OpenFileKV opens (or creates) the store file at path and acquires its lock.
// Call Close to release the lock.
func OpenFileKV(path string, log zerolog.Logger) (*FileKV, error) {
	s := &FileKV{
		path: path,
		lock: NewFileLock(path),
		log:  log.With().Str("component", "storage").Logger(),
	}

	if err := s.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}

	if err := s.load(); err != nil {
		s.lock.Unlock()
		return nil, err
	}
	return s, nil
}

// load reads the file into memory, starting empty if it does not exist or
// cannot be parsed.
func (s *FileKV) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.data = &fileData{Values: make(map[string]string)}
			// Write immediately to catch permission errors early
			return s.save()
		}
		return err
	}

	s.data = &fileData{}
	if err := json.Unmarshal(raw, s.data); err != nil {
		// Unparseable store: start over rather than refuse to run.
		s.log.Warn().Str("path", s.path).Err(err).Msg("store file corrupt, resetting")
		s.data = &fileData{Values: make(map[string]string)}
		return s.save()
	}
	if s.data.Values == nil {
		s.data.Values = make(map[string]string)
	}
	return nil
}

// save persists the data to disk atomically. Callers hold s.mu.
func (s *FileKV) save() error {
	s.data.UpdatedAt = time.Now()

	writer, err := NewAtomicWriter(s.path)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.data); err != nil {
		writer.Abort()
		return err
	}
	return writer.Commit()
}

func (s *FileKV) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data.Values[key]
	return v, ok
}

func (s *FileKV) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Values[key] = value
	if err := s.save(); err != nil {
		s.log.Error().Str("key", key).Err(err).Msg("persist failed")
	}
}

func (s *FileKV) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.Values, key)
	if err := s.save(); err != nil {
		s.log.Error().Str("key", key).Err(err).Msg("persist failed")
	}
}

// Close releases the file lock.
func (s *FileKV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock.Unlock()
}
