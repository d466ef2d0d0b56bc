package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Storer is a string key-value store for saved games.
type Storer interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// FileStore keeps one JSON record per key in a directory, cached in memory.
type FileStore struct {
	path    string
	records map[string]string

	mu sync.RWMutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	s := &FileStore{
		path:    path,
		records: map[string]string{},
	}

	err := s.load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Clear existing records when loading
	s.records = map[string]string{}

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		rec, err := s.loadRecord(filepath.Join(s.path, entry.Name()))
		if err != nil {
			return fmt.Errorf("loading %s: %w", entry.Name(), err)
		}

		err = rec.Validate()
		if err != nil {
			return fmt.Errorf("validating %s: %w", entry.Name(), err)
		}

		if strings.TrimSuffix(entry.Name(), ".json") != rec.Key.String() {
			return fmt.Errorf("%s holds key %q", entry.Name(), rec.Key)
		}

		s.records[rec.Key.String()] = rec.Value
	}

	return nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.records[key]
	return val, ok, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	rec := &Record{
		Version: recordVersion,
		Key:     Key(key),
		Value:   value,
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	jsonData, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = atomicWrite(s.filePath(key), jsonData, 0644)
	if err != nil {
		return err
	}

	s.records[key] = value
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := Key(key).Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.filePath(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", key, err)
	}

	delete(s.records, key)
	return nil
}

// Keys returns every stored key with the given prefix, sorted.
func (s *FileStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.records {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// atomicWrite writes data to a temp file then renames it to the target path.
// This prevents partial or empty files if the process is interrupted.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			slog.Warn("failed to remove temp file after rename failure", "path", tmp, "error", removeErr)
		}
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (s *FileStore) filePath(key string) string {
	return filepath.Join(s.path, fmt.Sprintf("%s.json", key))
}

func (s *FileStore) loadRecord(path string) (*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	// Ignoring close error - file is read-only, error is not actionable
	defer func() { _ = file.Close() }()

	jsonData, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	rec := &Record{}
	err = json.Unmarshal(jsonData, rec)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling record: %w", err)
	}

	return rec, nil
}
