package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/quasilyte/gdata/v2"
)

const (
	gdataObject = "saves"

	// The key index lives in its own object so it never collides with a save.
	gdataIndexObject = "saves-index"
	gdataIndexKey    = "keys"
)

// GdataStore keeps saves in the per-user application data directory.
type GdataStore struct {
	m *gdata.Manager

	mu sync.Mutex
}

func NewGdataStore(appName string) (*GdataStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("opening app data for %s: %w", appName, err)
	}
	return &GdataStore{m: m}, nil
}

func (s *GdataStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.m.ObjectPropExists(gdataObject, key) {
		return "", false, nil
	}
	data, err := s.m.LoadObjectProp(gdataObject, key)
	if err != nil {
		return "", false, fmt.Errorf("loading %s: %w", key, err)
	}
	return string(data), true, nil
}

func (s *GdataStore) Set(_ context.Context, key, value string) error {
	if err := Key(key).Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.m.SaveObjectProp(gdataObject, key, []byte(value)); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return s.updateIndex(func(keys map[string]bool) { keys[key] = true })
}

func (s *GdataStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.m.ObjectPropExists(gdataObject, key) {
		if err := s.m.DeleteObjectProp(gdataObject, key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
	}
	return s.updateIndex(func(keys map[string]bool) { delete(keys, key) })
}

func (s *GdataStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex()
	if err != nil {
		return nil, err
	}

	var keys []string
	for k := range index {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *GdataStore) loadIndex() (map[string]bool, error) {
	index := map[string]bool{}
	if !s.m.ObjectPropExists(gdataIndexObject, gdataIndexKey) {
		return index, nil
	}

	data, err := s.m.LoadObjectProp(gdataIndexObject, gdataIndexKey)
	if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}

	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}
	for _, k := range keys {
		index[k] = true
	}
	return index, nil
}

func (s *GdataStore) updateIndex(fn func(map[string]bool)) error {
	index, err := s.loadIndex()
	if err != nil {
		return err
	}
	fn(index)

	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := s.m.SaveObjectProp(gdataIndexObject, gdataIndexKey, data); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}
	return nil
}
