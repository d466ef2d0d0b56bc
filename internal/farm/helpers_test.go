package farm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
)

type mapStore struct {
	mu   sync.Mutex
	data map[string]string

	setErr    error
	deleteErr error
	// mangle, when set, changes what Get returns for a key.
	mangle func(string) string
	// sticky keeps deleted keys around.
	sticky bool
}

func newMapStore() *mapStore {
	return &mapStore{data: map[string]string{}}
}

func (s *mapStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if ok && s.mangle != nil {
		v = s.mangle(v)
	}
	return v, ok, nil
}

func (s *mapStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func (s *mapStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if !s.sticky {
		delete(s.data, key)
	}
	return nil
}

type published struct {
	subject string
	data    []byte
}

type recordingPublisher struct {
	msgs []published
	err  error
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{subject: subject, data: data})
	return nil
}

var errStore = errors.New("store offline")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newEmptyGame returns a game with no plants and resources drawn from a fixed
// seed.
func newEmptyGame(t *testing.T, opts ...GameOpt) *Game {
	t.Helper()
	rules := DefaultRules()
	rules.SeedChance = 0
	base := []GameOpt{
		WithID("test"),
		WithSeed(1),
		WithRules(rules),
		WithLogger(quietLogger()),
	}
	return New(append(base, opts...)...)
}

func mustPack(t *testing.T, s *State) []byte {
	t.Helper()
	b, err := s.MarshalBinary()
	if err != nil {
		t.Fatalf("packing state: %v", err)
	}
	return b
}
