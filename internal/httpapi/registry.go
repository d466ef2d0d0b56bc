package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-farm/internal/farm"
	"github.com/pixil98/go-farm/internal/storage"
)

var (
	ErrFarmNotFound = errors.New("farm not found")
	ErrFarmInUse    = errors.New("farm already has an open session")
	ErrInvalidInput = errors.New("invalid input")
)

type entry struct {
	mu   sync.Mutex
	game *farm.Game

	// lastUsed is guarded by the registry lock.
	lastUsed time.Time
}

// Registry holds the farms played over HTTP, one Game per session id. Each
// Game is locked for the length of a request.
type Registry struct {
	store       storage.Storer
	publisher   farm.Publisher
	rules       farm.Rules
	idleTimeout time.Duration
	gameOpts    []farm.GameOpt

	mu    sync.Mutex
	farms map[string]*entry
}

type RegistryOpt func(*Registry)

func WithRules(r farm.Rules) RegistryOpt {
	return func(reg *Registry) {
		reg.rules = r
	}
}

func WithPublisher(p farm.Publisher) RegistryOpt {
	return func(reg *Registry) {
		reg.publisher = p
	}
}

// WithIdleTimeout closes sessions unused for d. Zero keeps them forever.
func WithIdleTimeout(d time.Duration) RegistryOpt {
	return func(reg *Registry) {
		reg.idleTimeout = d
	}
}

// WithGameOpts adds options applied to every new game.
func WithGameOpts(opts ...farm.GameOpt) RegistryOpt {
	return func(reg *Registry) {
		reg.gameOpts = append(reg.gameOpts, opts...)
	}
}

func NewRegistry(store storage.Storer, opts ...RegistryOpt) *Registry {
	r := &Registry{
		store: store,
		rules: farm.DefaultRules(),
		farms: map[string]*entry{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Create opens a session. With an empty resumeId it starts a fresh farm;
// otherwise it continues the autosave of that earlier session.
func (r *Registry) Create(ctx context.Context, resumeId string) (string, StateView, error) {
	id := resumeId
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return "", StateView{}, fmt.Errorf("%w: %q is not a farm id", ErrInvalidInput, id)
	}

	saves, err := storage.NewNamespaced(r.store, id)
	if err != nil {
		return "", StateView{}, fmt.Errorf("opening saves for %s: %w", id, err)
	}

	opts := []farm.GameOpt{
		farm.WithID(id),
		farm.WithRules(r.rules),
		farm.WithStore(saves),
		farm.WithLogger(slog.Default().With("farm", id)),
	}
	if r.publisher != nil {
		opts = append(opts, farm.WithPublisher(r.publisher))
	}
	g := farm.New(append(opts, r.gameOpts...)...)

	if resumeId != "" {
		if r.open(id) {
			return "", StateView{}, ErrFarmInUse
		}
		ok, err := g.Resume(ctx)
		if err != nil {
			return "", StateView{}, fmt.Errorf("resuming %s: %w", id, err)
		}
		if !ok {
			return "", StateView{}, ErrFarmNotFound
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.farms[id]; ok {
		return "", StateView{}, ErrFarmInUse
	}
	r.farms[id] = &entry{game: g, lastUsed: time.Now()}

	slog.InfoContext(ctx, "farm session opened", "farm", id, "resumed", resumeId != "")
	return id, NewStateView(g), nil
}

// Do runs fn with exclusive use of the farm and returns its state afterwards.
func (r *Registry) Do(ctx context.Context, id string, fn func(*farm.Game) error) (StateView, error) {
	e, ok := r.get(id)
	if !ok {
		return StateView{}, ErrFarmNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if fn != nil {
		if err := fn(e.game); err != nil {
			return StateView{}, err
		}
	}
	return NewStateView(e.game), nil
}

// Close drops a session. Its autosave stays in the store.
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.farms[id]; !ok {
		return ErrFarmNotFound
	}
	delete(r.farms, id)

	slog.InfoContext(ctx, "farm session closed", "farm", id)
	return nil
}

// Tick closes idle sessions.
func (r *Registry) Tick(ctx context.Context) error {
	if r.idleTimeout <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, e := range r.farms {
		if now.Sub(e.lastUsed) > r.idleTimeout {
			delete(r.farms, id)
			slog.InfoContext(ctx, "closing idle farm session", "farm", id)
		}
	}
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.farms)
}

func (r *Registry) open(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.farms[id]
	return ok
}

func (r *Registry) get(id string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.farms[id]
	if ok {
		e.lastUsed = time.Now()
	}
	return e, ok
}
