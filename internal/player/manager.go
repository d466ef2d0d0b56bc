package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pixil98/go-farm/internal/commands"
	"github.com/pixil98/go-farm/internal/farm"
	"github.com/pixil98/go-farm/internal/messaging"
	"github.com/pixil98/go-farm/internal/storage"
)

const takeoverMessage = "Another connection has taken over your farm."

// EventBus carries farm events between sessions.
type EventBus interface {
	farm.Publisher
	messaging.Subscriber
	Ready() <-chan struct{}
}

type PlayerManager struct {
	handler     *commands.Handler
	store       storage.Storer
	bus         EventBus
	rules       farm.Rules
	idleTimeout time.Duration
	color       bool
	gameOpts    []farm.GameOpt

	loginFlow *loginFlow

	mu      sync.Mutex
	players map[string]*Player
	// games maps a game id to the farmer playing it.
	games map[string]string
}

type PlayerManagerOpt func(*PlayerManager)

func WithEventBus(bus EventBus) PlayerManagerOpt {
	return func(m *PlayerManager) {
		m.bus = bus
	}
}

func WithRules(r farm.Rules) PlayerManagerOpt {
	return func(m *PlayerManager) {
		m.rules = r
	}
}

// WithIdleTimeout disconnects farmers who send nothing for d. Zero disables
// the sweep.
func WithIdleTimeout(d time.Duration) PlayerManagerOpt {
	return func(m *PlayerManager) {
		m.idleTimeout = d
	}
}

// WithGameOpts adds options applied to every new game.
func WithGameOpts(opts ...farm.GameOpt) PlayerManagerOpt {
	return func(m *PlayerManager) {
		m.gameOpts = append(m.gameOpts, opts...)
	}
}

func WithColor(enabled bool) PlayerManagerOpt {
	return func(m *PlayerManager) {
		m.color = enabled
	}
}

func NewPlayerManager(cmd *commands.Handler, store storage.Storer, opts ...PlayerManagerOpt) *PlayerManager {
	pm := &PlayerManager{
		handler:   cmd,
		store:     store,
		rules:     farm.DefaultRules(),
		loginFlow: &loginFlow{store: store},
		players:   map[string]*Player{},
		games:     map[string]string{},
	}

	for _, opt := range opts {
		opt(pm)
	}

	return pm
}

// Start listens for farm events until ctx ends, then closes every session.
func (m *PlayerManager) Start(ctx context.Context) error {
	if m.bus != nil {
		select {
		case <-m.bus.Ready():
		case <-ctx.Done():
			return nil
		}

		unsub, err := messaging.SubscribeGame(m.bus, "*", m.announce)
		if err != nil {
			return fmt.Errorf("subscribing to farm events: %w", err)
		}
		defer unsub()
	}

	<-ctx.Done()

	for _, p := range m.snapshot() {
		p.Kick("The farm is closing. Your game has been saved.")
	}
	return nil
}

// Tick disconnects idle farmers.
func (m *PlayerManager) Tick(ctx context.Context) error {
	if m.idleTimeout <= 0 {
		return nil
	}

	now := time.Now()
	for _, p := range m.snapshot() {
		if p.Idle(now) > m.idleTimeout {
			slog.InfoContext(ctx, "disconnecting idle farmer", "farmer", p.Name())
			p.Kick("Disconnected for inactivity.")
		}
	}
	return nil
}

// RunSession logs a farmer in and plays until they quit or disconnect.
func (m *PlayerManager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	term := NewTerminal(conn)

	name, err := m.loginFlow.Run(ctx, term)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	return m.play(ctx, term, name)
}

// RunNamedSession plays as a farmer the transport already identified,
// falling back to the login prompt when name is not a valid farmer name.
func (m *PlayerManager) RunNamedSession(ctx context.Context, conn io.ReadWriter, name string) error {
	if !validName(name) {
		return m.RunSession(ctx, conn)
	}
	return m.play(ctx, NewTerminal(conn), name)
}

func (m *PlayerManager) play(ctx context.Context, term *Terminal, name string) error {
	// The old session must be done saving before the autosave is resumed.
	if err := m.displace(ctx, name); err != nil {
		return err
	}

	p, err := m.NewPlayer(ctx, term, name)
	if err != nil {
		return err
	}

	m.register(p)
	defer m.unregister(p)
	defer p.finish()

	slog.InfoContext(ctx, "farmer connected", "farmer", p.Name(), "game", p.Game().Id())
	err = p.Play(ctx)
	slog.InfoContext(ctx, "farmer disconnected", "farmer", p.Name())

	if errors.Is(err, ErrKicked) {
		return nil
	}
	return err
}

// displace kicks the session open under name and waits for it to stop.
func (m *PlayerManager) displace(ctx context.Context, name string) error {
	m.mu.Lock()
	old, ok := m.players[strings.ToLower(name)]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	old.Kick(takeoverMessage)
	select {
	case <-old.Stopped():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// register adds p, taking over any session already open under the same name.
func (m *PlayerManager) register(p *Player) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.players[p.Id()]; ok {
		old.Kick(takeoverMessage)
		delete(m.games, old.Game().Id())
	}
	m.players[p.Id()] = p
	m.games[p.Game().Id()] = p.Name()
}

func (m *PlayerManager) unregister(p *Player) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.players[p.Id()]; ok && cur == p {
		delete(m.players, p.Id())
	}
	if m.games[p.Game().Id()] == p.Name() {
		delete(m.games, p.Game().Id())
	}
}

func (m *PlayerManager) snapshot() []*Player {
	m.mu.Lock()
	defer m.mu.Unlock()

	players := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		players = append(players, p)
	}
	return players
}

// announce tells every other farmer about a win.
func (m *PlayerManager) announce(ev farm.Event) {
	if ev.Type != farm.EventWon {
		return
	}

	m.mu.Lock()
	winner, ok := m.games[ev.Game]
	m.mu.Unlock()
	if !ok {
		return
	}

	msg := fmt.Sprintf("%s has gathered a shipment of %d crops on day %d!", winner, ev.Total, ev.Day)
	for _, p := range m.snapshot() {
		if p.Game().Id() == ev.Game {
			continue
		}
		if !p.Notify(msg) {
			slog.Warn("dropping announcement for busy farmer", "farmer", p.Name())
		}
	}
}
